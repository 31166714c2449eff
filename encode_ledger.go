package kouji

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/kouji/date"
)

// MarshalJSON writes a record with a stable field order. The completion date
// is omitted while the project is not completed.
func (r Record) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("code", r.Code)
	w.Append("name", r.Name)
	w.Append("actual", r.Actual)
	w.Append("cumulative", r.Cumulative)
	w.Optional("completed", r.Completed)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a record written by MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Code       string    `json:"code"`
		Name       string    `json:"name"`
		Actual     int64     `json:"actual"`
		Cumulative int64     `json:"cumulative"`
		Completed  date.Date `json:"completed"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tmp); err != nil {
		return err
	}
	*r = Record{
		Code:       tmp.Code,
		Name:       tmp.Name,
		Actual:     tmp.Actual,
		Cumulative: tmp.Cumulative,
		Completed:  tmp.Completed,
	}
	return nil
}

// EncodeLedger writes the ledger as JSON lines, one record per line in code order.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for r := range l.Records() {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding record %q: %w", r.Code, err)
		}
		b = append(b, '\n')
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLedger reads a ledger written by EncodeLedger.
func DecodeLedger(r io.Reader, name string) (*Ledger, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var rec Record
		if err := json.Unmarshal(lineBytes, &rec); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", name, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return NewLedger(name, records...)
}
