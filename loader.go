package kouji

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Format is the file format of a ledger.
type Format int

const (
	CSV   Format = iota // accounting software export, see [Layout]
	XLSX                // same table, saved as an Excel workbook
	JSONL               // canonical form, see [EncodeLedger]
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case XLSX:
		return "xlsx"
	case JSONL:
		return "jsonl"
	default:
		return "unknown"
	}
}

// FormatOf returns the format of a ledger file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".xlsx", ".xlsm":
		return XLSX, nil
	case ".jsonl":
		return JSONL, nil
	default:
		return 0, fmt.Errorf("unsupported ledger file %q: want .csv, .xlsx or .jsonl", path)
	}
}

// Loader reads ledgers.
type Loader struct {
	Layout Layout
	Logger *zap.Logger // optional
}

// NewLoader returns a loader for tables with the given layout.
func NewLoader(layout Layout, logger *zap.Logger) *Loader {
	return &Loader{Layout: layout, Logger: logger}
}

func (ld *Loader) logger() *zap.Logger {
	if ld.Logger == nil {
		return zap.NewNop()
	}
	return ld.Logger
}

// Load opens and decodes a ledger file. The ledger is named after the file.
func (ld *Loader) Load(path string) (*Ledger, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	l, err := ld.Decode(f, filepath.Base(path), format)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	ld.logger().Info("loaded ledger", zap.String("path", path), zap.Stringer("format", format), zap.Int("records", l.Len()))
	return l, nil
}

// Decode reads a ledger in the given format.
func (ld *Loader) Decode(r io.Reader, name string, format Format) (*Ledger, error) {
	if format == JSONL {
		return DecodeLedger(r, name)
	}
	if err := ld.Layout.Validate(); err != nil {
		return nil, err
	}

	var rows []tableRow
	var err error
	switch format {
	case CSV:
		rows, err = readCSV(r, ld.Layout.Encoding)
	case XLSX:
		rows, err = readXLSX(r, ld.Layout.Sheet)
	default:
		return nil, fmt.Errorf("unsupported ledger format %v", format)
	}
	if err != nil {
		return nil, err
	}

	records, err := decodeTable(name, rows, ld.Layout, ld.logger())
	if err != nil {
		return nil, err
	}
	return NewLedger(name, records...)
}

// LoadLedger opens a ledger file with the default logger-less loader.
func LoadLedger(path string, layout Layout) (*Ledger, error) {
	return NewLoader(layout, nil).Load(path)
}

// SaveLedger writes the ledger in canonical form to path.
func SaveLedger(path string, l *Ledger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q for writing: %w", path, err)
	}
	if err := EncodeLedger(file, l); err != nil {
		file.Close()
		return fmt.Errorf("error writing ledger file %q: %w", path, err)
	}
	return file.Close()
}
