package date

import (
	"errors"
	"testing"
	"time"
)

func TestParseWareki(t *testing.T) {
	testCases := []struct {
		token  string
		want   Date
		wantOK bool
		err    bool
	}{
		{"R03/04/01", New(2021, time.April, 1), true, false},
		{"R01/05/01", New(2019, time.May, 1), true, false},
		{"H31/04/30", New(2019, time.April, 30), true, false},
		{"H01/01/08", New(1989, time.January, 8), true, false},
		{"S64/01/07", New(1989, time.January, 7), true, false},
		{"令和3/4/1", New(2021, time.April, 1), true, false},
		{"Ｒ０３／０４／０１", New(2021, time.April, 1), true, false},
		{"R03-04-01", New(2021, time.April, 1), true, false},
		{"2021/04/01", New(2021, time.April, 1), true, false},
		{" R03/04/01 ", New(2021, time.April, 1), true, false},

		// not completed
		{"", Date{}, false, false},
		{"0", Date{}, false, false},
		{"0.0", Date{}, false, false},

		// rejected
		{"R03/02/30", Date{}, false, true},
		{"R03/13/01", Date{}, false, true},
		{"R00/04/01", Date{}, false, true},
		{"R03/04", Date{}, false, true},
		{"Rxx/04/01", Date{}, false, true},
		{"X03/04/01", Date{}, false, true},
		{"21/04/01", Date{}, false, true},
		{"04-01-21", Date{}, false, true},
		{"02021/04/01", Date{}, false, true},
	}
	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			got, ok, err := ParseWareki(tc.token)
			if (err != nil) != tc.err {
				t.Fatalf("ParseWareki(%q) error = %v, wantErr %v", tc.token, err, tc.err)
			}
			if ok != tc.wantOK {
				t.Errorf("ParseWareki(%q) ok = %v, want %v", tc.token, ok, tc.wantOK)
			}
			if got != tc.want {
				t.Errorf("ParseWareki(%q) = %v, want %v", tc.token, got, tc.want)
			}
		})
	}
}

func TestParseWarekiUnknownEra(t *testing.T) {
	_, _, err := ParseWareki("T14/12/24")
	if !errors.Is(err, ErrUnknownEra) {
		t.Fatalf("ParseWareki() error = %v, want ErrUnknownEra", err)
	}
	var eraErr *EraError
	if !errors.As(err, &eraErr) {
		t.Fatalf("ParseWareki() error = %T, want *EraError", err)
	}
	if eraErr.Marker != "T" {
		t.Errorf("EraError.Marker = %q, want %q", eraErr.Marker, "T")
	}
}

func TestParseWarekiShortYear(t *testing.T) {
	for _, token := range []string{"21/04/01", "04-01-21"} {
		if _, _, err := ParseWareki(token); !errors.Is(err, ErrShortYear) {
			t.Errorf("ParseWareki(%q) error = %v, want ErrShortYear", token, err)
		}
	}
}

func TestFormatWareki(t *testing.T) {
	testCases := []struct {
		in   Date
		want string
	}{
		{New(2021, time.April, 1), "R03/04/01"},
		{New(2019, time.May, 1), "R01/05/01"},
		{New(2019, time.April, 30), "H31/04/30"},
		{New(1989, time.January, 7), "S64/01/07"},
		{New(1920, time.January, 1), "1920-01-01"},
		{Date{}, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := FormatWareki(tc.in); got != tc.want {
				t.Errorf("FormatWareki(%v) = %q, want %q", tc.in, got, tc.want)
			}
			if tc.in.IsZero() || tc.in.Year() < 1926 {
				return
			}
			back, ok, err := ParseWareki(tc.want)
			if err != nil || !ok || back != tc.in {
				t.Errorf("ParseWareki(%q) = %v, %v, %v, want %v", tc.want, back, ok, err, tc.in)
			}
		})
	}
}
