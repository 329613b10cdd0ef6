package wizard

import (
	"math"
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "500", want: 500},
		{in: "10 000,50", want: 10000.50},
		{in: "10.000.50", want: 10000.50},
		{in: "1,000,000.25", want: 1000000.25},
		{in: "0", want: 0},
		{in: "0.99", want: 0.99},
		{in: ",5", want: 0.5},
		{in: "150 руб.", want: 150},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "-,_", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tc.in, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseSavingCoeff(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "1", want: 1},
		{in: "0.3", want: 0.3},
		{in: "0,5", want: 0.5},
		{in: "1.5", wantErr: true},
		{in: "-0.1", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseSavingCoeff(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseSavingCoeff(%q) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSavingCoeff(%q): %v", tc.in, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ParseSavingCoeff(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeComment(t *testing.T) {
	if got := NormalizeComment("-"); got != "" {
		t.Errorf("NormalizeComment(\"-\") = %q, want empty", got)
	}
	if got := NormalizeComment(" - "); got != "" {
		t.Errorf("NormalizeComment(\" - \") = %q, want empty", got)
	}
	if got := NormalizeComment("rent for June"); got != "rent for June" {
		t.Errorf("NormalizeComment = %q", got)
	}
}

func TestParseOperationDate(t *testing.T) {
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"15.06.2025", "2025-06-15", "15/06/2025", "15-06-2025"} {
		got, err := ParseOperationDate(in)
		if err != nil {
			t.Errorf("ParseOperationDate(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseOperationDate(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseOperationDate("June 15"); err == nil {
		t.Error("ParseOperationDate(\"June 15\") succeeded, want error")
	}
}
