package subtitle

import (
	"math"
	"math/rand"
	"testing"
)

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		input   string
		format  Format
		want    float64
		wantErr bool
	}{
		{"00:00:01,000", FormatSRT, 1, false},
		{"00:00:01.000", FormatVTT, 1, false},
		{"01:02:03,456", FormatSRT, 3723.456, false},
		// separator from the other format is tolerated
		{"00:00:02.500", FormatSRT, 2.5, false},
		{"00:00:02,500", FormatVTT, 2.5, false},
		{"02:03.250", FormatVTT, 123.25, false},
		{"02:03,250", FormatSRT, 123.25, false},
		{" 00:00:05,000 ", FormatSRT, 5, false},
		{"00:00:01.5", FormatVTT, 1.5, false},
		{"100:00:00,000", FormatSRT, 360000, false},
		{"", FormatSRT, 0, true},
		{"00:00", FormatSRT, 0, false},
		{"1:2:3:4,000", FormatSRT, 0, true},
		{"aa:bb:cc,ddd", FormatSRT, 0, true},
		{"00:61:00,000", FormatSRT, 0, true},
		{"00:00:61,000", FormatSRT, 0, true},
		{"00:00:-1,000", FormatSRT, 0, true},
		{"12", FormatSRT, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimecode(tt.input, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseTimecode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTimecode(t *testing.T) {
	tests := []struct {
		seconds float64
		format  Format
		want    string
	}{
		{0, FormatSRT, "00:00:00,000"},
		{0, FormatVTT, "00:00:00.000"},
		{1.5, FormatSRT, "00:00:01,500"},
		{3723.456, FormatVTT, "01:02:03.456"},
		// rounding to 1000ms cascades into seconds and minutes
		{59.9996, FormatSRT, "00:01:00,000"},
		{3599.9999, FormatSRT, "01:00:00,000"},
		{0.0004, FormatSRT, "00:00:00,000"},
		{-3, FormatSRT, "00:00:00,000"},
		{math.NaN(), FormatVTT, "00:00:00.000"},
		{359999.999, FormatSRT, "99:59:59,999"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatTimecode(tt.seconds, tt.format); got != tt.want {
				t.Errorf("FormatTimecode(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestTimecodeInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	samples := []float64{0, 0.001, 0.0005, 59.9996, 3599.9995, 359999.999}
	for i := 0; i < 2000; i++ {
		samples = append(samples, rng.Float64()*359999.999)
	}

	for _, format := range []Format{FormatSRT, FormatVTT} {
		for _, s := range samples {
			text := FormatTimecode(s, format)
			got, err := ParseTimecode(text, format)
			if err != nil {
				t.Fatalf("ParseTimecode(%q) failed: %v", text, err)
			}
			if want := RoundMillis(s); got != want {
				t.Fatalf("%s round trip of %v: got %v, want %v (via %q)", format, s, got, want, text)
			}
		}
	}
}

func TestFormatTimecodeNeverEmitsThousandMillis(t *testing.T) {
	for i := 0; i < 1000; i++ {
		s := float64(i) + 0.9995 + float64(i%5)*0.0001
		text := FormatTimecode(s, FormatSRT)
		if len(text) != len("00:00:00,000") || text[9:] == "000" && text[6:8] == "60" {
			t.Fatalf("bad timecode %q for %v", text, s)
		}
	}
}
