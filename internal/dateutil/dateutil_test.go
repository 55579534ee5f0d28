package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		layouts []string
		want    time.Time
		wantErr error
	}{
		{
			name:  "date only",
			input: "2023-01-01",
			want:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "date and time with space",
			input: "2023-01-01 03:30:00",
			want:  time.Date(2023, 1, 1, 3, 30, 0, 0, time.UTC),
		},
		{
			name:  "date and time without seconds",
			input: "2023-01-01T03:30",
			want:  time.Date(2023, 1, 1, 3, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			input: "2023-01-01T03:30:00Z",
			want:  time.Date(2023, 1, 1, 3, 30, 0, 0, time.UTC),
		},
		{
			name:    "explicit layout",
			input:   "01/02/2023 10:00",
			layouts: []string{"01/02/2006 15:04"},
			want:    time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: "  2023-01-01  ",
			want:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrInvalidDateTime,
		},
		{
			name:    "garbage",
			input:   "yesterday-ish",
			wantErr: ErrInvalidDateTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.input, tt.layouts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"60", time.Hour, false},
		{"15", 15 * time.Minute, false},
		{"1h", time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"0", 0, true},
		{"-5m", 0, true},
		{"", 0, true},
		{"hourly", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseInterval(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInterval) {
					t.Errorf("ParseInterval(%q) error = %v, want %v", tc.input, err, ErrInvalidInterval)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseInterval(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestNewTimeRange(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		r, err := NewTimeRange("2023-01-01 01:00:00", "2023-01-01 03:00:00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Start == nil || r.End == nil {
			t.Fatalf("expected both bounds, got %+v", r)
		}
		if !r.Start.Equal(time.Date(2023, 1, 1, 1, 0, 0, 0, time.UTC)) {
			t.Errorf("start: got %v", *r.Start)
		}
		if !r.End.Equal(time.Date(2023, 1, 1, 3, 0, 0, 0, time.UTC)) {
			t.Errorf("end: got %v", *r.End)
		}
	})

	t.Run("empty strings are unbounded", func(t *testing.T) {
		r, err := NewTimeRange("", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.IsBounded() {
			t.Errorf("expected unbounded range, got %+v", r)
		}
	})

	t.Run("end before start is not rejected", func(t *testing.T) {
		r, err := NewTimeRange("2023-01-02", "2023-01-01")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.IsBounded() {
			t.Error("expected bounded range")
		}
	})

	t.Run("invalid start", func(t *testing.T) {
		_, err := NewTimeRange("01-15-2025", "")
		if !errors.Is(err, ErrInvalidDateTime) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateTime)
		}
	})

	t.Run("invalid end", func(t *testing.T) {
		_, err := NewTimeRange("", "not a date")
		if !errors.Is(err, ErrInvalidDateTime) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateTime)
		}
	})
}

func TestTimeRangeContains(t *testing.T) {
	start := time.Date(2023, 1, 1, 1, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 1, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		r    TimeRange
		at   time.Time
		want bool
	}{
		{"start bound included", TimeRange{Start: &start, End: &end}, start, true},
		{"end bound included", TimeRange{Start: &start, End: &end}, end, true},
		{"inside", TimeRange{Start: &start, End: &end}, start.Add(time.Hour), true},
		{"before start", TimeRange{Start: &start, End: &end}, start.Add(-time.Second), false},
		{"after end", TimeRange{Start: &start, End: &end}, end.Add(time.Second), false},
		{"open start", TimeRange{End: &end}, start.Add(-24 * time.Hour), true},
		{"open end", TimeRange{Start: &start}, end.Add(24 * time.Hour), true},
		{"unbounded", TimeRange{}, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	lo, hi, ok := Bounds([]time.Time{base.Add(2 * time.Hour), base, base.Add(5 * time.Hour), base.Add(time.Hour)})
	if !ok {
		t.Fatal("expected ok for non-empty input")
	}
	if !lo.Equal(base) {
		t.Errorf("min: got %v, want %v", lo, base)
	}
	if !hi.Equal(base.Add(5 * time.Hour)) {
		t.Errorf("max: got %v, want %v", hi, base.Add(5*time.Hour))
	}

	if _, _, ok := Bounds(nil); ok {
		t.Error("expected ok=false for empty input")
	}
}
