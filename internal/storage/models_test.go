package storage

import (
	"testing"
	"time"
)

func TestEntryDurationMinutes(t *testing.T) {
	cases := []struct {
		start, end string
		want       int64
	}{
		{"09:00", "10:30", 90},
		{"09:00", "09:00", 0},
		{"10:00", "09:00", -60},
		{"garbage", "10:00", 0},
		{"09:00", "", 0},
	}

	for _, c := range cases {
		entry := Entry{Start: c.start, End: c.end}
		if got := entry.DurationMinutes(); got != c.want {
			t.Errorf("DurationMinutes(%q, %q) = %d, want %d", c.start, c.end, got, c.want)
		}
	}
}

func TestEntryStartedAt(t *testing.T) {
	entry := Entry{Day: "2026-08-31", Start: "09:00"}

	got := entry.StartedAt()
	want := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("StartedAt = %v, want %v", got, want)
	}

	broken := Entry{Day: "not-a-day", Start: "09:00"}
	if !broken.StartedAt().IsZero() {
		t.Error("StartedAt on a malformed entry should be the zero time")
	}
}
