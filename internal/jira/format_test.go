package jira

import (
	"testing"
	"time"
)

func TestFormatStarted(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	started := time.Date(2026, 8, 31, 9, 0, 0, 0, loc)

	got := FormatStarted(started)
	want := "2026-08-31T09:00:00.000+0100"
	if got != want {
		t.Errorf("FormatStarted = %q, want %q", got, want)
	}
}

func TestFormatStartedKeepsOffset(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	started := time.Date(2026, 1, 15, 23, 45, 30, 0, loc)

	got := FormatStarted(started)
	want := "2026-01-15T23:45:30.000+0530"
	if got != want {
		t.Errorf("FormatStarted = %q, want %q", got, want)
	}
}

func TestWorklogComment(t *testing.T) {
	got := WorklogComment(5, "Dev", "fix bug")
	want := "#5: Dev: fix bug"
	if got != want {
		t.Errorf("WorklogComment = %q, want %q", got, want)
	}
}

func TestWorklogCommentDefaults(t *testing.T) {
	got := WorklogComment(17, "", "")
	want := "#17: no activity specified: no description given"
	if got != want {
		t.Errorf("WorklogComment = %q, want %q", got, want)
	}

	got = WorklogComment(17, "Review", "")
	want = "#17: Review: no description given"
	if got != want {
		t.Errorf("WorklogComment = %q, want %q", got, want)
	}

	got = WorklogComment(17, "", "wrote docs")
	want = "#17: no activity specified: wrote docs"
	if got != want {
		t.Errorf("WorklogComment = %q, want %q", got, want)
	}
}
