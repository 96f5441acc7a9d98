package jira

import (
	"fmt"
	"time"
)

// startedLayout is the exact timestamp format the worklog endpoint accepts.
// Anything else earns a 400 from the tracker.
const startedLayout = "2006-01-02T15:04:05.000-0700"

// FormatStarted renders a worklog start timestamp in the tracker's required
// layout, in t's own offset.
func FormatStarted(t time.Time) string {
	return t.Format(startedLayout)
}

const (
	defaultActivity    = "no activity specified"
	defaultDescription = "no description given"
)

// WorklogComment builds the remote worklog comment for an entry.
func WorklogComment(entryID int64, activity, description string) string {
	if activity == "" {
		activity = defaultActivity
	}
	if description == "" {
		description = defaultDescription
	}
	return fmt.Sprintf("#%d: %s: %s", entryID, activity, description)
}
