package storage

import (
	"database/sql"
	"time"
)

// User is a local account. Stands in for the upstream directory login.
type User struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// TicketSystem is one external tracker instance.
type TicketSystem struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	// Base URL of the tracker, e.g. https://jira.example.org
	BaseURL     string `db:"base_url"`
	ConsumerKey string `db:"consumer_key"`
	// ConsumerSecret is either inline PEM private key material or a path to a
	// PEM file readable by this process.
	ConsumerSecret string `db:"consumer_secret"`
	// BookTime gates whether time booking against this tracker is enabled.
	BookTime bool `db:"book_time"`
	// TicketURL is a display template, e.g. https://jira.example.org/browse/%s
	TicketURL string    `db:"ticket_url"`
	CreatedAt time.Time `db:"created_at"`
}

// Project maps local entries to a tracker.
type Project struct {
	ID             int64         `db:"id"`
	Name           string        `db:"name"`
	JiraID         string        `db:"jira_id"`
	TicketSystemID sql.NullInt64 `db:"ticket_system_id"`
	CreatedAt      time.Time     `db:"created_at"`
}

// Entry is a single recorded unit of work.
//
// Day holds the calendar date ("2006-01-02"), Start and End the time of day
// ("15:04"). WorklogID is the remembered id of the remote worklog; it is set
// only after a remote worklog was confirmed to exist for this entry and is
// cleared whenever the remote worklog is confirmed gone.
type Entry struct {
	ID          int64         `db:"id"`
	UserID      int64         `db:"user_id"`
	ProjectID   int64         `db:"project_id"`
	Ticket      string        `db:"ticket"`
	Day         string        `db:"day"`
	Start       string        `db:"start"`
	End         string        `db:"end"`
	Description string        `db:"description"`
	Activity    string        `db:"activity"`
	WorklogID   sql.NullInt64 `db:"worklog_id"`
	Synced      bool          `db:"synced_to_ticketsystem"`
}

const (
	dayLayout  = "2006-01-02"
	timeLayout = "15:04"
)

// DurationMinutes derives the worked minutes from Start and End. Malformed
// times count as zero so the entry falls into the "no worklog" path instead
// of producing a bogus remote booking.
func (e *Entry) DurationMinutes() int64 {
	start, err := time.Parse(timeLayout, e.Start)
	if err != nil {
		return 0
	}
	end, err := time.Parse(timeLayout, e.End)
	if err != nil {
		return 0
	}
	return int64(end.Sub(start).Minutes())
}

// StartedAt combines Day and Start into a point in time in the server's
// local zone. The zero time is returned for malformed entries.
func (e *Entry) StartedAt() time.Time {
	t, err := time.ParseInLocation(dayLayout+" "+timeLayout, e.Day+" "+e.Start, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// UserTicketSystem is the credential row for one (user, tracker) pairing.
// Token and Secret hold the request token pair while the OAuth dance is in
// flight and the access token pair afterwards. AvoidConnection is set when
// the user declined authorization; sync must then not touch the tracker.
type UserTicketSystem struct {
	UserID          int64  `db:"user_id"`
	TicketSystemID  int64  `db:"ticket_system_id"`
	AccessToken     string `db:"access_token"`
	TokenSecret     string `db:"token_secret"`
	AvoidConnection bool   `db:"avoid_connection"`
}
