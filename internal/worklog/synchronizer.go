// Package worklog drives the tracker's worklog state into agreement with
// local time entries, one (user, ticket system) pairing at a time.
package worklog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"timetracker-sync/internal/jira"
	"timetracker-sync/internal/storage"
)

// Gateway is the slice of the tracker API the synchronizer needs.
type Gateway interface {
	TicketExists(ctx context.Context, key string) (bool, error)
	WorklogExists(ctx context.Context, key string, worklogID int64) (bool, error)
	CreateWorklog(ctx context.Context, key, comment string, started time.Time, durationSeconds int64) (int64, error)
	UpdateWorklog(ctx context.Context, key string, worklogID int64, comment string, started time.Time, durationSeconds int64) error
	DeleteWorklog(ctx context.Context, key string, worklogID int64) error
}

// EntryStore yields pending entries and persists per-entry sync outcomes.
// Implemented by storage.Provider.
type EntryStore interface {
	FindPendingEntries(ctx context.Context, userID, ticketSystemID int64, limit int) ([]storage.Entry, error)
	SaveEntrySync(ctx context.Context, entry *storage.Entry) error
}

// Outcome records what happened to one entry during a batch run.
type Outcome struct {
	Entry *storage.Entry
	Err   error
}

// Synchronizer reconciles one user's entries against one tracker.
type Synchronizer struct {
	gateway Gateway
	entries EntryStore
	creds   jira.CredentialStore
	tracker *storage.TicketSystem
	userID  int64
	log     *slog.Logger
}

func NewSynchronizer(gateway Gateway, entries EntryStore, creds jira.CredentialStore, tracker *storage.TicketSystem, userID int64) *Synchronizer {
	return &Synchronizer{
		gateway: gateway,
		entries: entries,
		creds:   creds,
		tracker: tracker,
		userID:  userID,
		log:     slog.With("component", "worklog", "tracker", tracker.ID, "user", userID),
	}
}

// allowed is the single authorization gate for the pairing: time booking
// must be enabled on the tracker and the user must not have opted out.
func (s *Synchronizer) allowed(ctx context.Context) (bool, error) {
	if !s.tracker.BookTime {
		return false, nil
	}
	row, err := s.creds.FindCredential(ctx, s.userID, s.tracker.ID)
	if err != nil {
		return false, err
	}
	if row != nil && row.AvoidConnection {
		return false, nil
	}
	return true, nil
}

// SyncOne reconciles a single entry with the tracker. Entries without a
// ticket, entries against unknown issues, and gated pairings are no-ops.
func (s *Synchronizer) SyncOne(ctx context.Context, entry *storage.Entry) error {
	if entry.Ticket == "" {
		return nil
	}

	ok, err := s.allowed(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	exists, err := s.gateway.TicketExists(ctx, entry.Ticket)
	if err != nil {
		return err
	}
	if !exists {
		s.log.Debug("Ticket not present on tracker, skipping entry", "entry", entry.ID, "ticket", entry.Ticket)
		return nil
	}

	minutes := entry.DurationMinutes()
	if minutes <= 0 {
		// The tracker rejects zero-duration worklogs; the correct remote
		// representation of "no time" is "no worklog".
		return s.DeleteOne(ctx, entry)
	}

	if entry.WorklogID.Valid {
		found, err := s.gateway.WorklogExists(ctx, entry.Ticket, entry.WorklogID.Int64)
		if err != nil {
			return err
		}
		if !found {
			// Remote worklog was removed out of band; forget it so a fresh
			// one is created instead of updating a ghost.
			entry.WorklogID = sql.NullInt64{}
		}
	}

	comment := jira.WorklogComment(entry.ID, entry.Activity, entry.Description)
	seconds := minutes * 60

	if entry.WorklogID.Valid {
		err = s.gateway.UpdateWorklog(ctx, entry.Ticket, entry.WorklogID.Int64, comment, entry.StartedAt(), seconds)
	} else {
		var worklogID int64
		worklogID, err = s.gateway.CreateWorklog(ctx, entry.Ticket, comment, entry.StartedAt(), seconds)
		if err == nil {
			entry.WorklogID = sql.NullInt64{Int64: worklogID, Valid: true}
		}
	}
	if err != nil {
		return err
	}

	entry.Synced = true
	return s.entries.SaveEntrySync(ctx, entry)
}

// DeleteOne removes the entry's remote worklog, if any, and forgets its id.
// The synced flag is deliberately left alone; the two fields are independent.
func (s *Synchronizer) DeleteOne(ctx context.Context, entry *storage.Entry) error {
	if entry.Ticket == "" || !entry.WorklogID.Valid || entry.WorklogID.Int64 <= 0 {
		return nil
	}

	ok, err := s.allowed(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	// Already-gone worklogs count as deleted; the gateway swallows the 404.
	if err := s.gateway.DeleteWorklog(ctx, entry.Ticket, entry.WorklogID.Int64); err != nil {
		return err
	}

	entry.WorklogID = sql.NullInt64{}
	return s.entries.SaveEntrySync(ctx, entry)
}

// pairLocks serializes overlapping sync runs per (user, tracker) pairing so
// two runs cannot race to create duplicate remote worklogs.
var pairLocks sync.Map

func (s *Synchronizer) pairLock() *sync.Mutex {
	key := fmt.Sprintf("%d/%d", s.userID, s.tracker.ID)
	mu, _ := pairLocks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// SyncPending pushes up to limit pending entries to the tracker, most recent
// first; limit <= 0 means all. Every entry's outcome is persisted as soon as
// it is known. A failing entry never blocks the rest of the batch, with one
// exception: an authorization failure aborts the remainder, because the same
// dead token would fail every following entry identically and the caller
// needs the authorization URL exactly once.
func (s *Synchronizer) SyncPending(ctx context.Context, limit int) ([]Outcome, error) {
	ok, err := s.allowed(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Debug("Sync not permitted for this pairing")
		return nil, nil
	}

	mu := s.pairLock()
	mu.Lock()
	defer mu.Unlock()

	entries, err := s.entries.FindPendingEntries(ctx, s.userID, s.tracker.ID, limit)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(entries))
	for i := range entries {
		// Safe cancellation point: the previous entry is fully persisted.
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		entry := &entries[i]
		err := s.SyncOne(ctx, entry)
		outcomes = append(outcomes, Outcome{Entry: entry, Err: err})

		if err == nil {
			continue
		}

		var unauthorized *jira.UnauthorizedError
		if errors.As(err, &unauthorized) {
			s.log.Warn("Tracker authorization required, aborting batch",
				"entry", entry.ID, "authorize_url", unauthorized.AuthURL)
			return outcomes, err
		}

		s.log.Warn("Entry sync failed",
			"entry", entry.ID, "ticket", entry.Ticket, "error", err)
	}

	return outcomes, nil
}
