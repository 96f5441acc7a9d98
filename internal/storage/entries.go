package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const entryColumns = `id, user_id, project_id, ticket, day, "start", "end",
	description, activity, worklog_id, synced_to_ticketsystem`

func (p *SQLProvider) CreateEntry(ctx context.Context, entry Entry) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO entries (user_id, project_id, ticket, day, "start", "end", description, activity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.ProjectID, entry.Ticket, entry.Day, entry.Start, entry.End,
		entry.Description, entry.Activity)
	if err != nil {
		return 0, fmt.Errorf("failed to create entry: %w", err)
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	var entry Entry
	err := p.db.GetContext(ctx, &entry,
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %d: %w", id, err)
	}
	return &entry, nil
}

func (p *SQLProvider) ListEntries(ctx context.Context, userID int64) ([]Entry, error) {
	var entries []Entry
	err := p.db.SelectContext(ctx, &entries,
		`SELECT `+entryColumns+` FROM entries
		 WHERE user_id = ?
		 ORDER BY day DESC, "start" DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// FindPendingEntries returns unsynchronized entries of the user whose project
// is bound to the given tracker. Most recent first, so a limited batch keeps
// the entries that are most likely still relevant upstream.
func (p *SQLProvider) FindPendingEntries(ctx context.Context, userID, ticketSystemID int64, limit int) ([]Entry, error) {
	query := `SELECT e.id, e.user_id, e.project_id, e.ticket, e.day, e."start", e."end",
			e.description, e.activity, e.worklog_id, e.synced_to_ticketsystem
		 FROM entries e
		 JOIN projects p ON p.id = e.project_id
		 WHERE e.user_id = ?
		   AND p.ticket_system_id = ?
		   AND e.ticket != ''
		   AND e.synced_to_ticketsystem = 0
		 ORDER BY e.day DESC, e."start" DESC`

	args := []any{userID, ticketSystemID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var entries []Entry
	if err := p.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find pending entries: %w", err)
	}
	return entries, nil
}

func (p *SQLProvider) SaveEntrySync(ctx context.Context, entry *Entry) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE entries SET worklog_id = ?, synced_to_ticketsystem = ? WHERE id = ?`,
		entry.WorklogID, entry.Synced, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to save sync state of entry %d: %w", entry.ID, err)
	}
	return nil
}
