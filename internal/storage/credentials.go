package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FindCredential returns the credential row for the (user, tracker) pairing,
// or nil when the user never started the OAuth dance for this tracker.
func (p *SQLProvider) FindCredential(ctx context.Context, userID, ticketSystemID int64) (*UserTicketSystem, error) {
	var row UserTicketSystem
	err := p.db.GetContext(ctx, &row,
		`SELECT user_id, ticket_system_id, access_token, token_secret, avoid_connection
		 FROM user_ticket_systems
		 WHERE user_id = ? AND ticket_system_id = ?`, userID, ticketSystemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credential: %w", err)
	}
	return &row, nil
}

// UpsertCredential writes the token pair for the pairing, last write wins.
// The row is owned by the OAuth handshake; nothing else mutates it.
func (p *SQLProvider) UpsertCredential(ctx context.Context, userID, ticketSystemID int64, accessToken, tokenSecret string, avoidConnection bool) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO user_ticket_systems (user_id, ticket_system_id, access_token, token_secret, avoid_connection)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, ticket_system_id) DO UPDATE SET
		   access_token = excluded.access_token,
		   token_secret = excluded.token_secret,
		   avoid_connection = excluded.avoid_connection`,
		userID, ticketSystemID, accessToken, tokenSecret, avoidConnection)
	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}
