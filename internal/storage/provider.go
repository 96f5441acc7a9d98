package storage

import (
	"context"
	"log/slog"

	"timetracker-sync/internal/config"
)

type Provider interface {
	Close() error
	GetSchemaVersion(ctx context.Context) (int, error)

	// User methods
	CreateUser(ctx context.Context, user User) (int64, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByName(ctx context.Context, name string) (*User, error)

	// Ticket system methods
	CreateTicketSystem(ctx context.Context, ts TicketSystem) (int64, error)
	GetTicketSystem(ctx context.Context, id int64) (*TicketSystem, error)
	ListTicketSystems(ctx context.Context) ([]TicketSystem, error)

	// Project methods
	CreateProject(ctx context.Context, project Project) (int64, error)
	ListProjects(ctx context.Context) ([]Project, error)

	// Entry methods
	CreateEntry(ctx context.Context, entry Entry) (int64, error)
	GetEntry(ctx context.Context, id int64) (*Entry, error)
	ListEntries(ctx context.Context, userID int64) ([]Entry, error)
	// FindPendingEntries returns the user's unsynchronized entries against
	// the given tracker, most recent first. limit <= 0 means no limit.
	FindPendingEntries(ctx context.Context, userID, ticketSystemID int64, limit int) ([]Entry, error)
	// SaveEntrySync persists the synchronization outcome (worklog id and
	// synced flag) of a single entry. Callable per entry, no surrounding
	// transaction required.
	SaveEntrySync(ctx context.Context, entry *Entry) error

	// Credential methods
	FindCredential(ctx context.Context, userID, ticketSystemID int64) (*UserTicketSystem, error)
	UpsertCredential(ctx context.Context, userID, ticketSystemID int64, accessToken, tokenSecret string, avoidConnection bool) error
}

func NewProvider(config *config.Storage) Provider {
	switch {
	case config.SQLite != nil:
		provider := NewSQLiteProvider(config)
		if provider == nil {
			return nil
		}
		if err := provider.runMigrations("sqlite3"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return nil
		}
		return provider

	default:
		slog.Error("Unsupported storage configuration", "config", config)
	}

	return nil
}
