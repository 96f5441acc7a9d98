package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (p *SQLProvider) CreateTicketSystem(ctx context.Context, ts TicketSystem) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO ticket_systems (name, base_url, consumer_key, consumer_secret, book_time, ticket_url)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ts.Name, ts.BaseURL, ts.ConsumerKey, ts.ConsumerSecret, ts.BookTime, ts.TicketURL)
	if err != nil {
		return 0, fmt.Errorf("failed to create ticket system: %w", err)
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetTicketSystem(ctx context.Context, id int64) (*TicketSystem, error) {
	var ts TicketSystem
	err := p.db.GetContext(ctx, &ts,
		`SELECT id, name, base_url, consumer_key, consumer_secret, book_time, ticket_url, created_at
		 FROM ticket_systems WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket system %d: %w", id, err)
	}
	return &ts, nil
}

func (p *SQLProvider) ListTicketSystems(ctx context.Context) ([]TicketSystem, error) {
	var systems []TicketSystem
	err := p.db.SelectContext(ctx, &systems,
		`SELECT id, name, base_url, consumer_key, consumer_secret, book_time, ticket_url, created_at
		 FROM ticket_systems ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket systems: %w", err)
	}
	return systems, nil
}

func (p *SQLProvider) CreateProject(ctx context.Context, project Project) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO projects (name, jira_id, ticket_system_id) VALUES (?, ?, ?)`,
		project.Name, project.JiraID, project.TicketSystemID)
	if err != nil {
		return 0, fmt.Errorf("failed to create project: %w", err)
	}
	return res.LastInsertId()
}

func (p *SQLProvider) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := p.db.SelectContext(ctx, &projects,
		`SELECT id, name, jira_id, ticket_system_id, created_at FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}
