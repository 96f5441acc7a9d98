package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const restPrefix = "/rest/api/latest/"

// Gateway exposes typed operations against one tracker's REST API through
// the signing client. A 401 anywhere is escalated as UnauthorizedError
// carrying a freshly minted authorization URL.
type Gateway struct {
	client    *Client
	handshake *Handshake
	log       *slog.Logger
}

func NewGateway(client *Client, handshake *Handshake) *Gateway {
	return &Gateway{
		client:    client,
		handshake: handshake,
		log:       slog.With("component", "jira", "tracker", client.tracker.ID),
	}
}

func (g *Gateway) restURL(path string) string {
	return strings.TrimRight(g.client.tracker.BaseURL, "/") + restPrefix + path
}

func (g *Gateway) do(ctx context.Context, method, path string, body, out any) error {
	httpClient, err := g.client.HTTPClient(ctx, "", "")
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.restURL(path), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	op := method + " " + path

	resp, err := httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Path: path}

	case resp.StatusCode == http.StatusUnauthorized:
		g.log.Info("Tracker rejected credentials, minting authorization URL", "op", op)
		authURL, herr := g.handshake.RequestToken(ctx)
		if herr != nil {
			return herr
		}
		return &UnauthorizedError{AuthURL: authURL}

	case resp.StatusCode >= 300:
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &DecodeError{Path: path, Err: err}
		}
	}
	return nil
}

// TicketExists reports whether the issue is present on the tracker. A 404 is
// a legitimate "no"; every other failure propagates.
func (g *Gateway) TicketExists(ctx context.Context, key string) (bool, error) {
	err := g.do(ctx, http.MethodGet, "issue/"+url.PathEscape(key), nil, nil)
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// WorklogExists reports whether the remembered worklog still exists under
// the issue.
func (g *Gateway) WorklogExists(ctx context.Context, key string, worklogID int64) (bool, error) {
	path := fmt.Sprintf("issue/%s/worklog/%d", url.PathEscape(key), worklogID)
	err := g.do(ctx, http.MethodGet, path, nil, nil)
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateWorklog books time on the issue and returns the new worklog's id.
func (g *Gateway) CreateWorklog(ctx context.Context, key, comment string, started time.Time, durationSeconds int64) (int64, error) {
	path := "issue/" + url.PathEscape(key) + "/worklog"
	body := worklogBody{
		Comment:          comment,
		Started:          FormatStarted(started),
		TimeSpentSeconds: durationSeconds,
	}

	var created createdWorklog
	if err := g.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(created.ID, 10, 64)
	if err != nil {
		return 0, &DecodeError{Path: path, Err: fmt.Errorf("worklog id %q is not numeric", created.ID)}
	}
	return id, nil
}

// UpdateWorklog overwrites an existing worklog. Idempotent.
func (g *Gateway) UpdateWorklog(ctx context.Context, key string, worklogID int64, comment string, started time.Time, durationSeconds int64) error {
	path := fmt.Sprintf("issue/%s/worklog/%d", url.PathEscape(key), worklogID)
	body := worklogBody{
		Comment:          comment,
		Started:          FormatStarted(started),
		TimeSpentSeconds: durationSeconds,
	}
	return g.do(ctx, http.MethodPut, path, body, nil)
}

// DeleteWorklog removes a worklog. Already gone counts as success.
func (g *Gateway) DeleteWorklog(ctx context.Context, key string, worklogID int64) error {
	path := fmt.Sprintf("issue/%s/worklog/%d", url.PathEscape(key), worklogID)
	err := g.do(ctx, http.MethodDelete, path, nil, nil)
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// CreateIssue creates a Task issue in the given project.
func (g *Gateway) CreateIssue(ctx context.Context, projectKey, summary, description string) (*CreatedIssue, error) {
	body := createIssueBody{
		Fields: issueFields{
			Project:     issueProject{Key: projectKey},
			Summary:     summary,
			Description: description,
			IssueType:   issueType{Name: "Task"},
		},
	}

	var created CreatedIssue
	if err := g.do(ctx, http.MethodPost, "issue/", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SearchTickets runs a JQL search. Always POST: JQL strings can exceed URL
// length limits.
func (g *Gateway) SearchTickets(ctx context.Context, jql string, fields []string, maxResults int) (*SearchResult, error) {
	body := searchBody{JQL: jql, Fields: fields, MaxResults: maxResults}

	var result SearchResult
	if err := g.do(ctx, http.MethodPost, "search/", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
