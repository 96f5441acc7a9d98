package jira

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"testing"
	"time"

	"timetracker-sync/internal/storage"
)

// testKeyPEM returns a throwaway RSA private key in PKCS1 PEM form, the shape
// a tracker record's consumer secret carries.
func testKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating RSA key: %v", err)
	}
	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	return string(pem.EncodeToMemory(block))
}

// fakeCredStore is an in-memory CredentialStore.
type fakeCredStore struct {
	rows map[string]*storage.UserTicketSystem
}

func newFakeCredStore() *fakeCredStore {
	return &fakeCredStore{rows: make(map[string]*storage.UserTicketSystem)}
}

func credKey(userID, ticketSystemID int64) string {
	return fmt.Sprintf("%d/%d", userID, ticketSystemID)
}

func (s *fakeCredStore) FindCredential(ctx context.Context, userID, ticketSystemID int64) (*storage.UserTicketSystem, error) {
	row, ok := s.rows[credKey(userID, ticketSystemID)]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (s *fakeCredStore) UpsertCredential(ctx context.Context, userID, ticketSystemID int64, accessToken, tokenSecret string, avoidConnection bool) error {
	s.rows[credKey(userID, ticketSystemID)] = &storage.UserTicketSystem{
		UserID:          userID,
		TicketSystemID:  ticketSystemID,
		AccessToken:     accessToken,
		TokenSecret:     tokenSecret,
		AvoidConnection: avoidConnection,
	}
	return nil
}

func newTestClient(t *testing.T, baseURL string, store CredentialStore) *Client {
	t.Helper()
	tracker := &storage.TicketSystem{
		ID:             1,
		Name:           "jira",
		BaseURL:        baseURL,
		ConsumerKey:    "consumer-key",
		ConsumerSecret: testKeyPEM(t),
		BookTime:       true,
	}
	client, err := NewClient(tracker, 7, store, 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRejectsBrokenKey(t *testing.T) {
	tracker := &storage.TicketSystem{
		ID:             1,
		BaseURL:        "https://jira.example.org",
		ConsumerKey:    "consumer-key",
		ConsumerSecret: "not a key and not a file either",
	}

	_, err := NewClient(tracker, 7, newFakeCredStore(), time.Second)
	if err == nil {
		t.Fatal("NewClient accepted a broken consumer secret")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("error = %T, want *ConfigurationError", err)
	}
}

func TestHTTPClientSeedsPlaceholderCredential(t *testing.T) {
	store := newFakeCredStore()
	client := newTestClient(t, "https://jira.example.org", store)

	if _, err := client.HTTPClient(context.Background(), "", ""); err != nil {
		t.Fatalf("HTTPClient: %v", err)
	}

	row, _ := store.FindCredential(context.Background(), 7, 1)
	if row == nil {
		t.Fatal("no credential row was seeded")
	}
	if row.AccessToken != "token_request_unfinished" {
		t.Errorf("AccessToken = %q, want placeholder", row.AccessToken)
	}
	if row.AvoidConnection {
		t.Error("placeholder row must not set avoid_connection")
	}
}

func TestHTTPClientCachesPerTokenPair(t *testing.T) {
	store := newFakeCredStore()
	client := newTestClient(t, "https://jira.example.org", store)
	ctx := context.Background()

	a, err := client.HTTPClient(ctx, "tok", "sec")
	if err != nil {
		t.Fatalf("HTTPClient: %v", err)
	}
	b, err := client.HTTPClient(ctx, "tok", "sec")
	if err != nil {
		t.Fatalf("HTTPClient: %v", err)
	}
	if a != b {
		t.Error("same token pair returned distinct clients")
	}

	c, err := client.HTTPClient(ctx, "other", "sec")
	if err != nil {
		t.Fatalf("HTTPClient: %v", err)
	}
	if a == c {
		t.Error("different token pairs share one client")
	}
}

func TestAuthorizeURL(t *testing.T) {
	client := newTestClient(t, "https://jira.example.org/", newFakeCredStore())

	got := client.AuthorizeURL("rt one")
	want := "https://jira.example.org/plugins/servlet/oauth/authorize?oauth_token=rt+one"
	if got != want {
		t.Errorf("AuthorizeURL = %q, want %q", got, want)
	}
}
