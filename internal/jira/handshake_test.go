package jira

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestTokenPersistsPair(t *testing.T) {
	var gotCallback string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plugins/servlet/oauth/request-token" {
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotCallback = r.URL.Query().Get("oauth_callback")
		w.Write([]byte("oauth_token=rt1&oauth_token_secret=rs1"))
	}))
	defer server.Close()

	store := newFakeCredStore()
	client := newTestClient(t, server.URL, store)
	handshake := NewHandshake(client, "http://app.example.org/oauth/callback")

	authURL, err := handshake.RequestToken(context.Background())
	if err != nil {
		t.Fatalf("RequestToken: %v", err)
	}

	if !strings.Contains(authURL, "oauth_token=rt1") {
		t.Errorf("authorize URL = %q, missing request token", authURL)
	}
	if !strings.Contains(gotCallback, "tracker=1") {
		t.Errorf("oauth_callback = %q, missing tracker id", gotCallback)
	}

	row, _ := store.FindCredential(context.Background(), 7, 1)
	if row == nil {
		t.Fatal("request pair was not persisted")
	}
	if row.AccessToken != "rt1" || row.TokenSecret != "rs1" {
		t.Errorf("stored pair = %q/%q, want rt1/rs1", row.AccessToken, row.TokenSecret)
	}
	if row.AvoidConnection {
		t.Error("request pair must not set avoid_connection")
	}
}

func TestRequestTokenFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := newFakeCredStore()
	client := newTestClient(t, server.URL, store)
	handshake := NewHandshake(client, "http://app.example.org/oauth/callback")

	_, err := handshake.RequestToken(context.Background())
	var handshakeErr *HandshakeError
	if !errors.As(err, &handshakeErr) {
		t.Fatalf("error = %T, want *HandshakeError", err)
	}
	if handshakeErr.Step != "request-token" {
		t.Errorf("step = %q, want request-token", handshakeErr.Step)
	}

	if row, _ := store.FindCredential(context.Background(), 7, 1); row != nil {
		t.Errorf("failed exchange persisted a credential row: %+v", row)
	}
}

func TestAccessTokenDeniedClearsRowWithoutNetwork(t *testing.T) {
	// An unroutable base URL: any network call would fail the test.
	store := newFakeCredStore()
	store.UpsertCredential(context.Background(), 7, 1, "rt1", "rs1", false)

	client := newTestClient(t, "http://127.0.0.1:0", store)
	handshake := NewHandshake(client, "http://app.example.org/oauth/callback")

	if err := handshake.AccessToken(context.Background(), "rt1", VerifierDenied); err != nil {
		t.Fatalf("AccessToken(denied): %v", err)
	}

	row, _ := store.FindCredential(context.Background(), 7, 1)
	if row == nil {
		t.Fatal("credential row vanished")
	}
	if !row.AvoidConnection {
		t.Error("denied verifier did not set avoid_connection")
	}
	if row.AccessToken != "" || row.TokenSecret != "" {
		t.Errorf("denied verifier left token pair %q/%q, want cleared", row.AccessToken, row.TokenSecret)
	}
}

func TestAccessTokenExchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plugins/servlet/oauth/access-token" {
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("oauth_token=at1&oauth_token_secret=as1"))
	}))
	defer server.Close()

	store := newFakeCredStore()
	store.UpsertCredential(context.Background(), 7, 1, "rt1", "rs1", false)

	client := newTestClient(t, server.URL, store)
	handshake := NewHandshake(client, "http://app.example.org/oauth/callback")

	if err := handshake.AccessToken(context.Background(), "rt1", "verifier123"); err != nil {
		t.Fatalf("AccessToken: %v", err)
	}

	row, _ := store.FindCredential(context.Background(), 7, 1)
	if row == nil {
		t.Fatal("access pair was not persisted")
	}
	if row.AccessToken != "at1" || row.TokenSecret != "as1" {
		t.Errorf("stored pair = %q/%q, want at1/as1", row.AccessToken, row.TokenSecret)
	}
	if row.AvoidConnection {
		t.Error("successful exchange must clear avoid_connection")
	}
}
