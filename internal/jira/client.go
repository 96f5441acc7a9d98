package jira

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/tchap/oauth"

	"timetracker-sync/internal/storage"
)

const (
	requestTokenPath = "/plugins/servlet/oauth/request-token"
	authorizePath    = "/plugins/servlet/oauth/authorize"
	accessTokenPath  = "/plugins/servlet/oauth/access-token"
)

// Placeholder access token written when a client is requested before the
// OAuth dance ever ran. The first signed request then fails with 401, which
// escalates into the handshake.
const tokenRequestUnfinished = "token_request_unfinished"

// CredentialStore is the durable (user, tracker) -> token pair mapping.
// Implemented by storage.Provider.
type CredentialStore interface {
	FindCredential(ctx context.Context, userID, ticketSystemID int64) (*storage.UserTicketSystem, error)
	UpsertCredential(ctx context.Context, userID, ticketSystemID int64, accessToken, tokenSecret string, avoidConnection bool) error
}

// Client signs requests against one tracker on behalf of one user using
// RSA-SHA1 OAuth1. Built HTTP clients are cached per token pair; the cache
// is plain memoization, eviction carries no correctness obligation.
type Client struct {
	tracker  *storage.TicketSystem
	userID   int64
	creds    CredentialStore
	consumer *oauth.Consumer
	timeout  time.Duration

	mu    sync.Mutex
	cache map[string]*http.Client
}

// NewClient builds a signing client for the (user, tracker) pairing. The
// tracker's consumer secret must be PEM private key material, inline or as a
// file path.
func NewClient(tracker *storage.TicketSystem, userID int64, creds CredentialStore, timeout time.Duration) (*Client, error) {
	key, err := loadPrivateKey(tracker.ConsumerSecret)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(tracker.BaseURL, "/")
	provider := oauth.ServiceProvider{
		RequestTokenUrl:   base + requestTokenPath,
		AuthorizeTokenUrl: base + authorizePath,
		AccessTokenUrl:    base + accessTokenPath,
		HttpMethod:        "POST",
	}

	return &Client{
		tracker:  tracker,
		userID:   userID,
		creds:    creds,
		consumer: oauth.NewRSAConsumer(tracker.ConsumerKey, key, provider),
		timeout:  timeout,
		cache:    make(map[string]*http.Client),
	}, nil
}

// Tracker returns the ticket system this client is bound to.
func (c *Client) Tracker() *storage.TicketSystem { return c.tracker }

// UserID returns the user this client signs for.
func (c *Client) UserID() int64 { return c.userID }

// AuthorizeURL returns the tracker's authorization page for a request token.
func (c *Client) AuthorizeURL(token string) string {
	return strings.TrimRight(c.tracker.BaseURL, "/") + authorizePath +
		"?oauth_token=" + url.QueryEscape(token)
}

// HTTPClient returns a signing HTTP client bound to the given token pair.
// Empty arguments fall back to the stored credential row; a missing row is
// seeded with a placeholder token so the tracker answers 401 and the caller
// ends up in the handshake.
func (c *Client) HTTPClient(ctx context.Context, token, tokenSecret string) (*http.Client, error) {
	if token == "" {
		row, err := c.creds.FindCredential(ctx, c.userID, c.tracker.ID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			if err := c.creds.UpsertCredential(ctx, c.userID, c.tracker.ID, tokenRequestUnfinished, "", false); err != nil {
				return nil, err
			}
			token = tokenRequestUnfinished
		} else {
			token = row.AccessToken
			tokenSecret = row.TokenSecret
		}
	}

	cacheKey := token + "\x00" + tokenSecret

	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.cache[cacheKey]; ok {
		return client, nil
	}

	client := &http.Client{
		Timeout: c.timeout,
		Transport: &oauthRoundTripper{
			consumer: c.consumer,
			token:    &oauth.AccessToken{Token: token, Secret: tokenSecret},
		},
	}
	c.cache[cacheKey] = client
	return client, nil
}

type oauthRoundTripper struct {
	consumer *oauth.Consumer
	token    *oauth.AccessToken
}

func (rt *oauthRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	return rt.consumer.MakeRequest(r, rt.token)
}

// loadPrivateKey accepts inline PEM text or a path to a PEM file and returns
// the RSA key for request signing.
func loadPrivateKey(consumerSecret string) (*rsa.PrivateKey, error) {
	material := strings.TrimSpace(consumerSecret)

	if !strings.HasPrefix(material, "-----BEGIN") {
		data, err := os.ReadFile(consumerSecret)
		if err != nil {
			return nil, &ConfigurationError{
				Reason: "consumer secret is neither PEM key material nor a readable key file",
				Err:    err,
			}
		}
		material = string(data)
	}

	block, _ := pem.Decode([]byte(material))
	if block == nil {
		return nil, &ConfigurationError{Reason: "consumer secret contains no PEM block"}
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, &ConfigurationError{Reason: "consumer secret is not an RSA private key", Err: err}
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("consumer secret holds a %T, want RSA", parsed)}
	}
	return key, nil
}
