package jira

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/tchap/oauth"
)

// VerifierDenied is the oauth_verifier value the tracker sends back when the
// user declined the authorization request.
const VerifierDenied = "denied"

// Handshake drives the three-legged OAuth1 dance for one (user, tracker)
// pairing and persists the resulting token pairs. No retries anywhere: the
// flow is interactive and retried by the human, not the machine.
type Handshake struct {
	client *Client
	// callbackURL is this application's shared OAuth callback route; the
	// tracker id is appended so multiple trackers can share it.
	callbackURL string
	log         *slog.Logger
}

func NewHandshake(client *Client, callbackURL string) *Handshake {
	return &Handshake{
		client:      client,
		callbackURL: callbackURL,
		log:         slog.With("component", "oauth", "tracker", client.tracker.ID),
	}
}

// RequestToken fetches a request token from the tracker, persists the pair
// in the credential row, and returns the authorization URL the user has to
// visit.
func (h *Handshake) RequestToken(ctx context.Context) (string, error) {
	callback := h.callbackURL + "?tracker=" + strconv.FormatInt(h.client.tracker.ID, 10)

	rtoken, loginURL, err := h.client.consumer.GetRequestTokenAndUrl(callback)
	if err != nil {
		return "", &HandshakeError{Step: "request-token", Err: err}
	}

	if err := h.client.creds.UpsertCredential(ctx, h.client.userID, h.client.tracker.ID,
		rtoken.Token, rtoken.Secret, false); err != nil {
		return "", err
	}

	h.log.Info("Issued OAuth request token", "user", h.client.userID)
	return loginURL, nil
}

// AccessToken exchanges an authorized request token for the steady-state
// access token and persists it. A "denied" verifier clears the credential
// row and flags the pairing as avoid-connection, with no network call.
func (h *Handshake) AccessToken(ctx context.Context, requestToken, verifier string) error {
	if verifier == VerifierDenied {
		h.log.Info("User declined tracker authorization", "user", h.client.userID)
		return h.client.creds.UpsertCredential(ctx, h.client.userID, h.client.tracker.ID, "", "", true)
	}

	row, err := h.client.creds.FindCredential(ctx, h.client.userID, h.client.tracker.ID)
	if err != nil {
		return err
	}
	var requestSecret string
	if row != nil {
		requestSecret = row.TokenSecret
	}

	atoken, err := h.client.consumer.AuthorizeToken(
		&oauth.RequestToken{Token: requestToken, Secret: requestSecret}, verifier)
	if err != nil {
		return &HandshakeError{Step: "access-token", Err: err}
	}

	if err := h.client.creds.UpsertCredential(ctx, h.client.userID, h.client.tracker.ID,
		atoken.Token, atoken.Secret, false); err != nil {
		return err
	}

	h.log.Info("Stored OAuth access token", "user", h.client.userID)
	return nil
}
