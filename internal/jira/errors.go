package jira

import "fmt"

// ConfigurationError means the tracker's consumer credentials are unusable.
// Not retryable; an operator has to fix the ticket system record.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tracker configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("tracker configuration: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// UnauthorizedError is raised on a remote 401. It carries a freshly minted
// authorization URL; only the user completing the consent screen can clear
// the condition, so callers must surface the URL instead of retrying.
type UnauthorizedError struct {
	AuthURL string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("tracker rejected credentials, re-authorize at %s", e.AuthURL)
}

// NotFoundError is a remote 404. In delete and existence-check paths this is
// a legitimate outcome, not a failure.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tracker resource not found: %s", e.Path)
}

// TransportError wraps any other network or HTTP failure.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tracker request %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("tracker request %s failed: status=%d body=%s", e.Op, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HandshakeError is a failure during the request- or access-token exchange.
// The handshake is interactive, so it always propagates; the human retries.
type HandshakeError struct {
	Step string
	Err  error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("oauth %s exchange failed: %v", e.Step, e.Err)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// DecodeError means the tracker answered 2xx with a body this client does
// not understand.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding tracker response for %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
