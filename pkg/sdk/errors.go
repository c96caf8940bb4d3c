package sdk

import "errors"

var (
	// ErrInvalidSession is returned when the backend rejects the
	// session token (expired, revoked, malformed). A previously valid
	// session has gone stale; the caller should force a logout.
	ErrInvalidSession = errors.New("session token is no longer valid")

	// ErrBadCredentials is returned when a login attempt is rejected.
	// Distinct from ErrInvalidSession: this is a failed attempt, not a
	// stale session.
	ErrBadCredentials = errors.New("email or password rejected")

	// ErrNetworkUnavailable is returned when the backend cannot be
	// reached. Transient; the SDK never retries internally and the
	// caller owns the retry decision.
	ErrNetworkUnavailable = errors.New("backend unreachable")

	// ErrForbidden is returned when the backend denies an operation the
	// client issued anyway. With a well-behaved caller the local policy
	// check fires first and this error is never seen.
	ErrForbidden = errors.New("operation forbidden by backend")

	// ErrNotFound is returned for a missing resource.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when the backend refuses a write due to a
	// uniqueness or integrity conflict.
	ErrConflict = errors.New("conflicting resource state")
)
