package adapter

import "errors"

// Sentinel errors mapped from HTTP status codes by mapHTTPError. Callers use
// [errors.Is] for transport-agnostic handling. Note that the sync engine
// deliberately treats all of these uniformly when recording a failed replay;
// the distinction exists for logging and for the immediate (online) path
// where the UI reports the failure to the user.
var (
	// ErrValidation is returned when the server rejects a payload as
	// malformed (HTTP 400).
	ErrValidation = errors.New("server rejected payload")

	// ErrUnauthorized is returned when the terminal's credentials are
	// missing or no longer accepted (HTTP 401).
	ErrUnauthorized = errors.New("terminal unauthorized")

	// ErrNotFound is returned when the target aggregate does not exist on
	// the server (HTTP 404).
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when the server rejects an operation due to a
	// state mismatch, e.g. closing an already-closed order (HTTP 409).
	ErrConflict = errors.New("state conflict")

	// ErrBadGateway is returned when an intermediary failed to reach the
	// back office (HTTP 502).
	ErrBadGateway = errors.New("bad gateway")

	// ErrInternalServerError is returned on a server-side failure
	// (HTTP 500).
	ErrInternalServerError = errors.New("internal server error")

	// ErrRemote is returned when the response envelope itself carries an
	// application-level error string.
	ErrRemote = errors.New("remote procedure failed")
)
