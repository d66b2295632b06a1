package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrStorageUnavailable is returned when the durable operation log cannot
	// be reached or written. An enqueue failing with this error means the
	// mutation never entered the log; the caller must surface it and let the
	// user retry the whole action.
	ErrStorageUnavailable = errors.New("operation log storage unavailable")

	// ErrOperationNotFound is returned when a status transition targets a log
	// entry id that does not exist, or that is not in a status the transition
	// is legal from.
	ErrOperationNotFound = errors.New("pending operation not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan operation log row")
)
