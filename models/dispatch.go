package models

// DispatchResult is the uniform outcome of executing one operation against
// the server. Failures are carried as values, never panics, so the sync
// engine can record them without aborting a drain cycle.
type DispatchResult struct {
	// Data is the decoded server response for the operation, nil on failure
	// and on the offline path.
	Data Record
	// Err is the failure, nil on success. Transport sentinel errors from the
	// adapter package survive wrapping and remain matchable via errors.Is.
	Err error
	// PendingSync is true when the operation was queued for later replay
	// instead of being executed. Data is nil; PlaceholderID identifies the
	// provisional local state.
	PendingSync bool
	// PlaceholderID is a locally generated identifier of the form
	// "offline-<logID>-<unixNano>", set only when PendingSync is true.
	PlaceholderID string
	// LogID is the operation log entry id, set only when PendingSync is true.
	LogID int64
}

// OK reports whether the dispatch succeeded against the server.
func (r DispatchResult) OK() bool {
	return r.Err == nil && !r.PendingSync
}
