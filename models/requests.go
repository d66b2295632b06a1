package models

// APIResponse is the uniform envelope every remote procedure answers with:
// a {data, error} pair, never a thrown transport fault, so every outcome can
// be handled the same way by the sync engine.
type APIResponse struct {
	Data  Record `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// OperationRequest is the request body of every mutation endpoint. The
// correlation id is generated client-side at enqueue time and lets the server
// deduplicate at-least-once replays.
type OperationRequest struct {
	CorrelationID string           `json:"correlationId,omitempty"`
	Payload       OperationPayload `json:"payload"`
}

// ListRequest carries the scope filter of the read endpoints. Scope is a
// location id, or ScopeAll for aggregated views.
type ListRequest struct {
	Scope string `json:"scope"`
}

// ScopeAll is the sentinel scope identifier for aggregated (all-location)
// views.
const ScopeAll = "ALL"
