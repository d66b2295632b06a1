package models

import (
	"encoding/json"
	"time"
)

// SyncStatus describes where a pending operation is in its replay lifecycle.
// Valid transitions: pending → syncing → (synced | error), and error → syncing
// on a later retry. There are no other transitions.
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusError   SyncStatus = "error"
)

// OperationType identifies a queued mutation. The set is closed: the payload
// shape and the remote procedure to invoke are both determined by this tag.
type OperationType string

const (
	OpCreateOrder       OperationType = "create-order"
	OpCloseOrder        OperationType = "close-order"
	OpCloseOrderSplit   OperationType = "close-order-split"
	OpUpdateOrderStatus OperationType = "update-order-status"

	// OpRegisterPayment is a historical alias of OpCloseOrder kept for
	// operations enqueued by older client builds.
	OpRegisterPayment OperationType = "register-payment"
)

// Known reports whether t is one of the recognized operation types.
// OpRegisterPayment counts as known; it is normalized at dispatch time.
func (t OperationType) Known() bool {
	switch t {
	case OpCreateOrder, OpCloseOrder, OpCloseOrderSplit, OpUpdateOrderStatus, OpRegisterPayment:
		return true
	}
	return false
}

// Normalize resolves aliases to their canonical operation type.
func (t OperationType) Normalize() OperationType {
	if t == OpRegisterPayment {
		return OpCloseOrder
	}
	return t
}

// PendingOperation is a single entry of the durable operation log: a mutation
// performed while offline that has not yet been confirmed by the server.
//
// ID is assigned by the log at enqueue time, is monotonically increasing and
// never reused. CreatedAt is the ordering key for replay. The payload is
// opaque to the log and the sync engine; only the dispatcher decodes it.
type PendingOperation struct {
	ID            int64           `json:"id"`
	CorrelationID string          `json:"correlation_id"`
	Type          OperationType   `json:"operation_type"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	SyncStatus    SyncStatus      `json:"sync_status"`
	RetryCount    int             `json:"retry_count"`
	ErrorMessage  string          `json:"error_message,omitempty"`
}

// SyncStatusSnapshot is a point-in-time view of the sync engine's state,
// intended for UI feedback ("N changes not yet synced").
type SyncStatusSnapshot struct {
	// PendingCount counts entries with status pending, syncing or error.
	PendingCount int `json:"pending_count"`
	// FrozenCount counts entries that exhausted their retries and need
	// manual resolution.
	FrozenCount int `json:"frozen_count"`
	// LastSyncAt is the completion time of the most recent drain cycle,
	// zero if no cycle has completed yet.
	LastSyncAt time.Time `json:"last_sync_at"`
	// Draining reports whether a drain cycle is currently active.
	Draining bool `json:"draining"`
}
