package models

import "encoding/json"

// Realtime event types pushed by the server.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Tables carried on the realtime channel.
const (
	TableOrders     = "orders"
	TableOrderItems = "order_items"
	TableTables     = "tables"
)

// RemoteChangeEvent is one change notification delivered over the persistent
// push channel, scoped server-side to the subscribed location.
type RemoteChangeEvent struct {
	Table     string          `json:"table"`
	EventType string          `json:"eventType"`
	Old       json.RawMessage `json:"old,omitempty"`
	New       json.RawMessage `json:"new,omitempty"`
}

// OldRecord decodes the pre-change row, nil if absent or malformed.
func (e RemoteChangeEvent) OldRecord() Record {
	return decodeRecord(e.Old)
}

// NewRecord decodes the post-change row, nil if absent or malformed.
func (e RemoteChangeEvent) NewRecord() Record {
	return decodeRecord(e.New)
}

func decodeRecord(raw json.RawMessage) Record {
	if len(raw) == 0 {
		return nil
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil
	}
	return r
}

// RealtimeFrame is the envelope of every message on the push channel.
// Type "subscribed" acknowledges the handshake; type "change" carries a
// RemoteChangeEvent in Event.
type RealtimeFrame struct {
	Type  string             `json:"type"`
	Event *RemoteChangeEvent `json:"event,omitempty"`
}

const (
	FrameSubscribed = "subscribed"
	FrameChange     = "change"
)
