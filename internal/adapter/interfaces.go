// Package adapter provides transport-layer abstractions for communicating
// with the back-office server.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrValidation] for 400).
package adapter

import (
	"context"

	"github.com/avelarde/comandero/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the back-office
// server. Each mutation method corresponds 1:1 to a named remote procedure;
// request payloads are passed verbatim, and every response decodes to a
// {data, error} pair so the sync engine can treat all outcomes uniformly.
type ServerAdapter interface {
	// CreateOrder registers a new order and returns the authoritative
	// server-side order record, including server-assigned id and relations.
	CreateOrder(ctx context.Context, req models.OperationRequest) (models.Record, error)

	// CloseOrder settles one or more orders with a single payment. Returns
	// [ErrConflict] (wrapped) if any order is already closed.
	CloseOrder(ctx context.Context, req models.OperationRequest) (models.Record, error)

	// CloseOrderSplit settles one or more orders with multiple payment
	// methods inside a cash session. Returns [ErrConflict] (wrapped) on a
	// state mismatch.
	CloseOrderSplit(ctx context.Context, req models.OperationRequest) (models.Record, error)

	// UpdateOrderStatus transitions a single order's kitchen/service status.
	UpdateOrderStatus(ctx context.Context, req models.OperationRequest) (models.Record, error)

	// ListOrders fetches the open-order collection for the given scope
	// (location id, or models.ScopeAll for the aggregated view).
	ListOrders(ctx context.Context, scope string) (models.Collection, error)

	// ListTables fetches the table collection for the given scope.
	ListTables(ctx context.Context, scope string) (models.Collection, error)
}
