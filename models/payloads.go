package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownOperationType = errors.New("unknown operation type")
	ErrInvalidPayload       = errors.New("invalid operation payload")
)

// OrderItem is a single line of a new order.
type OrderItem struct {
	ItemID    string  `json:"itemId"`
	Quantity  int     `json:"quantity"`
	Notes     string  `json:"notes,omitempty"`
	UnitPrice float64 `json:"unitPrice"`
}

// CreateOrderPayload is the payload of OpCreateOrder.
type CreateOrderPayload struct {
	LocationID string      `json:"locationId"`
	TableID    string      `json:"tableId"`
	WaiterID   string      `json:"waiterId"`
	Total      float64     `json:"total"`
	Items      []OrderItem `json:"items"`
}

func (p CreateOrderPayload) Validate() error {
	if p.LocationID == "" {
		return fmt.Errorf("%w: create-order requires locationId", ErrInvalidPayload)
	}
	if p.TableID == "" {
		return fmt.Errorf("%w: create-order requires tableId", ErrInvalidPayload)
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("%w: create-order requires at least one item", ErrInvalidPayload)
	}
	for i, it := range p.Items {
		if it.ItemID == "" {
			return fmt.Errorf("%w: item %d has no itemId", ErrInvalidPayload, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d has non-positive quantity", ErrInvalidPayload, i)
		}
	}
	return nil
}

// CloseOrderPayload is the payload of OpCloseOrder (and its alias
// OpRegisterPayment): one payment closing one or more orders.
type CloseOrderPayload struct {
	LocationID    string   `json:"locationId,omitempty"`
	OrderIDs      []string `json:"orderIds"`
	PaymentMethod string   `json:"paymentMethod"`
	TotalPaid     float64  `json:"totalPaid"`
	ShiftID       string   `json:"shiftId"`
}

func (p CloseOrderPayload) Validate() error {
	if len(p.OrderIDs) == 0 {
		return fmt.Errorf("%w: close-order requires orderIds", ErrInvalidPayload)
	}
	if p.PaymentMethod == "" {
		return fmt.Errorf("%w: close-order requires paymentMethod", ErrInvalidPayload)
	}
	return nil
}

// SplitPayment is one part of a split settlement.
type SplitPayment struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// CloseOrderSplitPayload is the payload of OpCloseOrderSplit: several payment
// methods settling one or more orders within a cash session.
type CloseOrderSplitPayload struct {
	LocationID    string         `json:"locationId,omitempty"`
	OrderIDs      []string       `json:"orderIds"`
	Payments      []SplitPayment `json:"payments"`
	CashSessionID string         `json:"cashSessionId"`
}

func (p CloseOrderSplitPayload) Validate() error {
	if len(p.OrderIDs) == 0 {
		return fmt.Errorf("%w: close-order-split requires orderIds", ErrInvalidPayload)
	}
	if len(p.Payments) == 0 {
		return fmt.Errorf("%w: close-order-split requires payments", ErrInvalidPayload)
	}
	for i, pay := range p.Payments {
		if pay.Method == "" {
			return fmt.Errorf("%w: payment %d has no method", ErrInvalidPayload, i)
		}
		if pay.Amount < 0 {
			return fmt.Errorf("%w: payment %d has negative amount", ErrInvalidPayload, i)
		}
	}
	return nil
}

// UpdateOrderStatusPayload is the payload of OpUpdateOrderStatus.
type UpdateOrderStatusPayload struct {
	LocationID string `json:"locationId,omitempty"`
	OrderID    string `json:"orderId"`
	Status     string `json:"status"`
}

func (p UpdateOrderStatusPayload) Validate() error {
	if p.OrderID == "" {
		return fmt.Errorf("%w: update-order-status requires orderId", ErrInvalidPayload)
	}
	if p.Status == "" {
		return fmt.Errorf("%w: update-order-status requires status", ErrInvalidPayload)
	}
	return nil
}

// OperationPayload is implemented by every payload variant of the closed
// operation-type union.
type OperationPayload interface {
	Validate() error
}

// DecodePayload decodes raw into the payload type that belongs to op.
// Unknown operation types return ErrUnknownOperationType; malformed payloads
// fail here rather than at dispatch time.
func DecodePayload(op OperationType, raw json.RawMessage) (OperationPayload, error) {
	var (
		payload OperationPayload
		err     error
	)

	switch op.Normalize() {
	case OpCreateOrder:
		var p CreateOrderPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case OpCloseOrder:
		var p CloseOrderPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case OpCloseOrderSplit:
		var p CloseOrderSplitPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case OpUpdateOrderStatus:
		var p UpdateOrderStatusPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperationType, op)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidPayload, op, err)
	}
	return payload, nil
}

// EncodePayload marshals a validated payload for storage in the operation log.
func EncodePayload(op OperationType, payload OperationPayload) (json.RawMessage, error) {
	if !op.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperationType, op)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", op, err)
	}
	return raw, nil
}
