package service

import "errors"

var (
	// ErrNoPayload is returned when a dispatch is attempted with a nil payload.
	ErrNoPayload = errors.New("no operation payload provided")

	// ErrDispatchFailed wraps the adapter error recorded on a failed dispatch.
	ErrDispatchFailed = errors.New("dispatch failed")

	// ErrEnqueueFailed wraps a durable-log write failure during offline
	// queueing. The mutation never entered the log; the caller must retry
	// the whole user action.
	ErrEnqueueFailed = errors.New("failed to queue operation")
)
