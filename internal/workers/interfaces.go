// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that starts and
// stops multiple workers in a unified way.
package workers

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/workers_mock.go -package=mock

// Worker is the interface that must be implemented by any background worker.
//
// Start launches the worker's background processing and returns without
// blocking; ctx bounds the worker's lifetime. Stop halts processing and
// blocks until the worker has fully wound down. Both must be safe to call
// more than once.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
}
