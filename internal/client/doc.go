// Package client implements the terminal application runtime.
//
// It wires the server adapter, local operation log, read cache, connectivity
// monitor, and background synchronization into a single process lifecycle.
package client
