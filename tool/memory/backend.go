// Package memory provides a key-value memory tool for agents, with
// in-memory, SQLite, and MySQL backends.
package memory

import "context"

// Backend is a minimal key-value store: get, set, delete.
type Backend interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
