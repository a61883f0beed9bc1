package session

import "context"

// Store persists game records. Update runs fn against the freshest copy of the
// record and writes the result atomically; if fn returns an error nothing is
// written and the error is returned unchanged.
type Store interface {
	Create(ctx context.Context, r *Record) error
	Load(ctx context.Context, id string) (*Record, error)
	Update(ctx context.Context, id string, fn func(*Record) error) (*Record, error)
	Close() error
}
