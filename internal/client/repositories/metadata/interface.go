package metadata

import (
	"context"
)

// Repository is a durable string key/value store.
//
// Get reports ok=false (and no error) for a missing key. Delete of a missing
// key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
