// Package sessionslot persists the client's single session slot as a small
// key/value table in SQLite.
package sessionslot

import "context"

// Slot keys.
const (
	KeyUserID      = "user_id"
	KeyEmail       = "email"
	KeyUsageCount  = "usage_count"
	KeyAccessToken = "access_token"
)

type Repository interface {
	// Get returns ("", false, nil) when key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
