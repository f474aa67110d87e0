package port

import "context"

type IdempotencyStore interface {
	// Claim reserves key and returns a token proving ownership, ok is false if already claimed
	Claim(ctx context.Context, key string) (token string, ok bool, err error)

	// Release frees key if it is still held by token
	Release(ctx context.Context, key, token string) error
}
