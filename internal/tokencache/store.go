// Package tokencache holds short-lived opaque tokens: password-reset
// tokens (1 hour, single use) and revoked JWTs (until their natural
// expiry). Keys disappear on their own once the TTL passes.
package tokencache

import (
	"context"
	"time"
)

type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the stored value and whether the key is still live.
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

func ResetKey(email string) string {
	return "reset_" + email
}

func RevokedKey(token string) string {
	return "revoked_" + token
}
