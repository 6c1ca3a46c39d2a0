package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// TokenCacheKey derives the Redis cache key for a verified bearer token.
// Tokens are never stored raw; only this digest appears in the cache.
func TokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
