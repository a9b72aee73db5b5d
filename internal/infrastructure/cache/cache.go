package cache

import "time"

// Store is a key-value store with expiration. It backs the per-session
// challenge words and OAuth state tokens.
type Store interface {
	Set(key string, value string, expiration time.Duration)
	Get(key string) (string, bool)
	Delete(key string)
}
