package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/voiceattendance/voice-attendance/internal/infrastructure/cache"
)

const defaultStateTTL = 15 * time.Minute

// StateManager issues one-time CSRF state tokens for the OAuth code flow
type StateManager struct {
	store cache.Store
	ttl   time.Duration
}

// NewStateManager creates a state manager on top of the cache store. A zero
// ttl selects the default of 15 minutes.
func NewStateManager(store cache.Store, ttl time.Duration) *StateManager {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &StateManager{
		store: store,
		ttl:   ttl,
	}
}

// GenerateState creates and stores a random state token
func (sm *StateManager) GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	state := base64.URLEncoding.EncodeToString(b)
	sm.store.Set(stateKey(state), "valid", sm.ttl)
	return state, nil
}

// ValidateState consumes a state token. Each token validates at most once.
func (sm *StateManager) ValidateState(state string) bool {
	key := stateKey(state)

	value, ok := sm.store.Get(key)
	if !ok || value != "valid" {
		return false
	}

	sm.store.Delete(key)
	return true
}

func stateKey(state string) string {
	return fmt.Sprintf("oauth:state:%s", state)
}
