package cache

import (
	"fmt"
	"time"
)

// ChallengeStore tracks the challenge word issued to a student for a session.
// The word is stored when the student joins and consumed when attendance is
// marked; after the TTL the student must rejoin.
type ChallengeStore struct {
	store Store
	ttl   time.Duration
}

// NewChallengeStore creates a challenge store on top of a key-value backend
func NewChallengeStore(store Store, ttl time.Duration) *ChallengeStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ChallengeStore{
		store: store,
		ttl:   ttl,
	}
}

// Put records the challenge word issued to a student for a session
func (cs *ChallengeStore) Put(sessionID, studentID, word string) {
	cs.store.Set(challengeKey(sessionID, studentID), word, cs.ttl)
}

// Get returns the challenge word issued to a student, if still valid
func (cs *ChallengeStore) Get(sessionID, studentID string) (string, bool) {
	return cs.store.Get(challengeKey(sessionID, studentID))
}

// Delete consumes the challenge word
func (cs *ChallengeStore) Delete(sessionID, studentID string) {
	cs.store.Delete(challengeKey(sessionID, studentID))
}

func challengeKey(sessionID, studentID string) string {
	return fmt.Sprintf("challenge:%s:%s", sessionID, studentID)
}
