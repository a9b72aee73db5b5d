package cache

import (
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	store.Set("key", "value", time.Minute)

	value, ok := store.Get("key")
	if !ok || value != "value" {
		t.Errorf("Get = (%q, %v), want (\"value\", true)", value, ok)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	store.Set("key", "value", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := store.Get("key"); ok {
		t.Error("Get returned an expired value")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	store.Set("key", "value", time.Minute)
	store.Delete("key")

	if _, ok := store.Get("key"); ok {
		t.Error("Get returned a deleted value")
	}
}

func TestChallengeStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	challenges := NewChallengeStore(store, time.Minute)

	challenges.Put("session-1", "CS001", "attendance")

	word, ok := challenges.Get("session-1", "CS001")
	if !ok || word != "attendance" {
		t.Errorf("Get = (%q, %v), want (\"attendance\", true)", word, ok)
	}

	// Another student in the same session has no challenge yet.
	if _, ok := challenges.Get("session-1", "CS002"); ok {
		t.Error("Get returned a challenge for a student who never joined")
	}

	challenges.Delete("session-1", "CS001")
	if _, ok := challenges.Get("session-1", "CS001"); ok {
		t.Error("Get returned a consumed challenge")
	}
}

func TestChallengeStoreTTL(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	challenges := NewChallengeStore(store, 10*time.Millisecond)

	challenges.Put("session-1", "CS001", "verification")
	time.Sleep(30 * time.Millisecond)

	if _, ok := challenges.Get("session-1", "CS001"); ok {
		t.Error("Get returned an expired challenge")
	}
}
