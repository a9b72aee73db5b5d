package voiceprint

import (
	"math/rand"
	"testing"
)

func pinnedComparator() *Comparator {
	c := NewComparator(rand.New(rand.NewSource(1)))
	c.Noise = 0
	return c
}

func TestSelfSimilarityIsMaximal(t *testing.T) {
	fp := Extract(tone(440, 3.0, 16000, 0.5))
	if fp == nil {
		t.Fatal("extraction failed")
	}
	sim := pinnedComparator().Similarity(fp, fp)
	if sim != 1.0 {
		t.Fatalf("self similarity with pinned noise should be 1.0, got %v", sim)
	}
}

func TestSelfSimilarityWithinNoiseBand(t *testing.T) {
	fp := Extract(tone(440, 3.0, 16000, 0.5))
	c := NewComparator(rand.New(rand.NewSource(17)))
	for i := 0; i < 50; i++ {
		sim := c.Similarity(fp, fp)
		if sim < 1.0-DefaultNoise || sim > 1.0 {
			t.Fatalf("iteration %d: similarity %v outside [%v, 1.0]", i, sim, 1.0-DefaultNoise)
		}
	}
}

func TestNilFingerprintScoresZero(t *testing.T) {
	fp := Extract(tone(440, 3.0, 16000, 0.5))
	c := pinnedComparator()
	if sim := c.Similarity(nil, fp); sim != 0 {
		t.Fatalf("nil reference must score 0, got %v", sim)
	}
	if sim := c.Similarity(fp, nil); sim != 0 {
		t.Fatalf("nil probe must score 0, got %v", sim)
	}
	if sim := c.Similarity(nil, nil); sim != 0 {
		t.Fatalf("nil pair must score 0, got %v", sim)
	}
}

func TestDissimilarSignalsScoreLow(t *testing.T) {
	toneFP := Extract(tone(440, 5.0, 16000, 0.1))
	noiseFP := Extract(noise(5.0, 16000, 1.0, 42))
	if toneFP == nil || noiseFP == nil {
		t.Fatal("extraction failed")
	}

	c := pinnedComparator()
	cross := c.Similarity(toneFP, noiseFP)
	self := c.Similarity(toneFP, toneFP)
	if cross >= self {
		t.Fatalf("cross similarity %v should be below self similarity %v", cross, self)
	}
	if cross >= 0.7 {
		t.Fatalf("tone vs loud white noise scored %v, expected a clearly low score", cross)
	}
}

func TestSimilarityClampedToUnitInterval(t *testing.T) {
	c := NewComparator(rand.New(rand.NewSource(3)))
	c.Noise = 0.5 // exaggerated to force clamping on both ends
	fp := Extract(tone(440, 2.0, 16000, 0.5))
	for i := 0; i < 100; i++ {
		sim := c.Similarity(fp, fp)
		if sim < 0 || sim > 1 {
			t.Fatalf("similarity %v escaped [0, 1]", sim)
		}
	}
}
