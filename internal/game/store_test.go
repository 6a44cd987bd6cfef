package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"walkrisk-engine/internal/errors"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore(0)

	c := &Challenge{ID: "c1", Mode: ModePatternRecognition}
	if err := s.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	got, err := s.Get("c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "c1" {
		t.Errorf("got challenge %s", got.ID)
	}

	if _, err := s.Get("missing"); !errors.Is(err, errors.ErrChallengeNotFound) {
		t.Errorf("missing challenge error = %v, want ErrChallengeNotFound", err)
	}
}

func TestMemoryStoreMarkSubmitted(t *testing.T) {
	s := NewMemoryStore(0)
	if err := s.Create(&Challenge{ID: "c1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.MarkSubmitted("c1", "p1"); err != nil {
		t.Fatalf("first MarkSubmitted: %v", err)
	}
	if err := s.MarkSubmitted("c1", "p1"); !errors.Is(err, errors.ErrAlreadySubmitted) {
		t.Errorf("second MarkSubmitted error = %v, want ErrAlreadySubmitted", err)
	}
	if err := s.MarkSubmitted("c1", "p2"); err != nil {
		t.Errorf("MarkSubmitted for another player: %v", err)
	}
	if err := s.MarkSubmitted("missing", "p1"); !errors.Is(err, errors.ErrChallengeNotFound) {
		t.Errorf("MarkSubmitted on missing challenge error = %v", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	if err := s.Create(&Challenge{ID: "c1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := s.Get("c1"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	if _, err := s.Get("c1"); !errors.Is(err, errors.ErrChallengeExpired) {
		t.Errorf("Get after expiry error = %v, want ErrChallengeExpired", err)
	}
	// Expired entries are removed on access, so a second Get misses.
	if _, err := s.Get("c1"); !errors.Is(err, errors.ErrChallengeNotFound) {
		t.Errorf("Get after eviction error = %v, want ErrChallengeNotFound", err)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := s.Create(&Challenge{ID: fmt.Sprintf("c%d", i)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if evicted := s.Sweep(); evicted != 0 {
		t.Errorf("Sweep before expiry evicted %d", evicted)
	}

	time.Sleep(25 * time.Millisecond)

	if evicted := s.Sweep(); evicted != 3 {
		t.Errorf("Sweep after expiry evicted %d, want 3", evicted)
	}
	if s.Len() != 0 {
		t.Errorf("Len after sweep = %d, want 0", s.Len())
	}
}

func TestMemoryResultStoreHistoryCap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryResultStore(5)

	for i := 0; i < 8; i++ {
		err := s.SaveResult(ctx, &Result{
			PlayerID:   "p1",
			Mode:       ModePatternRecognition,
			FinalScore: float64(i * 10),
		})
		if err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}

	scores, err := s.RecentScores(ctx, "p1", 20)
	if err != nil {
		t.Fatalf("RecentScores: %v", err)
	}
	if len(scores) != 5 {
		t.Fatalf("history length = %d, want cap of 5", len(scores))
	}
	// Oldest first, capped to the most recent five submissions.
	want := []float64{30, 40, 50, 60, 70}
	for i, s := range scores {
		if s != want[i] {
			t.Errorf("scores[%d] = %f, want %f", i, s, want[i])
		}
	}

	limited, err := s.RecentScores(ctx, "p1", 2)
	if err != nil {
		t.Fatalf("RecentScores: %v", err)
	}
	if len(limited) != 2 || limited[0] != 60 || limited[1] != 70 {
		t.Errorf("limited scores = %v, want [60 70]", limited)
	}
}

func TestMemoryResultStoreBestScore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryResultStore(0)

	best, err := s.BestScore(ctx, "p1", ModePatternRecognition)
	if err != nil || best != 0 {
		t.Errorf("best for unknown player = %f, %v", best, err)
	}

	for _, score := range []float64{60, 85, 72} {
		err := s.SaveResult(ctx, &Result{
			PlayerID:   "p1",
			Mode:       ModePatternRecognition,
			FinalScore: score,
		})
		if err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}
	err = s.SaveResult(ctx, &Result{
		PlayerID:   "p1",
		Mode:       ModeSignalTiming,
		FinalScore: 99,
	})
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	best, err = s.BestScore(ctx, "p1", ModePatternRecognition)
	if err != nil {
		t.Fatalf("BestScore: %v", err)
	}
	if best != 85 {
		t.Errorf("best = %f, want 85 tracked per mode", best)
	}

	all, err := s.AllResults(ctx)
	if err != nil {
		t.Fatalf("AllResults: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("AllResults length = %d, want 4", len(all))
	}
}
