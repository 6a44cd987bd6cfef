package game

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"walkrisk-engine/internal/errors"
)

func newSQLiteTestStore(t *testing.T) *SQLiteResultStore {
	t.Helper()
	store, err := NewSQLiteResultStore(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sqliteResult(challengeID, playerID string, score float64, submittedAt time.Time) *Result {
	return &Result{
		ChallengeID: challengeID,
		PlayerID:    playerID,
		Mode:        ModePatternRecognition,
		Difficulty:  Beginner,
		Correct:     4,
		Total:       5,
		Accuracy:    0.8,
		TimeTaken:   120,
		SpeedBonus:  5,
		FinalScore:  score,
		Grade:       "A",
		Performance: Performance{
			Strengths:   []string{"pattern identification"},
			Weaknesses:  []string{"entry timing"},
			Suggestions: []string{"review neckline breaks"},
		},
		Rewards:     Rewards{XP: 95, Badges: []string{"패턴 마스터"}},
		SubmittedAt: submittedAt,
	}
}

func TestSQLiteResultStoreRoundTrip(t *testing.T) {
	store := newSQLiteTestStore(t)
	ctx := context.Background()

	submitted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	want := sqliteResult("c-1", "p1", 85, submitted)
	if err := store.SaveResult(ctx, want); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	results, err := store.AllResults(ctx)
	if err != nil {
		t.Fatalf("AllResults: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	got := results[0]
	if got.ChallengeID != want.ChallengeID || got.PlayerID != want.PlayerID {
		t.Errorf("identity = %s/%s, want %s/%s", got.ChallengeID, got.PlayerID, want.ChallengeID, want.PlayerID)
	}
	if got.Mode != want.Mode || got.Difficulty != want.Difficulty {
		t.Errorf("mode/difficulty = %s/%s, want %s/%s", got.Mode, got.Difficulty, want.Mode, want.Difficulty)
	}
	if got.Correct != want.Correct || got.Total != want.Total {
		t.Errorf("correct/total = %d/%d, want %d/%d", got.Correct, got.Total, want.Correct, want.Total)
	}
	if got.FinalScore != want.FinalScore || got.Grade != want.Grade {
		t.Errorf("score/grade = %f/%s, want %f/%s", got.FinalScore, got.Grade, want.FinalScore, want.Grade)
	}
	if len(got.Performance.Strengths) != 1 || got.Performance.Strengths[0] != "pattern identification" {
		t.Errorf("performance strengths = %v", got.Performance.Strengths)
	}
	if got.Rewards.XP != 95 || len(got.Rewards.Badges) != 1 {
		t.Errorf("rewards = %+v, want XP 95 and one badge", got.Rewards)
	}
	if !got.SubmittedAt.Equal(submitted) {
		t.Errorf("submitted at %s, want %s", got.SubmittedAt, submitted)
	}
}

func TestSQLiteResultStoreScores(t *testing.T) {
	store := newSQLiteTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	scores := []float64{30, 70, 50}
	for i, score := range scores {
		r := sqliteResult("c-"+string(rune('a'+i)), "p1", score, base.Add(time.Duration(i)*time.Hour))
		if err := store.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult %d: %v", i, err)
		}
	}
	other := sqliteResult("c-other", "p1", 99, base.Add(4*time.Hour))
	other.Mode = ModeIndicatorAnalysis
	if err := store.SaveResult(ctx, other); err != nil {
		t.Fatalf("SaveResult other mode: %v", err)
	}

	recent, err := store.RecentScores(ctx, "p1", 3)
	if err != nil {
		t.Fatalf("RecentScores: %v", err)
	}
	// Newest three, returned oldest first.
	want := []float64{70, 50, 99}
	if len(recent) != len(want) {
		t.Fatalf("got %d scores, want %d", len(recent), len(want))
	}
	for i := range want {
		if recent[i] != want[i] {
			t.Errorf("recent[%d] = %f, want %f", i, recent[i], want[i])
		}
	}

	best, err := store.BestScore(ctx, "p1", ModePatternRecognition)
	if err != nil {
		t.Fatalf("BestScore: %v", err)
	}
	if best != 70 {
		t.Errorf("best pattern recognition score = %f, want 70", best)
	}

	none, err := store.BestScore(ctx, "p2", ModePatternRecognition)
	if err != nil {
		t.Fatalf("BestScore without results: %v", err)
	}
	if none != 0 {
		t.Errorf("best score for unknown player = %f, want 0", none)
	}
}

func TestSQLiteResultStoreRejectsResubmission(t *testing.T) {
	store := newSQLiteTestStore(t)
	ctx := context.Background()

	submitted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := store.SaveResult(ctx, sqliteResult("c-1", "p1", 80, submitted)); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	err := store.SaveResult(ctx, sqliteResult("c-1", "p1", 95, submitted.Add(time.Minute)))
	if !errors.Is(err, errors.ErrAlreadySubmitted) {
		t.Fatalf("resubmission error = %v, want ErrAlreadySubmitted", err)
	}

	// A different player on the same challenge still goes through.
	if err := store.SaveResult(ctx, sqliteResult("c-1", "p2", 60, submitted.Add(2*time.Minute))); err != nil {
		t.Fatalf("SaveResult for second player: %v", err)
	}
}
