package game

import (
	"context"
	"sync"
	"time"

	"walkrisk-engine/internal/errors"
)

// ChallengeStore keeps live challenges between creation and submission.
// Implementations must be safe for concurrent use.
type ChallengeStore interface {
	Create(c *Challenge) error
	Get(id string) (*Challenge, error)
	// MarkSubmitted records a player's submission exactly once.
	// A second call for the same pair returns ErrAlreadySubmitted.
	MarkSubmitted(challengeID, playerID string) error
	Len() int
}

// ResultStore persists graded results and per-player score history.
type ResultStore interface {
	SaveResult(ctx context.Context, r *Result) error
	RecentScores(ctx context.Context, playerID string, limit int) ([]float64, error)
	BestScore(ctx context.Context, playerID string, mode GameMode) (float64, error)
	AllResults(ctx context.Context) ([]*Result, error)
}

type challengeEntry struct {
	challenge *Challenge
	expiresAt time.Time
}

// MemoryStore is an in-memory ChallengeStore with TTL eviction.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*challengeEntry
	ttl     time.Duration
}

// NewMemoryStore creates a challenge store whose entries expire after ttl.
// A ttl of zero disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*challengeEntry),
		ttl:     ttl,
	}
}

// Create registers a new challenge.
func (s *MemoryStore) Create(c *Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &challengeEntry{challenge: c}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}
	s.entries[c.ID] = entry
	return nil
}

// Get returns a live challenge by ID. Expired challenges are removed on
// access and reported as expired rather than missing.
func (s *MemoryStore) Get(id string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, errors.ErrChallengeNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(s.entries, id)
		return nil, errors.ErrChallengeExpired
	}
	return entry.challenge, nil
}

// MarkSubmitted flags a (challenge, player) pair as submitted.
func (s *MemoryStore) MarkSubmitted(challengeID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[challengeID]
	if !ok {
		return errors.ErrChallengeNotFound
	}
	c := entry.challenge
	if c.Submitted == nil {
		c.Submitted = make(map[string]bool)
	}
	if c.Submitted[playerID] {
		return errors.ErrAlreadySubmitted
	}
	c.Submitted[playerID] = true
	return nil
}

// Len reports the number of live entries, including not-yet-swept ones.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes expired entries and returns how many were evicted.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	evicted := 0
	for id, entry := range s.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// StartSweeper evicts expired challenges on a fixed interval until the
// context is cancelled.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

type playerHistory struct {
	scores []float64
	best   map[GameMode]float64
}

// MemoryResultStore keeps results and score history in memory.
type MemoryResultStore struct {
	mu         sync.RWMutex
	results    []*Result
	players    map[string]*playerHistory
	historyCap int
}

// NewMemoryResultStore creates a result store capping each player's score
// history at historyCap entries.
func NewMemoryResultStore(historyCap int) *MemoryResultStore {
	if historyCap <= 0 {
		historyCap = 20
	}
	return &MemoryResultStore{
		players:    make(map[string]*playerHistory),
		historyCap: historyCap,
	}
}

// SaveResult appends a result and updates the player's capped history.
func (s *MemoryResultStore) SaveResult(ctx context.Context, r *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, r)

	p, ok := s.players[r.PlayerID]
	if !ok {
		p = &playerHistory{best: make(map[GameMode]float64)}
		s.players[r.PlayerID] = p
	}
	p.scores = append(p.scores, r.FinalScore)
	if len(p.scores) > s.historyCap {
		p.scores = p.scores[len(p.scores)-s.historyCap:]
	}
	if r.FinalScore > p.best[r.Mode] {
		p.best[r.Mode] = r.FinalScore
	}
	return nil
}

// RecentScores returns the player's most recent final scores, newest last.
func (s *MemoryResultStore) RecentScores(ctx context.Context, playerID string, limit int) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[playerID]
	if !ok {
		return nil, nil
	}
	scores := p.scores
	if limit > 0 && len(scores) > limit {
		scores = scores[len(scores)-limit:]
	}
	out := make([]float64, len(scores))
	copy(out, scores)
	return out, nil
}

// BestScore returns the player's best final score for a game mode.
func (s *MemoryResultStore) BestScore(ctx context.Context, playerID string, mode GameMode) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[playerID]
	if !ok {
		return 0, nil
	}
	return p.best[mode], nil
}

// AllResults returns every stored result.
func (s *MemoryResultStore) AllResults(ctx context.Context) ([]*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Result, len(s.results))
	copy(out, s.results)
	return out, nil
}
