package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"walkrisk-engine/internal/errors"
)

// SQLiteResultStore implements ResultStore on SQLite. The UNIQUE
// constraint on (challenge_id, player_id) enforces at-most-once
// submission even across restarts.
type SQLiteResultStore struct {
	db *sql.DB
}

// NewSQLiteResultStore opens or creates the results database at dbPath.
func NewSQLiteResultStore(dbPath string) (*SQLiteResultStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteResultStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteResultStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		challenge_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		correct INTEGER NOT NULL,
		total INTEGER NOT NULL,
		accuracy REAL NOT NULL,
		time_taken REAL NOT NULL,
		speed_bonus REAL NOT NULL,
		final_score REAL NOT NULL,
		grade TEXT NOT NULL,
		performance TEXT,
		rewards TEXT,
		submitted_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(challenge_id, player_id)
	);

	CREATE INDEX IF NOT EXISTS idx_results_player ON results(player_id);
	CREATE INDEX IF NOT EXISTS idx_results_submitted ON results(submitted_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteResultStore) Close() error {
	return s.db.Close()
}

// SaveResult inserts a graded result. A duplicate (challenge, player)
// pair is reported as an already-submitted error.
func (s *SQLiteResultStore) SaveResult(ctx context.Context, r *Result) error {
	performance, err := json.Marshal(r.Performance)
	if err != nil {
		return fmt.Errorf("failed to marshal performance: %w", err)
	}
	rewards, err := json.Marshal(r.Rewards)
	if err != nil {
		return fmt.Errorf("failed to marshal rewards: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (challenge_id, player_id, mode, difficulty, correct, total,
			accuracy, time_taken, speed_bonus, final_score, grade, performance, rewards, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ChallengeID, r.PlayerID, string(r.Mode), string(r.Difficulty), r.Correct, r.Total,
		r.Accuracy, r.TimeTaken, r.SpeedBonus, r.FinalScore, r.Grade,
		string(performance), string(rewards), r.SubmittedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.ErrAlreadySubmitted
		}
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

// RecentScores returns the player's most recent final scores, newest last.
func (s *SQLiteResultStore) RecentScores(ctx context.Context, playerID string, limit int) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT final_score FROM results
		WHERE player_id = ?
		ORDER BY submitted_at DESC
		LIMIT ?
	`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to oldest-first so callers see chronological order.
	for i, j := 0, len(scores)-1; i < j; i, j = i+1, j-1 {
		scores[i], scores[j] = scores[j], scores[i]
	}
	return scores, nil
}

// BestScore returns the player's best final score for a game mode.
func (s *SQLiteResultStore) BestScore(ctx context.Context, playerID string, mode GameMode) (float64, error) {
	var best sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(final_score) FROM results
		WHERE player_id = ? AND mode = ?
	`, playerID, string(mode)).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("failed to query best score: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return best.Float64, nil
}

// AllResults returns every stored result ordered by submission time.
func (s *SQLiteResultStore) AllResults(ctx context.Context) ([]*Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT challenge_id, player_id, mode, difficulty, correct, total,
			accuracy, time_taken, speed_bonus, final_score, grade,
			performance, rewards, submitted_at
		FROM results
		ORDER BY submitted_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var (
			r           Result
			mode, diff  string
			performance sql.NullString
			rewards     sql.NullString
		)
		err := rows.Scan(&r.ChallengeID, &r.PlayerID, &mode, &diff, &r.Correct, &r.Total,
			&r.Accuracy, &r.TimeTaken, &r.SpeedBonus, &r.FinalScore, &r.Grade,
			&performance, &rewards, &r.SubmittedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Mode = GameMode(mode)
		r.Difficulty = Difficulty(diff)
		if performance.Valid {
			if err := json.Unmarshal([]byte(performance.String), &r.Performance); err != nil {
				return nil, fmt.Errorf("failed to unmarshal performance: %w", err)
			}
		}
		if rewards.Valid {
			if err := json.Unmarshal([]byte(rewards.String), &r.Rewards); err != nil {
				return nil, fmt.Errorf("failed to unmarshal rewards: %w", err)
			}
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}
