package stats

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"orbduel-server/internal/protocol"
)

// Store keeps aggregated per-player results in SQLite. Writes go through a
// single writer goroutine so terminal summaries never block the caller;
// reads query the database directly.
type Store struct {
	db   *sql.DB
	ch   chan protocol.FinalSummary
	wg   sync.WaitGroup
	once sync.Once
}

// PlayerStats is the query result for one participant.
type PlayerStats struct {
	Participant string  `json:"participant"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Draws       int     `json:"draws"`
	Kills       int     `json:"kills"`
	BestLength  float64 `json:"best_length"`
	BestScore   int     `json:"best_score"`
	Matches     int     `json:"matches"`
}

const schema = `
CREATE TABLE IF NOT EXISTS player_stats (
	participant TEXT PRIMARY KEY,
	wins        INTEGER NOT NULL DEFAULT 0,
	losses      INTEGER NOT NULL DEFAULT 0,
	draws       INTEGER NOT NULL DEFAULT 0,
	kills       INTEGER NOT NULL DEFAULT 0,
	best_length REAL    NOT NULL DEFAULT 0,
	best_score  INTEGER NOT NULL DEFAULT 0,
	matches     INTEGER NOT NULL DEFAULT 0
);`

// Open creates or opens the stats database and starts the writer.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("stats schema: %w", err)
	}

	s := &Store{
		db: db,
		ch: make(chan protocol.FinalSummary, 64),
	}
	s.wg.Add(1)
	go s.writer()
	return s, nil
}

// Record queues a terminal summary for aggregation. Never blocks: if the
// writer is backed up the summary is dropped with a log line, per the
// best-effort contract for game_over consumers.
func (s *Store) Record(sum protocol.FinalSummary) {
	select {
	case s.ch <- sum:
	default:
		log.Printf("stats: writer backed up, dropping summary for match %s", sum.MatchID)
	}
}

func (s *Store) writer() {
	defer s.wg.Done()
	for sum := range s.ch {
		if err := s.apply(sum); err != nil {
			log.Printf("stats: record match %s: %v", sum.MatchID, err)
		}
	}
}

func (s *Store) apply(sum protocol.FinalSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range sum.Players {
		// The BOT sentinel accrues no stats.
		if p.Participant == "BOT" {
			continue
		}
		wins, losses, draws := 0, 0, 0
		switch {
		case sum.Winner == "":
			draws = 1
		case sum.Winner == p.Participant:
			wins = 1
		default:
			losses = 1
		}
		_, err := tx.Exec(`
INSERT INTO player_stats (participant, wins, losses, draws, kills, best_length, best_score, matches)
VALUES (?, ?, ?, ?, ?, ?, ?, 1)
ON CONFLICT(participant) DO UPDATE SET
	wins        = wins + excluded.wins,
	losses      = losses + excluded.losses,
	draws       = draws + excluded.draws,
	kills       = kills + excluded.kills,
	best_length = MAX(best_length, excluded.best_length),
	best_score  = MAX(best_score, excluded.best_score),
	matches     = matches + 1`,
			p.Participant, wins, losses, draws, p.Kills, p.Length, p.Score)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Query returns a participant's aggregate stats. Unknown participants get a
// zero row rather than an error.
func (s *Store) Query(participant string) (PlayerStats, error) {
	ps := PlayerStats{Participant: participant}
	err := s.db.QueryRow(`
SELECT wins, losses, draws, kills, best_length, best_score, matches
FROM player_stats WHERE participant = ?`, participant).
		Scan(&ps.Wins, &ps.Losses, &ps.Draws, &ps.Kills, &ps.BestLength, &ps.BestScore, &ps.Matches)
	if err == sql.ErrNoRows {
		return ps, nil
	}
	return ps, err
}

// Close drains the writer and closes the database.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
	})
	s.wg.Wait()
	return s.db.Close()
}
