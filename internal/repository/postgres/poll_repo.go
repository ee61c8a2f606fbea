package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/poll"
)

// PollRepo persists the singleton poll and its ballot records.
type PollRepo struct {
	db *sql.DB
}

func NewPollRepo(db *sql.DB) *PollRepo {
	return &PollRepo{db: db}
}

// Load reads the stored poll inside one read-only transaction so that a
// concurrent Save is never observed half applied.
func (r *PollRepo) Load(ctx context.Context) (poll.State, bool, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return poll.State{}, false, err
	}
	defer tx.Rollback()

	st := poll.State{
		Tally:   make(map[string]int64),
		Ballots: make(map[string]string),
	}

	var (
		status   string
		closesAt sql.NullTime
		winner   sql.NullString
	)
	err = tx.QueryRowContext(ctx, `
        SELECT epoch, last_seq, status, closes_at, winner
        FROM poll_state WHERE id = 1
    `).Scan(&st.Epoch, &st.LastSeq, &status, &closesAt, &winner)
	if errors.Is(err, sql.ErrNoRows) {
		return poll.State{}, false, nil
	}
	if err != nil {
		return poll.State{}, false, fmt.Errorf("load poll state: %w", err)
	}
	if st.Status, err = poll.ParseStatus(status); err != nil {
		return poll.State{}, false, err
	}
	if closesAt.Valid {
		st.ClosesAt = closesAt.Time.UTC()
	}
	st.Winner = winner.String

	if err := loadCandidates(ctx, tx, &st); err != nil {
		return poll.State{}, false, err
	}
	if err := loadBallots(ctx, tx, &st); err != nil {
		return poll.State{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return poll.State{}, false, err
	}
	return st, true, nil
}

func loadCandidates(ctx context.Context, tx *sql.Tx, st *poll.State) error {
	rows, err := tx.QueryContext(ctx, `
        SELECT name, votes FROM poll_candidates ORDER BY position
    `)
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			name  string
			votes int64
		)
		if err := rows.Scan(&name, &votes); err != nil {
			return err
		}
		st.Candidates = append(st.Candidates, name)
		st.Tally[name] = votes
	}
	return rows.Err()
}

func loadBallots(ctx context.Context, tx *sql.Tx, st *poll.State) error {
	rows, err := tx.QueryContext(ctx, `
        SELECT participant_id, candidate FROM poll_ballots
    `)
	if err != nil {
		return fmt.Errorf("load ballots: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var participantID, candidate string
		if err := rows.Scan(&participantID, &candidate); err != nil {
			return err
		}
		st.Ballots[participantID] = candidate
	}
	return rows.Err()
}

// Save replaces the stored poll with st in a single transaction.
func (r *PollRepo) Save(ctx context.Context, st poll.State) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var closesAt *time.Time
	if st.Status != poll.StatusNotStarted {
		closesAt = &st.ClosesAt
	}
	var winner *string
	if st.Winner != "" {
		winner = &st.Winner
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO poll_state (id, epoch, last_seq, status, closes_at, winner)
        VALUES (1, $1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE
        SET epoch = EXCLUDED.epoch,
            last_seq = EXCLUDED.last_seq,
            status = EXCLUDED.status,
            closes_at = EXCLUDED.closes_at,
            winner = EXCLUDED.winner,
            updated_at = now()
    `, int64(st.Epoch), int64(st.LastSeq), st.Status.String(), closesAt, winner)
	if err != nil {
		return fmt.Errorf("save poll state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_ballots`); err != nil {
		return fmt.Errorf("clear ballots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_candidates`); err != nil {
		return fmt.Errorf("clear candidates: %w", err)
	}

	for i, name := range st.Candidates {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO poll_candidates (position, name, votes) VALUES ($1, $2, $3)
        `, i, name, st.Tally[name]); err != nil {
			return fmt.Errorf("save candidate %q: %w", name, err)
		}
	}
	for participantID, candidate := range st.Ballots {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO poll_ballots (participant_id, candidate) VALUES ($1, $2)
        `, participantID, candidate); err != nil {
			return fmt.Errorf("save ballot of %q: %w", participantID, err)
		}
	}

	return tx.Commit()
}
