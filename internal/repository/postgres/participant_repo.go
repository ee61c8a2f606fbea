package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/participant"
)

type ParticipantRepo struct {
	db *sql.DB
}

func NewParticipantRepo(db *sql.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

func (r *ParticipantRepo) CreateParticipant(ctx context.Context, p *participant.Participant) error {
	query := `
        INSERT INTO participants (id, password_hash)
        VALUES ($1, $2)
        RETURNING created_at
    `
	err := r.db.QueryRowContext(ctx, query, p.ID, p.PasswordHash).Scan(&p.CreatedAt)
	if isUniqueViolation(err) {
		return participant.ErrHandleTaken
	}
	return err
}

func (r *ParticipantRepo) GetParticipant(ctx context.Context, id string) (*participant.Participant, error) {
	query := `
        SELECT id, password_hash, created_at
        FROM participants WHERE id = $1
    `
	p := &participant.Participant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, participant.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
