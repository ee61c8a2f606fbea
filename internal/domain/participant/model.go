package participant

import (
	"context"
	"time"
)

// Participant is an authenticated voter. ID is the handle chosen at
// registration and is what the poll engine sees as the caller.
type Participant struct {
	ID           string    `json:"id"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Repository interface {
	CreateParticipant(ctx context.Context, p *Participant) error
	GetParticipant(ctx context.Context, id string) (*Participant, error)
}
