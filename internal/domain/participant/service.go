package participant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrHandleTaken        = errors.New("handle already taken")
	ErrHandleReserved     = errors.New("handle is reserved")
	ErrInvalidHandle      = errors.New("handle must be 3 to 64 characters")
	ErrPasswordRequired   = errors.New("password required")
	ErrNotFound           = errors.New("participant not found")
)

const (
	minHandleLen = 3
	maxHandleLen = 64
)

type Service struct {
	repo     Repository
	cost     int
	reserved map[string]struct{}
}

// NewService returns a participant service. Reserved handles cannot be taken
// through Register; they are provisioned with Seed.
func NewService(repo Repository, reserved ...string) *Service {
	s := &Service{repo: repo, cost: bcrypt.DefaultCost, reserved: make(map[string]struct{}, len(reserved))}
	for _, h := range reserved {
		s.reserved[strings.TrimSpace(h)] = struct{}{}
	}
	return s
}

func (s *Service) Register(ctx context.Context, handle, password string) (*Participant, error) {
	handle = strings.TrimSpace(handle)
	if _, ok := s.reserved[handle]; ok {
		return nil, ErrHandleReserved
	}
	return s.create(ctx, handle, password)
}

// Seed makes sure the account for handle exists with password. An existing
// account with a different password is an error, so a handle taken before
// it was reserved is reported instead of silently adopted.
func (s *Service) Seed(ctx context.Context, handle, password string) (*Participant, error) {
	handle = strings.TrimSpace(handle)
	p, err := s.repo.GetParticipant(ctx, handle)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
			return nil, fmt.Errorf("seed %q: %w", handle, ErrInvalidCredentials)
		}
		return p, nil
	case errors.Is(err, ErrNotFound):
		return s.create(ctx, handle, password)
	default:
		return nil, err
	}
}

func (s *Service) create(ctx context.Context, handle, password string) (*Participant, error) {
	if n := utf8.RuneCountInString(handle); n < minHandleLen || n > maxHandleLen {
		return nil, ErrInvalidHandle
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	if _, err := s.repo.GetParticipant(ctx, handle); err == nil {
		return nil, ErrHandleTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	p := &Participant{
		ID:           handle,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateParticipant(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Login(ctx context.Context, handle, password string) (*Participant, error) {
	p, err := s.repo.GetParticipant(ctx, strings.TrimSpace(handle))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}
