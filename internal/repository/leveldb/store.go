// Package leveldb is an embedded storage backend for single-node deployments.
package leveldb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/participant"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/poll"
)

var (
	pollStateKey      = []byte("poll/state")
	participantPrefix = "participant/"
)

// Store keeps the poll state under a single key and participants under a
// prefix. It implements poll.Repository and participant.Repository.
type Store struct {
	db *leveldb.DB
}

// Open opens (or creates) a store at path. An empty path selects in-memory
// storage.
func Open(path string) (*Store, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the store still accepts reads.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return fmt.Errorf("leveldb snapshot: %w", err)
	}
	snap.Release()
	return nil
}

// IsRetryable reports whether a failed write may succeed when repeated.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, leveldb.ErrClosed) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func (s *Store) Load(ctx context.Context) (poll.State, bool, error) {
	if err := ctx.Err(); err != nil {
		return poll.State{}, false, err
	}
	raw, err := s.db.Get(pollStateKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return poll.State{}, false, nil
	}
	if err != nil {
		return poll.State{}, false, fmt.Errorf("load poll state: %w", err)
	}
	var st poll.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return poll.State{}, false, fmt.Errorf("decode poll state: %w", err)
	}
	return st, true, nil
}

func (s *Store) Save(ctx context.Context, st poll.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode poll state: %w", err)
	}
	return s.db.Put(pollStateKey, raw, nil)
}

func (s *Store) CreateParticipant(ctx context.Context, p *participant.Participant) error {
	key := []byte(participantPrefix + p.ID)

	tx, err := s.db.OpenTransaction()
	if err != nil {
		return err
	}
	exists, err := tx.Has(key, nil)
	if err != nil {
		tx.Discard()
		return err
	}
	if exists {
		tx.Discard()
		return participant.ErrHandleTaken
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now().UTC()
	}
	raw, err := json.Marshal(storedParticipant{ID: p.ID, PasswordHash: p.PasswordHash, CreatedAt: p.CreatedAt})
	if err != nil {
		tx.Discard()
		return err
	}
	if err := tx.Put(key, raw, nil); err != nil {
		tx.Discard()
		return err
	}
	return tx.Commit()
}

func (s *Store) GetParticipant(ctx context.Context, id string) (*participant.Participant, error) {
	raw, err := s.db.Get([]byte(participantPrefix+id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, participant.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sp storedParticipant
	if err := json.Unmarshal(raw, &sp); err != nil {
		return nil, fmt.Errorf("decode participant %q: %w", id, err)
	}
	return &participant.Participant{ID: sp.ID, PasswordHash: sp.PasswordHash, CreatedAt: sp.CreatedAt}, nil
}
