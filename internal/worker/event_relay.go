package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/poll"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/retry"
)

// Envelope wraps a poll event for delivery to subscribers.
type Envelope struct {
	ID         string         `json:"id"`
	Seq        uint64         `json:"seq"`
	Epoch      uint64         `json:"epoch"`
	Type       poll.EventType `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       any            `json:"data"`
}

type Subscriber interface {
	Handle(ctx context.Context, env Envelope)
}

type SubscriberFunc func(ctx context.Context, env Envelope)

func (f SubscriberFunc) Handle(ctx context.Context, env Envelope) { f(ctx, env) }

// EventSource is the outbound side of the poll engine.
type EventSource interface {
	Notify() <-chan struct{}
	DrainEvents() []poll.Event
	State() poll.State
}

// EventRelay persists the engine state and fans events out to subscribers.
// It is the single writer to the repository, so snapshots are saved in the
// order the engine produced them.
type EventRelay struct {
	Source      EventSource
	Store       poll.Repository
	Subscribers []Subscriber
	Retryable   func(error) bool
	Attempts    int
	BaseDelay   time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

func (r *EventRelay) Run(ctx context.Context) {
	logger := r.logger()
	logger.Info("event relay started", "event", "relay_started", "module", "worker", "layer", "worker")
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if r.Flush(flushCtx) == 0 {
				r.persist(flushCtx)
			}
			cancel()
			logger.Info("event relay stopped", "event", "relay_stopped", "module", "worker", "layer", "worker")
			return
		case <-r.Source.Notify():
			r.Flush(ctx)
		}
	}
}

// Flush drains pending events, saves the current state and delivers the
// events in order. It returns the number of events delivered.
func (r *EventRelay) Flush(ctx context.Context) int {
	events := r.Source.DrainEvents()
	if len(events) == 0 {
		return 0
	}

	r.persist(ctx)

	occurredAt := r.now()
	for _, ev := range events {
		env := Envelope{
			ID:         uuid.NewString(),
			Seq:        ev.Seq,
			Epoch:      ev.Epoch,
			Type:       ev.Type,
			OccurredAt: occurredAt,
			Data:       ev.Data,
		}
		for _, sub := range r.Subscribers {
			sub.Handle(ctx, env)
		}
	}
	return len(events)
}

func (r *EventRelay) persist(ctx context.Context) {
	if r.Store == nil {
		return
	}
	st := r.Source.State()
	err := retry.DoWithRetryIf(ctx, r.attempts(), r.baseDelay(), r.retryable(), func() error {
		return r.Store.Save(ctx, st)
	})
	if err != nil {
		persistFailed(r.logger(), st, err)
	}
}

func (r *EventRelay) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *EventRelay) attempts() int {
	if r.Attempts <= 0 {
		return 3
	}
	return r.Attempts
}

func (r *EventRelay) baseDelay() time.Duration {
	if r.BaseDelay <= 0 {
		return 100 * time.Millisecond
	}
	return r.BaseDelay
}

func (r *EventRelay) retryable() func(error) bool {
	if r.Retryable == nil {
		return func(error) bool { return true }
	}
	return r.Retryable
}

func (r *EventRelay) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now()
}
