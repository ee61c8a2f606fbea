package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/poll"
)

type recordingStore struct {
	mu     sync.Mutex
	saved  []poll.State
	failN  int
	calls  int
	failOn error
}

func (s *recordingStore) Load(ctx context.Context) (poll.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return poll.State{}, false, nil
	}
	return s.saved[len(s.saved)-1], true, nil
}

func (s *recordingStore) Save(ctx context.Context, st poll.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failN {
		return s.failOn
	}
	s.saved = append(s.saved, st)
	return nil
}

type collector struct {
	mu   sync.Mutex
	envs []Envelope
}

func (c *collector) Handle(ctx context.Context, env Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.envs = append(c.envs, env)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.envs)
}

var start = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func TestFlushPersistsAndDeliversInOrder(t *testing.T) {
	e := poll.NewEngine("owner")
	if _, err := e.Start("owner", []string{"Matrix", "Batman"}, 10, start); err != nil {
		t.Fatal(err)
	}
	_ = e.Vote("p1", "Matrix")
	_ = e.Vote("p2", "Batman")

	store := &recordingStore{}
	sink := &collector{}
	relay := &EventRelay{
		Source:      e,
		Store:       store,
		Subscribers: []Subscriber{sink, MetricsSubscriber(), LogSubscriber(nil)},
		Now:         func() time.Time { return start },
	}

	if n := relay.Flush(context.Background()); n != 3 {
		t.Fatalf("expected 3 events, got %d", n)
	}
	if len(store.saved) != 1 || len(store.saved[0].Ballots) != 2 {
		t.Fatalf("expected one snapshot with two ballots, got %+v", store.saved)
	}

	wantTypes := []poll.EventType{poll.EventPollStarted, poll.EventVoteCast, poll.EventVoteCast}
	if sink.len() != len(wantTypes) {
		t.Fatalf("expected %d envelopes, got %d", len(wantTypes), sink.len())
	}
	for i, env := range sink.envs {
		if env.Type != wantTypes[i] || env.Seq != uint64(i+1) {
			t.Fatalf("envelope %d: %+v", i, env)
		}
		if _, err := uuid.Parse(env.ID); err != nil {
			t.Fatalf("envelope %d has bad id %q", i, env.ID)
		}
		if !env.OccurredAt.Equal(start) {
			t.Fatalf("envelope %d occurred at %v", i, env.OccurredAt)
		}
	}

	if n := relay.Flush(context.Background()); n != 0 {
		t.Fatalf("expected nothing left, got %d", n)
	}
	if store.calls != 1 {
		t.Fatalf("empty flush should not save, calls=%d", store.calls)
	}
}

func TestFlushRetriesTransientSaveFailures(t *testing.T) {
	e := poll.NewEngine("owner")
	if _, err := e.Start("owner", []string{"A"}, 10, start); err != nil {
		t.Fatal(err)
	}

	transient := errors.New("transient")
	store := &recordingStore{failN: 2, failOn: transient}
	relay := &EventRelay{
		Source:    e,
		Store:     store,
		BaseDelay: time.Millisecond,
		Retryable: func(err error) bool { return errors.Is(err, transient) },
	}
	relay.Flush(context.Background())
	if store.calls != 3 || len(store.saved) != 1 {
		t.Fatalf("expected success on third attempt, calls=%d saved=%d", store.calls, len(store.saved))
	}
}

func TestFlushDeliversEvenWhenSaveFails(t *testing.T) {
	e := poll.NewEngine("owner")
	if _, err := e.Start("owner", []string{"A"}, 10, start); err != nil {
		t.Fatal(err)
	}
	store := &recordingStore{failN: 10, failOn: errors.New("disk full")}
	sink := &collector{}
	relay := &EventRelay{
		Source:      e,
		Store:       store,
		Subscribers: []Subscriber{sink},
		Retryable:   func(error) bool { return false },
	}
	relay.Flush(context.Background())
	if store.calls != 1 {
		t.Fatalf("permanent failure should not be retried, calls=%d", store.calls)
	}
	if sink.len() != 1 {
		t.Fatalf("event not delivered")
	}
}

func TestRunDrainsUntilCanceled(t *testing.T) {
	e := poll.NewEngine("owner")
	store := &recordingStore{}
	sink := &collector{}
	relay := &EventRelay{Source: e, Store: store, Subscribers: []Subscriber{sink}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()

	if _, err := e.Start("owner", []string{"A", "B"}, 10, start); err != nil {
		t.Fatal(err)
	}
	_ = e.Vote("p1", "B")

	deadline := time.After(2 * time.Second)
	for sink.len() < 2 {
		select {
		case <-deadline:
			t.Fatalf("relay delivered %d events", sink.len())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done

	st, ok, _ := store.Load(context.Background())
	if !ok || st.Tally["B"] != 1 {
		t.Fatalf("final state not persisted: %+v", st)
	}
}
