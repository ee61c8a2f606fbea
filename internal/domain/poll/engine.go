package poll

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

// Engine is the poll state machine. It holds at most one poll epoch and its
// ballot records behind a single RWMutex: mutations take the write lock for
// their whole check-then-apply sequence, queries take the read lock.
type Engine struct {
	owner string

	mu         sync.RWMutex
	epoch      uint64
	seq        uint64
	status     Status
	candidates []string
	tally      map[string]int64
	closesAt   time.Time
	winner     string
	ballots    map[string]string

	pending []Event
	notify  chan struct{}
}

func NewEngine(owner string) *Engine {
	return &Engine{
		owner:   owner,
		status:  StatusNotStarted,
		tally:   make(map[string]int64),
		ballots: make(map[string]string),
		notify:  make(chan struct{}, 1),
	}
}

func (e *Engine) Owner() string { return e.owner }

// Start replaces the poll with a fresh Active epoch closing at now+durationSeconds.
func (e *Engine) Start(caller string, candidates []string, durationSeconds int64, now time.Time) (Poll, error) {
	if caller != e.owner {
		return Poll{}, ErrNotOwner
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == StatusActive {
		return Poll{}, ErrPollAlreadyActive
	}
	names, err := normalizeCandidates(candidates)
	if err != nil {
		return Poll{}, err
	}
	if durationSeconds <= 0 {
		return Poll{}, ErrNonPositiveDuration
	}
	if durationSeconds > maxDurationSeconds {
		return Poll{}, ErrDurationTooLong
	}

	tally := make(map[string]int64, len(names))
	for _, name := range names {
		tally[name] = 0
	}

	e.epoch++
	e.status = StatusActive
	e.candidates = names
	e.tally = tally
	e.closesAt = now.Add(time.Duration(durationSeconds) * time.Second)
	e.winner = ""
	e.ballots = make(map[string]string)

	e.emit(EventPollStarted, PollStarted{
		Candidates: append([]string(nil), names...),
		ClosesAt:   e.closesAt,
	})
	return e.snapshotLocked(), nil
}

func (e *Engine) Vote(caller, candidate string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusActive {
		return ErrPollNotActive
	}
	if _, ok := e.tally[candidate]; !ok {
		return ErrUnknownCandidate
	}
	if caller == "" {
		return ErrBlankParticipant
	}
	if _, voted := e.ballots[caller]; voted {
		return ErrAlreadyVoted
	}

	e.ballots[caller] = candidate
	e.tally[candidate]++

	e.emit(EventVoteCast, VoteCast{Participant: caller, Candidate: candidate})
	return nil
}

// Revote moves the caller's existing ballot to candidate. Choosing the same
// candidate again leaves the tally unchanged but still succeeds.
func (e *Engine) Revote(caller, candidate string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusActive {
		return ErrPollNotActive
	}
	if _, ok := e.tally[candidate]; !ok {
		return ErrUnknownCandidate
	}
	if caller == "" {
		return ErrBlankParticipant
	}
	previous, voted := e.ballots[caller]
	if !voted {
		return ErrHasNotVoted
	}

	e.tally[previous]--
	e.ballots[caller] = candidate
	e.tally[candidate]++

	e.emit(EventVoteCast, VoteCast{Participant: caller, Candidate: candidate, Previous: previous})
	return nil
}

// End finalizes the active epoch once now has reached closesAt. Ties go to
// the candidate declared first.
func (e *Engine) End(caller string, now time.Time) (Poll, error) {
	if caller != e.owner {
		return Poll{}, ErrNotOwner
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.status {
	case StatusNotStarted:
		return Poll{}, ErrPollNotActive
	case StatusEnded:
		return Poll{}, ErrPollAlreadyEnded
	}
	if now.Before(e.closesAt) {
		return Poll{}, ErrVotingPeriodOpen
	}

	e.status = StatusEnded
	e.winner = e.leaderLocked()

	e.emit(EventPollEnded, PollEnded{Winner: e.winner, FinalTally: e.talliesLocked()})
	return e.snapshotLocked(), nil
}

func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

func (e *Engine) Tally(candidate string) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.status == StatusNotStarted {
		return 0, ErrPollNotStarted
	}
	votes, ok := e.tally[candidate]
	if !ok {
		return 0, ErrUnknownCandidate
	}
	return votes, nil
}

func (e *Engine) Winner() (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.status != StatusEnded {
		return "", ErrPollNotEnded
	}
	return e.winner, nil
}

func (e *Engine) Ballot(participant string) Ballot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	candidate, ok := e.ballots[participant]
	return Ballot{Participant: participant, HasVoted: ok, Candidate: candidate}
}

func (e *Engine) Snapshot() Poll {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

// State returns a deep copy suitable for persistence.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := State{
		Epoch:      e.epoch,
		LastSeq:    e.seq,
		Status:     e.status,
		Candidates: append([]string(nil), e.candidates...),
		Tally:      make(map[string]int64, len(e.tally)),
		ClosesAt:   e.closesAt,
		Winner:     e.winner,
		Ballots:    make(map[string]string, len(e.ballots)),
	}
	for k, v := range e.tally {
		st.Tally[k] = v
	}
	for k, v := range e.ballots {
		st.Ballots[k] = v
	}
	return st
}

// Restore replaces the engine state with st after checking every poll
// invariant. Pending events are discarded.
func (e *Engine) Restore(st State) error {
	if err := validateState(st); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.epoch = st.Epoch
	e.seq = st.LastSeq
	e.status = st.Status
	e.candidates = append([]string(nil), st.Candidates...)
	e.tally = make(map[string]int64, len(st.Candidates))
	for _, name := range st.Candidates {
		e.tally[name] = st.Tally[name]
	}
	e.closesAt = st.ClosesAt
	e.winner = st.Winner
	e.ballots = make(map[string]string, len(st.Ballots))
	for k, v := range st.Ballots {
		e.ballots[k] = v
	}
	e.pending = nil
	return nil
}

// Notify is signalled whenever new events are pending.
func (e *Engine) Notify() <-chan struct{} { return e.notify }

// DrainEvents hands over pending events in the order their operations were
// applied. Each event is returned exactly once.
func (e *Engine) DrainEvents() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.pending
	e.pending = nil
	return out
}

func (e *Engine) emit(typ EventType, data any) {
	e.seq++
	e.pending = append(e.pending, Event{Seq: e.seq, Epoch: e.epoch, Type: typ, Data: data})
	select {
	case e.notify <- struct{}{}:
	default:
	}
}

func (e *Engine) leaderLocked() string {
	var (
		leader string
		best   int64 = -1
	)
	for _, name := range e.candidates {
		if votes := e.tally[name]; votes > best {
			leader, best = name, votes
		}
	}
	return leader
}

func (e *Engine) talliesLocked() []CandidateTally {
	out := make([]CandidateTally, 0, len(e.candidates))
	for _, name := range e.candidates {
		out = append(out, CandidateTally{Name: name, Votes: e.tally[name]})
	}
	return out
}

func (e *Engine) snapshotLocked() Poll {
	p := Poll{
		Epoch:      e.epoch,
		Status:     e.status,
		Candidates: e.talliesLocked(),
		TotalVotes: int64(len(e.ballots)),
		Winner:     e.winner,
	}
	if e.status != StatusNotStarted {
		closesAt := e.closesAt
		p.ClosesAt = &closesAt
	}
	return p
}

func normalizeCandidates(candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidates
	}
	names := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		name := strings.TrimSpace(c)
		if name == "" {
			return nil, ErrBlankCandidate
		}
		if _, dup := seen[name]; dup {
			return nil, ErrDuplicateCandidate
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

func validateState(st State) error {
	switch st.Status {
	case StatusNotStarted:
		if len(st.Candidates) != 0 || len(st.Ballots) != 0 || st.Winner != "" {
			return fmt.Errorf("%w: idle poll carries data", ErrCorruptState)
		}
		return nil
	case StatusActive, StatusEnded:
	default:
		return fmt.Errorf("%w: unknown status %d", ErrCorruptState, int(st.Status))
	}

	if len(st.Candidates) == 0 {
		return fmt.Errorf("%w: no candidates", ErrCorruptState)
	}
	if len(st.Tally) != len(st.Candidates) {
		return fmt.Errorf("%w: tally keys do not match candidates", ErrCorruptState)
	}
	seen := make(map[string]struct{}, len(st.Candidates))
	var sum int64
	for _, name := range st.Candidates {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate candidate %q", ErrCorruptState, name)
		}
		seen[name] = struct{}{}
		votes, ok := st.Tally[name]
		if !ok || votes < 0 {
			return fmt.Errorf("%w: bad tally for %q", ErrCorruptState, name)
		}
		sum += votes
	}
	if sum != int64(len(st.Ballots)) {
		return fmt.Errorf("%w: tally sum %d != %d ballots", ErrCorruptState, sum, len(st.Ballots))
	}
	counted := make(map[string]int64, len(st.Candidates))
	for participant, candidate := range st.Ballots {
		if _, ok := seen[candidate]; !ok {
			return fmt.Errorf("%w: ballot of %q names unknown candidate", ErrCorruptState, participant)
		}
		counted[candidate]++
	}
	for _, name := range st.Candidates {
		if counted[name] != st.Tally[name] {
			return fmt.Errorf("%w: tally for %q disagrees with ballots", ErrCorruptState, name)
		}
	}

	if st.Status == StatusActive {
		if st.Winner != "" {
			return fmt.Errorf("%w: active poll has a winner", ErrCorruptState)
		}
		return nil
	}
	if _, ok := seen[st.Winner]; !ok {
		return fmt.Errorf("%w: winner %q is not a candidate", ErrCorruptState, st.Winner)
	}
	for _, name := range st.Candidates {
		if st.Tally[name] > st.Tally[st.Winner] {
			return fmt.Errorf("%w: winner %q is not the leader", ErrCorruptState, st.Winner)
		}
	}
	return nil
}
