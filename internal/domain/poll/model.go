package poll

import (
	"context"
	"fmt"
	"time"
)

type Status int

const (
	StatusNotStarted Status = iota
	StatusActive
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusActive:
		return "active"
	case StatusEnded:
		return "ended"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStatus(v string) (Status, error) {
	switch v {
	case "not_started":
		return StatusNotStarted, nil
	case "active":
		return StatusActive, nil
	case "ended":
		return StatusEnded, nil
	default:
		return StatusNotStarted, fmt.Errorf("unknown poll status %q", v)
	}
}

type CandidateTally struct {
	Name  string `json:"name"`
	Votes int64  `json:"votes"`
}

// Poll is a read-only view of the current epoch.
type Poll struct {
	Epoch      uint64           `json:"epoch"`
	Status     Status           `json:"status"`
	Candidates []CandidateTally `json:"candidates"`
	TotalVotes int64            `json:"total_votes"`
	ClosesAt   *time.Time       `json:"closes_at,omitempty"`
	Winner     string           `json:"winner,omitempty"`
}

type Ballot struct {
	Participant string `json:"participant"`
	HasVoted    bool   `json:"has_voted"`
	Candidate   string `json:"candidate,omitempty"`
}

// State is the persisted form of the engine: the poll plus ballot records.
type State struct {
	Epoch      uint64            `json:"epoch"`
	LastSeq    uint64            `json:"last_seq"`
	Status     Status            `json:"status"`
	Candidates []string          `json:"candidates"`
	Tally      map[string]int64  `json:"tally"`
	ClosesAt   time.Time         `json:"closes_at"`
	Winner     string            `json:"winner,omitempty"`
	Ballots    map[string]string `json:"ballots"`
}

type EventType string

const (
	EventPollStarted EventType = "poll.started"
	EventVoteCast    EventType = "poll.vote_cast"
	EventPollEnded   EventType = "poll.ended"
)

// Event is emitted once per successful start, vote, revote or end. Data is
// one of PollStarted, VoteCast or PollEnded.
type Event struct {
	Seq   uint64    `json:"seq"`
	Epoch uint64    `json:"epoch"`
	Type  EventType `json:"type"`
	Data  any       `json:"data"`
}

type PollStarted struct {
	Candidates []string  `json:"candidates"`
	ClosesAt   time.Time `json:"closes_at"`
}

type VoteCast struct {
	Participant string `json:"participant"`
	Candidate   string `json:"candidate"`
	// Previous is set when the vote replaced an earlier choice.
	Previous string `json:"previous,omitempty"`
}

type PollEnded struct {
	Winner     string           `json:"winner"`
	FinalTally []CandidateTally `json:"final_tally"`
}

type Repository interface {
	// Load returns false when nothing has been persisted yet.
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, st State) error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
