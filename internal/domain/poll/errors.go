package poll

import "errors"

// Error kinds. Every rejection returned by the engine unwraps to exactly one
// of these.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrDuplicateVote    = errors.New("duplicate vote")
	ErrNoExistingVote   = errors.New("no existing vote")
	ErrWindowNotElapsed = errors.New("window not elapsed")
)

// Error is a specific rejection with a stable machine-readable code.
type Error struct {
	Kind error
	Code string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

var (
	ErrNotOwner = newError(ErrUnauthorized, "not_owner", "only the owner can perform this action")

	ErrPollAlreadyActive = newError(ErrInvalidState, "poll_already_active", "a poll is already active")
	ErrPollNotActive     = newError(ErrInvalidState, "poll_not_active", "voting is not in progress")
	ErrPollNotStarted    = newError(ErrInvalidState, "poll_not_started", "no poll has been started")
	ErrPollAlreadyEnded  = newError(ErrInvalidState, "poll_already_ended", "the poll has already ended")
	ErrPollNotEnded      = newError(ErrInvalidState, "poll_not_ended", "the winner is not decided until the poll ends")

	ErrEmptyCandidates     = newError(ErrInvalidArgument, "empty_candidate_list", "candidate list cannot be empty")
	ErrBlankCandidate      = newError(ErrInvalidArgument, "blank_candidate", "candidate name cannot be blank")
	ErrDuplicateCandidate  = newError(ErrInvalidArgument, "duplicate_candidate", "candidate names must be unique")
	ErrNonPositiveDuration = newError(ErrInvalidArgument, "non_positive_duration", "duration must be greater than zero")
	ErrDurationTooLong     = newError(ErrInvalidArgument, "duration_too_long", "duration is too long")
	ErrUnknownCandidate    = newError(ErrInvalidArgument, "invalid_candidate", "the selected candidate is not in the poll")
	ErrBlankParticipant    = newError(ErrInvalidArgument, "blank_participant", "participant identifier is required")

	ErrAlreadyVoted = newError(ErrDuplicateVote, "already_voted", "you have already voted")
	ErrHasNotVoted  = newError(ErrNoExistingVote, "has_not_voted", "you have not voted yet")

	ErrVotingPeriodOpen = newError(ErrWindowNotElapsed, "voting_period_open", "voting period is still active")
)

// ErrCorruptState is returned by Restore when a persisted state violates a
// poll invariant.
var ErrCorruptState = errors.New("corrupt poll state")
