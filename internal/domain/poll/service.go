package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type Service struct {
	engine *Engine
	repo   Repository
	clock  Clock
	logger *slog.Logger
}

func NewService(engine *Engine, repo Repository, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{engine: engine, repo: repo, clock: clock, logger: logger}
}

// Restore loads the last persisted state into the engine. An empty store
// leaves the engine in NotStarted.
func (s *Service) Restore(ctx context.Context) error {
	st, ok, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load poll state: %w", err)
	}
	if !ok {
		s.logger.Info("no persisted poll state",
			"event", "poll_restore_empty",
			"module", "poll",
			"layer", "application",
		)
		return nil
	}
	if err := s.engine.Restore(st); err != nil {
		return err
	}
	s.logger.Info("poll state restored",
		"event", "poll_restored",
		"module", "poll",
		"layer", "application",
		"epoch", st.Epoch,
		"status", st.Status.String(),
		"ballots", len(st.Ballots),
	)
	return nil
}

func (s *Service) Start(ctx context.Context, caller string, candidates []string, durationSeconds int64) (Poll, error) {
	p, err := s.engine.Start(caller, candidates, durationSeconds, s.clock.Now())
	if err != nil {
		s.rejected(ctx, "start", caller, err)
		return Poll{}, err
	}
	s.logger.InfoContext(ctx, "poll started",
		"event", "poll_started",
		"module", "poll",
		"layer", "application",
		"epoch", p.Epoch,
		"candidates", len(p.Candidates),
		"closes_at", p.ClosesAt,
	)
	return p, nil
}

func (s *Service) Vote(ctx context.Context, caller, candidate string) error {
	if err := s.engine.Vote(caller, candidate); err != nil {
		s.rejected(ctx, "vote", caller, err)
		return err
	}
	s.logger.DebugContext(ctx, "vote accepted",
		"event", "poll_vote_accepted",
		"module", "poll",
		"layer", "application",
		"participant", caller,
		"candidate", candidate,
	)
	return nil
}

func (s *Service) Revote(ctx context.Context, caller, candidate string) error {
	if err := s.engine.Revote(caller, candidate); err != nil {
		s.rejected(ctx, "revote", caller, err)
		return err
	}
	s.logger.DebugContext(ctx, "revote accepted",
		"event", "poll_revote_accepted",
		"module", "poll",
		"layer", "application",
		"participant", caller,
		"candidate", candidate,
	)
	return nil
}

func (s *Service) End(ctx context.Context, caller string) (Poll, error) {
	p, err := s.engine.End(caller, s.clock.Now())
	if err != nil {
		s.rejected(ctx, "end", caller, err)
		return Poll{}, err
	}
	s.logger.InfoContext(ctx, "poll ended",
		"event", "poll_ended",
		"module", "poll",
		"layer", "application",
		"epoch", p.Epoch,
		"winner", p.Winner,
		"total_votes", p.TotalVotes,
	)
	return p, nil
}

func (s *Service) Snapshot(ctx context.Context) Poll {
	return s.engine.Snapshot()
}

func (s *Service) Status(ctx context.Context) Status {
	return s.engine.Status()
}

func (s *Service) Tally(ctx context.Context, candidate string) (int64, error) {
	return s.engine.Tally(candidate)
}

func (s *Service) Winner(ctx context.Context) (string, error) {
	return s.engine.Winner()
}

func (s *Service) Ballot(ctx context.Context, participant string) Ballot {
	return s.engine.Ballot(participant)
}

func (s *Service) Owner() string {
	return s.engine.Owner()
}

func (s *Service) rejected(ctx context.Context, op, caller string, err error) {
	code := "unknown"
	var pe *Error
	if errors.As(err, &pe) {
		code = pe.Code
	}
	s.logger.WarnContext(ctx, "poll operation rejected",
		"event", "poll_operation_rejected",
		"module", "poll",
		"layer", "application",
		"operation", op,
		"participant", caller,
		"code", code,
	)
}
