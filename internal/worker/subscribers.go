package worker

import (
	"context"
	"log/slog"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/poll"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/metrics"
)

// LogSubscriber writes every delivered event as a structured log record.
func LogSubscriber(logger *slog.Logger) Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return SubscriberFunc(func(ctx context.Context, env Envelope) {
		attrs := []any{
			"event", "poll_event_delivered",
			"module", "worker",
			"layer", "worker",
			"event_id", env.ID,
			"type", string(env.Type),
			"seq", env.Seq,
			"epoch", env.Epoch,
		}
		switch d := env.Data.(type) {
		case poll.PollStarted:
			attrs = append(attrs, "candidates", d.Candidates, "closes_at", d.ClosesAt)
		case poll.VoteCast:
			attrs = append(attrs, "participant", d.Participant, "candidate", d.Candidate)
			if d.Previous != "" {
				attrs = append(attrs, "previous", d.Previous)
			}
		case poll.PollEnded:
			attrs = append(attrs, "winner", d.Winner, "final_tally", d.FinalTally)
		}
		logger.InfoContext(ctx, "poll event", attrs...)
	})
}

// MetricsSubscriber counts events and tracks the poll status gauge.
func MetricsSubscriber() Subscriber {
	return SubscriberFunc(func(ctx context.Context, env Envelope) {
		metrics.IncEvent(string(env.Type))
		switch env.Type {
		case poll.EventPollStarted:
			metrics.SetPollStatus(int(poll.StatusActive))
		case poll.EventPollEnded:
			metrics.SetPollStatus(int(poll.StatusEnded))
		}
	})
}

func persistFailed(logger *slog.Logger, st poll.State, err error) {
	metrics.IncPersistFailure()
	logger.Error("poll state persist failed",
		"event", "poll_persist_failed",
		"module", "worker",
		"layer", "worker",
		"epoch", st.Epoch,
		"last_seq", st.LastSeq,
		"error", err.Error(),
	)
}
