package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	_ "github.com/mohakay73/MoviePoll-SmartContract/docs"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/config"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/participant"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/poll"
	api "github.com/mohakay73/MoviePoll-SmartContract/internal/http"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/metrics"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/platform/database"
	jwtpkg "github.com/mohakay73/MoviePoll-SmartContract/internal/platform/jwt"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/repository/leveldb"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/repository/postgres"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/worker"
)

type storage struct {
	polls        poll.Repository
	participants participant.Repository
	ready        api.ReadinessCheck
	retryable    func(error) bool
	close        func() error
}

func openStorage(ctx context.Context, cfg config.Config) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageLevelDB:
		store, err := leveldb.Open(cfg.LevelDBPath)
		if err != nil {
			return nil, err
		}
		return &storage{
			polls:        store,
			participants: store,
			ready:        store.Ping,
			retryable:    leveldb.IsRetryable,
			close:        store.Close,
		}, nil
	case config.StoragePostgres:
		db, err := database.NewPostgres(ctx, cfg.DB_DSN)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &storage{
			polls:        postgres.NewPollRepo(db),
			participants: postgres.NewParticipantRepo(db),
			ready:        db.PingContext,
			retryable:    postgres.IsRetryable,
			close:        db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// @title           Movie Poll API
// @version         1.0
// @description     Single-poll voting service with owner-controlled lifecycle and JWT auth
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "event", "server_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error("storage close failed", "event", "storage_close_failed", "error", err)
		}
	}()
	logger.Info("storage ready", "event", "storage_ready", "driver", cfg.StorageDriver)

	engine := poll.NewEngine(cfg.PollOwner)
	pollSvc := poll.NewService(engine, store.polls, poll.SystemClock{}, logger)
	if err := pollSvc.Restore(ctx); err != nil {
		return fmt.Errorf("restore poll: %w", err)
	}
	metrics.SetPollStatus(int(pollSvc.Status(ctx)))

	participantSvc := participant.NewService(store.participants, cfg.PollOwner)
	if _, err := participantSvc.Seed(ctx, cfg.PollOwner, cfg.PollOwnerPass); err != nil {
		return fmt.Errorf("seed poll owner: %w", err)
	}
	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret, cfg.JWTIssuer)

	relay := &worker.EventRelay{
		Source:      engine,
		Store:       store.polls,
		Subscribers: []worker.Subscriber{worker.LogSubscriber(logger), worker.MetricsSubscriber()},
		Retryable:   store.retryable,
		Logger:      logger,
	}

	router := api.NewRouter(participantSvc, pollSvc, jwtMgr, api.Options{
		VotesPerMinute: cfg.VotesPerMinute,
		VoteBurst:      cfg.VoteBurst,
		TokenTTL:       cfg.TokenTTL,
		Ready:          store.ready,
	})
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// The relay outlives the server so the last accepted ballots are persisted.
	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		relay.Run(relayCtx)
		return nil
	})
	g.Go(func() error {
		logger.Info("server listening", "event", "server_listening", "port", cfg.Port, "owner", cfg.PollOwner)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "event", "server_shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		stopRelay()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped", "event", "server_stopped")
	return nil
}
