package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/auth"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/behavior"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/config"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/dal"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/draft"
	grpcserver "github.com/Billy-Davies-2/gridiron-draft-sim/internal/grpc"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/handlers"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/league"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/mocks"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/narrative"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/personality"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/pubsub"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/textgen"
)

const shutdownTimeout = 30 * time.Second

// behaviorSource is what the personality factory and evaluator read from
type behaviorSource interface {
	behavior.Provider
	behavior.SentimentSource
}

func main() {
	os.Exit(run())
}

// run wires the service and blocks until shutdown. Returning instead of
// exiting lets every deferred Close run.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting draft simulation service", "environment", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	var store dal.Store
	switch cfg.DBDriver {
	case "memory":
		store = dal.NewMemoryStore()
		logger.Info("Using in-memory data store")
	case "sqlite":
		store, err = dal.NewSQLiteStore(ctx, cfg.SQLiteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			return 1
		}
		logger.Info("Connected to SQLite database", "file", cfg.SQLiteFile)
	case "postgres":
		store, err = dal.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize Postgres", "error", err)
			return 1
		}
		logger.Info("Connected to Postgres database")
	}
	defer store.Close()

	// Events: embedded NATS in development, real NATS JetStream otherwise
	var upstream interface {
		pubsub.Upstream
		Close()
	}
	if cfg.IsDevelopment() {
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = cfg.NATSSubject
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			return 1
		}
		upstream = embedded
		logger.Info("Embedded NATS server ready", "url", embedded.ServerURL())
	} else {
		remote, err := pubsub.NewNATSPubSub(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			return 1
		}
		upstream = remote
	}
	defer upstream.Close()
	ps := pubsub.NewWithUpstream(upstream)

	// Tick locks are shared through Redis when more than one instance runs
	var locker draft.Locker = draft.NewMemoryLocker()
	if cfg.RedisAddr != "" {
		redisLocker, err := draft.NewRedisLocker(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			return 1
		}
		defer redisLocker.Close()
		locker = redisLocker
		logger.Info("Using Redis tick locks", "address", cfg.RedisAddr)
	}

	// Behavior signals (ClickHouse in production)
	var signals behaviorSource
	if cfg.IsDevelopment() {
		signals = mocks.NewMockBehaviorProvider()
	} else {
		ch, err := behavior.NewClickHouseProvider(cfg.ClickHouseAddr, cfg.ClickHouseDB, cfg.ClickHouseUser, cfg.ClickHousePassword)
		if err != nil {
			logger.Error("Failed to initialize ClickHouse", "error", err)
			return 1
		}
		defer ch.Close()
		signals = ch
		logger.Info("Connected to ClickHouse", "address", cfg.ClickHouseAddr, "database", cfg.ClickHouseDB)
	}

	// Generated text is optional
	var gen textgen.Generator
	if cfg.OpenAIAPIKey != "" {
		openai, err := textgen.NewOpenAIGenerator(textgen.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			logger.Error("Failed to initialize text generation", "error", err)
			return 1
		}
		gen = openai
		logger.Info("Text generation enabled", "model", cfg.OpenAIModel)
	} else {
		logger.Info("Text generation disabled, using templates")
	}
	writer := textgen.NewWriter(gen, cfg.TextGenTimeout)

	personas := personality.NewFactory(signals, writer)

	orch := draft.New(draft.Options{
		Store:                store,
		Publisher:            ps,
		Personalities:        personas,
		Text:                 writer,
		Sentiment:            signals,
		Locker:               locker,
		TickEvery:            cfg.TickInterval,
		LiveMode:             cfg.LiveMode,
		LockTTL:              cfg.TickLockTTL,
		DefaultRounds:        cfg.DefaultRounds,
		DefaultPickTimeLimit: cfg.PickTimeLimit,
	})
	if n, err := orch.RecoverActive(ctx); err != nil {
		logger.Error("Failed to recover active drafts", "error", err)
	} else if n > 0 {
		logger.Info("Recovered active drafts", "count", n)
	}

	leagues := league.NewService(league.Options{
		Store:         store,
		Publisher:     ps,
		Personalities: personas,
		Narrator:      narrative.NewAssigner(writer),
		Sentiment:     signals,
		Rounds:        cfg.DefaultRounds,
	})

	// Authentication: mock in development, Authentik OAuth2 otherwise
	var authProvider auth.Provider
	if cfg.IsDevelopment() {
		logger.Info("Using mock authentication for local development")
		authProvider = auth.NewMockAuth()
	} else {
		authProvider = auth.NewAuthentikAuth(&auth.AuthentikConfig{
			BaseURL:      cfg.AuthentikBaseURL,
			ClientID:     cfg.AuthentikClientID,
			ClientSecret: cfg.AuthentikClientSecret,
			RedirectURL:  cfg.AuthentikRedirectURL,
		})
		logger.Info("Using Authentik authentication", "url", cfg.AuthentikBaseURL)
	}

	health := handlers.NewHealth()
	health.AddCheck("database", true, func(ctx context.Context) error {
		_, err := store.ListDraftIDs(ctx, models.StatusActive)
		return err
	})
	health.AddCheck("behavior", false, func(ctx context.Context) error {
		_, err := signals.MarketSentiment(ctx)
		return err
	})
	health.AddInfo("active_drafts", func() interface{} { return orch.Scheduler().Count() })
	health.AddInfo("event_subscribers", func() interface{} { return ps.SubscriberCount() })

	api := handlers.NewAPIHandlers(orch, leagues, ps)
	router := handlers.Router(api, handlers.NewHub(ps), health, authProvider)

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.CommissionerOnly(authProvider.SessionUser)))
	grpcserver.Register(grpcServer, grpcserver.NewServer(orch, leagues, ps))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		lis, err := net.Listen("tcp", "0.0.0.0:"+cfg.GRPCPort)
		if err != nil {
			return err
		}
		logger.Info("gRPC server starting", "address", lis.Addr().String())
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		if serr := orch.Scheduler().Shutdown(shutdownCtx); serr != nil {
			logger.Warn("Draft scheduler did not drain", "error", serr)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		return 1
	}
	logger.Info("Server stopped")
	return 0
}
