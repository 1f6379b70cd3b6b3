// @title        EventSphere API
// @version      1.0
// @description  Campus event management: sessions, moderation, societies and events.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	_ "github.com/eventsphere/campus-events/docs"
	"github.com/eventsphere/campus-events/internal/api"
	"github.com/eventsphere/campus-events/internal/api/metrics"
	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
	"github.com/eventsphere/campus-events/internal/core/service"
	mongodb "github.com/eventsphere/campus-events/internal/infrastructure/db/mongo"
	redisdb "github.com/eventsphere/campus-events/internal/infrastructure/db/redis"
	"github.com/eventsphere/campus-events/internal/infrastructure/genai"
	"github.com/eventsphere/campus-events/internal/infrastructure/http/handlers"
	"github.com/eventsphere/campus-events/internal/infrastructure/queue"
	"github.com/eventsphere/campus-events/internal/pkg/config"
	"github.com/eventsphere/campus-events/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	resubscribeWait = 2 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Pretty: true})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "eventsphere",
	})
	log.Info().Str("env", cfg.Env).Msg("starting eventsphere")

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped with error")
	}
	log.Info().Msg("service stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect mongo")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Stores ---
	users := mongodb.NewUserRepository(db)
	societies := mongodb.NewSocietyRepository(db)
	events := mongodb.NewEventRepository(db)
	registrations := mongodb.NewRegistrationRepository(db)
	credentials := mongodb.NewAuthRepository(db)
	bus := redisdb.NewChangeBus(rdb, logger.Component("change_bus"))

	// --- Services ---
	guard := service.NewRoleGuard()
	authService := service.NewAuthService(credentials, redisdb.NewTokenRevocations(rdb), bus, service.AuthConfig{
		JWTSecret:                cfg.JWTSecret,
		TokenTTL:                 cfg.TokenTTL,
		RequireEmailConfirmation: cfg.RequireEmailConfirmation,
	}, logger.Component("auth"))

	resolver := service.NewSessionResolver(authService, users, redisdb.NewBypassStore(rdb, cfg.SessionTTL), service.OperatorCredentials{
		Enabled:  cfg.Operator.Enabled,
		Email:    cfg.Operator.Email,
		Password: cfg.Operator.Password,
	}, logger.Component("session_resolver"))
	if cfg.Operator.Enabled {
		log.Warn().Str("email", cfg.Operator.Email).Msg("operator bootstrap sign-in is enabled")
	}

	generator := newGenerator(ctx, cfg, log)
	catalogue := service.NewEventCatalogue(events, registrations, societies, generator, guard, logger.Component("catalogue"))
	verification := service.NewVerificationService(events, users, registrations, bus, guard, logger.Component("verification"))
	societyService := service.NewSocietyService(societies, guard, logger.Component("societies"))
	provisioner := service.NewProvisioner(users, societies, logger.Component("provisioner"))

	dispatcher := queue.NewDispatcher(cfg.DispatchWorkers, logger.Component("dispatcher"), provisioner, resolver)

	e := api.NewRouter(api.Deps{
		Log:          logger.Component("http"),
		Resolver:     resolver,
		Guard:        guard,
		Verification: verification,
		Catalogue:    catalogue,
		Societies:    societyService,
		Health:       handlers.NewHealthHandler(resolver.Len),
		Readiness:    handlers.NewHealthDependenciesHandler(handlers.MongoCheck(db), handlers.RedisCheck(rdb)),
		AllowOrigins: cfg.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	dispatcher.Start(gctx)

	g.Go(func() error {
		listenForChanges(gctx, bus, dispatcher, log)
		return nil
	})

	g.Go(func() error {
		sweepSessions(gctx, resolver, cfg.SweepInterval, cfg.SessionTTL, log)
		return nil
	})

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newGenerator returns the AI text generator, or a disabled one when no key is configured.
func newGenerator(ctx context.Context, cfg *config.Config, log zerolog.Logger) ports.TextGenerator {
	if cfg.GenAI.APIKey == "" {
		log.Warn().Msg("GENAI_API_KEY not set, text generation disabled")
		return genai.Disabled{}
	}
	client, err := genai.NewClient(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model, logger.Component("genai"))
	if err != nil {
		log.Error().Err(err).Msg("failed to create text generator, text generation disabled")
		return genai.Disabled{}
	}
	return client
}

// listenForChanges feeds the change bus into the dispatcher, resubscribing after failures.
func listenForChanges(ctx context.Context, bus *redisdb.ChangeBus, dispatcher *queue.Dispatcher, log zerolog.Logger) {
	handle := func(change domain.AuthChange) {
		metrics.AuthChangesTotal.WithLabelValues(string(change.Kind)).Inc()
		if err := dispatcher.Enqueue(ctx, change); err != nil {
			log.Warn().Err(err).Str("kind", string(change.Kind)).Str("user_id", change.UserID).Msg("auth change dropped")
		}
	}
	for {
		if err := bus.Listen(ctx, handle); err != nil {
			log.Error().Err(err).Msg("auth change subscription failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(resubscribeWait):
		}
	}
}

// sweepSessions tears down sessions idle for longer than ttl.
func sweepSessions(ctx context.Context, resolver *service.SessionResolver, interval, ttl time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := resolver.Sweep(now.Add(-ttl)); n > 0 {
				metrics.SessionsSweptTotal.Add(float64(n))
				log.Debug().Int("swept", n).Msg("idle sessions torn down")
			}
			metrics.LiveSessions.Set(float64(resolver.Len()))
		}
	}
}
