package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blackjack-tutor/server/advisor"
	"blackjack-tutor/server/alexa"
	"blackjack-tutor/server/config"
	"blackjack-tutor/server/game"
	"blackjack-tutor/server/logging"
	"blackjack-tutor/server/ratelimit"
	"blackjack-tutor/server/skill"
	"blackjack-tutor/server/store"
	"blackjack-tutor/server/strategy"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	var migrate bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		}
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}
	log, err := logging.New(cfg.Production(), cfg.LogLevel)
	if err != nil {
		stdlog.Fatal(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)

	if migrate {
		if err := migrateOnly(ctx, cfg); err != nil {
			log.Fatal("migrate failed", zap.Error(err))
		}
		log.Info("migrated")
		return
	}

	sessions, health, closeStore, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("session store", zap.String("kind", cfg.SessionStore), zap.Error(err))
	}
	defer closeStore()

	var eng strategy.Engine = strategy.NewTable()
	if cfg.StrategyEngineURL != "" {
		eng = strategy.NewRemote(cfg.StrategyEngineURL, cfg.StrategyEngineTimeout)
		log.Info("using remote strategy engine", zap.String("url", cfg.StrategyEngineURL))
	}
	resolver := advisor.NewResolver(eng, log.Named("advisor"))
	games := game.NewHTTPService(cfg.GameServiceURL, cfg.GameServiceTimeout)

	bj := skill.New(resolver, games, log.Named("skill"))
	d := alexa.NewDispatcher(bj, cfg.AlexaAppID, sessions, log.Named("alexa")).
		WithPrompts(skill.Prompts()).
		WithLimiter(ratelimit.New(cfg.RateLimitPerMin))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      Router(d, health, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening",
		zap.String("addr", srv.Addr),
		zap.String("session_store", cfg.SessionStore),
		zap.Bool("app_id_check", cfg.AlexaAppID != ""))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server", zap.Error(err))
	}
	log.Info("stopped")
}

func watchSignals(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	cancel()
}

func migrateOnly(ctx context.Context, cfg config.Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("--migrate needs DATABASE_URL")
	}
	db, err := store.Open(ctx, cfg.DatabaseURL, cfg.SessionTTL)
	if err != nil {
		return err
	}
	defer db.Close()
	return store.Migrate(ctx, db)
}

// openSessionStore returns the configured attribute mirror. The platform
// store is no mirror at all: attributes only travel in the envelope.
func openSessionStore(ctx context.Context, cfg config.Config, log *zap.Logger) (alexa.AttributeStore, pinger, func(), error) {
	switch cfg.SessionStore {
	case config.StorePostgres:
		db, err := store.Open(ctx, cfg.DatabaseURL, cfg.SessionTTL)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := store.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, nil, nil, err
			}
			log.Info("migrated")
		}
		go sweep(ctx, db, cfg.SessionTTL, log)
		return db, db, db.Close, nil

	case config.StoreRedis:
		rs, err := store.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		if err != nil {
			return nil, nil, nil, err
		}
		return rs, rs, func() { _ = rs.Close() }, nil
	}
	return nil, nil, func() {}, nil
}

// sweep clears expired Postgres rows; Redis expires its keys on its own.
func sweep(ctx context.Context, db *store.DB, every time.Duration, log *zap.Logger) {
	if every <= 0 {
		every = 30 * time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := db.Sweep(ctx)
			if err != nil {
				log.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("session sweep", zap.Int64("removed", n))
			}
		}
	}
}
