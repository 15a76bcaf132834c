package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Intellimint/SalesCaller/internal/audit"
	"github.com/Intellimint/SalesCaller/internal/auth"
	"github.com/Intellimint/SalesCaller/internal/calls"
	"github.com/Intellimint/SalesCaller/internal/campaigns"
	"github.com/Intellimint/SalesCaller/internal/config"
	"github.com/Intellimint/SalesCaller/internal/dialer"
	"github.com/Intellimint/SalesCaller/internal/events"
	"github.com/Intellimint/SalesCaller/internal/httpapi"
	"github.com/Intellimint/SalesCaller/internal/leads"
	"github.com/Intellimint/SalesCaller/internal/outcomes"
	"github.com/Intellimint/SalesCaller/internal/prompts"
	"github.com/Intellimint/SalesCaller/internal/stats"
	"github.com/Intellimint/SalesCaller/internal/telephony"
	"github.com/Intellimint/SalesCaller/pkg/logger"
	"github.com/Intellimint/SalesCaller/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type repoSet struct {
	leads     leads.Repository
	calls     calls.Repository
	campaigns campaigns.Repository
	audit     audit.Repository
}

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	repos, cleanup, err := openRepos(rootCtx, cfg)
	if err != nil {
		log.Error("store init failed", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	defer cleanup()

	var pub events.Publisher = events.NopPublisher{}
	if cfg.Redis.Host != "" {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		pub = events.NewRedisPublisher(rdb, events.DefaultChannel)
	}

	auditor := audit.NewService(repos.audit)
	promptStore := prompts.NewFSStore(cfg.Dialer.PromptDir)

	provider := telephony.NewBlandProvider(telephony.BlandOptions{
		APIKey:      cfg.Bland.APIKey,
		BaseURL:     cfg.Bland.BaseURL,
		VoiceID:     cfg.Bland.VoiceID,
		CallbackURL: cfg.Bland.CallbackURL,
	}, nil)

	sched := dialer.New(dialer.Config{
		Campaigns: repos.campaigns,
		Leads:     repos.leads,
		Calls:     repos.calls,
		Provider:  provider,
		Prompts:   prompts.NewRenderer(promptStore),
		Audit:     auditor,
		Events:    pub,
		Logger:    log,
		Interval:  cfg.Dialer.TickInterval,
	})
	go sched.Run(rootCtx)

	controller := campaigns.NewController(repos.campaigns, repos.leads, sched, auditor)

	h := httpapi.Handlers{
		Auth:             authManager,
		OperatorUser:     cfg.Auth.OperatorUser,
		OperatorPassword: cfg.Auth.OperatorPassword,
		Importer:         leads.NewImporter(repos.leads),
		Leads:            repos.leads,
		Calls:            repos.calls,
		Campaigns:        controller,
		Outcomes:         outcomes.NewService(repos.calls, repos.leads, auditor, pub),
		Prompts:          promptStore,
		Stats:            stats.NewService(repos.leads, repos.calls),
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h, auth.RequireAccessToken(authManager))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

// openRepos builds the persistence layer for the configured store driver.
// The returned cleanup closes the backing connection, if any.
func openRepos(ctx context.Context, cfg config.Config) (repoSet, func(), error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := utils.OpenPostgres(ctx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			return repoSet{}, nil, err
		}
		return repoSet{
			leads:     leads.NewPostgresRepo(db),
			calls:     calls.NewPostgresRepo(db),
			campaigns: campaigns.NewPostgresRepo(db),
			audit:     audit.NewPostgresRepo(db),
		}, func() { _ = db.Close() }, nil
	default:
		return repoSet{
			leads:     leads.NewMemoryRepo(),
			calls:     calls.NewMemoryRepo(),
			campaigns: campaigns.NewMemoryRepo(),
			audit:     audit.NewMemoryRepo(),
		}, func() {}, nil
	}
}
