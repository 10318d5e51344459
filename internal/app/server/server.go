package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"smartleave/internal/domain/core"
	"smartleave/internal/domain/leave"
	"smartleave/internal/platform/config"
	"smartleave/internal/platform/db"
	"smartleave/internal/platform/metrics"
	"smartleave/internal/transport/http/api"
	authhandler "smartleave/internal/transport/http/handlers/auth"
	leavehandler "smartleave/internal/transport/http/handlers/leave"
	"smartleave/internal/transport/http/middleware"
)

type App struct {
	Config    config.Config
	Pool      *pgxpool.Pool
	Collector *metrics.Collector
	Router    http.Handler
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	app := New(cfg, pool)

	log.Printf("leave server listening on %s", cfg.Addr)
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      app.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// New wires stores, handlers and middleware into a ready router. Kept
// separate from Run so tests can build an App over any pool.
func New(cfg config.Config, pool *pgxpool.Pool) *App {
	collector := metrics.New()

	coreStore := core.NewStore(pool)
	leaveService := leave.NewService(leave.NewStore(pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(coreStore, cfg.JWTSecret, cfg.TokenTTL)
		r.Post("/auth/login", authHandler.HandleLogin)

		leaveHandler := leavehandler.NewHandler(leaveService)
		leaveHandler.RegisterRoutes(r)
	})

	return &App{
		Config:    cfg,
		Pool:      pool,
		Collector: collector,
		Router:    router,
	}
}
