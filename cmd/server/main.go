package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orbitronic/internal/config"
	"github.com/Skotchmaster/orbitronic/internal/db"
	"github.com/Skotchmaster/orbitronic/internal/events"
	"github.com/Skotchmaster/orbitronic/internal/handlers"
	"github.com/Skotchmaster/orbitronic/internal/logging"
	"github.com/Skotchmaster/orbitronic/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/orbitronic/internal/middleware/logging"
	"github.com/Skotchmaster/orbitronic/internal/repo"
	"github.com/Skotchmaster/orbitronic/internal/search"
	"github.com/Skotchmaster/orbitronic/internal/seed"
	"github.com/Skotchmaster/orbitronic/internal/service"
	"github.com/Skotchmaster/orbitronic/internal/session"
	httpserver "github.com/Skotchmaster/orbitronic/internal/transport/http"
	"github.com/Skotchmaster/orbitronic/internal/view"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseDriver == db.DriverPostgres {
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(openCtx, cfg.DatabaseDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	if cfg.SeedOnStart {
		if err := seed.Run(ctx, gdb); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	store := &repo.GormRepo{DB: gdb}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		publisher = producer
	} else {
		logger.Info("KAFKA_BROKERS not set, events are dropped")
	}

	fallback := search.Database{Repo: store}
	catalog := &service.CatalogService{
		Products: store,
		Events:   publisher,
		Search:   fallback,
		Fallback: fallback,
	}
	if cfg.ESURL != "" {
		es, err := search.NewElastic(search.ElasticConfig{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("elasticsearch unavailable, searching the database", "error", err)
		} else if err := es.EnsureIndex(ctx); err != nil {
			logger.Warn("elasticsearch index setup failed, searching the database", "error", err)
		} else {
			catalog.Search = es
			if n, err := catalog.Reindex(ctx); err != nil {
				logger.Warn("reindex failed", "indexed", n, "error", err)
			} else {
				logger.Info("reindex done", "indexed", n)
			}
		}
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTimeout, cfg.CookieSecure)
	pages := &handlers.Pages{Sessions: sessions}

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = handlers.ErrorHandler(pages)
	httpserver.Middleware(e, loggingmw.RequestLogger(logger))

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure
	csrfCfg.SkipPrefixes = []string{"/api/"}

	httpserver.Register(e, &httpserver.Deps{
		Sessions: sessions,
		Auth:     &handlers.AuthHTTP{Pages: pages, Svc: &service.AuthService{Users: store, Events: publisher}},
		Catalog:  &handlers.CatalogHTTP{Pages: pages, Svc: catalog},
		Admin:    &handlers.AdminHTTP{Pages: pages, Svc: catalog},
		API:      &handlers.APIHTTP{Svc: catalog},
		CSRF:     csrfCfg,
		Ready:    func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}

	logger.Info("stopped")
}
