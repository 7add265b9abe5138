package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/config"
	"github.com/Skotchmaster/products_api/internal/db"
	"github.com/Skotchmaster/products_api/internal/es"
	"github.com/Skotchmaster/products_api/internal/httpserver"
	"github.com/Skotchmaster/products_api/internal/logging"
	loggingmw "github.com/Skotchmaster/products_api/internal/middleware/logging"
	"github.com/Skotchmaster/products_api/internal/mykafka"
	"github.com/Skotchmaster/products_api/internal/repo"
	"github.com/Skotchmaster/products_api/internal/search"
	"github.com/Skotchmaster/products_api/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// sideEffects holds the optional event publisher and search index. Either
// may be nil.
type sideEffects struct {
	producer *mykafka.Producer
	index    *search.Index
}

func (s sideEffects) publisher() service.Publisher {
	if s.producer == nil {
		return nil
	}
	return s.producer
}

func (s sideEffects) productIndex() service.ProductIndex {
	if s.index == nil {
		return nil
	}
	return s.index
}

func newSideEffects(ctx context.Context, cfg config.Config, l *slog.Logger) (sideEffects, error) {
	var s sideEffects

	if len(cfg.KafkaBrokers) > 0 {
		s.producer = mykafka.NewProducer(cfg.KafkaBrokers)
		l.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	} else {
		l.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			return s, err
		}
		s.index = search.NewIndex(client, cfg.ESIndex)
		if err := s.index.EnsureIndex(ctx); err != nil {
			return s, err
		}
	} else {
		l.Info("search_disabled", "reason", "ES_URL is empty")
	}

	return s, nil
}

func newEcho(gdb *gorm.DB, base *slog.Logger, s sideEffects) *echo.Echo {
	r := repo.NewGormRepo(gdb)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		loggingmw.RequestLogger(base),
	)

	deps := httpserver.Deps{
		Products: &httpserver.ProductHTTP{Svc: &service.ProductService{Repo: r, Publisher: s.publisher(), Index: s.productIndex()}},
		Users:    &httpserver.UserHTTP{Svc: &service.UserService{Repo: r, Publisher: s.publisher(), Index: s.productIndex()}},
		DB:       gdb,
	}
	if s.index != nil {
		deps.Search = &httpserver.SearchHTTP{Index: s.index}
	}
	httpserver.Register(e, deps)

	return e
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	base := logging.New(logging.Options{Level: cfg.LogLevel, Service: cfg.ServiceName})
	slog.SetDefault(base)

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			base.Error("db_close_failed", "error", err)
		}
	}()

	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			return err
		}
	}

	effects, err := newSideEffects(ctx, cfg, base)
	if effects.producer != nil {
		defer func() {
			if err := effects.producer.Close(); err != nil {
				base.Error("kafka_close_failed", "error", err)
			}
		}()
	}
	if err != nil {
		return err
	}

	srv := newHTTPServer(cfg.Addr(), newEcho(gdb, base, effects))

	errCh := make(chan error, 1)
	go func() {
		base.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	base.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		base.Error("server_shutdown_failed", "error", err)
	}

	base.Info("shutdown complete")
	return nil
}
