package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/certvault/giftcert/internal/config"
	"github.com/certvault/giftcert/internal/middleware"
	"github.com/certvault/giftcert/internal/migrations"
	"github.com/certvault/giftcert/internal/module/certificate"
	"github.com/certvault/giftcert/internal/module/order"
	"github.com/certvault/giftcert/internal/module/tag"
	"github.com/certvault/giftcert/internal/module/user"
	"github.com/certvault/giftcert/internal/pkg"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultGracePeriod    = 5 * time.Second
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler, timeout time.Duration) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New builds the App from cfg: logger, database, pending migrations when
// configured, the catalog modules, middleware, and routes. Resources opened
// before a failure are released.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	success := false

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if !success {
			closeLogger(log)
		}
	}()

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if !success {
			closeDB(db, log.Logger)
		}
	}()

	if cfg.MigrateOnStart() {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		if err := migrations.Up(context.Background(), cfg.Database.Driver, sqlDB, log.Logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	// Recovery sits inside the access log and metrics so that recovered
	// panics are recorded as 500s.
	skip := []string{"/health"}
	handlers := []gin.HandlerFunc{middleware.RequestID(cfg.Server.TrustProxy)}
	var metricsHandler http.Handler
	if cfg.Server.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
		skip = append(skip, cfg.Server.Metrics.Path)
		handlers = append(handlers, middleware.NewHTTPMetrics(reg).Handler())
	}
	handlers = append(handlers,
		middleware.Logger(log.Logger, skip...),
		middleware.Recovery(log.Logger),
		middleware.CORS(corsConfig(cfg.Server.Mode, cfg.Server.CORS)),
	)
	engine.Use(handlers...)

	if err := RegisterRoutes(engine, &RouteDeps{
		Modules:        buildModules(db, log.Logger),
		DB:             db,
		MetricsPath:    cfg.Server.Metrics.Path,
		MetricsHandler: metricsHandler,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{engine: engine, db: db, logger: log, cfg: cfg}, nil
}

// buildModules wires repositories, services, and handlers for every
// catalog module. Services share one transactor so that a certificate write
// and the tags it creates commit together.
func buildModules(db *gorm.DB, log *slog.Logger) []Module {
	tx := pkg.NewTransactor(db)

	tagRepo := tag.NewTagRepository(db)
	reconciler := tag.NewReconciler(tagRepo)
	certRepo := certificate.NewCertificateRepository(db)
	userRepo := user.NewUserRepository(db)
	orderRepo := order.NewOrderRepository(db)

	tagSvc := tag.NewTagService(tagRepo, reconciler, tx, log)
	certSvc := certificate.NewCertificateService(certRepo, reconciler, tx, log)
	userSvc := user.NewUserService(userRepo, log)
	orderSvc := order.NewOrderService(orderRepo, userRepo, certRepo, tx, log)

	return []Module{
		tag.NewModule(tag.NewTagHandler(tagSvc)),
		certificate.NewModule(certificate.NewCertificateHandler(certSvc)),
		user.NewModule(user.NewUserHandler(userSvc)),
		order.NewModule(order.NewOrderHandler(orderSvc)),
	}
}

// corsConfig maps the configured CORS settings onto the middleware. With no
// allow list, debug and test modes admit any origin and release mode admits
// none.
func corsConfig(mode string, cfg config.CORSConfig) middleware.CORSConfig {
	out := middleware.DefaultCORSConfig()
	switch {
	case len(cfg.AllowOrigins) > 0:
		out.AllowOrigins = cfg.AllowOrigins
	case mode == gin.ReleaseMode:
		out.AllowOrigins = nil
	}
	if len(cfg.AllowMethods) > 0 {
		out.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		out.AllowHeaders = cfg.AllowHeaders
	}
	out.MaxAge = cfg.MaxAgeSeconds()
	return out
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down within the
// configured grace period and closes the database and logger.
func (a *App) Run() error {
	if a == nil || a.cfg == nil || a.engine == nil {
		return errors.New("app is not initialized")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := a.cfg.Server.Addr()
	srv := newHTTPServer(addr, a.engine, a.cfg.Server.RequestTimeout(defaultRequestTimeout))

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.GracePeriod(defaultGracePeriod))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if a.db != nil {
		closeDB(a.db, log)
	}
	log.Info("server stopped")
	if a.logger != nil {
		closeLogger(a.logger)
	}
	return runErr
}

func closeDB(db *gorm.DB, log *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}

func closeLogger(log *logger.Logger) {
	if err := log.Close(); err != nil {
		slog.Error("logger close error", slog.Any("error", err))
	}
}
