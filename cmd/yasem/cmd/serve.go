package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/yasem/internal/config"
	"github.com/jmylchreest/yasem/internal/database"
	"github.com/jmylchreest/yasem/internal/emulation"
	internalhttp "github.com/jmylchreest/yasem/internal/http"
	"github.com/jmylchreest/yasem/internal/http/handlers"
	"github.com/jmylchreest/yasem/internal/observability"
	"github.com/jmylchreest/yasem/internal/portalproxy"
	"github.com/jmylchreest/yasem/internal/repository"
	"github.com/jmylchreest/yasem/internal/service"
	"github.com/jmylchreest/yasem/internal/session"
	"github.com/jmylchreest/yasem/internal/version"
	"github.com/jmylchreest/yasem/pkg/httpclient"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the yasem server",
	Long: `Start the yasem HTTP server.

The server provides:
- The host page (profiles, profile configuration, portal viewer)
- The portal proxy and the emulated device script
- The session WebSocket that binds a host page to an emulated device
- REST API for device profiles, families and sessions
- OpenAPI documentation at /docs`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("database", "yasem.db", "Database DSN (file path for sqlite)")

	mustBindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	mustBindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	mustBindPFlag("database.dsn", serveCmd.Flags().Lookup("database"))
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := slog.Default()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	observability.SetRequestLoggingEnabled(cfg.Logging.RequestLogging)

	// Every family script is compiled once so a broken catalog fails at startup.
	if err := emulation.CheckFamilies(); err != nil {
		return fmt.Errorf("checking emulation scripts: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.New(cfg.Database, logger, nil)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	profileService := service.NewProfileService(repository.NewProfileRepository(db.DB)).WithLogger(logger)
	if n, err := profileService.Seed(ctx, cfg.Profiles); err != nil {
		return fmt.Errorf("seeding profiles: %w", err)
	} else if n > 0 {
		logger.Info("seeded profiles from config", slog.Int("count", n))
	}

	proxyClient := newProxyClient(cfg.Proxy, logger)
	proxy := portalproxy.New(proxyClient, logger).
		WithTimeout(cfg.Proxy.Timeout).
		WithUserAgent(cfg.Proxy.UserAgent)

	manager := session.NewManager(profileService, session.Options{
		TelemetryInterval: cfg.Session.TelemetryInterval,
		MessagesPerSecond: cfg.Session.MessagesPerSecond,
		Logger:            logger,
	}).WithIdleTimeout(cfg.Session.IdleTimeout)
	defer manager.CloseAll()

	reaper, err := session.NewReaper(manager, cfg.Session.ReapSchedule)
	if err != nil {
		return err
	}
	reaper.WithLogger(logger).Start()
	defer reaper.Stop()

	serverConfig := internalhttp.ServerConfigFrom(cfg.Server)
	server := internalhttp.NewServer(serverConfig, logger, version.Version)
	if err := registerHandlers(server, db, profileService, proxy, proxyClient, manager, logger); err != nil {
		return err
	}

	logger.Info("starting yasem server",
		slog.String("address", server.Addr()),
		slog.String("version", version.Version),
		slog.String("database", cfg.Database.Driver),
	)

	return server.ListenAndServe(ctx)
}

func newProxyClient(cfg config.ProxyConfig, logger *slog.Logger) *httpclient.Client {
	return portalproxy.NewClient(cfg.Timeout, cfg.MaxBodySize, cfg.CircuitThreshold, cfg.CircuitTimeout, logger)
}

func registerHandlers(
	server *internalhttp.Server,
	db *database.DB,
	profiles *service.ProfileService,
	proxy *portalproxy.Proxy,
	proxyClient *httpclient.Client,
	manager *session.Manager,
	logger *slog.Logger,
) error {
	api := server.API()
	router := server.Router()

	handlers.NewHealthHandler(version.Version).
		WithDB(db.DB).
		WithSessions(manager).
		WithBreakers(proxyClient).
		Register(api)
	handlers.NewAppInfoHandler().Register(api)
	handlers.NewProfileHandler(profiles).Register(api)
	handlers.NewFamilyHandler().Register(api)
	handlers.NewSessionsHandler(manager).Register(api)
	handlers.NewRemoteHandler().Register(api)
	handlers.NewSettingsHandler().Register(api)
	handlers.NewCircuitBreakerHandler(proxyClient).Register(api)

	proxyHandler := handlers.NewPortalProxyHandler(proxy, profiles).WithLogger(logger)
	proxyHandler.Register(api)
	proxyHandler.RegisterChiRoutes(router)

	scriptHandler := handlers.NewPortalScriptHandler(profiles).WithLogger(logger)
	scriptHandler.Register(api)
	scriptHandler.RegisterChiRoutes(router)

	socketHandler := handlers.NewSessionHandler(manager).WithLogger(logger)
	socketHandler.Register(api)
	socketHandler.RegisterChiRoutes(router)

	handlers.NewDocsHandler("yasem API", "/openapi.json").RegisterChiRoutes(router)

	static, err := handlers.NewStaticHandler()
	if err != nil {
		return fmt.Errorf("loading host page: %w", err)
	}
	static.RegisterChiRoutes(router)
	return nil
}
