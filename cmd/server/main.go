package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nsportal/internal/auth"
	"nsportal/internal/config"
	"nsportal/internal/domain/events"
	"nsportal/internal/handler"
	"nsportal/internal/messages"
	"nsportal/internal/middleware"
	"nsportal/internal/repository/postgres"
	serviceAuth "nsportal/internal/service/auth"
	"nsportal/internal/service/deletion"
	serviceEvents "nsportal/internal/service/events"
	serviceNamespace "nsportal/internal/service/namespace"
	"nsportal/internal/telemetry"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"k8s.io/utils/clock"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Tee logs into a rotating file when LOG_DIR is set
	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := config.NewLogger(logOut, cfg.Debug)
	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"locale", cfg.MessageLocale,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupStdoutTracing(cfg.TraceStdout, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	catalog, err := messages.NewCatalog(cfg.MessageLocale)
	if err != nil {
		log.Fatalf("Failed to load message catalog: %v", err)
	}

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	namespaceRepo := postgres.NewNamespaceRepository(repoConfig)
	appNamespaceRepo := postgres.NewAppNamespaceRepository(repoConfig)
	instanceRepo := postgres.NewInstanceRepository(repoConfig)
	itemRepo := postgres.NewItemRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	roleRepo := postgres.NewRoleRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Services
	authorizer := serviceAuth.NewMasterAuthorizer(roleRepo, logger)
	userProvider := serviceAuth.NewContextUserProvider(userRepo)
	namespaceService := serviceNamespace.NewNamespaceService(namespaceRepo, appNamespaceRepo, instanceRepo, logger)
	deleter := serviceNamespace.NewDeleter(namespaceRepo, appNamespaceRepo, instanceRepo, itemRepo, txManager, authorizer, logger)

	// Delete flow: the pipeline answers PRE_DELETE_NAMESPACE, failures are audited
	bus := serviceEvents.NewBus(logger)
	pipeline := deletion.NewPipeline(userProvider, authorizer, namespaceService, bus, catalog, logger)
	unsubscribePipeline := pipeline.Subscribe(bus)
	defer unsubscribePipeline()
	unsubscribeAudit := bus.Subscribe(events.DeleteNamespaceFailed, deletion.FailureLogger(logger))
	defer unsubscribeAudit()
	action := deletion.NewAction(deleter, catalog, clock.RealClock{}, logger)

	logger.Info("services initialized", "pipeline_stages", pipeline.Stages())

	// Handlers
	namespaceHandler := handler.NewNamespaceHandler(namespaceService, authorizer, bus, action, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Namespace routes
	mux.HandleFunc("GET /api/apps/{appId}/envs/{env}/clusters/{clusterName}/namespaces/{namespaceName}", namespaceHandler.GetNamespace)
	mux.HandleFunc("POST /api/apps/{appId}/envs/{env}/clusters/{clusterName}/namespaces/{namespaceName}/pre-delete", namespaceHandler.PreDelete)
	mux.HandleFunc("DELETE /api/apps/{appId}/envs/{env}/clusters/{clusterName}/namespaces/{namespaceName}", namespaceHandler.DeleteNamespace)
	mux.HandleFunc("GET /api/envs/{env}/appnamespaces/{namespaceName}/namespaces", namespaceHandler.ListAssociatedNamespaces)

	// Role routes
	mux.HandleFunc("GET /api/apps/{appId}/role-users", namespaceHandler.GetAppRoleUsers)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestID()(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
