package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/adapters/catalog"
	grpcAdapter "github.com/quentinrf/plant-monitor/services/photometry-service/internal/adapters/grpc"
	httpAdapter "github.com/quentinrf/plant-monitor/services/photometry-service/internal/adapters/http"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/adapters/memory"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/adapters/mongo"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/adapters/sqlite"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/config"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/logging"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/ports"
	"github.com/quentinrf/plant-monitor/services/photometry-service/pkg/pb"
	"github.com/quentinrf/plant-monitor/services/photometry-service/pkg/tlsconfig"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	flag.Parse()

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logCloser, err := logging.Setup(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().Msg("starting photometry service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repository
	repo, closeRepo, err := openRepository(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.Storage.Type).Msg("failed to open run repository")
	}
	defer closeRepo()

	// Initialize fixture catalog
	fixtures := catalog.Builtin()
	if cfg.Catalog.Path != "" {
		fixtures, err = catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("failed to load fixture catalog")
		}
		log.Info().Str("path", cfg.Catalog.Path).Msg("loaded fixture catalog")
	}

	est := ports.NewEstimator(fixtures, repo, cfg.EstimatorSettings())

	serverOpts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(grpcAdapter.RecoveryInterceptor)}

	// Configure TLS if certificates are provided
	tlsFiles := tlsconfig.Files{Cert: cfg.TLS.Cert, Key: cfg.TLS.Key, CA: cfg.TLS.CA}
	if tlsFiles.Enabled() {
		tlsCfg, err := tlsFiles.ServerConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load TLS config")
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, starting without TLS (dev mode only)")
	}

	// Create gRPC server
	grpcServer := grpc.NewServer(serverOpts...)
	pb.RegisterCoverageServiceServer(grpcServer, grpcAdapter.NewCoverageServiceHandler(est))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(pb.CoverageService_ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Reflection describes health and reflection itself. CoverageService is listed but has
	// no registered file descriptor, so grpcurl cannot call it; use pkg/pb, ppfd or HTTP.
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}

	log.Info().Str("port", cfg.Server.GRPCPort).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	// Start HTTP API
	var httpServer *http.Server
	if cfg.Server.HTTPPort != "" {
		httpServer = &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.Server.HTTPPort),
			Handler:           httpAdapter.NewHandler(est, cfg.Server.AllowedOrigins).Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Str("port", cfg.Server.HTTPPort).Msg("HTTP server listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("failed to serve HTTP")
			}
		}()
	}

	// Start background pruner
	if cfg.Storage.Retention > 0 {
		pruner := ports.NewPruner(repo, cfg.Storage.PruneInterval, cfg.Storage.Retention)
		go pruner.Start(ctx)
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	cancel() // Stop pruner
	healthServer.Shutdown()
	if httpServer != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP shutdown failed")
		}
		stop()
	}
	grpcServer.GracefulStop()

	log.Info().Msg("server stopped")
}

// openRepository builds the configured run repository and its cleanup func.
func openRepository(ctx context.Context, cfg config.StorageConfig) (domain.RunRepository, func(), error) {
	switch cfg.Type {
	case config.RepoSQLite:
		r, err := sqlite.NewRunRepository(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("db_path", cfg.DBPath).Msg("initialized SQLite repository")
		return r, func() { r.Close() }, nil

	case config.RepoMongo:
		connectCtx, stop := context.WithTimeout(ctx, 10*time.Second)
		defer stop()
		r, err := mongo.NewRunRepository(connectCtx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("db", cfg.MongoDB).Msg("initialized MongoDB repository")
		return r, func() {
			closeCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := r.Close(closeCtx); err != nil {
				log.Error().Err(err).Msg("failed to disconnect from MongoDB")
			}
		}, nil

	default:
		log.Info().Msg("initialized in-memory repository")
		return memory.NewRunRepository(), func() {}, nil
	}
}
