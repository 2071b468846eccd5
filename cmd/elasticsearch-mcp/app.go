package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/config"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/db/elastic"
	logpkg "github.com/kailas-cloud/elasticsearch-mcp/internal/logger"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/metrics"
	indexrepo "github.com/kailas-cloud/elasticsearch-mcp/internal/repository/index"
	passthroughrepo "github.com/kailas-cloud/elasticsearch-mcp/internal/repository/passthrough"
	searchrepo "github.com/kailas-cloud/elasticsearch-mcp/internal/repository/search"
	chiTransport "github.com/kailas-cloud/elasticsearch-mcp/internal/transport/chi"
	mcpTransport "github.com/kailas-cloud/elasticsearch-mcp/internal/transport/mcp"
	healthuc "github.com/kailas-cloud/elasticsearch-mcp/internal/usecase/health"
	indicesuc "github.com/kailas-cloud/elasticsearch-mcp/internal/usecase/indices"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/usecase/rawapi"
	searchuc "github.com/kailas-cloud/elasticsearch-mcp/internal/usecase/search"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/version"
)

// app is the composition root shared by both transports.
type app struct {
	cfg        config.Config
	logger     *zap.Logger
	store      db.Store
	dispatcher *mcpTransport.Dispatcher
	health     *healthuc.Service
}

func newApp(ctx context.Context, env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	es := cfg.Elasticsearch
	logger.Info("Starting elasticsearch-mcp",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("es_url", es.URL),
		zap.Bool("api_key", es.APIKey != ""),
		zap.Bool("basic_auth", es.HasBasicAuth()),
	)
	if es.APIKey != "" && es.HasBasicAuth() {
		logger.Warn("Both API key and username/password are configured; using the API key")
	}

	metrics.Register()

	store, err := elastic.NewStore(elastic.Config{
		URL:                es.URL,
		APIKey:             es.APIKey,
		Username:           es.Username,
		Password:           es.Password,
		CACertPath:         es.CACert,
		SkipVerify:         es.SSLSkipVerify,
		ContainerMode:      es.ContainerMode,
		MaxRetries:         *es.MaxRetries,
		DisableCompression: es.DisableCompression,
		MetadataTimeout:    time.Duration(es.MetadataTimeoutSec) * time.Second,
		RequestTimeout:     time.Duration(es.RequestTimeoutSec) * time.Second,
		UserAgent:          version.UserAgent(),
		Logger:             logger,
	})
	if err != nil {
		logger.Error("Failed to create Elasticsearch store", zap.Error(err))
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(es.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Elasticsearch not reachable yet, continuing", zap.Error(err))
	} else {
		logger.Info("Connected to Elasticsearch")
	}

	// Repositories over the single shared session
	idxRepo := indexrepo.New(store)

	dispatcher, err := mcpTransport.NewDispatcher(mcpTransport.Deps{
		Indices: indicesuc.New(idxRepo),
		Search:  searchuc.New(searchrepo.New(store), idxRepo),
		RawAPI:  rawapi.New(passthroughrepo.New(store)),
		Logger:  logger,
	}, mcpTransport.Filter{
		Include: cfg.Tools.Include,
		Exclude: cfg.Tools.Exclude,
	})
	if err != nil {
		store.Close()
		logger.Error("Invalid tool configuration", zap.Error(err))
		return nil, err //nolint:wrapcheck // already a configuration error
	}
	logger.Info("Tools registered", zap.Int("count", len(dispatcher.Tools())))

	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		dispatcher: dispatcher,
		health:     healthuc.New(store),
	}, nil
}

func (a *app) close() {
	a.store.Close()
	a.logger.Info("Elasticsearch session closed")
	_ = a.logger.Sync()
}

func (a *app) server() *sdk.Server {
	return mcpTransport.NewServer(a.dispatcher, version.Version)
}

// httpHandler mounts one shared MCP server behind the chi router.
func (a *app) httpHandler() http.Handler {
	server := a.server()
	mcpHandler := sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, &sdk.StreamableHTTPOptions{Stateless: a.cfg.HTTP.Stateless})

	return chiTransport.NewRouter(chiTransport.Options{
		MCP:     mcpHandler,
		Health:  a.health,
		APIKeys: a.cfg.Auth.APIKeys,
		Logger:  a.logger,
	})
}

func runStdio(parent context.Context, env string) error {
	ctx, stop := signalContext(parent)
	defer stop()

	a, err := newApp(ctx, env)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("Serving MCP over stdio")
	err = a.server().Run(ctx, &sdk.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		a.logger.Error("stdio transport failed", zap.Error(err))
		return fmt.Errorf("stdio transport: %w", err)
	}
	a.logger.Info("Server stopped")
	return nil
}

func runHTTP(parent context.Context, env string, portOverride int) error {
	ctx, stop := signalContext(parent)
	defer stop()

	a, err := newApp(ctx, env)
	if err != nil {
		return err
	}
	defer a.close()

	port := a.cfg.HTTP.Port
	if portOverride > 0 {
		port = portOverride
	}

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.httpHandler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", addr), zap.String("mcp_path", chiTransport.MCPPath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		a.logger.Error("HTTP server error", zap.Error(err))
		return fmt.Errorf("http transport: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}
