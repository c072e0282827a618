// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/pkg"
	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	"github.com/ThinkInAIXYZ/go-mcp/transport"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mcp-mealdb/internal/config"
	"mcp-mealdb/internal/logging"
	"mcp-mealdb/internal/mealdb"
)

const (
	ServerName = "mealdb"
	Version    = "1.0.0"

	// MCP over SSE endpoints mounted on the HTTP router.
	ssePath     = "/sse"
	messagePath = "/message"

	// No write timeout: SSE streams stay open for the whole session.
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 120 * time.Second
)

// MealDBServer exposes the recipe tools over MCP (stdio or SSE) and a plain
// JSON HTTP API.
type MealDBServer struct {
	server     *server.Server
	transport  transport.ServerTransport
	sse        *transport.SSEHandler
	httpServer *http.Server
	router     *gin.Engine
	service    *mealdb.Service
	info       protocol.Implementation
	tools      []*Tool
	toolIndex  map[string]*Tool
	config     *config.Config

	// ctx scopes MCP tool calls, which carry no request context.
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a MealDBServer.
type Option func(*MealDBServer)

// WithTransport runs MCP over t instead of the transport selected by the
// config.
func WithTransport(t transport.ServerTransport) Option {
	return func(s *MealDBServer) {
		s.transport = t
	}
}

// NewMealDBServer registers the tool catalog with the MCP server and wires
// the HTTP routes around svc.
func NewMealDBServer(cfg *config.Config, svc *mealdb.Service, opts ...Option) (*MealDBServer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if svc == nil {
		return nil, errors.New("meal service is required")
	}

	mealServer := &MealDBServer{
		service: svc,
		config:  cfg,
		info: protocol.Implementation{
			Name:    ServerName,
			Version: Version,
		},
	}
	for _, opt := range opts {
		opt(mealServer)
	}

	mcpLogger := logging.Logger().WithPrefix("mcp")

	if mealServer.transport == nil {
		t, err := mealServer.newTransport(mcpLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create MCP transport: %w", err)
		}
		mealServer.transport = t
	}

	mcpServer, err := server.NewServer(
		mealServer.transport,
		server.WithServerInfo(mealServer.info),
		server.WithLogger(mcpLogger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	mealServer.server = mcpServer
	mealServer.ctx, mealServer.cancel = context.WithCancel(context.Background())

	if err := mealServer.registerTools(); err != nil {
		mealServer.cancel()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	mealServer.router = mealServer.setupRouter()
	mealServer.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           mealServer.router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	return mealServer, nil
}

func (s *MealDBServer) newTransport(logger pkg.Logger) (transport.ServerTransport, error) {
	switch s.config.Transport {
	case config.TransportStdio:
		return transport.NewStdioServerTransport(
			transport.WithStdioServerOptionLogger(logger),
		), nil
	default:
		t, handler, err := transport.NewSSEServerTransportAndHandler(
			s.config.ServerURL()+messagePath,
			transport.WithSSEServerTransportAndHandlerOptionLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		s.sse = handler
		return t, nil
	}
}

func (s *MealDBServer) setupRouter() *gin.Engine {
	router := gin.New()

	router.Use(
		gin.CustomRecovery(s.recoverPanic),
		requestIDMiddleware(),
		metricsMiddleware(),
		loggingMiddleware(),
		cors.New(s.corsConfig()),
	)

	router.POST("/", s.handleToolCall)
	router.POST("/tools/call", s.handleToolCall)
	router.GET("/tools", s.handleListTools)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if s.sse != nil {
		router.GET(ssePath, gin.WrapH(s.sse.HandleSSE()))
		router.POST(messagePath, gin.WrapH(s.sse.HandleMessage()))
	}

	router.NoRoute(func(c *gin.Context) {
		s.writeError(c, http.StatusNotFound, ErrCodeNotFound,
			fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path), false)
	})

	return router
}

func (s *MealDBServer) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Authorization", headerRequestID},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range s.config.CORSOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = s.config.CORSOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}

// Handler returns the HTTP handler serving all routes.
func (s *MealDBServer) Handler() http.Handler {
	return s.router
}

// Start serves MCP on the configured transport and, for http, the HTTP
// routes. It returns nil on a clean shutdown or, for stdio, when the input
// stream ends or ctx is cancelled.
func (s *MealDBServer) Start(ctx context.Context) error {
	if s.config.Transport == config.TransportStdio {
		logging.Info("starting mealdb server", "transport", config.TransportStdio, "tools", len(s.tools))

		errCh := make(chan error, 1)
		go func() {
			errCh <- s.server.Run()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return nil
		}
	}

	go func() {
		if err := s.server.Run(); err != nil {
			logging.Error("MCP transport stopped", "error", err)
		}
	}()

	logging.Info("starting mealdb server",
		"transport", config.TransportHTTP,
		"address", s.httpServer.Addr,
		"sse", s.config.ServerURL()+ssePath,
		"tools", len(s.tools),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains MCP sessions, then shuts the HTTP server down, bounded by ctx.
// The stdio transport cannot be interrupted; it ends with its input.
func (s *MealDBServer) Stop(ctx context.Context) error {
	defer s.cancel()

	if s.config.Transport == config.TransportStdio {
		return nil
	}

	var errs []error
	if err := s.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("MCP shutdown: %w", err))
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	return errors.Join(errs...)
}
