package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/folio/pkg/config"
	"github.com/macropower/folio/pkg/factory"
	"github.com/macropower/folio/pkg/log"
	"github.com/macropower/folio/pkg/pagination"
	"github.com/macropower/folio/pkg/provider"
	"github.com/macropower/folio/pkg/rule"
	"github.com/macropower/folio/pkg/version"
)

const (
	tracerName = "github.com/macropower/folio/pkg/mcp"

	shutdownTimeout = 5 * time.Second
)

// Server implements the MCP server for folio.
type Server struct {
	server         *mcp.Server
	engine         *pagination.Engine
	config         provider.Provider
	overrides      provider.Provider
	rules          rule.Set
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	address        string
	mu             sync.RWMutex
}

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithTracerProvider sets the provider of the server's tracers. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) ServerOpt {
	return func(s *Server) {
		s.tracerProvider = tp
	}
}

// WithOverrides sets options that take precedence over the configuration,
// including configurations passed to [Server.Reload].
func WithOverrides(p provider.Provider) ServerOpt {
	return func(s *Server) {
		s.overrides = p
	}
}

// WithRules sets the rules selecting options for matching requests. Rules
// are replaced by [Server.Reload].
func WithRules(rules rule.Set) ServerOpt {
	return func(s *Server) {
		s.rules = rules
	}
}

// NewServer creates a new MCP server listening on address, or on stdio when
// address is empty. Paginators are configured from cfg.
func NewServer(address string, cfg provider.Provider, opts ...ServerOpt) (*Server, error) {
	s := &Server{
		address:        address,
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.config = cfg

	f, err := s.newFactories(cfg, s.rules)
	if err != nil {
		return nil, err
	}

	s.tracer = s.tracerProvider.Tracer(tracerName)
	s.engine = pagination.New(f, pagination.WithTracerProvider(s.tracerProvider))

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolPaginate,
		Description: "Compute the page count, offset and page navigation descriptors for a list with the given number of elements.",
	}, WithTracing(s.tracer, toolPaginate, s.handlePaginate))
}

// Reload replaces the configuration used by subsequent tool calls. If err
// is set or cfg cannot configure a paginator, the current configuration is
// kept. Reload can be used as a [config.ReloadFunc].
func (s *Server) Reload(ctx context.Context, cfg *config.Config, err error) {
	logger := log.WithContext(ctx)

	if err != nil {
		logger.WarnContext(ctx, "keeping previous configuration", slog.Any("err", err))

		return
	}

	f, err := s.newFactories(cfg, cfg.Rules)
	if err != nil {
		logger.WarnContext(ctx, "keeping previous configuration", slog.Any("err", err))

		return
	}

	s.mu.Lock()
	s.config = cfg
	s.rules = cfg.Rules
	s.mu.Unlock()

	s.engine.SetFactory(f)

	logger.InfoContext(ctx, "configuration reloaded",
		slog.Int("items_per_page", f.ItemsPerPage()),
		slog.Any("decorators", f.Chain()),
		slog.Int("rules", len(cfg.Rules)),
	)
}

// newFactories validates the options of cfg and of every rule, and returns
// the factory for requests that match no rule.
func (s *Server) newFactories(cfg provider.Provider, rules rule.Set) (*factory.ConfigFactory, error) {
	for i, r := range rules {
		_, err := newFactory(s.withOverrides(provider.Layers{r.Overrides(), cfg}))
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i, r.Match, err)
		}
	}

	return newFactory(s.withOverrides(cfg))
}

//nolint:ireturn // Providers are polymorphic.
func (s *Server) withOverrides(p provider.Provider) provider.Provider {
	if s.overrides == nil {
		return p
	}

	return provider.Layers{s.overrides, p}
}

// newFactory creates a validated [factory.ConfigFactory] for p.
func newFactory(p provider.Provider) (*factory.ConfigFactory, error) {
	f, err := factory.NewConfigFactory(p)
	if err != nil {
		return nil, fmt.Errorf("create factory: %w", err)
	}

	err = f.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate factory: %w", err)
	}

	return f, nil
}

// resolve returns the options for the request described by v. The
// arguments in params take precedence over the server's overrides, which in
// turn take precedence over the first matching rule and the configuration.
// It reports false when the shared engine can serve the request.
//
//nolint:ireturn // Providers are polymorphic.
func (s *Server) resolve(params provider.Map, v rule.Vars) (provider.Provider, bool, error) {
	s.mu.RLock()
	cfg, rules := s.config, s.rules
	s.mu.RUnlock()

	r, err := rules.Find(v)
	if err != nil {
		return nil, false, fmt.Errorf("match rules: %w", err)
	}
	if r == nil && len(params) == 0 {
		return cfg, false, nil
	}

	layers := provider.Layers{params}
	if s.overrides != nil {
		layers = append(layers, s.overrides)
	}
	if r != nil {
		layers = append(layers, r.Overrides())
	}

	return append(layers, cfg), true, nil
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server and blocks until ctx is done or the
// transport fails.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(ctx, "shut down MCP server", slog.Any("err", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	err := s.server.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
