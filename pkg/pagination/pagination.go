// Package pagination runs the complete pagination pipeline for a request:
// it creates a paginator from a [factory.Factory], applies the element count
// and the requested page, processes it and collects the page descriptors of
// the decorator chain.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/folio/pkg/factory"
	"github.com/macropower/folio/pkg/log"
	"github.com/macropower/folio/pkg/pages"
	"github.com/macropower/folio/pkg/paginator"
)

const tracerName = "github.com/macropower/folio/pkg/pagination"

var ErrNoFactory = errors.New("no paginator factory")

// Request describes one page of a list.
type Request struct {
	// Page is the requested page number as received from the caller, e.g. a
	// URL query parameter. Invalid values select the first page.
	Page         string `json:"page,omitempty" jsonschema:"title=Page"          yaml:"page,omitempty"`
	ElementCount int    `json:"elementCount"   jsonschema:"title=Element Count" yaml:"elementCount"`
}

// NewRequest creates a [Request] for a numeric page.
func NewRequest(elementCount, page int) Request {
	return Request{ElementCount: elementCount, Page: strconv.Itoa(page)}
}

// Result is the outcome of a [Request].
type Result struct {
	paginator.Snapshot `yaml:",inline"`

	Pages []pages.Descriptor `json:"pages" yaml:"pages"`
}

// Engine runs [Request]s against a [factory.Factory].
// The factory can be swapped while requests are running, e.g. after a
// configuration reload.
type Engine struct {
	tracer  trace.Tracer
	factory factory.Factory
	mu      sync.RWMutex
}

// EngineOpt configures an [Engine].
type EngineOpt func(*Engine)

// WithTracerProvider sets the provider of the engine's tracer. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) EngineOpt {
	return func(e *Engine) {
		e.tracer = tp.Tracer(tracerName)
	}
}

// New creates a new [Engine].
func New(f factory.Factory, opts ...EngineOpt) *Engine {
	e := &Engine{
		tracer:  otel.Tracer(tracerName),
		factory: f,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// SetFactory replaces the factory used by subsequent requests.
func (e *Engine) SetFactory(f factory.Factory) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.factory = f
}

// Factory returns the current factory.
//
//nolint:ireturn // Factories are polymorphic.
func (e *Engine) Factory() factory.Factory {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.factory
}

// Run paginates req.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "paginate", trace.WithAttributes(
		attribute.Int("element_count", req.ElementCount),
		attribute.String("page", req.Page),
	))
	defer span.End()

	res, err := e.run(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(
		attribute.Int("page_count", res.PageCount),
		attribute.Int("current_page", res.CurrentPage),
		attribute.Int("descriptors", len(res.Pages)),
	)

	return res, nil
}

func (e *Engine) run(ctx context.Context, req Request) (*Result, error) {
	logger := log.WithContext(ctx).With(
		slog.String("elements", humanize.Comma(int64(req.ElementCount))),
		slog.String("page", req.Page),
	)

	f := e.Factory()
	if f == nil {
		return nil, ErrNoFactory
	}

	p, err := f.Paginator()
	if err != nil {
		return nil, fmt.Errorf("create paginator: %w", err)
	}

	err = p.SetElementCount(req.ElementCount)
	if err != nil {
		return nil, fmt.Errorf("set element count: %w", err)
	}

	p.SetCurrentPageString(req.Page)

	_, err = p.Process()
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	d, err := f.Decorate(p)
	if err != nil {
		return nil, fmt.Errorf("decorate: %w", err)
	}

	ds, err := d.Pages()
	if err != nil {
		return nil, fmt.Errorf("get pages: %w", err)
	}

	snap, err := p.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	logger.DebugContext(ctx, "paginated",
		slog.Int("page_count", snap.PageCount),
		slog.Int("current_page", snap.CurrentPage),
		slog.Int("offset", snap.Offset),
		slog.Int("descriptors", len(ds)),
	)

	return &Result{Snapshot: snap, Pages: ds}, nil
}
