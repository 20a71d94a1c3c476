package mcp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/folio/pkg/config"
	"github.com/macropower/folio/pkg/factory"
	"github.com/macropower/folio/pkg/mcp"
	"github.com/macropower/folio/pkg/provider"
	"github.com/macropower/folio/pkg/rule"
)

func newServer(t *testing.T, cfg provider.Provider) *mcp.Server {
	t.Helper()

	s, err := mcp.NewServer("", cfg)
	require.NoError(t, err)
	require.NotNil(t, s.Server())

	return s
}

func TestNewServer_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := mcp.NewServer("", provider.Map{"itemsPerPage": 10})
	require.ErrorIs(t, err, factory.ErrFactory)
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want   mcp.PaginateResult
		params mcp.PaginateParams
	}{
		"defaults": {
			params: mcp.PaginateParams{ElementCount: 100, CurrentPage: 3},
			want: mcp.PaginateResult{
				Summary:      "Page 3 of 7, 100 elements at offset 30, 15 per page: first(1) previous(2) 1 2 [3] 4 5 6 7 next(4) last(7)",
				ElementCount: 100,
				ItemsPerPage: 15,
				CurrentPage:  3,
				PageCount:    7,
				Offset:       30,
				HasPrevious:  true,
				HasNext:      true,
				Pages: []mcp.PageEntry{
					{Type: "first", Page: 1},
					{Type: "previous", Page: 2},
					{Type: "page", Page: 1},
					{Type: "page", Page: 2},
					{Type: "current", Page: 3},
					{Type: "page", Page: 4},
					{Type: "page", Page: 5},
					{Type: "page", Page: 6},
					{Type: "page", Page: 7},
					{Type: "next", Page: 4},
					{Type: "last", Page: 7},
				},
			},
		},
		"overrides": {
			params: mcp.PaginateParams{
				ElementCount: 12345,
				CurrentPage:  50,
				ItemsPerPage: 100,
				Decorators:   []string{"slider", "boundary"},
			},
			want: mcp.PaginateResult{
				Summary:      "Page 50 of 124, 12,345 elements at offset 4,900, 100 per page: 1 2 ... 48 49 [50] 51 52 ... 123 124",
				ElementCount: 12345,
				ItemsPerPage: 100,
				CurrentPage:  50,
				PageCount:    124,
				Offset:       4900,
				HasPrevious:  true,
				HasNext:      true,
				Pages: []mcp.PageEntry{
					{Type: "page", Page: 1},
					{Type: "page", Page: 2},
					{Type: "gap"},
					{Type: "page", Page: 48},
					{Type: "page", Page: 49},
					{Type: "current", Page: 50},
					{Type: "page", Page: 51},
					{Type: "page", Page: 52},
					{Type: "gap"},
					{Type: "page", Page: 123},
					{Type: "page", Page: 124},
				},
			},
		},
		"empty list": {
			params: mcp.PaginateParams{ElementCount: 0, CurrentPage: 4},
			want: mcp.PaginateResult{
				Summary:      "The list is empty.",
				ItemsPerPage: 15,
				Pages:        []mcp.PageEntry{},
			},
		},
		"page out of range": {
			params: mcp.PaginateParams{ElementCount: 20, CurrentPage: 9, Decorators: []string{"slider"}},
			want: mcp.PaginateResult{
				Summary:      "Page 2 of 2, 20 elements at offset 15, 15 per page: 1 [2]",
				ElementCount: 20,
				ItemsPerPage: 15,
				CurrentPage:  2,
				PageCount:    2,
				Offset:       15,
				HasPrevious:  true,
				Pages: []mcp.PageEntry{
					{Type: "page", Page: 1},
					{Type: "current", Page: 2},
				},
			},
		},
	}

	s := newServer(t, config.New())

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, out, err := mcp.HandlePaginate(s, t.Context(), nil, tc.params)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)

			require.Len(t, res.Content, 1)
			text, ok := res.Content[0].(*sdk.TextContent)
			require.True(t, ok)
			assert.Equal(t, tc.want.Summary, text.Text)
		})
	}
}

func TestPaginate_Errors(t *testing.T) {
	t.Parallel()

	s := newServer(t, config.New())

	_, _, err := mcp.HandlePaginate(s, t.Context(), nil, mcp.PaginateParams{
		ElementCount: 10,
		Decorators:   []string{"slidr"},
	})
	require.ErrorIs(t, err, factory.ErrUnknownDecorator)
	assert.ErrorContains(t, err, `did you mean "slider"`)

	_, _, err = mcp.HandlePaginate(s, t.Context(), nil, mcp.PaginateParams{ElementCount: -1})
	require.Error(t, err)
}

func TestServer_Reload(t *testing.T) {
	t.Parallel()

	s := newServer(t, config.New())
	params := mcp.PaginateParams{ElementCount: 100}

	_, out, err := mcp.HandlePaginate(s, t.Context(), nil, params)
	require.NoError(t, err)
	assert.Equal(t, 7, out.PageCount)

	cfg := config.New()
	cfg.ItemsPerPage = 50
	cfg.Decorators = "slider"
	s.Reload(t.Context(), cfg, nil)

	_, out, err = mcp.HandlePaginate(s, t.Context(), nil, params)
	require.NoError(t, err)
	assert.Equal(t, 2, out.PageCount)
	assert.Equal(t, []mcp.PageEntry{{Type: "current", Page: 1}, {Type: "page", Page: 2}}, out.Pages)

	// Overrides apply on top of the reloaded config.
	_, out, err = mcp.HandlePaginate(s, t.Context(), nil, mcp.PaginateParams{ElementCount: 100, ItemsPerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, out.PageCount)
	assert.Len(t, out.Pages, 3)

	// Failed reloads keep the previous configuration.
	s.Reload(t.Context(), nil, errors.New("broken file"))

	bad := config.New()
	bad.Decorators = "nope"
	s.Reload(t.Context(), bad, nil)

	_, out, err = mcp.HandlePaginate(s, t.Context(), nil, params)
	require.NoError(t, err)
	assert.Equal(t, 2, out.PageCount)
}

func TestServer_Overrides(t *testing.T) {
	t.Parallel()

	s, err := mcp.NewServer("", config.New(), mcp.WithOverrides(provider.Map{"itemsPerPage": 25}))
	require.NoError(t, err)

	params := mcp.PaginateParams{ElementCount: 100}

	_, out, err := mcp.HandlePaginate(s, t.Context(), nil, params)
	require.NoError(t, err)
	assert.Equal(t, 4, out.PageCount)

	cfg := config.New()
	cfg.ItemsPerPage = 50
	cfg.Decorators = "slider"
	s.Reload(t.Context(), cfg, nil)

	_, out, err = mcp.HandlePaginate(s, t.Context(), nil, params)
	require.NoError(t, err)
	assert.Equal(t, 4, out.PageCount)
	assert.Len(t, out.Pages, 3)
}

func TestServer_Rules(t *testing.T) {
	t.Parallel()

	long := rule.MustNew(`elementCount > 10000`, rule.WithItemsPerPage(100), rule.WithDecorators("slider"))

	s, err := mcp.NewServer("", config.New(), mcp.WithRules(rule.Set{long}))
	require.NoError(t, err)

	_, out, err := mcp.HandlePaginate(s, t.Context(), nil, mcp.PaginateParams{ElementCount: 12345})
	require.NoError(t, err)
	assert.Equal(t, 124, out.PageCount)
	assert.Len(t, out.Pages, 3)

	_, out, err = mcp.HandlePaginate(s, t.Context(), nil, mcp.PaginateParams{ElementCount: 100})
	require.NoError(t, err)
	assert.Equal(t, 7, out.PageCount)

	// Arguments take precedence over the matching rule.
	_, out, err = mcp.HandlePaginate(s, t.Context(), nil, mcp.PaginateParams{ElementCount: 12345, ItemsPerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 13, out.PageCount)
	assert.Len(t, out.Pages, 3)

	// Reloads with an invalid rule keep the previous rules.
	bad := config.New()
	bad.Rules = rule.Set{rule.MustNew(`true`, rule.WithDecorators("nope"))}
	s.Reload(t.Context(), bad, nil)

	_, out, err = mcp.HandlePaginate(s, t.Context(), nil, mcp.PaginateParams{ElementCount: 12345})
	require.NoError(t, err)
	assert.Equal(t, 124, out.PageCount)

	// Reloads replace the rules.
	s.Reload(t.Context(), config.New(), nil)

	_, out, err = mcp.HandlePaginate(s, t.Context(), nil, mcp.PaginateParams{ElementCount: 12345})
	require.NoError(t, err)
	assert.Equal(t, 823, out.PageCount)
}

func TestNewServer_InvalidRule(t *testing.T) {
	t.Parallel()

	_, err := mcp.NewServer("", config.New(),
		mcp.WithRules(rule.Set{rule.MustNew(`true`, rule.WithItemsPerPage(-1))}),
	)
	require.ErrorContains(t, err, "rule 0")
}

func TestWithTracing(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tracer := tp.Tracer("test")

	errBoom := errors.New("boom")

	handler := mcp.WithTracing(tracer, "echo",
		func(_ context.Context, _ *sdk.CallToolRequest, in string) (*sdk.CallToolResult, string, error) {
			if in == "" {
				return nil, "", errBoom
			}

			return &sdk.CallToolResult{}, in, nil
		},
	)

	_, out, err := handler(t.Context(), nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	_, _, err = handler(t.Context(), nil, "")
	require.ErrorIs(t, err, errBoom)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "echo", spans[0].Name())
	assert.Empty(t, spans[0].Events())
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}
