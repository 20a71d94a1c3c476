package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/folio/pkg/factory"
	"github.com/macropower/folio/pkg/pagination"
	"github.com/macropower/folio/pkg/provider"
	"github.com/macropower/folio/pkg/rule"
)

const toolPaginate = "paginate"

// PaginateParams are the arguments of the paginate tool.
type PaginateParams struct {
	Decorators   []string `json:"decorators,omitempty"   jsonschema:"Decorator names, innermost first. Defaults to the configured chain."`
	ElementCount int      `json:"elementCount"           jsonschema:"Total number of elements in the list."`
	CurrentPage  int      `json:"currentPage,omitempty"  jsonschema:"Requested page number. Values below 1 select the first page and values above the page count select the last page."`
	ItemsPerPage int      `json:"itemsPerPage,omitempty" jsonschema:"Number of elements on one page. Defaults to the configured value."`
}

// PageEntry describes one element of the page navigation.
type PageEntry struct {
	Type string `json:"type"           jsonschema:"One of page, current, first, last, previous, next or gap."`
	Page int    `json:"page,omitempty" jsonschema:"Page the entry points to. Omitted for gaps."`
}

// PaginateResult is the structured output of the paginate tool.
type PaginateResult struct {
	Summary      string      `json:"summary"      jsonschema:"Human-readable summary of the result."`
	Pages        []PageEntry `json:"pages"        jsonschema:"Page navigation in display order."`
	ElementCount int         `json:"elementCount" jsonschema:"Total number of elements in the list."`
	ItemsPerPage int         `json:"itemsPerPage" jsonschema:"Number of elements on one page."`
	CurrentPage  int         `json:"currentPage"  jsonschema:"Effective current page, or 0 when the list is empty."`
	PageCount    int         `json:"pageCount"    jsonschema:"Number of pages."`
	Offset       int         `json:"offset"       jsonschema:"Index of the first element on the current page."`
	HasPrevious  bool        `json:"hasPrevious"  jsonschema:"Whether a page exists before the current one."`
	HasNext      bool        `json:"hasNext"      jsonschema:"Whether a page exists after the current one."`
}

func (s *Server) handlePaginate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	params PaginateParams,
) (*mcp.CallToolResult, PaginateResult, error) {
	req := pagination.NewRequest(params.ElementCount, params.CurrentPage)

	engine, err := s.engineFor(params, rule.Vars{ElementCount: req.ElementCount, Page: req.Page})
	if err != nil {
		return nil, PaginateResult{}, err
	}

	res, err := engine.Run(ctx, req)
	if err != nil {
		return nil, PaginateResult{}, fmt.Errorf("paginate: %w", err)
	}

	out := newPaginateResult(res)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: out.Summary}},
	}, out, nil
}

// engineFor returns the shared engine, or a dedicated one when params or a
// rule override the configuration.
func (s *Server) engineFor(params PaginateParams, v rule.Vars) (*pagination.Engine, error) {
	overrides := provider.Map{}
	if params.ItemsPerPage != 0 {
		overrides[factory.KeyItemsPerPage] = params.ItemsPerPage
	}
	if len(params.Decorators) > 0 {
		overrides[factory.KeyDecorators] = params.Decorators
	}

	p, ok, err := s.resolve(overrides, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.engine, nil
	}

	f, err := newFactory(p)
	if err != nil {
		return nil, err
	}

	return pagination.New(f, pagination.WithTracerProvider(s.tracerProvider)), nil
}

func newPaginateResult(res *pagination.Result) PaginateResult {
	entries := make([]PageEntry, 0, len(res.Pages))
	for _, d := range res.Pages {
		entries = append(entries, PageEntry{Type: string(d.Kind), Page: d.Page})
	}

	return PaginateResult{
		Summary:      summarize(res),
		Pages:        entries,
		ElementCount: res.ElementCount,
		ItemsPerPage: res.ItemsPerPage,
		CurrentPage:  res.CurrentPage,
		PageCount:    res.PageCount,
		Offset:       res.Offset,
		HasPrevious:  res.HasPrevious(),
		HasNext:      res.HasNext(),
	}
}

func summarize(res *pagination.Result) string {
	if res.PageCount == 0 {
		return "The list is empty."
	}

	labels := make([]string, 0, len(res.Pages))
	for _, d := range res.Pages {
		labels = append(labels, d.String())
	}

	return fmt.Sprintf("Page %d of %d, %s elements at offset %s, %d per page: %s",
		res.CurrentPage,
		res.PageCount,
		humanize.Comma(int64(res.ElementCount)),
		humanize.Comma(int64(res.Offset)),
		res.ItemsPerPage,
		strings.Join(labels, " "),
	)
}
