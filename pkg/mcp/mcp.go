// Package mcp serves folio's pagination engine over the Model Context
// Protocol.
package mcp

const (
	name         = "folio"
	instructions = `MCP Server 'folio' computes page navigation for paginated lists.

Use the 'paginate' tool when you need to know which page links to render for a list of a given size, or which slice of the list (offset and items per page) belongs to a page.

The tool returns the number of pages, the effective current page, the offset of its first element and an ordered list of page descriptors. Each descriptor has a type (page, current, first, last, previous, next or gap) and, except for gaps, the page number it points to.
`
)
