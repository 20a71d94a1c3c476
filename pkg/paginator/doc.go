// Package paginator computes pagination state for a bounded list of items.
//
// A [Paginator] is created with the number of items per page, receives the
// element count and the (possibly untrusted) current page number, and is then
// processed to derive the page count and offset:
//
//	p := paginator.MustNew(10)
//	err := p.SetElementCount(count)
//	p.SetCurrentPage(paginator.ParsePageNumber(r.URL.Query().Get("page")))
//	_, err = p.Process()
//	rows := query.Limit(p.ItemsPerPage()).Offset(p.Offset())
//
// Displaying the pages is not a responsibility of this package; see the
// decorator package for producing page descriptors.
package paginator
