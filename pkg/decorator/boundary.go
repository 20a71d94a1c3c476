package decorator

import (
	"fmt"

	"github.com/macropower/folio/pkg/pages"
	"github.com/macropower/folio/pkg/paginator"
	"github.com/macropower/folio/pkg/provider"
)

// DefaultBoundaryRange is the number of pages always shown at each end.
const DefaultBoundaryRange = 2

// Boundary adds the pages at the beginning and the end of the list around
// the decorated sequence, e.g. "1 2 ... 5 6 [7] 8 9 ... 32 33". Boundary pages
// never repeat a page already present in the decorated sequence.
type Boundary struct {
	link

	rng  int
	gaps bool
}

// BoundaryOpt configures a [Boundary].
type BoundaryOpt func(*Boundary)

// WithBoundaryRange sets the number of pages shown at each end.
// Negative values are treated as zero.
func WithBoundaryRange(n int) BoundaryOpt {
	return func(b *Boundary) {
		b.rng = max(0, n)
	}
}

// WithGaps controls whether gap markers are emitted between the boundary
// pages and non-adjacent decorated pages.
func WithGaps(enabled bool) BoundaryOpt {
	return func(b *Boundary) {
		b.gaps = enabled
	}
}

func NewBoundary(opts ...BoundaryOpt) *Boundary {
	b := &Boundary{
		link: link{name: "boundary"},
		rng:  DefaultBoundaryRange,
		gaps: true,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// SetConfig reads the "range" and "gaps" options.
func (b *Boundary) SetConfig(p provider.Provider) error {
	rng, err := provider.Int(p, "range", DefaultBoundaryRange)
	if err != nil {
		return fmt.Errorf("%w: boundary: %w", paginator.ErrConfig, err)
	}
	if rng < 0 {
		return fmt.Errorf("%w: boundary: range cannot be negative, got %d", paginator.ErrConfig, rng)
	}

	gaps, err := provider.Bool(p, "gaps", true)
	if err != nil {
		return fmt.Errorf("%w: boundary: %w", paginator.ErrConfig, err)
	}

	b.rng = rng
	b.gaps = gaps

	return nil
}

func (b *Boundary) Range() int {
	return b.rng
}

func (b *Boundary) Gaps() bool {
	return b.gaps
}

func (b *Boundary) Pages() ([]pages.Descriptor, error) {
	snap, err := b.snapshot()
	if err != nil {
		return nil, err
	}

	inner, err := b.innerPages()
	if err != nil {
		return nil, err
	}

	if snap.PageCount == 0 {
		return inner, nil
	}

	// Spans are computed as counts rather than end pages, so nothing
	// overflows for page counts up to math.MaxInt.
	first, last, found := pages.Bounds(inner)

	var lowerLast int
	if found {
		lowerLast = min(b.rng, first-1)
	} else {
		// Nothing shown yet: both ends meet in the middle.
		lowerLast = min(b.rng, snap.PageCount)
		last = lowerLast
	}

	// Number of pages emitted after the decorated sequence, ending with the
	// last page.
	upperCount := min(b.rng, snap.PageCount-last)

	ds := make([]pages.Descriptor, 0, len(inner)+lowerLast+upperCount+2)
	for n := 1; n <= lowerLast; n++ {
		ds = append(ds, b.page(n, snap.CurrentPage))
	}

	if found && lowerLast > 0 && first-lowerLast > 1 {
		ds = b.appendGap(ds)
	}

	ds = append(ds, inner...)

	if upperCount > 0 && snap.PageCount-last > upperCount && (found || lowerLast > 0) {
		ds = b.appendGap(ds)
	}

	for i := upperCount; i > 0; i-- {
		ds = append(ds, b.page(snap.PageCount-i+1, snap.CurrentPage))
	}

	return ds, nil
}

func (b *Boundary) page(n, current int) pages.Descriptor {
	if n == current {
		return pages.Current(n)
	}

	return pages.Page(n)
}

func (b *Boundary) appendGap(ds []pages.Descriptor) []pages.Descriptor {
	if !b.gaps {
		return ds
	}

	return append(ds, pages.Gap())
}
