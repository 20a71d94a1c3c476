package decorator

import (
	"fmt"

	"github.com/macropower/folio/pkg/pages"
	"github.com/macropower/folio/pkg/paginator"
	"github.com/macropower/folio/pkg/provider"
)

// DefaultSliderRange is the number of pages shown on each side of the
// current page.
const DefaultSliderRange = 2

// Slider produces the links to the pages around the current page, e.g.
// "3 4 [5] 6 7". It is meant to be the innermost decorator of a chain, so the
// output of a wrapped decorator is ignored.
type Slider struct {
	link

	rng int
}

// SliderOpt configures a [Slider].
type SliderOpt func(*Slider)

// WithSliderRange sets the number of neighboring pages on each side.
// Negative values are treated as zero.
func WithSliderRange(n int) SliderOpt {
	return func(s *Slider) {
		s.rng = max(0, n)
	}
}

func NewSlider(opts ...SliderOpt) *Slider {
	s := &Slider{
		link: link{name: "slider"},
		rng:  DefaultSliderRange,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetConfig reads the "range" option.
func (s *Slider) SetConfig(p provider.Provider) error {
	rng, err := provider.Int(p, "range", DefaultSliderRange)
	if err != nil {
		return fmt.Errorf("%w: slider: %w", paginator.ErrConfig, err)
	}
	if rng < 0 {
		return fmt.Errorf("%w: slider: range cannot be negative, got %d", paginator.ErrConfig, rng)
	}

	s.rng = rng

	return nil
}

func (s *Slider) Range() int {
	return s.rng
}

func (s *Slider) Pages() ([]pages.Descriptor, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	if snap.PageCount == 0 {
		return []pages.Descriptor{}, nil
	}

	current := snap.CurrentPage
	left := min(s.rng, current-1)
	right := min(s.rng, snap.PageCount-current)

	// Loops count offsets from the current page so that they terminate for
	// page counts up to math.MaxInt.
	ds := make([]pages.Descriptor, 0, left+right+1)
	for i := left; i > 0; i-- {
		ds = append(ds, pages.Page(current-i))
	}

	ds = append(ds, pages.Current(current))

	for i := 1; i <= right; i++ {
		ds = append(ds, pages.Page(current+i))
	}

	return ds, nil
}
