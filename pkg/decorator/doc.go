// Package decorator produces ordered page descriptors for a processed
// paginator.Paginator by composing independent strategies.
//
// Every [Decorator] wraps at most one inner decorator. Calling
// [Decorator.Pages] on the outermost decorator pulls the inner sequence first
// and then prepends or appends its own descriptors. The innermost decorator
// is usually a [Slider], which produces the numbered run around the current
// page:
//
//	slider := decorator.NewSlider(decorator.WithSliderRange(2))
//	outer := decorator.Chain(p, slider, decorator.NewBoundary(), decorator.NewPrevNext())
//	ds, err := outer.Pages()
//	// previous(4) 1 2 ... 3 4 [5] 6 7 ... 9 10 next(6)
package decorator
