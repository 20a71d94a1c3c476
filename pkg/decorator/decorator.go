package decorator

import (
	"fmt"

	"github.com/macropower/folio/pkg/pages"
	"github.com/macropower/folio/pkg/paginator"
	"github.com/macropower/folio/pkg/provider"
)

// Decorator is a node of a decorator chain.
type Decorator interface {
	// SetConfig applies the decorator's own options from p. Absent keys keep
	// their documented defaults.
	SetConfig(p provider.Provider) error
	// SetPaginator binds the paginator the chain computes against.
	SetPaginator(p *paginator.Paginator)
	// Paginator returns the most recently bound paginator.
	Paginator() *paginator.Paginator
	// Decorate makes inner the decorator wrapped by this one, and returns
	// inner.
	Decorate(inner Decorator) Decorator
	// Inner returns the wrapped decorator, or nil.
	Inner() Decorator
	// Pages returns the inner decorator's descriptors merged with this
	// decorator's own.
	Pages() ([]pages.Descriptor, error)
}

// link holds the state shared by all decorators: the bound paginator and
// the wrapped decorator.
type link struct {
	paginator *paginator.Paginator
	inner     Decorator
	name      string
}

func (l *link) SetPaginator(p *paginator.Paginator) {
	l.paginator = p
}

func (l *link) Paginator() *paginator.Paginator {
	return l.paginator
}

func (l *link) Decorate(inner Decorator) Decorator {
	l.inner = inner

	return inner
}

func (l *link) Inner() Decorator {
	return l.inner
}

// snapshot returns the processed state of the bound paginator.
func (l *link) snapshot() (paginator.Snapshot, error) {
	if l.paginator == nil {
		return paginator.Snapshot{}, fmt.Errorf("%w: no paginator bound to %s decorator", paginator.ErrState, l.name)
	}

	s, err := l.paginator.Snapshot()
	if err != nil {
		return paginator.Snapshot{}, fmt.Errorf("%s decorator: %w", l.name, err)
	}

	return s, nil
}

// innerPages returns the descriptors of the wrapped decorator, or an empty
// sequence when nothing is wrapped.
func (l *link) innerPages() ([]pages.Descriptor, error) {
	if l.inner == nil {
		return []pages.Descriptor{}, nil
	}

	ds, err := l.inner.Pages()
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped by the inner decorator.
	}

	return ds, nil
}

// Chain binds p to every decorator and links them so that each decorator
// wraps the one before it. The last decorator is returned as the outermost
// node; it returns nil when no decorators are given.
func Chain(p *paginator.Paginator, ds ...Decorator) Decorator {
	var outer Decorator

	for _, d := range ds {
		d.SetPaginator(p)
		if outer != nil {
			d.Decorate(outer)
		}

		outer = d
	}

	return outer
}

// Walk calls fn for every decorator of the chain, outermost first.
func Walk(d Decorator, fn func(Decorator)) {
	for d != nil {
		fn(d)
		d = d.Inner()
	}
}
