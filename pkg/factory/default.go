package factory

import (
	"fmt"

	"github.com/macropower/folio/pkg/decorator"
	"github.com/macropower/folio/pkg/paginator"
)

// DefaultFactory is a [Factory] configured in code.
//
// Unlike [ConfigFactory], it reuses a single chain: each call to
// [DefaultFactory.Decorate] rebinds every node of the chain to the given
// paginator, so the returned chain must not be shared between concurrent
// computations.
type DefaultFactory struct {
	chain        decorator.Decorator
	itemsPerPage int
}

// NewDefaultFactory creates a new [DefaultFactory] using
// [DefaultItemsPerPage] and no decorator chain.
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{itemsPerPage: DefaultItemsPerPage}
}

// SetItemsPerPage sets the items per page of new paginators. Invalid values
// are reported by [DefaultFactory.Paginator].
func (f *DefaultFactory) SetItemsPerPage(n int) *DefaultFactory {
	f.itemsPerPage = n

	return f
}

func (f *DefaultFactory) ItemsPerPage() int {
	return f.itemsPerPage
}

// SetDecoratorChain sets the outermost decorator of the chain.
func (f *DefaultFactory) SetDecoratorChain(d decorator.Decorator) *DefaultFactory {
	f.chain = d

	return f
}

// DecoratorChain returns the outermost decorator of the chain, or nil.
//
//nolint:ireturn // Decorators are polymorphic.
func (f *DefaultFactory) DecoratorChain() decorator.Decorator {
	return f.chain
}

func (f *DefaultFactory) Paginator() (*paginator.Paginator, error) {
	return paginator.New(f.itemsPerPage) //nolint:wrapcheck // Already a sentinel error.
}

// Decorate binds p to every decorator of the chain and returns the chain.
//
//nolint:ireturn // Decorators are polymorphic.
func (f *DefaultFactory) Decorate(p *paginator.Paginator) (decorator.Decorator, error) {
	if f.chain == nil {
		return nil, fmt.Errorf("%w: cannot decorate a paginator: no decorators defined", ErrFactory)
	}

	decorator.Walk(f.chain, func(d decorator.Decorator) {
		d.SetPaginator(p)
	})

	return f.chain, nil
}
