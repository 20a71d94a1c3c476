package factory

import (
	"errors"
	"fmt"

	"github.com/macropower/folio/pkg/decorator"
	"github.com/macropower/folio/pkg/paginator"
)

var (
	// ErrFactory is returned when a paginator or decorator chain cannot be
	// built.
	ErrFactory = errors.New("paginator factory")

	// ErrUnknownDecorator is returned when a decorator name has no registered
	// constructor. It wraps [ErrFactory].
	ErrUnknownDecorator = fmt.Errorf("%w: unknown decorator", ErrFactory)
)

// DefaultItemsPerPage is used by [DefaultFactory] until another value is set.
const DefaultItemsPerPage = 15

// Factory creates paginators and binds decorator chains to them.
type Factory interface {
	// Paginator returns a new paginator configured with the factory's items
	// per page.
	Paginator() (*paginator.Paginator, error)
	// Decorate binds p to a decorator chain and returns the outermost
	// decorator.
	Decorate(p *paginator.Paginator) (decorator.Decorator, error)
}

// Constructor creates a new, unbound decorator.
type Constructor func() decorator.Decorator

// Builtins returns the constructors of the decorators shipped with folio,
// keyed by their configuration names.
func Builtins() map[string]Constructor {
	return map[string]Constructor{
		"slider":    func() decorator.Decorator { return decorator.NewSlider() },
		"firstLast": func() decorator.Decorator { return decorator.NewFirstLast() },
		"prevNext":  func() decorator.Decorator { return decorator.NewPrevNext() },
		"boundary":  func() decorator.Decorator { return decorator.NewBoundary() },
	}
}

var (
	_ Factory = (*ConfigFactory)(nil)
	_ Factory = (*DefaultFactory)(nil)
)
