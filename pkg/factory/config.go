package factory

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/macropower/folio/pkg/decorator"
	"github.com/macropower/folio/pkg/paginator"
	"github.com/macropower/folio/pkg/provider"
)

// Configuration keys read by [ConfigFactory].
const (
	KeyItemsPerPage = "itemsPerPage"
	KeyDecorators   = "decorators"
)

// ConfigFactory builds paginators and decorator chains from a
// [provider.Provider].
//
// The provider must contain [KeyItemsPerPage] and [KeyDecorators]. Each
// decorator may have its own options under a key equal to its registered
// name, e.g.:
//
//	itemsPerPage: 10
//	decorators: slider,boundary
//	boundary:
//	  range: 3
type ConfigFactory struct {
	provider     provider.Provider
	registry     map[string]Constructor
	chain        []string
	itemsPerPage int
}

// NewConfigFactory creates a new [ConfigFactory] with the built-in
// decorators registered.
func NewConfigFactory(p provider.Provider) (*ConfigFactory, error) {
	if _, err := p.Get(KeyItemsPerPage); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFactory, err)
	}

	itemsPerPage, err := provider.Int(p, KeyItemsPerPage, DefaultItemsPerPage)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFactory, err)
	}
	if itemsPerPage < 1 {
		return nil, fmt.Errorf("%w: %w: items per page must be at least 1, got %d",
			ErrFactory, paginator.ErrConfig, itemsPerPage)
	}

	if _, err := p.Get(KeyDecorators); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFactory, err)
	}

	chain, err := provider.Strings(p, KeyDecorators)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFactory, err)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: no decorators configured", ErrFactory)
	}

	slog.Debug("created paginator factory",
		slog.Int("items_per_page", itemsPerPage),
		slog.String("decorators", strings.Join(chain, ",")),
	)

	return &ConfigFactory{
		provider:     p,
		registry:     Builtins(),
		chain:        chain,
		itemsPerPage: itemsPerPage,
	}, nil
}

// RegisterDecorator maps name to c, replacing any existing mapping.
func (f *ConfigFactory) RegisterDecorator(name string, c Constructor) *ConfigFactory {
	f.registry[name] = c

	return f
}

// Registered returns the sorted names of all registered decorators.
func (f *ConfigFactory) Registered() []string {
	return slices.Sorted(maps.Keys(f.registry))
}

// Chain returns the configured decorator names, innermost first.
func (f *ConfigFactory) Chain() []string {
	return slices.Clone(f.chain)
}

func (f *ConfigFactory) ItemsPerPage() int {
	return f.itemsPerPage
}

func (f *ConfigFactory) Paginator() (*paginator.Paginator, error) {
	return paginator.New(f.itemsPerPage) //nolint:wrapcheck // Already a sentinel error.
}

// Decorate builds a new chain from the configured names and binds p to it.
// The first name is the innermost decorator and the last is returned as the
// outermost one.
//
//nolint:ireturn // Decorators are polymorphic.
func (f *ConfigFactory) Decorate(p *paginator.Paginator) (decorator.Decorator, error) {
	ds := make([]decorator.Decorator, 0, len(f.chain))

	for _, name := range f.chain {
		d, err := f.Decorator(name)
		if err != nil {
			return nil, err
		}

		ds = append(ds, d)
	}

	return decorator.Chain(p, ds...), nil
}

// Validate creates every decorator of the chain once, so that unknown names
// and invalid options are reported before the first request.
func (f *ConfigFactory) Validate() error {
	for _, name := range f.chain {
		_, err := f.Decorator(name)
		if err != nil {
			return err
		}
	}

	return nil
}

// Decorator creates the decorator registered under name, configured with
// the provider's sub-section of the same name if there is one.
//
//nolint:ireturn // Decorators are polymorphic.
func (f *ConfigFactory) Decorator(name string) (decorator.Decorator, error) {
	c, ok := f.registry[name]
	if !ok {
		return nil, f.unknown(name)
	}

	var d decorator.Decorator
	if c != nil {
		d = c()
	}
	if d == nil {
		return nil, fmt.Errorf("%w: constructor for %q did not return a decorator", ErrFactory, name)
	}

	sub, ok, err := provider.Sub(f.provider, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFactory, name, err)
	}
	if !ok {
		return d, nil
	}

	err = d.SetConfig(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: configure %s: %w", ErrFactory, name, err)
	}

	slog.Debug("configured decorator", slog.String("decorator", name))

	return d, nil
}

func (f *ConfigFactory) unknown(name string) error {
	matches := fuzzy.Find(name, f.Registered())
	if len(matches) == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownDecorator, name)
	}

	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, fmt.Sprintf("%q", m.Str))
	}

	return fmt.Errorf("%w: %q (did you mean %s?)",
		ErrUnknownDecorator, name, strings.Join(suggestions, " or "))
}
