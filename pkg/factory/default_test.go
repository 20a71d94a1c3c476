package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/folio/pkg/decorator"
	"github.com/macropower/folio/pkg/factory"
	"github.com/macropower/folio/pkg/paginator"
)

func TestDefaultFactory(t *testing.T) {
	t.Parallel()

	f := factory.NewDefaultFactory()
	assert.Equal(t, factory.DefaultItemsPerPage, f.ItemsPerPage())
	assert.Nil(t, f.DecoratorChain())

	p, err := f.Paginator()
	require.NoError(t, err)
	assert.Equal(t, factory.DefaultItemsPerPage, p.ItemsPerPage())

	_, err = f.Decorate(p)
	require.ErrorIs(t, err, factory.ErrFactory)

	slider := decorator.NewSlider()
	prevNext := decorator.NewPrevNext()
	prevNext.Decorate(slider)

	got := f.SetItemsPerPage(10).SetDecoratorChain(prevNext)
	assert.Same(t, f, got)
	assert.Equal(t, 10, f.ItemsPerPage())
	assert.Same(t, prevNext, f.DecoratorChain())

	first := process(t, f, 100, 1)

	d, err := f.Decorate(first)
	require.NoError(t, err)
	assert.Same(t, prevNext, d)
	assert.Same(t, first, prevNext.Paginator())
	assert.Same(t, first, slider.Paginator())

	ds, err := d.Pages()
	require.NoError(t, err)
	assert.Equal(t, "[1] 2 3 next(2)", render(ds))

	// The same chain is rebound to the next paginator.
	second := process(t, f, 100, 10)

	d, err = f.Decorate(second)
	require.NoError(t, err)
	assert.Same(t, second, slider.Paginator())

	ds, err = d.Pages()
	require.NoError(t, err)
	assert.Equal(t, "previous(9) 8 9 [10]", render(ds))
}

func TestDefaultFactory_InvalidItemsPerPage(t *testing.T) {
	t.Parallel()

	f := factory.NewDefaultFactory().SetItemsPerPage(0)

	p, err := f.Paginator()
	require.ErrorIs(t, err, paginator.ErrConfig)
	assert.Nil(t, p)
}

func TestBuiltins(t *testing.T) {
	t.Parallel()

	builtins := factory.Builtins()
	assert.Len(t, builtins, 4)

	for name, c := range builtins {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			first := c()
			require.NotNil(t, first)
			assert.NotSame(t, first, c(), "constructors must return new decorators")
		})
	}
}
