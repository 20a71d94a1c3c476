package decorator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/folio/pkg/decorator"
	"github.com/macropower/folio/pkg/pages"
	"github.com/macropower/folio/pkg/paginator"
	"github.com/macropower/folio/pkg/provider"
)

func TestSlider_Pages(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want     []pages.Descriptor
		rng      int
		elements int
		current  int
	}{
		"middle": {
			rng: 2, elements: 100, current: 5,
			want: []pages.Descriptor{
				pages.Page(3), pages.Page(4), pages.Current(5), pages.Page(6), pages.Page(7),
			},
		},
		"first page": {
			rng: 2, elements: 100, current: 1,
			want: []pages.Descriptor{pages.Current(1), pages.Page(2), pages.Page(3)},
		},
		"last page": {
			rng: 2, elements: 100, current: 10,
			want: []pages.Descriptor{pages.Page(8), pages.Page(9), pages.Current(10)},
		},
		"second page": {
			rng: 2, elements: 100, current: 2,
			want: []pages.Descriptor{
				pages.Page(1), pages.Current(2), pages.Page(3), pages.Page(4),
			},
		},
		"zero range": {
			rng: 0, elements: 100, current: 5,
			want: []pages.Descriptor{pages.Current(5)},
		},
		"range wider than list": {
			rng: 10, elements: 30, current: 2,
			want: []pages.Descriptor{pages.Page(1), pages.Current(2), pages.Page(3)},
		},
		"single page": {
			rng: 2, elements: 3, current: 1,
			want: []pages.Descriptor{pages.Current(1)},
		},
		"clamped current page": {
			rng: 1, elements: 100, current: 99,
			want: []pages.Descriptor{pages.Page(9), pages.Current(10)},
		},
		"no pages": {
			rng: 2, elements: 0, current: 1,
			want: []pages.Descriptor{},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := decorator.NewSlider(decorator.WithSliderRange(tc.rng))
			s.SetPaginator(processed(t, tc.elements, 10, tc.current))

			got, err := s.Pages()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSlider_IgnoresInner(t *testing.T) {
	t.Parallel()

	inner := &stubDecorator{pages: []pages.Descriptor{pages.Gap()}}

	s := decorator.NewSlider()
	s.SetPaginator(processed(t, 100, 10, 5))
	s.Decorate(inner)

	got, err := s.Pages()
	require.NoError(t, err)
	assert.Equal(t, "3 4 [5] 6 7", render(got))
	assert.Zero(t, inner.calls)
}

func TestSlider_SetConfig(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg  provider.Map
		err  error
		want int
	}{
		"defaults": {
			cfg:  provider.Map{},
			want: decorator.DefaultSliderRange,
		},
		"range": {
			cfg:  provider.Map{"range": 4},
			want: 4,
		},
		"range as string": {
			cfg:  provider.Map{"range": "3"},
			want: 3,
		},
		"unrelated keys": {
			cfg:  provider.Map{"gaps": false, "other": "x"},
			want: decorator.DefaultSliderRange,
		},
		"negative range": {
			cfg: provider.Map{"range": -1},
			err: paginator.ErrConfig,
		},
		"invalid range": {
			cfg: provider.Map{"range": "wide"},
			err: paginator.ErrConfig,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := decorator.NewSlider(decorator.WithSliderRange(7))

			err := s.SetConfig(tc.cfg)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				assert.Equal(t, 7, s.Range(), "range must be unchanged after an error")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Range())
		})
	}
}
