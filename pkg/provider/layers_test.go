package provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/folio/pkg/provider"
)

func TestLayers(t *testing.T) {
	t.Parallel()

	flags := provider.Map{
		"itemsPerPage": 30,
		"boundary":     provider.Map{"gaps": false},
	}
	file := provider.Map{
		"itemsPerPage": 15,
		"decorators":   "slider,boundary",
		"boundary":     map[string]any{"range": 3, "gaps": true},
		"slider":       map[string]any{"range": 1},
	}

	p := provider.Layers{flags, nil, file}

	n, err := provider.Int(p, "itemsPerPage", 0)
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	names, err := provider.Strings(p, "decorators")
	require.NoError(t, err)
	assert.Equal(t, []string{"slider", "boundary"}, names)

	boundary, ok, err := provider.Sub(p, "boundary")
	require.NoError(t, err)
	require.True(t, ok)

	gaps, err := provider.Bool(boundary, "gaps", true)
	require.NoError(t, err)
	assert.False(t, gaps)

	rng, err := provider.Int(boundary, "range", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, rng)

	slider, ok, err := provider.Sub(p, "slider")
	require.NoError(t, err)
	require.True(t, ok)

	rng, err = provider.Int(slider, "range", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, rng)

	_, err = p.Get("missing")
	require.ErrorIs(t, err, provider.ErrMissingKey)
}

func TestLayers_ScalarShadowedBySection(t *testing.T) {
	t.Parallel()

	p := provider.Layers{
		provider.Map{"slider": provider.Map{"range": 1}},
		provider.Map{"slider": "off"},
	}

	sub, ok, err := provider.Sub(p, "slider")
	require.NoError(t, err)
	require.True(t, ok)

	rng, err := provider.Int(sub, "range", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, rng)
}
