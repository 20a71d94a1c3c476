package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/folio/pkg/config"
)

type reload struct {
	cfg *config.Config
	err error
}

func TestWatcher(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefault(path, false))

	reloads := make(chan reload, 8)

	w, err := config.NewWatcher(path, func(_ context.Context, c *config.Config, err error) {
		reloads <- reload{cfg: c, err: err}
	}, config.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})

	go func() {
		defer close(done)

		w.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		assert.NoError(t, w.Close())
	})

	// A single write may be reported as several events, so wait for the
	// first reload matching want.
	waitFor := func(t *testing.T, want func(r reload) bool) reload {
		t.Helper()

		timeout := time.After(5 * time.Second)

		for {
			select {
			case r := <-reloads:
				if want(r) {
					return r
				}
			case <-timeout:
				require.FailNow(t, "timed out waiting for reload")
			}
		}
	}

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("a: 1\n"), 0o600))

	require.NoError(t, os.WriteFile(path, []byte(`apiVersion: folio.jacobcolvin.com/v1beta1
kind: Configuration
itemsPerPage: 50
`), 0o600))

	r := waitFor(t, func(r reload) bool {
		return r.err == nil && r.cfg.ItemsPerPage == 50
	})
	assert.Equal(t, config.DefaultDecorators, r.cfg.Decorators)

	require.NoError(t, os.WriteFile(path, []byte("kind: Configuration\nitemsPerPage: 0\n"), 0o600))

	r = waitFor(t, func(r reload) bool {
		return r.err != nil
	})
	assert.Nil(t, r.cfg)
}

func TestNewWatcher_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := config.NewWatcher(filepath.Join(t.TempDir(), "missing", "config.yaml"), nil)
	require.Error(t, err)
}
