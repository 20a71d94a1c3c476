package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/folio/internal/cli"
	"github.com/macropower/folio/pkg/config"
	"github.com/macropower/folio/pkg/factory"
	"github.com/macropower/folio/pkg/pages"
	"github.com/macropower/folio/pkg/pagination"
	"github.com/macropower/folio/pkg/yaml"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), err
}

func configPath(t *testing.T) string {
	t.Helper()

	return filepath.Join(t.TempDir(), "config.yaml")
}

func TestRun(t *testing.T) {
	tcs := map[string]struct {
		want pagination.Result
		args []string
	}{
		"defaults": {
			args: []string{"100", "3"},
			want: pagination.Result{
				Pages: []pages.Descriptor{
					pages.First(1), pages.Previous(2),
					pages.Page(1), pages.Page(2), pages.Current(3), pages.Page(4),
					pages.Page(5), pages.Page(6), pages.Page(7),
					pages.Next(4), pages.Last(7),
				},
			},
		},
		"flag overrides": {
			args: []string{"12345", "50", "--per-page", "100", "--decorators", "slider,boundary", "--gaps=false"},
			want: pagination.Result{
				Pages: []pages.Descriptor{
					pages.Page(1), pages.Page(2),
					pages.Page(48), pages.Page(49), pages.Current(50), pages.Page(51), pages.Page(52),
					pages.Page(123), pages.Page(124),
				},
			},
		},
		"invalid page": {
			args: []string{"30", "abc", "--decorators", "slider"},
			want: pagination.Result{
				Pages: []pages.Descriptor{pages.Current(1), pages.Page(2)},
			},
		},
		"explicit run command": {
			args: []string{"run", "30", "9", "--decorators", "prevNext"},
			want: pagination.Result{
				Pages: []pages.Descriptor{pages.Previous(1)},
			},
		},
		"empty list": {
			args: []string{"0"},
			want: pagination.Result{
				Pages: []pages.Descriptor{},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			path := configPath(t)

			for _, format := range []string{"yaml", "json"} {
				args := append([]string{}, tc.args...)
				args = append(args, "--config", path, "-o", format)

				out, err := execute(t, args...)
				require.NoError(t, err)

				var got pagination.Result
				if format == "json" {
					require.NoError(t, json.Unmarshal([]byte(out), &got))
				} else {
					require.NoError(t, yaml.Unmarshal([]byte(out), &got))
				}

				if len(tc.want.Pages) == 0 {
					assert.Empty(t, got.Pages, format)
				} else {
					assert.Equal(t, tc.want.Pages, got.Pages, format)
				}
			}
		})
	}
}

func TestRun_Snapshot(t *testing.T) {
	out, err := execute(t, "12345", "50", "--per-page", "100", "--config", configPath(t), "-o", "json")
	require.NoError(t, err)

	var got pagination.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, 12345, got.ElementCount)
	assert.Equal(t, 100, got.ItemsPerPage)
	assert.Equal(t, 50, got.CurrentPage)
	assert.Equal(t, 124, got.PageCount)
	assert.Equal(t, 4900, got.Offset)
}

func TestRun_ConfigFile(t *testing.T) {
	path := configPath(t)
	require.NoError(t, os.WriteFile(path, []byte(`apiVersion: folio.jacobcolvin.com/v1beta1
kind: Configuration
itemsPerPage: 10
decorators: slider
slider:
  range: 1
`), 0o600))

	out, err := execute(t, "100", "5", "--config", path, "-o", "json")
	require.NoError(t, err)

	var got pagination.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 10, got.PageCount)
	assert.Equal(t, []pages.Descriptor{pages.Page(4), pages.Current(5), pages.Page(6)}, got.Pages)

	// Flags and environment variables take precedence over the file.
	t.Setenv("FOLIO_SLIDER_RANGE", "0")

	out, err = execute(t, "100", "5", "--config", path, "-o", "json", "--per-page", "20")
	require.NoError(t, err)

	got = pagination.Result{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 5, got.PageCount)
	assert.Equal(t, []pages.Descriptor{pages.Current(5)}, got.Pages)
}

func TestRun_Rules(t *testing.T) {
	path := configPath(t)
	require.NoError(t, os.WriteFile(path, []byte(`apiVersion: folio.jacobcolvin.com/v1beta1
kind: Configuration
itemsPerPage: 10
decorators: slider
slider:
  range: 1
rules:
  - match: elementCount > 1000
    itemsPerPage: 100
    decorators: boundary
`), 0o600))

	out, err := execute(t, "100", "5", "--config", path, "-o", "json")
	require.NoError(t, err)

	var got pagination.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 10, got.PageCount)

	out, err = execute(t, "2000", "1", "--config", path, "-o", "json")
	require.NoError(t, err)

	got = pagination.Result{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 20, got.PageCount)
	assert.Equal(t, 100, got.ItemsPerPage)
	assert.Equal(t, pages.Current(1), got.Pages[0])

	// Flags take precedence over the matching rule.
	out, err = execute(t, "2000", "1", "--config", path, "-o", "json", "--per-page", "1000")
	require.NoError(t, err)

	got = pagination.Result{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.PageCount)
}

func TestRun_WriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio", "config.yaml")

	out, err := execute(t, "--write-config", "--config", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), data)

	_, err = os.Stat(config.SchemaPath(path))
	require.NoError(t, err)
}

func TestRun_ShowConfig(t *testing.T) {
	out, err := execute(t, "--show-config", "--config", configPath(t))
	require.NoError(t, err)

	got, err := config.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, config.New(), got)
}

func TestRun_Errors(t *testing.T) {
	tcs := map[string]struct {
		err    error
		config string
		errMsg string
		args   []string
	}{
		"missing element count": {
			errMsg: "requires the element count argument",
		},
		"invalid element count": {
			args:   []string{"many"},
			errMsg: `invalid argument "many"`,
		},
		"too many args": {
			args:   []string{"1", "2", "3"},
			errMsg: "accepts at most 2 arg(s)",
		},
		"negative element count": {
			args:   []string{"-5"},
			errMsg: "unknown shorthand flag",
		},
		"invalid output": {
			args:   []string{"10", "-o", "xml"},
			errMsg: `invalid argument "xml" for --output`,
		},
		"unknown decorator": {
			args: []string{"10", "--decorators", "sliderr"},
			err:  factory.ErrUnknownDecorator,
		},
		"invalid config": {
			args:   []string{"10"},
			config: "apiVersion: folio.jacobcolvin.com/v1beta1\nkind: Configuration\nitemsPerPage: 0\n",
			errMsg: "invalid config",
		},
		"invalid log level": {
			args:   []string{"10", "--log-level", "loud"},
			errMsg: "unknown log level",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			path := configPath(t)
			if tc.config != "" {
				require.NoError(t, os.WriteFile(path, []byte(tc.config), 0o600))
			}

			_, err := execute(t, append(tc.args, "--config", path)...)
			require.Error(t, err)

			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
			}
			if tc.errMsg != "" {
				assert.ErrorContains(t, err, tc.errMsg)
			}
		})
	}
}
