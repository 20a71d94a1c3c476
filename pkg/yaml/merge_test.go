package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/folio/pkg/yaml"
)

func TestMergeInto(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		value  any
		input  string
		want   string
		errMsg string
	}{
		"adds fields": {
			input: "itemsPerPage: 15\n",
			value: map[string]any{"decorators": "slider"},
			want:  "itemsPerPage: 15\ndecorators: slider\n",
		},
		"overwrites fields": {
			input: "itemsPerPage: 15\n",
			value: map[string]int{"itemsPerPage": 20},
			want:  "itemsPerPage: 20\n",
		},
		"keeps comments": {
			input: "# Pagination settings.\nitemsPerPage: 15\n",
			value: map[string]any{"decorators": "boundary"},
			want:  "# Pagination settings.\nitemsPerPage: 15\ndecorators: boundary\n",
		},
		"invalid yaml": {
			input:  "itemsPerPage: [15\n",
			value:  map[string]any{},
			errMsg: "parse yaml",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := yaml.MergeInto([]byte(tc.input), tc.value)
			if tc.errMsg != "" {
				require.ErrorContains(t, err, tc.errMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}
