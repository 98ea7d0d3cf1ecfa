package expr

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	testCases := []struct {
		name     string
		env      map[string]string
		values   map[string]string
		input    string
		expected string
	}{
		{
			name:     "no expressions",
			input:    "just a plain string",
			expected: "just a plain string",
		},
		{
			name:     "env expression",
			env:      map[string]string{"MINT_HOME": "/srv/mint"},
			input:    "${env.MINT_HOME}/ledger.json",
			expected: "/srv/mint/ledger.json",
		},
		{
			name:     "unset env becomes empty",
			input:    "unset=${env.MINT_NOTSET}-end",
			expected: "unset=-end",
		},
		{
			name:     "named values",
			values:   map[string]string{"input": "a.svg", "output": "a.png"},
			input:    "inkscape ${input} -o ${output}",
			expected: "inkscape a.svg -o a.png",
		},
		{
			name:     "unknown name kept",
			values:   map[string]string{"input": "a.svg"},
			input:    "${input} ${dpi}",
			expected: "a.svg ${dpi}",
		},
		{
			name:     "missing closing brace",
			values:   map[string]string{"input": "a.svg"},
			input:    "start ${input and ${input} end",
			expected: "start ${input and a.svg end",
		},
		{
			name:     "env prefix only",
			input:    "oops ${env.} done",
			expected: "oops  done",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, key := range []string{"MINT_HOME", "MINT_NOTSET"} {
				_ = os.Unsetenv(key)
			}
			for k, v := range tc.env {
				_ = os.Setenv(k, v)
			}
			var lookup Lookup
			if tc.values != nil {
				lookup = MapLookup(tc.values)
			}
			assert.Equal(t, tc.expected, Expand(tc.input, lookup))
		})
	}
}

func TestEnv(t *testing.T) {
	_ = os.Setenv("MINT_BATCH", "AA")
	defer os.Unsetenv("MINT_BATCH")
	assert.Equal(t, "batch AA ${other}", Env("batch ${env.MINT_BATCH} ${other}"))
}
