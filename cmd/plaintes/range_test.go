package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeResolve(t *testing.T) {
	setupCLI(t)
	tests := []struct {
		token string
		want  string
	}{
		{"7d", "7d 2025-05-07 2025-05-14\n"},
		{"30D", "30d 2025-04-14 2025-05-14\n"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			resetFlags()
			out, _, err := execute(t, "range", "resolve", tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRangeResolve_Invalid(t *testing.T) {
	setupCLI(t)
	_, _, err := execute(t, "range", "resolve", "fortnight")
	requireExitCode(t, err, ExitInvalidArgs)
}

func TestRangeMatch(t *testing.T) {
	setupCLI(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"preset", []string{"--from", "2025-05-07", "--to", "2025-05-14"}, "7d 2025-05-07 → 2025-05-14\n"},
		{"no preset", []string{"--from", "2025-05-02", "--to", "2025-05-09"}, "custom 2025-05-02 → 2025-05-09\n"},
		{"inverted end is dropped", []string{"--from", "2025-05-14", "--to", "2025-05-01"}, "custom 2025-05-14 → …\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			out, _, err := execute(t, append([]string{"range", "match"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRangeMatch_BadDate(t *testing.T) {
	setupCLI(t)
	_, _, err := execute(t, "range", "match", "--from", "14/05/2025")
	requireExitCode(t, err, ExitInvalidArgs)
}
