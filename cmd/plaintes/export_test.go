package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/model"
	"github.com/observatoire/plaintes/internal/stats"
	"github.com/observatoire/plaintes/internal/testable"
)

func TestExport_RankingCSVToStdout(t *testing.T) {
	setupCLI(t)

	out, _, err := execute(t, "export", "ranking", "-o", "-")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "\ufeff"), "csv starts with a byte order mark")
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], `"Rang";"Commune"`), lines[0])
	assert.Contains(t, lines[1], `"Agdal"`)
	assert.Contains(t, lines[2], `"Hassan"`)
}

func TestExport_RankingJSON(t *testing.T) {
	setupCLI(t)

	out, _, err := execute(t, "export", "ranking", "--format", "json", "--dims", "zone,category", "--top", "2", "-o", "-")
	require.NoError(t, err)

	var entries []stats.RankedEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Agdal", entries[0].Zone)
	assert.Equal(t, "DECHETS", entries[0].Category)
	assert.Equal(t, 6, entries[0].Count)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestExport_TopCommunes(t *testing.T) {
	b, _ := setupCLI(t)

	out, _, err := execute(t, "export", "top-communes", "--format", "json", "--top", "2", "-o", "-")
	require.NoError(t, err)

	var entries []stats.RankedEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Hassan", entries[0].Zone)
	assert.Equal(t, 12, entries[0].Count)
	assert.InDelta(t, 60, entries[0].Percentage, 1e-9)
	assert.Equal(t, "Agdal", entries[1].Zone)
	assert.Contains(t, b.requests(), "GET /stats/TopCommunes")
	assert.NotContains(t, b.requests(), "GET /stats/frequency")

	resetFlags()
	out, _, err = execute(t, "export", "top-communes", "--zone", "souissi", "-o", "-")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"Souissi"`)
}

func TestExport_DefaultFileNameInExportDir(t *testing.T) {
	_, dir := setupCLI(t)
	writeTestFile(t, dir, ".plaintes.yaml", mustReadConfig(t, dir)+"export:\n  dir: exports\n")

	_, errOut, err := execute(t, "export", "hourly")
	require.NoError(t, err)

	path := filepath.Join(dir, "exports", "hourly_2025-05-14.csv")
	assert.Contains(t, errOut, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"09h"`)
}

func TestExport_ResolutionSortedAndFiltered(t *testing.T) {
	setupCLI(t)

	out, _, err := execute(t, "export", "resolution", "--format", "json", "--sort", "rate", "--asc", "-o", "-")
	require.NoError(t, err)
	var rows []model.ResolutionRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Agdal", rows[0].Commune)
	assert.Equal(t, "Hassan", rows[1].Commune)

	resetFlags()
	out, _, err = execute(t, "export", "resolution", "--format", "json", "--query", "hass", "-o", "-")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Hassan", rows[0].Commune)
}

func TestExport_ResolutionCSVHeader(t *testing.T) {
	setupCLI(t)
	out, _, err := execute(t, "export", "resolution", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"Commune";"Catégorie";"Total Plaintes";"Plaintes Résolues";"Taux de Résolution (%)"`)
}

func TestExport_ResolutionPDF(t *testing.T) {
	_, dir := setupCLI(t)

	_, _, err := execute(t, "export", "resolution", "--format", "pdf", "-o", "rapport.pdf")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "rapport.pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestExport_Snapshot(t *testing.T) {
	setupCLI(t)
	out, _, err := execute(t, "export", "snapshot", "--format", "json", "-o", "-")
	require.NoError(t, err)

	var snap dashboard.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 10, snap.Total)
	assert.Len(t, snap.ResolutionRows, 2)
}

func TestExport_Complaints(t *testing.T) {
	b, _ := setupCLI(t)
	out, _, err := execute(t, "export", "complaints", "--status", "IN_PROGRESS", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Dépôt sauvage devant l'école")
	assert.Contains(t, b.requests(), "GET /plaintes")
}

func TestExport_NothingToExport(t *testing.T) {
	setupCLI(t)
	_, _, err := execute(t, "export", "complaints", "--status", "REJECTED", "-o", "-")
	requireExitCode(t, err, ExitNothingProduced)
}

func TestExport_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"export", "heatmap"}},
		{"unknown format", []string{"export", "ranking", "--format", "xlsx"}},
		{"pdf for ranking", []string{"export", "ranking", "--format", "pdf"}},
		{"snapshot as csv", []string{"export", "snapshot"}},
		{"bad sort field", []string{"export", "resolution", "--sort", "priority", "-o", "-"}},
		{"bad status", []string{"export", "complaints", "--status", "CLOSED", "-o", "-"}},
		{"missing kind", []string{"export"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			var ece *exitCodeError
			if errors.As(err, &ece) {
				assert.Equal(t, ExitInvalidArgs, ece.ExitCode())
			}
		})
	}
}

func TestExport_WriteFailure(t *testing.T) {
	setupCLI(t)
	withMockFS(t, &testable.MockFileSystem{
		WriteFileFn: func(string, []byte, os.FileMode) error { return errors.New("disk full") },
	})

	_, _, err := execute(t, "export", "trends", "-o", "trends.csv")
	ece := requireExitCode(t, err, ExitInvalidArgs)
	assert.Contains(t, ece.Error(), "disk full")
}

func TestExport_MkdirFailure(t *testing.T) {
	setupCLI(t)
	withMockFS(t, &testable.MockFileSystem{
		MkdirAllFn: func(string, os.FileMode) error { return errors.New("read-only file system") },
	})

	_, _, err := execute(t, "export", "trends", "-o", "out/trends.csv")
	ece := requireExitCode(t, err, ExitInvalidArgs)
	assert.Contains(t, ece.Error(), "cannot create directory")
}

func TestExport_OutputIsDirectory(t *testing.T) {
	_, dir := setupCLI(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "exports"), 0o750))

	_, _, err := execute(t, "export", "trends", "-o", "exports")
	ece := requireExitCode(t, err, ExitInvalidArgs)
	assert.Contains(t, ece.Error(), "is a directory")
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "ranking_2025-05-14.csv", defaultFileName("ranking", "csv", fixedNow))
}

func mustReadConfig(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, ".plaintes.yaml"))
	require.NoError(t, err)
	return string(data)
}
