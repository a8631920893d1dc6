package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/observatoire/plaintes/internal/config"
	"github.com/observatoire/plaintes/internal/llm"
	"github.com/observatoire/plaintes/internal/testable"
)

var fixedNow = time.Date(2025, time.May, 14, 15, 30, 0, 0, time.UTC)

// fakeBackend serves the complaints backend and the classification service
// from one httptest server.
type fakeBackend struct {
	*httptest.Server

	mu      sync.Mutex
	status  int // when non-zero every request fails with it
	paths   []string
	auth    []string
	patched map[string]string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) fail(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

func (b *fakeBackend) requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.paths...)
}

func (b *fakeBackend) authHeaders() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.auth...)
}

const complaintJSON = `{"id":7,"description":"Dépôt sauvage devant l'école","categorie":{"nom":"DECHETS"},"zone":"Agdal","localisation":"Rue des Orangers","statut":"EN_COURS","dateSoumission":"2025-05-12T09:15:00","priorite":16.5,"scores":{"DECHETS":0.82,"VOIRIE":0.11}}`

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.paths = append(b.paths, r.Method+" "+r.URL.Path)
	b.auth = append(b.auth, r.Header.Get("Authorization"))
	status := b.status
	b.mu.Unlock()

	if status != 0 {
		http.Error(w, `{"message":"backend unavailable"}`, status)
		return
	}

	switch r.URL.Path {
	case "/stats/frequency":
		_, _ = io.WriteString(w, `[{"zone":"Agdal","category":"DECHETS","count":6},{"zone":"Hassan","category":"AGRESSION","count":3},{"zone":"Agdal","category":"AGRESSION","count":1}]`)
	case "/stats/trends":
		_, _ = io.WriteString(w, `[{"zone":"Agdal","category":"DECHETS","percentageChange":62.5},{"zone":"Hassan","category":"AGRESSION","percentageChange":-12.5}]`)
	case "/stats/horaire":
		_, _ = io.WriteString(w, `[{"trancheHoraire":"09:00","totalPlaintes":4},{"trancheHoraire":"21:00","totalPlaintes":6}]`)
	case "/stats/resolution":
		_, _ = io.WriteString(w, `[{"commune":"Agdal","categorie":"DECHETS","totalPlaintes":6,"resoluePlaintes":3,"tauxResolution":50},{"commune":"Hassan","categorie":"AGRESSION","totalPlaintes":4,"resoluePlaintes":4,"tauxResolution":100}]`)
	case "/stats/TopCommunes":
		if r.URL.Query().Get("referenceDate") == "" {
			http.Error(w, `{"message":"referenceDate required"}`, http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `[{"commune":"Agdal","totalPlaintes":7},{"commune":"Hassan","totalPlaintes":12},{"commune":"Souissi","totalPlaintes":1}]`)
	case "/plaintes":
		if r.URL.Query().Get("status") == "REJETEE" {
			_, _ = io.WriteString(w, `{"content":[],"totalPages":0,"totalElements":0}`)
			return
		}
		_, _ = fmt.Fprintf(w, `{"content":[%s],"totalPages":1,"totalElements":1}`, complaintJSON)
	case "/plaintes/7":
		_, _ = io.WriteString(w, complaintJSON)
	case "/plaintes/7/status":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.patched = body
		b.mu.Unlock()
		_, _ = fmt.Fprintf(w, `{"id":7,"statut":%q}`, body["status"])
	case "/classify":
		_, _ = io.WriteString(w, `{"categorie":"AGRESSION","scores":{"AGRESSION":0.91,"VOL":0.05},"priorite":18.2,"niveau_urgence":"critique"}`)
	default:
		http.NotFound(w, r)
	}
}

// setupCLI isolates one CLI test: a temp working directory with a config
// pointing at a fake backend, an empty global config, a pinned clock and no
// LLM.
func setupCLI(t *testing.T) (*fakeBackend, string) {
	t.Helper()
	resetFlags()

	b := newFakeBackend(t)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{
		config.EnvBackendURL, config.EnvNLPURL, config.EnvToken, config.EnvLang,
		"ANTHROPIC_API_KEY", "PLAINTES_LLM_MODEL",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)

	writeTestFile(t, dir, config.FileName, fmt.Sprintf(
		"backend_url: %s\nnlp_url: %s\nretries: 0\nmin_interval: 1ms\n", b.URL, b.URL))

	origNow, origProvider, origNoColor := nowFunc, newProvider, color.NoColor
	nowFunc = func() time.Time { return fixedNow }
	newProvider = func(*config.Config) (llm.Provider, error) {
		return nil, errors.New("llm disabled in tests")
	}
	t.Cleanup(func() {
		nowFunc, newProvider, color.NoColor = origNow, origProvider, origNoColor
	})
	return b, dir
}

// newTestCmd redirects the root command's I/O to buffers.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(bytes.NewReader(nil))
	return rootCmd, stdout, stderr
}

// resetFlags restores every flag of every command to its default, so state
// from one Execute does not leak into the next. Command contexts are reset
// too: cobra keeps the first context a subcommand ran with.
func resetFlags() {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		reset := func(f *pflag.Flag) {
			f.Changed = false
			_ = f.Value.Set(f.DefValue)
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		c.SetContext(context.Background())
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

// execute runs the CLI with args and returns its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd, out, errOut := newTestCmd()
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// requireExitCode asserts err is an exitCodeError with code.
func requireExitCode(t *testing.T, err error, code int) *exitCodeError {
	t.Helper()
	require.Error(t, err)
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece), "expected exitCodeError, got %T: %v", err, err)
	assert.Equal(t, code, ece.ExitCode(), ece.Error())
	return ece
}

// withMockFS swaps cmdFS with the given mock and restores it on test cleanup.
func withMockFS(t *testing.T, mock *testable.MockFileSystem) {
	t.Helper()
	orig := cmdFS
	cmdFS = mock
	t.Cleanup(func() { cmdFS = orig })
}

// writeTestFile creates a file (and any necessary parent directories) under dir.
func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
