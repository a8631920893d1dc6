package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func intPtr(n int) *int { return &n }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_ParsesFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
backend_url: https://api.example.org
lang: ar
range: week
top_n: 10
sections: [ranking, trends]
retries: 0
watch:
  interval: 1m
export:
  image_timeout: 5s
  placeholder: "-"
`)
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org", cfg.Backend())
	assert.Equal(t, DefaultNLPURL, cfg.NLP())
	assert.Equal(t, "week", cfg.RangeToken())
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, []string{"ranking", "trends"}, cfg.Sections)
	assert.Equal(t, 0, cfg.RetryCount())
	assert.Equal(t, time.Minute, cfg.WatchInterval())
	assert.Equal(t, 5*time.Second, cfg.ImageTimeout())
	assert.Equal(t, DefaultTimeout, cfg.TimeoutDuration())
	assert.Equal(t, "-", cfg.Export.Placeholder)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "top_n: [")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileName)
}

func TestDefaults(t *testing.T) {
	var cfg Config
	assert.Equal(t, DefaultBackendURL, cfg.Backend())
	assert.Equal(t, DefaultRange, cfg.RangeToken())
	assert.Equal(t, DefaultRetries, cfg.RetryCount())
	assert.Equal(t, DefaultMinInterval, cfg.MinIntervalDuration())
	cfg.Timeout = "garbage"
	assert.Equal(t, DefaultTimeout, cfg.TimeoutDuration())
}

func TestConfig_TokenNeverSerialized(t *testing.T) {
	data, err := yaml.Marshal(&Config{Token: "secret-token", Lang: "fr"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-token")
	assert.Equal(t, "lang: fr\n", string(data))
}

func TestMerge_LocalWins(t *testing.T) {
	global := &Config{BackendURL: "https://global", Lang: "ar", TopN: 3, Retries: intPtr(4)}
	local := &Config{BackendURL: "https://local", Watch: WatchConfig{Interval: "10s"}}

	got := Merge(global, local)
	assert.Equal(t, "https://local", got.BackendURL)
	assert.Equal(t, "ar", got.Lang)
	assert.Equal(t, 3, got.TopN)
	assert.Equal(t, 4, got.RetryCount())
	assert.Equal(t, "10s", got.Watch.Interval)
	assert.Equal(t, "https://global", global.BackendURL, "inputs untouched")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBackendURL: "https://env",
		EnvToken:      "tok-123",
		EnvLang:       "ar",
	}
	cfg := &Config{BackendURL: "https://file", NLPURL: "https://nlp"}
	ApplyEnv(cfg, func(k string) string { return env[k] })

	assert.Equal(t, "https://env", cfg.BackendURL)
	assert.Equal(t, "https://nlp", cfg.NLPURL)
	assert.Equal(t, "tok-123", cfg.Token)
	assert.Equal(t, "ar", cfg.Lang)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(&Config{}))
	require.NoError(t, Validate(&Config{
		BackendURL: "https://api.example.org/api", Lang: "fr", Range: "7d",
		OutputFormat: "json", Timeout: "5s", Retries: intPtr(3),
	}))

	err := Validate(&Config{
		BackendURL:   "ftp://nope",
		NLPURL:       "localhost:8000",
		Lang:         "en",
		Range:        "custom",
		TopN:         -1,
		OutputFormat: "xml",
		Retries:      intPtr(11),
		Timeout:      "soon",
		Watch:        WatchConfig{Interval: "-5s"},
	})
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"backend_url", "nlp_url", "lang", "range: custom", "top_n",
		"output_format", "retries", "timeout", "watch.interval",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestGlobalConfigDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	assert.Equal(t, filepath.Join(xdg, "plaintes"), GlobalConfigDir())
	assert.Equal(t, filepath.Join(xdg, "plaintes", "config.yaml"), GlobalConfigPath())
}

func TestResolve_Precedence(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv(EnvBackendURL, "")
	t.Setenv(EnvNLPURL, "")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvLang, "ar")

	writeFile(t, GlobalConfigPath(), "backend_url: https://global\nnlp_url: https://nlp-global\ntop_n: 7\n")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "backend_url: https://local\n")
	require.NoError(t, SaveToken("stored-token"))

	cfg, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://local", cfg.BackendURL)
	assert.Equal(t, "https://nlp-global", cfg.NLPURL)
	assert.Equal(t, 7, cfg.TopN)
	assert.Equal(t, "ar", cfg.Lang)
	assert.Equal(t, "stored-token", cfg.Token)

	t.Setenv(EnvToken, "env-token")
	cfg, err = Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Token, "environment wins over stored token")
}

func TestResolve_Invalid(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvLang, "")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "range: forever\n")
	_, err := Resolve(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "range")
}

func TestCredentials(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tok, err := LoadToken()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, SaveToken("abc.def.ghi"))
	tok, err = LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(CredentialsPath())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	require.NoError(t, ClearToken())
	require.NoError(t, ClearToken(), "clearing twice is fine")
	tok, err = LoadToken()
	require.NoError(t, err)
	assert.Empty(t, tok)

	assert.Error(t, SaveToken(""))
}
