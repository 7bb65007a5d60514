package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
upstream:
  baseURL: https://social.example.com/
pipeline:
  maxPages: 2
  interPageDelay: 50ms
logger:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://social.example.com", cfg.Upstream.BaseURL)
	assert.Equal(t, 2, cfg.Pipeline.MaxPages)
	assert.Equal(t, 50*time.Millisecond, cfg.Pipeline.InterPageDelay)
	assert.Equal(t, 10, cfg.Pipeline.BatchSize, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REPLYGRAPH_BEARER_TOKEN", "secret")
	t.Setenv("REPLYGRAPH_PORT", "9090")
	t.Setenv("REPLYGRAPH_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Credentials.BearerToken)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Logger.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Pipeline.MaxPages = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	assert.NoError(t, cfg.Validate())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Pipeline.MaxPages = 7
	cfg.Pipeline.InterBatchDelay = time.Second
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Pipeline.MaxPages)
	assert.Equal(t, time.Second, got.Pipeline.InterBatchDelay)
}

type fakeParams struct {
	value string
	err   error
	asked string
}

func (f *fakeParams) GetParameter(_ context.Context, name string) (string, error) {
	f.asked = name
	return f.value, f.err
}

func TestResolveSecrets(t *testing.T) {
	cfg := Default()
	cfg.Credentials.BearerTokenParam = "/replygraph/token"
	params := &fakeParams{value: "tok\n"}
	require.NoError(t, cfg.ResolveSecrets(context.Background(), params))
	assert.Equal(t, "tok", cfg.Credentials.BearerToken)
	assert.Equal(t, "/replygraph/token", params.asked)

	// a direct token wins, the store is not consulted
	params = &fakeParams{err: errors.New("boom")}
	require.NoError(t, cfg.ResolveSecrets(context.Background(), params))
	assert.Empty(t, params.asked)

	cfg = Default()
	cfg.Credentials.BearerTokenParam = "/replygraph/token"
	assert.Error(t, cfg.ResolveSecrets(context.Background(), &fakeParams{err: errors.New("denied")}))
}
