package config

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadFS_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFS(fstest.MapFS{}, "itemsapi.yaml")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "FastAPI", cfg.Title)
	assert.Equal(t, "0.1.0", cfg.Version)
	assert.Equal(t, "/openapi.json", cfg.OpenAPIURL)
}

func TestLoadFS_OverridesDefaults(t *testing.T) {
	fsys := fstest.MapFS{"itemsapi.yaml": {Data: []byte(`
addr: ":9000"
json_driver: gojson
shutdown_timeout: 3s
docs_url: ""
log:
  level: debug
store:
  kind: redis
  redis_addr: redis:6379
`)}}
	cfg, err := LoadFS(fsys, "itemsapi.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, DriverGoJSON, cfg.JSONDriver)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "", cfg.DocsURL)
	assert.Equal(t, "/openapi.json", cfg.OpenAPIURL)
	assert.Equal(t, StoreRedis, cfg.Store.Kind)
	assert.Equal(t, "redis:6379", cfg.Store.RedisAddr)
	assert.Equal(t, "items", cfg.Store.KeyPrefix)

	h := cfg.HTTP()
	assert.Equal(t, "FastAPI", h.Title)
	assert.Equal(t, "", h.DocsURL)
}

func TestLoadFS_EmptyFile(t *testing.T) {
	cfg, err := LoadFS(fstest.MapFS{"c.yaml": {Data: []byte("")}}, "c.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Addr)
}

func TestLoadFS_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "adress: x\n",
		"store kind":    "store:\n  kind: postgres\n",
		"json driver":   "json_driver: simd\n",
		"log level":     "log:\n  level: loud\n",
		"negative size": "max_body_bytes: -1\n",
		"bad yaml":      "addr: [\n",
	}
	for name, data := range cases {
		_, err := LoadFS(fstest.MapFS{"c.yaml": {Data: []byte(data)}}, "c.yaml")
		assert.Error(t, err, name)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	l, err := cfg.Logger()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
}
