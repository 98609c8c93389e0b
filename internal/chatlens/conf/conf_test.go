package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whoamihappyhacking/chatlens/internal/analysis"
	"github.com/whoamihappyhacking/chatlens/internal/cache"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	v.AddConfigPath(t.TempDir())
	cfg, err := Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.Analysis.TopN)
	assert.Equal(t, 5, cfg.Analysis.MidnightEnd)
	assert.Equal(t, "bolt", cfg.Cache.Backend)
	assert.True(t, cfg.Cache.Compress)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chatlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /data/archive/
http_addr: 0.0.0.0:6000
analysis:
  top_n: 3
  midnight_start: 23
  midnight_end: 4
  extra_excluded: [wxid_bot]
  timezone: UTC
cache:
  backend: memory
`), 0o644))
	t.Setenv("CHATLENS_CACHE_BACKEND", "redis")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "/data/archive", cfg.DataDir)
	assert.Equal(t, "0.0.0.0:6000", cfg.GetHTTPAddr())
	assert.Equal(t, "redis", cfg.Cache.Backend)

	opts := cfg.GetAnalysis().ToOptions()
	assert.Equal(t, 3, opts.TopN)
	assert.Equal(t, 23, opts.MidnightStart)
	assert.Equal(t, 4, opts.MidnightEnd)
	assert.Equal(t, []string{"wxid_bot"}, opts.ExtraExcluded)
	assert.Equal(t, time.UTC, opts.Location)
	assert.Equal(t, analysis.DefaultYieldEvery, opts.YieldEvery)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestToOptionsNil(t *testing.T) {
	var a *AnalysisConfig
	assert.Equal(t, analysis.DefaultTopN, a.ToOptions().TopN)

	var c *CacheConfig
	assert.Equal(t, cache.BackendBolt, c.ToOptions().Backend)

	bad := &AnalysisConfig{Timezone: "Mars/Olympus"}
	assert.Equal(t, time.Local, bad.ToOptions().Location)
}
