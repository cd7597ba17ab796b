package config

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5.0, cfg.Features.DefaultEmployeesOnDuty)
	assert.Equal(t, 1.0, cfg.Features.DefaultStaffLoadRatio)
	assert.Equal(t, "rules", cfg.Predictor.UnknownPolicy)
	assert.Equal(t, 60, cfg.Predictor.LastResortMinutes)
	assert.Equal(t, 45, cfg.Predictor.DefaultFallbackMinutes)
	assert.Equal(t, 3, cfg.Predictor.StaffingFallback)
	assert.Equal(t, 0.10, cfg.Predictor.JitterPct)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queuecast.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
predictor:
  unknown_policy: reject
  seed: 7
features:
  default_employees_on_duty: 4
`), 0o644))

	t.Setenv("QUEUECAST_ADDR", ":9090")
	t.Setenv("QUEUECAST_JITTER_PCT", "0.05")
	t.Setenv("QUEUECAST_CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, "reject", cfg.Predictor.UnknownPolicy)
	assert.Equal(t, int64(7), cfg.Predictor.Seed)
	assert.Equal(t, 4.0, cfg.Features.DefaultEmployeesOnDuty)
	assert.Equal(t, 1.0, cfg.Features.DefaultStaffLoadRatio, "unset keys keep defaults")
	assert.Equal(t, 0.05, cfg.Predictor.JitterPct)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QUEUECAST_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Addr, cfg.Server.Addr)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_IgnoresMalformedEnv(t *testing.T) {
	t.Setenv("QUEUECAST_LAST_RESORT_MINUTES", "sixty")
	t.Setenv("QUEUECAST_FORECAST_ENABLED", "maybe")

	cfg, err := Load(filepath.Join(writeEmpty(t), "queuecast.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Predictor.LastResortMinutes)
	assert.False(t, cfg.Forecast.Enabled)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Predictor.UnknownPolicy = "guess"
	cfg.Predictor.JitterPct = 1.5
	cfg.Forecast.Enabled = true
	cfg.Forecast.Schedule = "every day"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.True(t, strings.Contains(msg, "unknown_policy"))
	assert.True(t, strings.Contains(msg, "jitter_pct"))
	assert.True(t, strings.Contains(msg, "forecast.schedule"))
}

func TestValidate_RejectsNonFiniteFeatureDefaults(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.5} {
		cfg := DefaultConfig()
		cfg.Features.DefaultStaffLoadRatio = v
		cfg.Features.DefaultEmployeesOnDuty = v
		cfg.Predictor.JitterPct = v

		err := cfg.Validate()
		require.Error(t, err, "value %v", v)
		assert.Contains(t, err.Error(), "features.default_staff_load_ratio")
		assert.Contains(t, err.Error(), "features.default_employees_on_duty")
		assert.Contains(t, err.Error(), "predictor.jitter_pct")
	}

	cfg := DefaultConfig()
	cfg.Features.DefaultStaffLoadRatio = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoad_RejectsNaNLoadRatioFromEnv(t *testing.T) {
	t.Setenv("QUEUECAST_DEFAULT_LOAD_RATIO", "NaN")

	_, err := Load(filepath.Join(writeEmpty(t), "queuecast.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "features.default_staff_load_ratio")
}

func TestScheduleParser(t *testing.T) {
	for _, schedule := range []string{"0 18 * * *", "@daily", "@every 1h"} {
		cfg := DefaultConfig()
		cfg.Forecast.Enabled = true
		cfg.Forecast.Schedule = schedule
		assert.NoError(t, cfg.Validate(), schedule)
	}
	for _, schedule := range []string{"0 0 18 * * *", "every day", ""} {
		cfg := DefaultConfig()
		cfg.Forecast.Enabled = true
		cfg.Forecast.Schedule = schedule
		assert.Error(t, cfg.Validate(), schedule)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func writeEmpty(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "queuecast.yaml"), nil, 0o644))
	return dir
}
