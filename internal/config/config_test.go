package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Storage:  StorageConfig{Backend: "sqlite"},
		Tracking: TrackingConfig{StartDate: DefaultStartDate, TopN: 7, TrendDays: 30},
		Habits:   HabitsConfig{Names: domain.DefaultHabits, WasteLimit: 50},
		Log:      LogConfig{Level: "info", MaxSizeMB: 5, MaxBackups: 3},
	}
}

func TestLoad_WritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "start_date")

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again, "reading the written file gives the same config")
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[storage]
backend = "bolt"
path = "/tmp/daybook.bolt"

[tracking]
start_date = "2024-01-01"
top_n = 3

[logger]
overnight = true

[habits]
names = ["Run", "Read"]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.BackendBolt, cfg.Backend())
	assert.Equal(t, "/tmp/daybook.bolt", cfg.StoragePath("/ignored"))
	assert.Equal(t, "2024-01-01", cfg.Tracking.StartDate)
	assert.Equal(t, 3, cfg.Tracking.TopN)
	assert.Equal(t, 30, cfg.Tracking.TrendDays, "unset keys keep defaults")
	assert.True(t, cfg.Logger.Overnight)
	assert.Equal(t, []string{"Run", "Read"}, cfg.Habits.Names)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("DAYBOOK_STORAGE_BACKEND", "diskv")
	t.Setenv("DAYBOOK_LOGGER_OVERNIGHT", "true")
	t.Setenv("DAYBOOK_TRACKING_TOP_N", "4")
	t.Setenv("DAYBOOK_LOG_ECHO", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.BackendDiskv, cfg.Backend())
	assert.True(t, cfg.Logger.Overnight)
	assert.Equal(t, 4, cfg.Tracking.TopN)
	assert.True(t, cfg.Log.Echo)
	assert.Equal(t, filepath.Join("/data", "store"), cfg.StoragePath("/data"))
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"backend", "[storage]\nbackend = \"postgres\"\n", "storage backend"},
		{"start date", "[tracking]\nstart_date = \"16/02/2026\"\n", "start_date"},
		{"top n", "[tracking]\ntop_n = 0\n", "top_n"},
		{"trend days", "[tracking]\ntrend_days = -1\n", "trend_days"},
		{"waste limit", "[habits]\nwaste_limit = 0\n", "waste_limit"},
		{"log level", "[log]\nlevel = \"loud\"\n", "log.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.doc), 0o644))

			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage\nbackend="), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestStoragePath_Defaults(t *testing.T) {
	cases := map[string]string{
		"sqlite": "daybook.db",
		"bolt":   "daybook.bolt",
		"diskv":  "store",
	}
	for backend, want := range cases {
		cfg := &Config{Storage: StorageConfig{Backend: backend}}
		assert.Equal(t, filepath.Join("/data", want), cfg.StoragePath("/data"), backend)
	}
}

func TestResolvePaths(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	p, err := ResolvePaths("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "config", "daybook", "config.toml"), p.ConfigFile)
	assert.Equal(t, filepath.Join(root, "data", "daybook"), p.DataDir)

	dev, err := ResolvePaths("dev")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(dev.ConfigFile, "config_dev.toml"))
	assert.Equal(t, filepath.Join(root, "data", "daybook", "dev"), dev.DataDir)
	assert.True(t, strings.HasSuffix(dev.LogFile, "daybook_dev.log"))
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "daybook.log")
	var echo strings.Builder

	logger, closer := NewLogger(LogConfig{Level: "warn", MaxSizeMB: 1, MaxBackups: 1}, path, &echo)
	logger.Info("hidden")
	logger.Warn("disk almost full", "free_mb", 12)
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "disk almost full")
	assert.NotContains(t, string(raw), "hidden")
	assert.Contains(t, echo.String(), "free_mb=12")
}
