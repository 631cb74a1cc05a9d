// Package config resolves file locations and loads daybook settings from
// config.toml and DAYBOOK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/spf13/viper"
)

const (
	appDir    = "daybook"
	envPrefix = "DAYBOOK"
	// EnvName selects a separate set of files, e.g. DAYBOOK_ENV=dev.
	EnvName = "DAYBOOK_ENV"
)

const (
	keyBackend       = "storage.backend"
	keyStoragePath   = "storage.path"
	keyStartDate     = "tracking.start_date"
	keyTopN          = "tracking.top_n"
	keyTrendDays     = "tracking.trend_days"
	keyOvernight     = "logger.overnight"
	keyHabitNames    = "habits.names"
	keyWasteLimit    = "habits.waste_limit"
	keyLogLevel      = "log.level"
	keyLogMaxSizeMB  = "log.max_size_mb"
	keyLogMaxBackups = "log.max_backups"
	keyLogEcho       = "log.echo"
)

// DefaultStartDate is the first tracked day when none is configured.
const DefaultStartDate = "2026-02-16"

var (
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	Config struct {
		Storage  StorageConfig  `mapstructure:"storage"`
		Tracking TrackingConfig `mapstructure:"tracking"`
		Logger   LoggerConfig   `mapstructure:"logger"`
		Habits   HabitsConfig   `mapstructure:"habits"`
		Log      LogConfig      `mapstructure:"log"`
	}

	StorageConfig struct {
		Backend string `mapstructure:"backend"`
		// Path overrides the default database file or store directory.
		Path string `mapstructure:"path"`
	}

	TrackingConfig struct {
		StartDate string `mapstructure:"start_date"`
		TopN      int    `mapstructure:"top_n"`
		TrendDays int    `mapstructure:"trend_days"`
	}

	LoggerConfig struct {
		Overnight bool `mapstructure:"overnight"`
	}

	HabitsConfig struct {
		Names      []string `mapstructure:"names"`
		WasteLimit float64  `mapstructure:"waste_limit"`
	}

	LogConfig struct {
		Level      string `mapstructure:"level"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		// Echo copies log records to stderr.
		Echo bool `mapstructure:"echo"`
	}
)

// Paths are the files daybook reads and writes.
type Paths struct {
	ConfigFile string
	DataDir    string
	LogFile    string
}

// ResolvePaths places the config under the XDG config home and data under
// the XDG data home. A non-empty env suffixes every file name.
func ResolvePaths(env string) (Paths, error) {
	configName, logName := "config.toml", "daybook.log"
	if env = strings.TrimSpace(env); env != "" {
		configName = fmt.Sprintf("config_%s.toml", env)
		logName = fmt.Sprintf("daybook_%s.log", env)
	}

	configFile, err := xdg.ConfigFile(filepath.Join(appDir, configName))
	if err != nil {
		return Paths{}, fmt.Errorf("resolving config path: %w", err)
	}
	dataDir, err := xdg.DataFile(appDir)
	if err != nil {
		return Paths{}, fmt.Errorf("resolving data dir: %w", err)
	}
	if env != "" {
		dataDir = filepath.Join(dataDir, env)
	}
	return Paths{
		ConfigFile: configFile,
		DataDir:    dataDir,
		LogFile:    filepath.Join(dataDir, "log", logName),
	}, nil
}

// Load reads configFile, writing a default one when it does not exist yet.
// DAYBOOK_* variables override file values, e.g. DAYBOOK_STORAGE_BACKEND.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("toml")
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}
		if err := v.WriteConfig(); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyBackend, string(domain.BackendSQLite))
	v.SetDefault(keyStoragePath, "")
	v.SetDefault(keyStartDate, DefaultStartDate)
	v.SetDefault(keyTopN, 7)
	v.SetDefault(keyTrendDays, 30)
	v.SetDefault(keyOvernight, false)
	v.SetDefault(keyHabitNames, domain.DefaultHabits)
	v.SetDefault(keyWasteLimit, float64(domain.WasteLimitMinutes))
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogMaxSizeMB, 5)
	v.SetDefault(keyLogMaxBackups, 3)
	v.SetDefault(keyLogEcho, false)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := domain.ParseStorageBackend(c.Storage.Backend); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !calendar.ValidDateKey(c.Tracking.StartDate) {
		return fmt.Errorf("%w: tracking.start_date %q is not YYYY-MM-DD", ErrInvalidConfig, c.Tracking.StartDate)
	}
	if c.Tracking.TopN < 1 {
		return fmt.Errorf("%w: tracking.top_n must be at least 1", ErrInvalidConfig)
	}
	if c.Tracking.TrendDays < 0 {
		return fmt.Errorf("%w: tracking.trend_days must not be negative", ErrInvalidConfig)
	}
	if c.Habits.WasteLimit <= 0 {
		return fmt.Errorf("%w: habits.waste_limit must be positive", ErrInvalidConfig)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Backend returns the validated storage backend.
func (c *Config) Backend() domain.StorageBackend {
	b, err := domain.ParseStorageBackend(c.Storage.Backend)
	if err != nil {
		return domain.BackendSQLite
	}
	return b
}

// StoragePath is the configured storage location, or the backend's default
// inside dataDir.
func (c *Config) StoragePath(dataDir string) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	switch c.Backend() {
	case domain.BackendBolt:
		return filepath.Join(dataDir, "daybook.bolt")
	case domain.BackendDiskv:
		return filepath.Join(dataDir, "store")
	default:
		return filepath.Join(dataDir, "daybook.db")
	}
}

// SlogLevel parses Level as debug, info, warn or error.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
