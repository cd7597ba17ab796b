package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/queuecast/internal/domain"
)

// DefaultPath is read when QUEUECAST_CONFIG is unset. A missing file is not
// an error.
const DefaultPath = "queuecast.yaml"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Features  FeaturesConfig  `yaml:"features"`
	Predictor PredictorConfig `yaml:"predictor"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
	Release     bool     `yaml:"release"`
}

// DataConfig locates reference data and trained artifacts. When TasksPath or
// StaffingPath is set the Engine reads that file directly instead of the
// tables imported into the database.
type DataConfig struct {
	DBPath       string `yaml:"db_path"`
	ArtifactsDir string `yaml:"artifacts_dir"`
	TasksPath    string `yaml:"tasks_path"`
	StaffingPath string `yaml:"staffing_path"`
}

type FeaturesConfig struct {
	DefaultEmployeesOnDuty float64 `yaml:"default_employees_on_duty"`
	DefaultStaffLoadRatio  float64 `yaml:"default_staff_load_ratio"`
}

type PredictorConfig struct {
	UnknownPolicy          string  `yaml:"unknown_policy"`
	Seed                   int64   `yaml:"seed"`
	LastResortMinutes      int     `yaml:"last_resort_minutes"`
	JitterPct              float64 `yaml:"jitter_pct"`
	DefaultFallbackMinutes int     `yaml:"default_fallback_minutes"`
	StaffingFallback       int     `yaml:"staffing_fallback"`
}

type ForecastConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":5000",
			CORSOrigins: []string{"*"},
		},
		Data: DataConfig{
			DBPath:       defaultDBPath(),
			ArtifactsDir: "artifacts",
		},
		Features: FeaturesConfig{
			DefaultEmployeesOnDuty: 5,
			DefaultStaffLoadRatio:  1.0,
		},
		Predictor: PredictorConfig{
			UnknownPolicy:          string(domain.UnknownRules),
			Seed:                   42,
			LastResortMinutes:      60,
			JitterPct:              0.10,
			DefaultFallbackMinutes: 45,
			StaffingFallback:       3,
		},
		Forecast: ForecastConfig{
			Enabled:  false,
			Schedule: "0 18 * * *",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "queuecast.db"
	}
	return filepath.Join(home, ".queuecast", "queuecast.db")
}

// Load layers the YAML file at path (or QUEUECAST_CONFIG, or DefaultPath)
// over the defaults, then applies QUEUECAST_* environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("QUEUECAST_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultPath
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	default:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envString(&cfg.Server.Addr, "QUEUECAST_ADDR")
	envList(&cfg.Server.CORSOrigins, "QUEUECAST_CORS_ORIGINS")
	envBool(&cfg.Server.Release, "QUEUECAST_RELEASE")

	envString(&cfg.Data.DBPath, "QUEUECAST_DB")
	envString(&cfg.Data.ArtifactsDir, "QUEUECAST_ARTIFACTS_DIR")
	envString(&cfg.Data.TasksPath, "QUEUECAST_TASKS_PATH")
	envString(&cfg.Data.StaffingPath, "QUEUECAST_STAFFING_PATH")

	envFloat(&cfg.Features.DefaultEmployeesOnDuty, "QUEUECAST_DEFAULT_EMPLOYEES")
	envFloat(&cfg.Features.DefaultStaffLoadRatio, "QUEUECAST_DEFAULT_LOAD_RATIO")

	envString(&cfg.Predictor.UnknownPolicy, "QUEUECAST_UNKNOWN_POLICY")
	if v := os.Getenv("QUEUECAST_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Predictor.Seed = n
		}
	}
	envInt(&cfg.Predictor.LastResortMinutes, "QUEUECAST_LAST_RESORT_MINUTES")
	envFloat(&cfg.Predictor.JitterPct, "QUEUECAST_JITTER_PCT")
	envInt(&cfg.Predictor.DefaultFallbackMinutes, "QUEUECAST_DEFAULT_FALLBACK_MINUTES")
	envInt(&cfg.Predictor.StaffingFallback, "QUEUECAST_STAFFING_FALLBACK")

	envBool(&cfg.Forecast.Enabled, "QUEUECAST_FORECAST_ENABLED")
	envString(&cfg.Forecast.Schedule, "QUEUECAST_FORECAST_SCHEDULE")

	envString(&cfg.Log.Level, "QUEUECAST_LOG_LEVEL")
	envString(&cfg.Log.Format, "QUEUECAST_LOG_FORMAT")
}

// ScheduleParser accepts five-field cron expressions and descriptors such as
// @daily. Validate and the forecast scheduler both parse with it.
var ScheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate rejects values the predictor cannot run with.
func (c Config) Validate() error {
	var errs []error
	if !domain.ValidUnknownPolicies[c.Predictor.UnknownPolicy] {
		errs = append(errs, fmt.Errorf("predictor.unknown_policy must be reject, default or rules, got %q", c.Predictor.UnknownPolicy))
	}
	if c.Predictor.LastResortMinutes < 1 {
		errs = append(errs, fmt.Errorf("predictor.last_resort_minutes must be >= 1"))
	}
	if c.Predictor.DefaultFallbackMinutes < 1 {
		errs = append(errs, fmt.Errorf("predictor.default_fallback_minutes must be >= 1"))
	}
	if c.Predictor.StaffingFallback < 1 {
		errs = append(errs, fmt.Errorf("predictor.staffing_fallback must be >= 1"))
	}
	if !(c.Predictor.JitterPct >= 0 && c.Predictor.JitterPct < 1) {
		errs = append(errs, fmt.Errorf("predictor.jitter_pct must be in [0, 1)"))
	}
	if !nonNegativeFinite(c.Features.DefaultEmployeesOnDuty) {
		errs = append(errs, fmt.Errorf("features.default_employees_on_duty must be a finite number >= 0"))
	}
	if !nonNegativeFinite(c.Features.DefaultStaffLoadRatio) {
		errs = append(errs, fmt.Errorf("features.default_staff_load_ratio must be a finite number >= 0"))
	}
	if c.Forecast.Enabled {
		if _, err := ScheduleParser.Parse(c.Forecast.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("forecast.schedule: %w", err))
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func nonNegativeFinite(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func envString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envList(dst *[]string, name string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

func envBool(dst *bool, name string) {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envInt(dst *int, name string) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(dst *float64, name string) {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
