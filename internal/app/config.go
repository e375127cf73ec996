package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"servicepro/internal/api"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home        string        `yaml:"home" env:"SERVICEPRO_HOME"`                 // state directory, e.g. $HOME/.servicepro
	BaseURL     string        `yaml:"base_url" env:"SERVICEPRO_BASE_URL"`         // backend base URL
	Timeout     time.Duration `yaml:"timeout" env:"SERVICEPRO_TIMEOUT"`           // per-call bound
	StoreSecret string        `yaml:"store_secret" env:"SERVICEPRO_STORE_SECRET"` // seals the token; device id when empty
	MetricsAddr string        `yaml:"metrics_addr" env:"SERVICEPRO_METRICS_ADDR"` // watch command only

	// RequireTraining sends approved providers without a training
	// submission to TrainingStatus instead of the dashboard.
	RequireTraining bool `yaml:"require_training" env:"SERVICEPRO_REQUIRE_TRAINING"`

	Endpoints EndpointConfig  `yaml:"endpoints"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Probe     ProbeConfig     `yaml:"probe"`
}

// EndpointConfig names backend routes, relative to BaseURL.
type EndpointConfig struct {
	Login    string `yaml:"login" env:"SERVICEPRO_ENDPOINT_LOGIN"`
	Logout   string `yaml:"logout" env:"SERVICEPRO_ENDPOINT_LOGOUT"`
	Profile  string `yaml:"profile" env:"SERVICEPRO_ENDPOINT_PROFILE"`
	KYC      string `yaml:"kyc" env:"SERVICEPRO_ENDPOINT_KYC"`
	Training string `yaml:"training" env:"SERVICEPRO_ENDPOINT_TRAINING"`
	Health   string `yaml:"health" env:"SERVICEPRO_ENDPOINT_HEALTH"`
}

// LogConfig selects logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level" env:"SERVICEPRO_LOG_LEVEL"`
	Format string `yaml:"format" env:"SERVICEPRO_LOG_FORMAT"` // text or json
}

// RateLimitConfig throttles outgoing calls. Zero disables it.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second" env:"SERVICEPRO_RATE_PER_SECOND"`
	Burst     int     `yaml:"burst" env:"SERVICEPRO_RATE_BURST"`
}

// ProbeConfig drives the connectivity prober used by the watch command.
type ProbeConfig struct {
	Interval time.Duration `yaml:"interval" env:"SERVICEPRO_PROBE_INTERVAL"`
	Timeout  time.Duration `yaml:"timeout" env:"SERVICEPRO_PROBE_TIMEOUT"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	home := ".servicepro"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".servicepro")
	}
	return Config{
		Home:    home,
		BaseURL: "http://127.0.0.1:8080",
		Timeout: api.DefaultTimeout,
		Endpoints: EndpointConfig{
			Login:    "/auth/login",
			Logout:   "/auth/logout",
			Profile:  "/user/profile",
			KYC:      "/user/kyc",
			Training: "/user/training",
			Health:   "/health",
		},
		Log:       LogConfig{Level: "info", Format: "text"},
		RateLimit: RateLimitConfig{Burst: 1},
		Probe:     ProbeConfig{Interval: 15 * time.Second, Timeout: 5 * time.Second},
	}
}

// LoadConfig layers defaults, the YAML file at path, the dotenv file at
// envFile and the process environment, in that order. Empty paths are
// skipped; a named file that does not exist is an error.
func LoadConfig(path, envFile string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env (%s): %w", envFile, err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate reports settings the app cannot run with.
func (c Config) Validate() error {
	if c.Home == "" {
		return errors.New("config: home is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("config: base_url %q must be an absolute URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit.PerSecond < 0 || (c.RateLimit.PerSecond > 0 && c.RateLimit.Burst < 1) {
		return fmt.Errorf("config: rate_limit needs per_second >= 0 and burst >= 1")
	}
	if c.Probe.Interval <= 0 {
		return fmt.Errorf("config: probe.interval must be positive, got %s", c.Probe.Interval)
	}
	return nil
}
