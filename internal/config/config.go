package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures upstream credentials, pipeline tuning, and the HTTP surface.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Upstream    UpstreamConfig    `yaml:"upstream"`
	Pipeline    Pipeline          `yaml:"pipeline"`
	Server      ServerConfig      `yaml:"server"`
	Logger      LoggerConfig      `yaml:"logger"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type CredentialsConfig struct {
	// Social data API bearer token. If empty, read from env REPLYGRAPH_BEARER_TOKEN
	BearerToken string `yaml:"bearerToken"`
	// SSM parameter holding the bearer token; consulted only when BearerToken is empty
	BearerTokenParam string `yaml:"bearerTokenParam"`
}

type UpstreamConfig struct {
	BaseURL string  `yaml:"baseURL" validate:"required|fullUrl"`
	RPS     float64 `yaml:"rps" validate:"required"`
	Burst   int     `yaml:"burst" validate:"required|min:1"`
}

// Pipeline holds the knobs of a single search run. It is passed explicitly
// into the pipeline entry point.
type Pipeline struct {
	MaxPages        int           `yaml:"maxPages" validate:"required|min:1"`
	BatchSize       int           `yaml:"batchSize" validate:"required|min:1"`
	InterPageDelay  time.Duration `yaml:"interPageDelay"`
	InterBatchDelay time.Duration `yaml:"interBatchDelay"`
	Timeouts        Timeouts      `yaml:"timeouts"`
}

// Timeouts bound individual upstream calls. There is no pipeline-wide deadline.
type Timeouts struct {
	Profile      time.Duration `yaml:"profile" validate:"required"`
	Page         time.Duration `yaml:"page" validate:"required"`
	BatchProfile time.Duration `yaml:"batchProfile" validate:"required"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" validate:"required"`
	Port            int           `yaml:"port" validate:"required|min:1|max:65535"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:debug,info,warn,error"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Upstream: UpstreamConfig{BaseURL: "https://api.socialapi.me", RPS: 20, Burst: 10},
		Pipeline: DefaultPipeline(),
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080, ShutdownTimeout: 5 * time.Second},
		Logger:   LoggerConfig{Level: "info"},
		Metrics:  MetricsConfig{Enabled: true},
	}
}

// DefaultPipeline mirrors the courtesy limits the upstream API expects.
func DefaultPipeline() Pipeline {
	return Pipeline{
		MaxPages:        4,
		BatchSize:       10,
		InterPageDelay:  300 * time.Millisecond,
		InterBatchDelay: 200 * time.Millisecond,
		Timeouts: Timeouts{
			Profile:      20 * time.Second,
			Page:         20 * time.Second,
			BatchProfile: 10 * time.Second,
		},
	}
}

var envBindings = map[string]string{
	"credentials.bearerToken":      "REPLYGRAPH_BEARER_TOKEN",
	"credentials.bearerTokenParam": "REPLYGRAPH_BEARER_TOKEN_PARAM",
	"upstream.baseURL":             "REPLYGRAPH_BASE_URL",
	"server.host":                  "REPLYGRAPH_HOST",
	"server.port":                  "REPLYGRAPH_PORT",
	"logger.level":                 "REPLYGRAPH_LOG_LEVEL",
	"metrics.enabled":              "REPLYGRAPH_METRICS_ENABLED",
}

// Load reads YAML config from path (optional; a missing file means defaults)
// and applies REPLYGRAPH_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return cfg, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	cfg.Upstream.BaseURL = strings.TrimRight(cfg.Upstream.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks struct constraints declared in the validate tags.
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if v.Validate() {
		return nil
	}
	return fmt.Errorf("invalid config: %w", v.Errors)
}

// ParamGetter fetches a named secret, e.g. from AWS SSM Parameter Store.
type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// ResolveSecrets fills the bearer token from the parameter store when it was
// not provided directly.
func (c *Config) ResolveSecrets(ctx context.Context, params ParamGetter) error {
	if c.Credentials.BearerToken != "" || c.Credentials.BearerTokenParam == "" {
		return nil
	}
	if params == nil {
		return errors.New("bearer token parameter configured but no parameter store available")
	}
	token, err := params.GetParameter(ctx, c.Credentials.BearerTokenParam)
	if err != nil {
		return fmt.Errorf("resolving bearer token: %w", err)
	}
	c.Credentials.BearerToken = strings.TrimSpace(token)
	return nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
