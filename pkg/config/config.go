package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is empty because every variable carries the QRORDER_ prefix in
// its tag already.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Page     PageConfig
	HTTP     HTTPConfig
	Realtime RealtimeConfig
	Metrics  MetricsConfig
	Auth     AuthConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Page.validateOrigin(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"QRORDER_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"QRORDER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QRORDER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// PageConfig stands in for the browser page location: the origin the view
// was served from, which the API and channel bases are derived from.
type PageConfig struct {
	Origin string `envconfig:"QRORDER_ORIGIN" default:"http://localhost:3000"`
}

func (p PageConfig) validateOrigin() error {
	parsed, err := url.Parse(p.Origin)
	if err != nil {
		return fmt.Errorf("parsing QRORDER_ORIGIN: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("QRORDER_ORIGIN must be http(s), got %q", p.Origin)
	}
	if parsed.Host == "" {
		return fmt.Errorf("QRORDER_ORIGIN must carry a host, got %q", p.Origin)
	}
	return nil
}

type HTTPConfig struct {
	Timeout time.Duration `envconfig:"QRORDER_HTTP_TIMEOUT" default:"30s"`
}

type RealtimeConfig struct {
	ReconnectDelay   time.Duration `envconfig:"QRORDER_WS_RECONNECT_DELAY" default:"5s"`
	HandshakeTimeout time.Duration `envconfig:"QRORDER_WS_HANDSHAKE_TIMEOUT" default:"10s"`
}

type MetricsConfig struct {
	Addr string `envconfig:"QRORDER_METRICS_ADDR" default:""`
}

// AuthConfig carries the display daemons' login. The browser views prompt
// for these; headless displays read them from the environment.
type AuthConfig struct {
	Username string `envconfig:"QRORDER_USERNAME" default:""`
	Password string `envconfig:"QRORDER_PASSWORD" default:""`
}
