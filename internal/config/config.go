// Package config holds all rosterhound configuration. A Config is built once
// per process (file + environment overrides) and passed by value through the
// call chain; nothing mutates it after construction.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"rosterhound/internal/automation"
)

// Config is the top-level configuration.
type Config struct {
	Portal  PortalConfig      `yaml:"portal"`
	Browser automation.Config `yaml:"browser"`
	Retry   RetryConfig       `yaml:"retry"`
	Airline AirlineConfig     `yaml:"airline"`
	Server  ServerConfig      `yaml:"server"`
	Logging LoggingConfig     `yaml:"logging"`
}

// PortalConfig describes the crew portal: URLs, locator candidates, and the
// timing knobs of the brittle session.
type PortalConfig struct {
	BaseURL  string `yaml:"base_url"`
	LoginURL string `yaml:"login_url"`

	// Ordered login-field locator candidates, tried in sequence. The portal's
	// identity-provider form has shipped with several different markups.
	UsernameSelectors []string `yaml:"username_selectors"`
	PasswordSelectors []string `yaml:"password_selectors"`
	SubmitSelectors   []string `yaml:"submit_selectors"`

	// IdentityMarkers are URL/title fragments that indicate the session is
	// still parked on the identity provider after submit.
	IdentityMarkers []string `yaml:"identity_markers"`

	MonthLabelSelectors []string `yaml:"month_label_selectors"`
	NextMonthSelector   string   `yaml:"next_month_selector"`
	PrevMonthSelector   string   `yaml:"prev_month_selector"`
	MaxCalendarSteps    int      `yaml:"max_calendar_steps"`

	SelectorTimeoutMs int `yaml:"selector_timeout_ms"`
	SettleMs          int `yaml:"settle_ms"`
	RunTimeoutMs      int `yaml:"run_timeout_ms"`

	// StatusURL is the flight-status endpoint used to enrich extracted legs
	// with actual departure/arrival times. Empty disables enrichment.
	StatusURL string `yaml:"status_url"`

	// ManualFallbackURL is handed to callers alongside retriable errors.
	ManualFallbackURL string `yaml:"manual_fallback_url"`
}

// SelectorTimeout returns the per-candidate element wait.
func (p PortalConfig) SelectorTimeout() time.Duration {
	if p.SelectorTimeoutMs == 0 {
		return 4 * time.Second
	}
	return time.Duration(p.SelectorTimeoutMs) * time.Millisecond
}

// Settle returns the fixed wait applied after clicks and submits.
func (p PortalConfig) Settle() time.Duration {
	if p.SettleMs == 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(p.SettleMs) * time.Millisecond
}

// RunTimeout bounds one whole login+extraction run.
func (p PortalConfig) RunTimeout() time.Duration {
	if p.RunTimeoutMs == 0 {
		return 90 * time.Second
	}
	return time.Duration(p.RunTimeoutMs) * time.Millisecond
}

// RetryConfig configures the run-boundary retry policy.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms"`
}

// InitialBackoff returns the first retry delay.
func (r RetryConfig) InitialBackoff() time.Duration {
	if r.InitialBackoffMs == 0 {
		return 2 * time.Second
	}
	return time.Duration(r.InitialBackoffMs) * time.Millisecond
}

// MaxBackoff returns the delay cap.
func (r RetryConfig) MaxBackoff() time.Duration {
	if r.MaxBackoffMs == 0 {
		return 16 * time.Second
	}
	return time.Duration(r.MaxBackoffMs) * time.Millisecond
}

// AirlineConfig identifies the operator whose schedule is extracted.
type AirlineConfig struct {
	Name string `yaml:"name"`

	// CarrierCodes are the operator's own flight-number prefixes; a leg with
	// any other prefix is a codeshare.
	CarrierCodes []string `yaml:"carrier_codes"`
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration for the primary supported portal.
func DefaultConfig() Config {
	return Config{
		Portal: PortalConfig{
			BaseURL:  "https://crew.example.net/portal",
			LoginURL: "https://crew.example.net/portal/login",
			UsernameSelectors: []string{
				"#userNameInput",
				"input[name='UserName']",
				"input[name='username']",
				"input[type='email']",
			},
			PasswordSelectors: []string{
				"#passwordInput",
				"input[name='Password']",
				"input[name='password']",
				"input[type='password']",
			},
			SubmitSelectors: []string{
				"#submitButton",
				"button[type='submit']",
				"input[type='submit']",
			},
			IdentityMarkers: []string{"adfs", "sts.", "/ls/", "sign in", "log in"},
			MonthLabelSelectors: []string{
				".calendar-header .month-label",
				"#calendarTitle",
			},
			NextMonthSelector: ".calendar-header .next",
			PrevMonthSelector: ".calendar-header .prev",
			MaxCalendarSteps:  24,
			SelectorTimeoutMs: 4000,
			SettleMs:          1500,
			RunTimeoutMs:      90000,
		},
		Browser: automation.DefaultConfig(),
		Retry: RetryConfig{
			MaxAttempts:      3,
			InitialBackoffMs: 2000,
			MaxBackoffMs:     16000,
		},
		Airline: AirlineConfig{
			Name:         "ABX Air",
			CarrierCodes: []string{"GB"},
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a yaml config file over the defaults, then applies environment
// overrides. A missing file yields defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to a yaml file.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ROSTERHOUND_PORTAL_URL"); v != "" {
		c.Portal.BaseURL = v
	}
	if v := os.Getenv("ROSTERHOUND_LOGIN_URL"); v != "" {
		c.Portal.LoginURL = v
	}
	if v := os.Getenv("ROSTERHOUND_STATUS_URL"); v != "" {
		c.Portal.StatusURL = v
	}
	if v := os.Getenv("ROSTERHOUND_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ROSTERHOUND_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ROSTERHOUND_CARRIER_CODES"); v != "" {
		codes := strings.Split(v, ",")
		for i := range codes {
			codes[i] = strings.TrimSpace(codes[i])
		}
		c.Airline.CarrierCodes = codes
	}
	if v := os.Getenv("ROSTERHOUND_DEBUGGER_URL"); v != "" {
		c.Browser.DebuggerURL = v
	}
	if v := os.Getenv("ROSTERHOUND_HEADLESS"); v != "" {
		c.Browser.Headless = v != "false" && v != "0"
	}
}
