package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is read when DASHBOARD_CONFIG is unset.
const ConfigPath = "config.yaml"

const (
	defaultAuthCookieMaxAge = 86400
	defaultAutoSaveInterval = "60s"
	defaultPageSize         = 10
	defaultAccountEmail     = "steph@vminfracap.com"
	defaultAccountSecret    = "gkeptm12!"
	defaultResetCode        = "444333"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port                    string   `yaml:"port"`
	LogLevel                string   `yaml:"logLevel"`
	RedisAddr               string   `yaml:"redisAddr"`
	RedisPassword           string   `yaml:"redisPassword"`
	RedisKeyPrefix          string   `yaml:"redisKeyPrefix"`
	AccountEmail            string   `yaml:"accountEmail"`
	AccountSecret           string   `yaml:"accountSecret"`
	ResetCode               string   `yaml:"resetCode"`
	AuthCookieMaxAgeSeconds int      `yaml:"authCookieMaxAgeSeconds"`
	AuthCookieSecure        bool     `yaml:"authCookieSecure"`
	AutoSaveInterval        string   `yaml:"autoSaveInterval"`
	PageSize                int      `yaml:"pageSize"`
	PlaceholderImageURL     string   `yaml:"placeholderImageURL"`
	AuthRateLimitPerMinute  int      `yaml:"authRateLimitPerMinute"`
	TrustedProxyCIDRs       []string `yaml:"trustedProxyCidrs"`
	AllowedOrigins          []string `yaml:"allowedOrigins"`
}

// Path returns DASHBOARD_CONFIG or ConfigPath.
func Path() string {
	if v := strings.TrimSpace(os.Getenv("DASHBOARD_CONFIG")); v != "" {
		return v
	}
	return ConfigPath
}

// Load reads config from path (defaults to config.yaml), applies DASHBOARD_*
// environment overrides and defaults, and validates the result.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *FileConfig) error {
	strs := map[string]*string{
		"DASHBOARD_PORT":                  &cfg.Port,
		"DASHBOARD_LOG_LEVEL":             &cfg.LogLevel,
		"DASHBOARD_REDIS_ADDR":            &cfg.RedisAddr,
		"DASHBOARD_REDIS_PASSWORD":        &cfg.RedisPassword,
		"DASHBOARD_REDIS_KEY_PREFIX":      &cfg.RedisKeyPrefix,
		"DASHBOARD_ACCOUNT_EMAIL":         &cfg.AccountEmail,
		"DASHBOARD_ACCOUNT_SECRET":        &cfg.AccountSecret,
		"DASHBOARD_RESET_CODE":            &cfg.ResetCode,
		"DASHBOARD_AUTO_SAVE_INTERVAL":    &cfg.AutoSaveInterval,
		"DASHBOARD_PLACEHOLDER_IMAGE_URL": &cfg.PlaceholderImageURL,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	ints := map[string]*int{
		"DASHBOARD_AUTH_COOKIE_MAX_AGE_SECONDS": &cfg.AuthCookieMaxAgeSeconds,
		"DASHBOARD_PAGE_SIZE":                   &cfg.PageSize,
		"DASHBOARD_AUTH_RATE_LIMIT_PER_MINUTE":  &cfg.AuthRateLimitPerMinute,
	}
	for name, dst := range ints {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config: %s must be an integer: %w", name, err)
			}
			*dst = n
		}
	}
	if v := os.Getenv("DASHBOARD_AUTH_COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: DASHBOARD_AUTH_COOKIE_SECURE must be a boolean: %w", err)
		}
		cfg.AuthCookieSecure = secure
	}
	if v := os.Getenv("DASHBOARD_TRUSTED_PROXY_CIDRS"); v != "" {
		cfg.TrustedProxyCIDRs = splitList(v)
	}
	if v := os.Getenv("DASHBOARD_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	return nil
}

func applyDefaults(cfg *FileConfig) {
	if cfg.AuthCookieMaxAgeSeconds == 0 {
		cfg.AuthCookieMaxAgeSeconds = defaultAuthCookieMaxAge
	}
	if strings.TrimSpace(cfg.AutoSaveInterval) == "" {
		cfg.AutoSaveInterval = defaultAutoSaveInterval
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.AccountEmail == "" {
		cfg.AccountEmail = defaultAccountEmail
	}
	if cfg.AccountSecret == "" {
		cfg.AccountSecret = defaultAccountSecret
	}
	if cfg.ResetCode == "" {
		cfg.ResetCode = defaultResetCode
	}
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.Port) == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if cfg.AuthCookieMaxAgeSeconds < 0 {
		return errors.New("config: authCookieMaxAgeSeconds must be > 0")
	}
	if cfg.PageSize < 0 {
		return errors.New("config: pageSize must be > 0")
	}
	if cfg.AuthRateLimitPerMinute < 0 {
		return errors.New("config: authRateLimitPerMinute must be >= 0")
	}
	if _, err := ParseAutoSaveInterval(cfg.AutoSaveInterval); err != nil {
		return err
	}
	return nil
}

// ParseAutoSaveInterval parses the auto-save tick duration.
func ParseAutoSaveInterval(raw string) (time.Duration, error) {
	dur, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid autoSaveInterval duration: %w", err)
	}
	if dur <= 0 {
		return 0, errors.New("invalid autoSaveInterval duration: must be positive")
	}
	return dur, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
