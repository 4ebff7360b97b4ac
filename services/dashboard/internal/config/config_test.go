package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "port: \"8080\"\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := FileConfig{
		Port:                    "8080",
		AccountEmail:            "steph@vminfracap.com",
		AccountSecret:           "gkeptm12!",
		ResetCode:               "444333",
		AuthCookieMaxAgeSeconds: 86400,
		AutoSaveInterval:        "60s",
		PageSize:                10,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		`port: "8080"`,
		`redisAddr: "file:6379"`,
		`trustedProxyCidrs: ["10.0.0.0/8"]`,
	}, "\n"))
	t.Setenv("DASHBOARD_PORT", "9090")
	t.Setenv("DASHBOARD_REDIS_ADDR", "env:6379")
	t.Setenv("DASHBOARD_AUTH_RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("DASHBOARD_AUTH_COOKIE_SECURE", "true")
	t.Setenv("DASHBOARD_TRUSTED_PROXY_CIDRS", "192.168.0.0/16, 127.0.0.1")
	t.Setenv("DASHBOARD_AUTO_SAVE_INTERVAL", "5s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.RedisAddr != "env:6379" || cfg.AuthRateLimitPerMinute != 30 || !cfg.AuthCookieSecure {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"192.168.0.0/16", "127.0.0.1"}, cfg.TrustedProxyCIDRs); diff != "" {
		t.Fatalf("trusted proxies mismatch (-want +got):\n%s", diff)
	}
	interval, err := ParseAutoSaveInterval(cfg.AutoSaveInterval)
	if err != nil || interval != 5*time.Second {
		t.Fatalf("interval = %v, %v", interval, err)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "missing port", body: "logLevel: debug\n"},
		{name: "bad yaml", body: "port: [\n"},
		{name: "negative rate limit", body: "port: \"1\"\nauthRateLimitPerMinute: -1\n"},
		{name: "negative page size", body: "port: \"1\"\npageSize: -2\n"},
		{name: "bad interval", body: "port: \"1\"\nautoSaveInterval: soon\n"},
		{name: "zero interval", body: "port: \"1\"\nautoSaveInterval: 0s\n"},
		{name: "bad env int", body: "port: \"1\"\n", env: map[string]string{"DASHBOARD_PAGE_SIZE": "ten"}},
		{name: "bad env bool", body: "port: \"1\"\n", env: map[string]string{"DASHBOARD_AUTH_COOKIE_SECURE": "maybe"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("DASHBOARD_CONFIG", "")
	if Path() != ConfigPath {
		t.Fatalf("expected default path")
	}
	t.Setenv("DASHBOARD_CONFIG", "/etc/dashboard.yaml")
	if Path() != "/etc/dashboard.yaml" {
		t.Fatalf("expected env path")
	}
}
