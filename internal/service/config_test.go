package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xolan/punch/internal/config"
)

func TestConfigService_Get(t *testing.T) {
	cfg := config.DefaultConfig()
	svc := NewConfigService("/tmp/config.toml", cfg)

	result := svc.Get()
	if result.WeekStartDay != cfg.WeekStartDay {
		t.Errorf("expected WeekStartDay %q, got %q", cfg.WeekStartDay, result.WeekStartDay)
	}
	if result.RefreshInterval != cfg.RefreshInterval {
		t.Errorf("expected RefreshInterval %q, got %q", cfg.RefreshInterval, result.RefreshInterval)
	}
	if svc.GetPath() != "/tmp/config.toml" {
		t.Errorf("expected path '/tmp/config.toml', got %q", svc.GetPath())
	}
}

func TestConfigService_Exists(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	if svc.Exists() {
		t.Error("expected Exists() to return false")
	}
	if err := os.WriteFile(configPath, []byte("test"), 0644); err != nil {
		t.Fatal(err)
	}
	if !svc.Exists() {
		t.Error("expected Exists() to return true")
	}
}

func TestConfigService_Update(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	newCfg := config.DefaultConfig()
	newCfg.WeekStartDay = " Sunday "
	newCfg.Timezone = "America/New_York"
	newCfg.RefreshInterval = "10s"

	if err := svc.Update(newCfg); err != nil {
		t.Fatalf("Update() returned unexpected error: %v", err)
	}

	result := svc.Get()
	if result.WeekStartDay != "sunday" {
		t.Errorf("expected WeekStartDay 'sunday', got %q", result.WeekStartDay)
	}

	// Round trip through the file
	loaded, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if loaded.Timezone != "America/New_York" || loaded.RefreshInterval != "10s" {
		t.Errorf("loaded config = %+v", loaded)
	}
}

func TestConfigService_Update_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"week start", func(c *config.Config) { c.WeekStartDay = "friday" }},
		{"timezone", func(c *config.Config) { c.Timezone = "Mars/Olympus" }},
		{"color", func(c *config.Config) { c.DefaultColor = "red" }},
		{"refresh", func(c *config.Config) { c.RefreshInterval = "100ms" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.modify(&cfg)
			if err := svc.Update(cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}

	if svc.Exists() {
		t.Error("invalid config should not be written")
	}
	if svc.Get() != config.DefaultConfig() {
		t.Error("invalid config should not replace the current one")
	}
}

func TestConfigService_Init(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	if err := svc.Init(); err != nil {
		t.Fatalf("Init() returned unexpected error: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "week_start_day") {
		t.Error("sample config should document week_start_day")
	}

	err = svc.Init()
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second Init() error = %v, expected 'already exists'", err)
	}
}

func TestConfigService_Reload(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	content := "week_start_day = \"sunday\"\ntheme = \"nord\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := svc.Reload(); err != nil {
		t.Fatalf("Reload() returned unexpected error: %v", err)
	}
	result := svc.Get()
	if result.WeekStartDay != "sunday" || result.Theme != "nord" {
		t.Errorf("reloaded config = %+v", result)
	}
	if result.RefreshInterval != config.DefaultRefreshInterval {
		t.Errorf("unset keys should keep defaults, got RefreshInterval %q", result.RefreshInterval)
	}
}

func mapEnv(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestConfigService_ReloadAppliesOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("timezone = \"UTC\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	svc := NewConfigService(configPath, config.DefaultConfig()).
		WithEnv(mapEnv(map[string]string{config.EnvTimezone: "Asia/Tokyo"}))

	if err := svc.Reload(); err != nil {
		t.Fatalf("Reload() returned unexpected error: %v", err)
	}
	if got := svc.Get().Timezone; got != "Asia/Tokyo" {
		t.Errorf("expected override timezone, got %q", got)
	}
	if got := svc.Overrides(); len(got) != 1 || got[0] != config.EnvTimezone {
		t.Errorf("Overrides() = %v", got)
	}
}

func TestConfigService_ReloadRejectsBadOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig()).
		WithEnv(mapEnv(map[string]string{config.EnvReminders: "sometimes"}))

	err := svc.Reload()
	if err == nil || !strings.Contains(err.Error(), config.EnvReminders) {
		t.Fatalf("expected error naming %s, got %v", config.EnvReminders, err)
	}
	if svc.Get() != config.DefaultConfig() {
		t.Error("a failed reload should keep the current config")
	}
}

func TestConfigService_SetThemeKeepsOverridesOutOfFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig()).
		WithEnv(mapEnv(map[string]string{config.EnvDataDir: "/srv/punch"}))
	if err := svc.Reload(); err != nil {
		t.Fatal(err)
	}

	if err := svc.SetTheme("nord"); err != nil {
		t.Fatalf("SetTheme() returned unexpected error: %v", err)
	}

	active := svc.Get()
	if active.Theme != "nord" || active.DataDir != "/srv/punch" {
		t.Errorf("active config = %+v", active)
	}
	saved, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if saved.Theme != "nord" {
		t.Errorf("expected theme saved, got %q", saved.Theme)
	}
	if saved.DataDir != "" {
		t.Errorf("override leaked into config file: data_dir %q", saved.DataDir)
	}
}

func TestConfigService_OverridesWithoutEnv(t *testing.T) {
	svc := NewConfigService("/tmp/config.toml", config.DefaultConfig())
	if got := svc.Overrides(); got != nil {
		t.Errorf("expected no overrides, got %v", got)
	}
}
