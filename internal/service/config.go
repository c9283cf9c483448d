package service

import (
	"errors"
	"fmt"
	"os"

	"github.com/xolan/punch/internal/config"
	"github.com/xolan/punch/internal/osutil"
)

// ConfigService holds the effective configuration: the config file with
// PUNCH_* environment overrides on top. Writes only ever touch the file
// layer, so an override never leaks into config.toml.
type ConfigService struct {
	path   string
	file   config.Config
	active config.Config
	lookup func(string) (string, bool)
}

// NewConfigService wraps an already-resolved configuration. Without an
// environment lookup, cfg is treated as the file layer as well.
func NewConfigService(path string, cfg config.Config) *ConfigService {
	return &ConfigService{path: path, file: cfg, active: cfg}
}

// WithEnv makes Reload and the write operations re-apply overrides read
// through lookup (usually os.LookupEnv).
func (s *ConfigService) WithEnv(lookup func(string) (string, bool)) *ConfigService {
	s.lookup = lookup
	return s
}

// Get returns the effective configuration.
func (s *ConfigService) Get() config.Config {
	return s.active
}

// GetPath returns the config file location.
func (s *ConfigService) GetPath() string {
	return s.path
}

// Exists reports whether the config file is present.
func (s *ConfigService) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Overrides lists the environment variables currently overriding the file.
func (s *ConfigService) Overrides() []string {
	if s.lookup == nil {
		return nil
	}
	var names []string
	for _, name := range []string{config.EnvDataDir, config.EnvTimezone, config.EnvReminders} {
		if v, ok := s.lookup(name); ok && v != "" {
			names = append(names, name)
		}
	}
	return names
}

// Update validates cfg, writes it as the config file and makes it current,
// with overrides re-applied. Services created earlier keep their settings.
func (s *ConfigService) Update(cfg config.Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	active, err := s.overlay(cfg)
	if err != nil {
		return err
	}
	if err := config.Save(s.path, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	s.file, s.active = cfg, active
	return nil
}

// SetTheme persists a theme choice without touching any other key.
func (s *ConfigService) SetTheme(name string) error {
	cfg := s.file
	cfg.Theme = name
	return s.Update(cfg)
}

// Init writes the commented sample config. An existing file is left alone.
func (s *ConfigService) Init() error {
	if s.Exists() {
		return fmt.Errorf("config file already exists at %s", s.path)
	}
	if err := osutil.WriteFileAtomic(s.path, []byte(config.GenerateSampleConfig()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reload re-reads the config file and re-applies overrides. On error the
// current configuration stays in place.
func (s *ConfigService) Reload() error {
	cfg, err := config.LoadOrDefault(s.path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	active, err := s.overlay(cfg)
	if err != nil {
		return err
	}
	if err := active.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	s.file, s.active = cfg, active
	return nil
}

func (s *ConfigService) overlay(cfg config.Config) (config.Config, error) {
	if s.lookup == nil {
		return cfg, nil
	}
	if err := cfg.ApplyEnv(s.lookup); err != nil {
		return config.Config{}, errors.Join(errors.New("invalid environment override"), err)
	}
	return cfg, nil
}
