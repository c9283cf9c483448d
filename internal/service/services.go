package service

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xolan/punch/internal/clock"
	"github.com/xolan/punch/internal/config"
	"github.com/xolan/punch/internal/live"
	"github.com/xolan/punch/internal/notify"
	"github.com/xolan/punch/internal/storage"
)

// Services holds all service instances used by the application
type Services struct {
	Timer   *TimerService
	Catalog *CatalogService
	Session *SessionService
	Report  *ReportService
	Config  *ConfigService

	Store     storage.Store
	Clock     clock.Clock
	Reminders notify.Scheduler
	Projector live.Projector
	Logger    *slog.Logger
	Paths     Paths
}

// Paths are the on-disk locations the services work with.
type Paths struct {
	Config    string
	DataDir   string
	Database  string
	Reminders string
	Live      string
}

// Options configures NewServicesWith. Zero fields get working defaults:
// an in-memory store, the real clock, no reminders, no projector and a
// discarding logger.
type Options struct {
	Store      storage.Store
	Clock      clock.Clock
	Reminders  notify.Scheduler
	Projector  live.Projector
	Logger     *slog.Logger
	Config     config.Config
	ConfigPath string
	Paths      Paths
	NewID      func() string
	// Env, when set, layers PUNCH_* overrides over the config file on
	// reload and write.
	Env func(string) (string, bool)
}

// env is what every service shares.
type env struct {
	store     storage.Store
	clock     clock.Clock
	reminders notify.Scheduler
	projector live.Projector
	logger    *slog.Logger
	config    config.Config
	newID     func() string
}

// NewServices creates a new Services instance from the user's config file,
// environment and data directory.
func NewServices() (*Services, error) {
	config.LoadEnvFiles()

	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	fileCfg := cfg
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dataDir, err := storage.DataDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	paths := Paths{
		Config:    configPath,
		DataDir:   dataDir,
		Database:  filepath.Join(dataDir, storage.DatabaseFile),
		Reminders: filepath.Join(dataDir, notify.RemindersFile),
		Live:      filepath.Join(dataDir, live.LiveFile),
	}

	store, err := storage.OpenSQLite(paths.Database)
	if err != nil {
		return nil, err
	}

	var reminders notify.Scheduler = notify.NopScheduler{}
	if cfg.RemindersEnabled {
		reminders = notify.NewFileScheduler(paths.Reminders)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	services := NewServicesWith(Options{
		Store:      store,
		Clock:      clock.NewReal(loc),
		Reminders:  reminders,
		Projector:  live.NewFileProjector(paths.Live),
		Logger:     logger,
		Config:     cfg,
		ConfigPath: configPath,
		Paths:      paths,
		Env:        os.LookupEnv,
	})
	services.Config.file = fileCfg
	return services, nil
}

// NewServicesWith creates a Services instance from explicit collaborators
// (useful for testing).
func NewServicesWith(opts Options) *Services {
	if opts.Config == (config.Config{}) {
		opts.Config = config.DefaultConfig()
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.Clock == nil {
		loc, err := opts.Config.Location()
		if err != nil {
			loc = nil
		}
		opts.Clock = clock.NewReal(loc)
	}
	if opts.Reminders == nil {
		opts.Reminders = notify.NopScheduler{}
	}
	if opts.Projector == nil {
		opts.Projector = live.NopProjector{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = opts.Paths.Config
	}
	opts.Paths.Config = opts.ConfigPath

	e := &env{
		store:     opts.Store,
		clock:     opts.Clock,
		reminders: opts.Reminders,
		projector: opts.Projector,
		logger:    opts.Logger,
		config:    opts.Config,
		newID:     opts.NewID,
	}

	return &Services{
		Timer:     &TimerService{env: e},
		Catalog:   &CatalogService{env: e},
		Session:   &SessionService{env: e},
		Report:    &ReportService{env: e},
		Config:    NewConfigService(opts.ConfigPath, opts.Config).WithEnv(opts.Env),
		Store:     opts.Store,
		Clock:     opts.Clock,
		Reminders: opts.Reminders,
		Projector: opts.Projector,
		Logger:    opts.Logger,
		Paths:     opts.Paths,
	}
}

// Close releases the store.
func (s *Services) Close() error {
	return s.Store.Close()
}
