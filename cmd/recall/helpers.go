package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/database"
	"github.com/at-ishikawa/recall/internal/dispatch"
	"github.com/at-ishikawa/recall/internal/learning"
	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/study"
)

// now is replaced in tests.
var now = time.Now

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// repositories bundles the storage of the configured driver.
type repositories struct {
	items       learning.ItemRepository
	reviewLogs  learning.ReviewLogRepository
	preferences schedule.PreferencesRepository
	dispatches  schedule.DispatchLog
	close       func() error
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	return openDriver(cfg, cfg.Storage.Driver, cfg.Storage.YAMLDirectory)
}

// openDriver opens the storage of driver. yamlDirectory is used by the YAML driver.
func openDriver(cfg *config.Config, driver, yamlDirectory string) (*repositories, error) {
	switch driver {
	case config.StorageDriverYAML:
		return &repositories{
			items:       learning.NewYAMLItemRepository(yamlDirectory),
			reviewLogs:  learning.NewYAMLReviewLogRepository(yamlDirectory),
			preferences: schedule.NewYAMLPreferencesRepository(yamlDirectory),
			dispatches:  schedule.NewYAMLDispatchLog(yamlDirectory),
			close:       func() error { return nil },
		}, nil
	case config.StorageDriverMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return &repositories{
			items:       learning.NewDBItemRepository(db),
			reviewLogs:  learning.NewDBReviewLogRepository(db),
			preferences: schedule.NewDBPreferencesRepository(db),
			dispatches:  schedule.NewDBDispatchLog(db),
			close:       db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// withRepositories loads the configuration, opens the storage and closes it
// after fn returns.
func withRepositories(fn func(cfg *config.Config, repos *repositories) error) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repos, err := openRepositories(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, repos.close())
	}()
	return fn(cfg, repos)
}

func newStudyService(repos *repositories) *study.Service {
	return study.NewService(repos.items, repos.reviewLogs)
}

func newSink(cfg config.WebhookConfig) dispatch.Sink {
	if cfg.URL == "" {
		return dispatch.NewLogSink(nil)
	}
	return dispatch.NewWebhookSink(cfg.URL, cfg.Token, cfg.Timeout, cfg.MaxRetries)
}
