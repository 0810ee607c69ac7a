package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bnema/acs/internal/adapters/gateway"
	"github.com/bnema/acs/internal/adapters/hosting/httpapi"
	statusadapter "github.com/bnema/acs/internal/adapters/render/status"
	"github.com/bnema/acs/internal/adapters/repo/jsonfile"
	sqliterepo "github.com/bnema/acs/internal/adapters/repo/sqlite"
	chainstore "github.com/bnema/acs/internal/adapters/secrets/chain"
	filestore "github.com/bnema/acs/internal/adapters/secrets/file"
	passstore "github.com/bnema/acs/internal/adapters/secrets/pass"
	"github.com/bnema/acs/internal/adapters/statusapi"
	"github.com/bnema/acs/internal/application"
	"github.com/bnema/acs/internal/config"
	"github.com/bnema/acs/internal/logging"
	"github.com/bnema/acs/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	settings   config.Settings
	logger     *slog.Logger
	store      ports.ConfigStore
	closeStore func() error

	registry   *application.Registry
	sessions   *application.SessionManager
	status     *application.StatusService
	dispatcher *gateway.Dispatcher

	statusRenderer func([]statusadapter.Entry, statusadapter.RenderOptions) (string, error)
	now            func() time.Time
}

func wireApp(configPath string, logOutput io.Writer) (*app, error) {
	v, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	settings, err := config.Decode(v)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logOutput, settings.LogLevel)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := wireConfigStore(v, settings.StoreDriver)
	if err != nil {
		return nil, fmt.Errorf("wire config store: %w", err)
	}

	secrets, err := wireSecretStore(settings)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	clock := ports.SystemClock{}
	provider := &httpapi.Provider{
		BaseURL:        settings.ProviderBaseURL,
		RequestTimeout: settings.ProviderTimeout,
	}
	statusClient := &statusapi.Client{
		BaseURL:        settings.StatusBaseURL,
		RequestTimeout: settings.StatusTimeout,
		Retries:        settings.StatusRetries,
		Limiter:        statusapi.NewLimiter(settings.StatusRatePerSec),
	}

	registry := application.NewRegistry(store)
	sessions := application.NewSessionManager(provider, secrets, registry, settings.ProviderTimeout, logger)
	statusService := application.NewStatusService(statusClient, clock, logger)
	actions := application.NewActionOrchestrator(application.NewActionTracker(), clock, settings.ProviderTimeout, logger)

	dispatcher := gateway.NewDispatcher(gateway.Services{
		Registry: registry,
		Sessions: sessions,
		Resolver: application.NewResolver(registry, sessions, logger),
		Status:   statusService,
		Actions:  actions,
		Clock:    clock,
		Logger:   logger,
	})

	return &app{
		settings:       settings,
		logger:         logger,
		store:          store,
		closeStore:     closeStore,
		registry:       registry,
		sessions:       sessions,
		status:         statusService,
		dispatcher:     dispatcher,
		statusRenderer: statusadapter.Render,
		now:            clock.Now,
	}, nil
}

func (a *app) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

func wireConfigStore(v *viper.Viper, driver string) (ports.ConfigStore, func() error, error) {
	switch driver {
	case config.StoreDriverSQLite:
		repo, err := sqliterepo.NewRepository(v)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		repo, err := jsonfile.NewRepository(v)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error { return nil }, nil
	}
}

func wireSecretStore(settings config.Settings) (ports.SecretStore, error) {
	switch settings.SessionsBackend {
	case config.SessionsBackendPass:
		return passstore.NewStore(settings.SessionsPassDir), nil
	case config.SessionsBackendChain:
		return chainstore.NewPassWithFileFallback(settings.SessionsPassDir, settings.SessionsDir)
	default:
		return filestore.NewStore(settings.SessionsDir), nil
	}
}
