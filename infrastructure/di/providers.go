package di

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/olinekleiven/snarveg/application/commands/bus"
	commandhandlers "github.com/olinekleiven/snarveg/application/commands/handlers"
	"github.com/olinekleiven/snarveg/application/gesture"
	"github.com/olinekleiven/snarveg/application/ports"
	querybus "github.com/olinekleiven/snarveg/application/queries/bus"
	queryhandlers "github.com/olinekleiven/snarveg/application/queries/handlers"
	"github.com/olinekleiven/snarveg/application/services"
	domaincfg "github.com/olinekleiven/snarveg/domain/config"
	"github.com/olinekleiven/snarveg/infrastructure/config"
	"github.com/olinekleiven/snarveg/infrastructure/persistence/memory"
	"github.com/olinekleiven/snarveg/pkg/auth"
	"github.com/olinekleiven/snarveg/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideTuningWatcher creates (and starts) the tuning file watcher
func ProvideTuningWatcher(cfg *config.Config, logger *zap.Logger) (*config.TuningWatcher, error) {
	watcher, err := config.NewTuningWatcher(cfg.TuningPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tuning watcher: %w", err)
	}
	watcher.Start()
	return watcher, nil
}

// ProvideWheelRepository creates the in-memory wheel repository
func ProvideWheelRepository() ports.WheelRepository {
	return memory.NewWheelRepository()
}

// ProvidePreferenceStore creates the in-memory preference store
func ProvidePreferenceStore() ports.PreferenceStore {
	return memory.NewPreferenceStore()
}

// ProvideEventPublisher creates the in-memory event publisher
func ProvideEventPublisher(logger *zap.Logger) ports.EventPublisher {
	return memory.NewEventPublisher(logger)
}

// ProvideMetrics registers the application metrics
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics(prometheus.DefaultRegisterer)
}

// ProvideSessionService wires the session service to the tuning watcher so
// new sessions pick up reloaded configuration
func ProvideSessionService(
	repo ports.WheelRepository,
	prefs ports.PreferenceStore,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	watcher *config.TuningWatcher,
	logger *zap.Logger,
) *services.SessionService {
	cfgProvider := func() *domaincfg.DomainConfig {
		return watcher.Current()
	}
	return services.NewSessionService(repo, prefs, publisher, metrics, gesture.SystemClock(), cfgProvider, logger)
}

// ProvideCommandBus creates the command bus with all handlers registered
func ProvideCommandBus(sessions *services.SessionService, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	handler := commandhandlers.NewWheelCommandHandler(sessions)
	if err := handler.Register(commandBus); err != nil {
		return nil, fmt.Errorf("failed to register command handlers: %w", err)
	}
	return commandBus, nil
}

// ProvideQueryBus creates the query bus with all handlers registered
func ProvideQueryBus(sessions *services.SessionService) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	handler := queryhandlers.NewWheelQueryHandler(sessions)
	if err := handler.Register(queryBus); err != nil {
		return nil, fmt.Errorf("failed to register query handlers: %w", err)
	}
	return queryBus, nil
}

// ProvideJWTValidator creates the token validator. Development falls back
// to a fixed secret so local tooling can mint tokens.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}
