package di

import (
	"go.uber.org/zap"

	"github.com/olinekleiven/snarveg/application/commands/bus"
	"github.com/olinekleiven/snarveg/application/ports"
	querybus "github.com/olinekleiven/snarveg/application/queries/bus"
	"github.com/olinekleiven/snarveg/application/services"
	"github.com/olinekleiven/snarveg/infrastructure/config"
	"github.com/olinekleiven/snarveg/pkg/auth"
	"github.com/olinekleiven/snarveg/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	TuningWatcher *config.TuningWatcher
	WheelRepo     ports.WheelRepository
	Prefs         ports.PreferenceStore
	Publisher     ports.EventPublisher
	Metrics       *observability.Metrics
	Sessions      *services.SessionService
	CommandBus    *bus.CommandBus
	QueryBus      *querybus.QueryBus
	JWTValidator  *auth.JWTValidator
}

// Close releases the container's background resources
func (c *Container) Close() {
	if c.TuningWatcher != nil {
		c.TuningWatcher.Stop()
	}
	if c.Logger != nil {
		c.Logger.Sync() //nolint:errcheck
	}
}
