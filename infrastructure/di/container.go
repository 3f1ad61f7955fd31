package di

import (
	"communityhub/application/services"
	"communityhub/domain/content"
	"communityhub/infrastructure/config"
	"communityhub/pkg/errors"
	"communityhub/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Registry     content.Registry
	Services     ContentServices
	AuthService  *services.AuthService
	ErrorHandler *errors.ErrorHandler
	Metrics      *observability.Metrics
	Tracer       *observability.Tracer
}

// Shutdown flushes buffered telemetry. Safe to call more than once.
func (c *Container) Shutdown() {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
