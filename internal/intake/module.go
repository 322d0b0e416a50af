// Package intake provides the intake confirmation bounded context module.
package intake

import (
	"practicedesk_backend/internal/conversations"
	"practicedesk_backend/internal/events"
	apphttp "practicedesk_backend/internal/http"
	"practicedesk_backend/internal/intake/handler"
	"practicedesk_backend/internal/intake/repository"
	"practicedesk_backend/internal/intake/service"
	"practicedesk_backend/platform/logger"
	"practicedesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the intake bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the intake module. The matters service is
// injected so confirmed intakes create lead matters through the same path as
// contact-form submissions.
func NewModule(pool *pgxpool.Pool, matters service.MatterCreator, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	convs := conversations.New(pool)
	svc := service.New(repo, convs, matters, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "intake"
}

// RegisterRoutes mounts intake routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Public)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
