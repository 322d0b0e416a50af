// Package matters provides the matter lifecycle bounded context module.
// This file defines the module that encapsulates all matters setup and
// route registration.
package matters

import (
	"practicedesk_backend/internal/events"
	apphttp "practicedesk_backend/internal/http"
	"practicedesk_backend/internal/matters/handler"
	"practicedesk_backend/internal/matters/repository"
	"practicedesk_backend/internal/matters/service"
	"practicedesk_backend/platform/logger"
	"practicedesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the matters bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
}

// NewModule creates and initializes the matters module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)

	return &Module{
		handler:       handler.New(svc, val),
		publicHandler: handler.NewPublicHandler(svc, val),
		service:       svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "matters"
}

// Service returns the matters service for use by other modules (the intake
// confirmation gate creates lead matters through it).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts matters routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/matters"))
	m.publicHandler.RegisterRoutes(ctx.Public)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
