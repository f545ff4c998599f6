// Package mpin provides the MPIN evaluation bounded context module.
// This file defines the module that encapsulates setup and route registration.
package mpin

import (
	apphttp "mpin_backend/internal/http"
	"mpin_backend/internal/mpin/handler"
	"mpin_backend/internal/mpin/service"
	"mpin_backend/platform/config"
	"mpin_backend/platform/logger"
	"mpin_backend/platform/metrics"
	"mpin_backend/platform/validator"
)

// Module is the MPIN bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

var _ apphttp.Module = (*Module)(nil)

// NewModule creates and initializes the MPIN module with all its dependencies.
func NewModule(list service.BlacklistSource, cfg config.EvaluatorConfig, m *metrics.Metrics, log *logger.Logger, val *validator.Validator) (*Module, error) {
	svc, err := service.New(list, cfg, m, log)
	if err != nil {
		return nil, err
	}

	return &Module{
		handler: handler.New(svc, val),
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "mpin"
}

// RegisterRoutes mounts MPIN routes under /api/v1/mpin. Evaluation sits
// behind the protected group; the blacklist summary is public.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1.Group("/mpin"))
	m.handler.RegisterRoutes(ctx.Protected.Group("/mpin"))
}
