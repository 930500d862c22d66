// Package routers
package routers

import (
	"newsbrief-api/internal/handlers/brief"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type BriefRouter struct {
	bh *brief.Handler
}

// RegisterBriefRoutes mounts the brief endpoint. The route is registered
// for every method so the handler owns the 405 envelope instead of echo's
// default error shape.
func RegisterBriefRoutes(e *echo.Group, cfg brief.Config, log *zap.SugaredLogger) error {
	briefRouter := &BriefRouter{bh: brief.NewHandler(cfg, log)}

	e.Any("/v1/brief", briefRouter.bh.HandleBrief)

	return nil
}
