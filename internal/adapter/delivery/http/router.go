package http

import (
	handler "namereg/internal/adapter/handler/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// RegisterRoutes sets up the routes for the name handler and common health checks.
func RegisterRoutes(r *router.Router, h *handler.NameHandler, logger *zap.Logger) {
	logger.Info("Setting up application-specific routes...")

	r.GET("/display", h.GetDisplay)
	r.POST("/display/refresh", h.RefreshDisplay)
	r.GET("/chains/{chainId:[0-9]+}", h.GetChain)
	r.POST("/names", h.SubmitName)
	r.GET("/prompt", h.GetPrompt)
	r.POST("/prompt/{id}/select", h.SelectPrompt)
	r.POST("/prompt/{id}/dismiss", h.DismissPrompt)

	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})

	logger.Info("All routes registered.")
}

// LoggingMiddleware logs every request before handing it on.
func LoggingMiddleware(next fasthttp.RequestHandler, logger *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		logger.Info("Request received",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("uri", ctx.RequestURI()))
		next(ctx)
	}
}
