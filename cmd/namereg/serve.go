package main

import (
	"context"
	"os/signal"
	"syscall"

	delivery "namereg/internal/adapter/delivery/http"
	handler "namereg/internal/adapter/handler/http"
	"namereg/internal/adapter/prompt"
	"namereg/internal/config"
	domainService "namereg/internal/domain/service"

	"github.com/fasthttp/router"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over HTTP for a browser front end",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	var broker *prompt.Broker
	s, err := openSession(ctx, opts, func(cfg *config.Config, log *zap.Logger) domainService.Prompter {
		broker = prompt.NewBroker(cfg.Prompt.Timeout, log)
		return broker
	}, false)
	if err != nil {
		return err
	}
	defer s.close()

	client := s.client
	client.Start(ctx)
	go client.Run(ctx)

	h := handler.NewNameHandler(client.Orchestrator, client.Display, client.Catalog, broker, s.logger)
	r := router.New()
	delivery.RegisterRoutes(r, h, s.logger)

	server := &fasthttp.Server{
		Handler: delivery.LoggingMiddleware(r.Handler, s.logger),
		Name:    s.cfg.App.Name,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")
		_ = server.Shutdown()
	}()

	serverAddr := ":" + s.cfg.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("address", serverAddr))
	if err := server.ListenAndServe(serverAddr); err != nil {
		s.logger.Error("HTTP server stopped", zap.Error(err))
		return err
	}
	return nil
}
