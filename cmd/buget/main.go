// Command buget runs the monthly budget web server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/mocanunicolaemarius-del/buget/internal/amqp"
	"github.com/mocanunicolaemarius-del/buget/internal/cli"
	apphttp "github.com/mocanunicolaemarius-del/buget/internal/http"
	"github.com/mocanunicolaemarius-del/buget/internal/ledger"
	applog "github.com/mocanunicolaemarius-del/buget/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store, closeStore := cli.InitStore(logger, cfg)

	// Event publishing is best-effort: without a broker the app runs the same,
	// it just emits nothing.
	var events ledger.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpLog := logger.WithComponent(applog.ComponentAMQP)
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			amqpLog.Warn("AMQP unavailable, continuing without events", applog.FieldError, err)
		} else {
			amqpClient = client
			events = client
			amqpLog.Info("Connected to AMQP broker",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc := ledger.NewService(store, events)

	srv := apphttp.NewServer(":"+cfg.Port, svc)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 20

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", applog.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close failed", applog.FieldError, err)
			}
		}
		if err := closeStore(); err != nil {
			logger.Error("Store close failed", applog.FieldError, err)
		}
	})

	logger.WithComponent(applog.ComponentHTTP).Info("Starting HTTP server",
		applog.FieldOperation, applog.OpStartup,
		"addr", srv.Addr, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server failed", applog.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
}
