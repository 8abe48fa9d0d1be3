// Command buget-worker consumes ledger change events and logs month
// summaries, plus a periodic heartbeat summary of the current month.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/mocanunicolaemarius-del/buget/internal/amqp"
	"github.com/mocanunicolaemarius-del/buget/internal/cli"
	applog "github.com/mocanunicolaemarius-del/buget/internal/log"
	"github.com/mocanunicolaemarius-del/buget/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set for the worker")
		os.Exit(1)
	}

	store, closeStore := cli.InitStore(logger, cfg)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	// The worker may start before the broker; keep dialing until it is up.
	client, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", applog.FieldError, err)
		os.Exit(1)
	}

	w := worker.NewSummaryWorker(store, client, cfg.SummaryInterval)
	logger.Info("Starting summary worker",
		applog.FieldOperation, applog.OpStartup,
		"queue", cfg.AMQPQueue, "interval", cfg.SummaryInterval.String())
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
	}

	if err := client.Close(); err != nil {
		logger.Warn("AMQP close failed", applog.FieldError, err)
	}
	if err := closeStore(); err != nil {
		logger.Error("Store close failed", applog.FieldError, err)
	}

	cli.WaitForShutdown(ctx, done)
}
