package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kursadbilgin/asp-relay/internal/observability"
	"github.com/kursadbilgin/asp-relay/internal/queue"
	"github.com/kursadbilgin/asp-relay/internal/service"
)

const metricsShutdownTimeout = 5 * time.Second

func intakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intake",
		Short: "Consume employee record events from the queue and persist them as pending notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.cfg.RabbitMQURL == "" {
				return fmt.Errorf("Your environment is missing RABBITMQ_URL to run this command.")
			}

			rabbit, err := queue.NewRabbitMQ(rt.cfg.RabbitMQURL)
			if err != nil {
				return err
			}
			defer rabbit.Close()

			consumer := queue.NewRabbitMQConsumer(rabbit, rt.cfg.IntakeConcurrency, rt.logger)
			defer consumer.Close()

			svc, err := service.NewIntakeService(
				rt.notifications, consumer, rt.cfg.IntakeConcurrency, rt.logger)
			if err != nil {
				return err
			}

			metrics := observability.NewMetrics()
			svc.SetMetrics(metrics)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			metricsSrv := &http.Server{
				Addr:    fmt.Sprintf(":%d", rt.cfg.MetricsPort),
				Handler: metrics.Handler(),
			}

			g, groupCtx := errgroup.WithContext(ctx)

			g.Go(func() error {
				rt.logger.Info("metrics server listening", zap.String("addr", metricsSrv.Addr))
				if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("metrics server failed: %w", err)
				}
				return nil
			})

			g.Go(func() error {
				<-groupCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
				defer cancel()
				return metricsSrv.Shutdown(shutdownCtx)
			})

			g.Go(func() error {
				return svc.Start(groupCtx)
			})

			rt.logger.Info("intake started",
				zap.Int("concurrency", rt.cfg.IntakeConcurrency),
			)

			err = g.Wait()
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			rt.logger.Info("intake stopped")
			return nil
		},
	}
}
