package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kursadbilgin/asp-relay/internal/config"
	"github.com/kursadbilgin/asp-relay/internal/observability"
	"github.com/kursadbilgin/asp-relay/internal/queue"
)

// publishCmd injects a single record event into the intake queue. It is
// an operator tool for staging environments and incident replays; in
// production events come from the upstream platform.
func publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <event.json>",
		Short: "Publish one employee record event to the intake queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.RabbitMQURL == "" {
				return fmt.Errorf("Your environment is missing RABBITMQ_URL to run this command.")
			}

			logger, err := observability.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read event file: %w", err)
			}

			var event queue.RecordEvent
			if err := json.Unmarshal(data, &event); err != nil {
				return fmt.Errorf("failed to decode event file: %w", err)
			}

			rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
			if err != nil {
				return err
			}

			publisher := queue.NewRabbitMQPublisher(rabbit)
			defer publisher.Close()

			if err := publisher.Publish(cmd.Context(), queue.RecordQueueName, event); err != nil {
				return err
			}

			logger.Info("record event published",
				zap.String("employeeRecordId", event.EmployeeRecordID),
				zap.String("queue", queue.RecordQueueName),
			)
			return nil
		},
	}
}
