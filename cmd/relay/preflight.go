package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kursadbilgin/asp-relay/internal/asp"
	"github.com/kursadbilgin/asp-relay/internal/service"
)

func preflightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Dry-run serialization of every pending notification, without touching the ASP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			svc, err := service.NewPreflightService(
				rt.notifications, asp.NewNotificationSerializer(), rt.cfg.UploadChunkSize, os.Stdout, rt.logger)
			if err != nil {
				return err
			}

			return svc.Run(cmd.Context())
		},
	}
}
