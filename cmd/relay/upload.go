package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kursadbilgin/asp-relay/internal/asp"
	"github.com/kursadbilgin/asp-relay/internal/batch"
	"github.com/kursadbilgin/asp-relay/internal/service"
)

func uploadCmd() *cobra.Command {
	var preflight bool

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Serialize pending notifications and upload them to the ASP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			serializer := asp.NewNotificationSerializer()

			if preflight {
				check, err := service.NewPreflightService(
					rt.notifications, serializer, rt.cfg.UploadChunkSize, os.Stdout, rt.logger)
				if err != nil {
					return err
				}
				if err := check.Run(cmd.Context()); err != nil {
					return err
				}
			}

			builder := batch.NewBuilder(serializer, rt.cfg.UploadChunkSize)
			svc, err := service.NewUploadService(
				rt.notifications, rt.activities, builder, rt.transferClient(), os.Stdout, rt.logger)
			if err != nil {
				return err
			}

			return rt.withTransferLock(cmd.Context(), svc.Run)
		},
	}

	cmd.Flags().BoolVar(&preflight, "preflight", false, "serialize every pending notification before connecting, abort on the first failure")

	return cmd
}
