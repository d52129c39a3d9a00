package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kursadbilgin/asp-relay/internal/service"
)

func downloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Fetch feedback files from the ASP server and reconcile notification state",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			svc, err := service.NewDownloadService(
				rt.notifications, rt.activities, rt.transferClient(), os.Stdout, rt.logger)
			if err != nil {
				return err
			}

			return rt.withTransferLock(cmd.Context(), svc.Run)
		},
	}
}
