package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "asp-relay",
		Short:   "Employee record notification relay for the ASP SFTP endpoint",
		Version: Version,
	}

	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(downloadCmd())
	rootCmd.AddCommand(preflightCmd())
	rootCmd.AddCommand(intakeCmd())
	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
