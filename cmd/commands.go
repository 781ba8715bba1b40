package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // set by the linker

var migrateCmd = &cobra.Command{ //nolint:gochecknoglobals // cobra command tree
	Use:   "migrate",
	Short: "Create or upgrade the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc := newService(false)
		if err := svc.Start(cmd.Context()); err != nil {
			return err
		}
		svc.Stop()
		fmt.Fprintf(cmd.OutOrStdout(), "schema up to date: %s\n", cfg.DBPath)
		return nil
	},
}

var seedCmd = &cobra.Command{ //nolint:gochecknoglobals // cobra command tree
	Use:   "seed",
	Short: "Insert the demo performer and composition into an empty database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc := newService(false)
		if err := svc.Start(cmd.Context()); err != nil {
			return err
		}
		defer svc.Stop()

		seeded, err := svc.Seed(cmd.Context())
		if err != nil {
			return err
		}
		if seeded {
			fmt.Fprintln(cmd.OutOrStdout(), "demo data inserted")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "database not empty; nothing to do")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{ //nolint:gochecknoglobals // cobra command tree
	Use:   "version",
	Short: "Print the version number of synthorbit",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "synthorbit version %s\n", version)
	},
}
