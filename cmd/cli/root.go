// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rumpus/internal/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X rumpus/cmd/cli.version=..."
var version = "dev"

var (
	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
	dimColor        = color.New(color.Faint)
)

var (
	verbose  bool
	logFile  string
	noColor  bool
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "rumpus",
	Short: "Skylight polarization simulator",
	Long: `Simulates the polarization pattern of the clear daytime sky as seen by a camera.

The sensor, its orientation, location and the time of exposure are read from a
TOML parameters file; without one the built-in defaults are used. Print them with
'rumpus params' to start a parameters file of your own.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		closeLog = logger.InitLogger(logger.Options{
			Verbose: verbose,
			LogFile: logFile,
			NoColor: noColor || color.NoColor,
		})
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// RunCLI executes the command tree. SIGINT and SIGTERM cancel a running simulation.
func RunCLI() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// fail reports err the way every subcommand does and exits non-zero.
func fail(err error) {
	logger.Error("Command failed", "error", err)
	errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
	closeLog()
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also append JSON logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	_ = rootCmd.MarkPersistentFlagFilename("log-file")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(paramsCmd)
}
