// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"rumpus/internal/config"
	"rumpus/internal/logger"
	"rumpus/internal/output"
	"rumpus/internal/simulate"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// simulateOptions holds the parsed flags of the simulate command.
type simulateOptions struct {
	paramsPath string
	outputPath string
	format     output.Format
	channel    output.Channel
}

var simulateOpts = simulateOptions{channel: output.ChannelAoP}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate a simulation of the skylight polarization pattern",
	Long: `Simulates the skylight polarization pattern seen by the sensor and writes it to a file.

Without --params the built-in default sensor parameters are used.
Without --format the output format is inferred from the extension of --output
(.png for a colour mapped image, .dat for a text grid of values).`,
	Example: `  rumpus simulate -o sky.png
  rumpus simulate -p params.toml -o sky.dat
  rumpus simulate -p params.toml -o sky.out -f dat --channel dop`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSimulate(cmd.Context(), simulateOpts); err != nil {
			fail(err)
		}
	},
}

// runSimulate resolves the output format and parameters, runs the simulation and
// writes the result. Nothing is written unless every earlier step succeeded.
func runSimulate(ctx context.Context, opts simulateOptions) error {
	outPath, err := config.ResolvePath(opts.outputPath)
	if err != nil {
		return err
	}

	format, err := output.Resolve(opts.format, outPath)
	if err != nil {
		return err
	}
	channel := opts.channel
	if channel == "" {
		channel = output.ChannelAoP
	}

	params := config.Default()
	if opts.paramsPath != "" {
		params, err = config.LoadParams(opts.paramsPath)
		if err != nil {
			return err
		}
		logger.Debug("Loaded sensor parameters", "path", opts.paramsPath)
	} else {
		logger.Debug("Using default sensor parameters")
	}

	statusColor.Fprintf(os.Stderr, "Simulating %dx%d sky at %s...\n",
		params.ImageCols, params.ImageRows, identifierColor.Sprint(params.Time.Format(time.RFC3339)))

	s := newSpinner()
	start := time.Now()
	img, err := simulate.Run(ctx, params, simulate.WithProgress(func(done, total int) {
		if s == nil {
			return
		}
		s.Lock()
		s.Suffix = fmt.Sprintf(" Simulating... %d%%", done*100/total)
		s.Unlock()
	}))
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Info("Simulation finished",
		"rows", img.Rows(),
		"cols", img.Cols(),
		"sky_pixels", img.Hits(),
		"elapsed", time.Since(start).Round(time.Millisecond))

	if err := output.WriteFile(outPath, img, format, channel); err != nil {
		return err
	}

	successColor.Printf("Wrote %s %s to %s\n", channel, format, identifierColor.Sprint(outPath))
	if img.Hits() < img.Rows()*img.Cols() {
		dimColor.Printf("%d of %d pixels see no sky\n", img.Rows()*img.Cols()-img.Hits(), img.Rows()*img.Cols())
	}
	return nil
}

// newSpinner starts a spinner on stderr, or returns nil when stderr is not a terminal.
func newSpinner() *spinner.Spinner {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Color("cyan")
	s.Suffix = " Simulating..."
	s.Start()
	return s
}

// formatCompletionFunc completes --format values.
func formatCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	completions := make([]string, 0, len(output.Formats))
	for _, f := range output.Formats {
		completions = append(completions, string(f))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	flags := simulateCmd.Flags()
	flags.StringVarP(&simulateOpts.paramsPath, "params", "p", "", "Path to TOML formatted sensor parameters (default: built-in parameters)")
	flags.StringVarP(&simulateOpts.outputPath, "output", "o", "", "File path for the simulated output")
	flags.VarP(&simulateOpts.format, "format", "f", "Output format, png or dat (default: inferred from --output)")
	flags.VarP(&simulateOpts.channel, "channel", "c", "Quantity to write, aop or dop")

	_ = simulateCmd.MarkFlagRequired("output")
	_ = simulateCmd.MarkFlagFilename("params", "toml", "yaml", "yml")
	_ = simulateCmd.MarkFlagFilename("output", "png", "dat")
	_ = simulateCmd.RegisterFlagCompletionFunc("format", formatCompletionFunc)
	_ = simulateCmd.RegisterFlagCompletionFunc("channel", cobra.FixedCompletions(
		[]string{string(output.ChannelAoP), string(output.ChannelDoP)}, cobra.ShellCompDirectiveNoFileComp))
}
