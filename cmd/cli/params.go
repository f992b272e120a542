// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"io"
	"os"

	"rumpus/internal/config"

	"github.com/spf13/cobra"
)

var (
	paramsOutput   string
	paramsEncoding config.Encoding
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the default sensor parameters",
	Long: `Prints the built-in sensor parameters used by 'rumpus simulate' when --params is omitted.
Passing the printed document back with --params gives the same result as omitting it.`,
	Example: "  rumpus params > params.toml\n  rumpus params -o params.yaml",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		enc := paramsEncoding
		if paramsOutput != "" && !cmd.Flags().Changed("encoding") {
			enc = config.EncodingForPath(paramsOutput)
		}
		if err := runParams(os.Stdout, paramsOutput, enc); err != nil {
			fail(err)
		}
	},
}

// runParams writes the default parameters to path, or to w if path is empty.
func runParams(w io.Writer, path string, enc config.Encoding) error {
	if path == "" {
		return config.EncodeParams(w, config.Default(), enc)
	}
	if err := config.SaveParams(path, config.Default(), enc); err != nil {
		return err
	}
	successColor.Printf("Wrote default parameters to %s\n", identifierColor.Sprint(path))
	return nil
}

func init() {
	paramsCmd.Flags().StringVarP(&paramsOutput, "output", "o", "", "Write to this file instead of stdout")
	paramsCmd.Flags().Var(&paramsEncoding, "encoding", "Document format, toml or yaml (inferred from --output when omitted)")
	_ = paramsCmd.RegisterFlagCompletionFunc("encoding", cobra.FixedCompletions(
		[]string{string(config.EncodingTOML), string(config.EncodingYAML)}, cobra.ShellCompDirectiveNoFileComp))
}
