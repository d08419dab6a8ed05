// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"runtime"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the tripdesk version",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationSkipApp: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		if flagJSON {
			_ = printJSON(map[string]string{"version": Version, "go": runtime.Version()})
			return
		}
		pterm.Printfln("tripdesk %s (%s %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.AddCommand(versionCmd)
}
