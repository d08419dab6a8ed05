// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Tripdesk booking client.
// Each command plays the part of a view: public commands run for anyone,
// guest-only commands (login, register) refuse to run while signed in, and
// authenticated-only commands require a stored session. The package wires the
// session store, API clients and auth state once per invocation.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/httperrors"
	"tripdesk/cli/internal/logging"
	"tripdesk/cli/internal/nav"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagVerbose   bool
	flagEphemeral bool
	flagJSON      bool

	// current is the application wired by the root pre-run hook.
	current *app
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tripdesk",
	Short: "Browse travel services and manage bookings from the terminal",
	Long: `Tripdesk is a command-line client for the Tripdesk travel booking API.

Explore services and categories without an account, sign in to book, review
and manage your trips, or switch to an agency account to publish offers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsApp(cmd) {
			return nil
		}
		a, err := newApp(cmd.Context(), appOptions{
			configFile: flagConfig,
			verbose:    flagVerbose,
			ephemeral:  flagEphemeral,
		})
		if err != nil {
			return err
		}
		current = a
		return checkAccess(cmd.Context(), cmd, a)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the CLI application and maps errors onto exit codes.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	code := report(err)
	if current != nil {
		notifySessionEnded(current.nav, err)
		current.Close()
	}
	if code != 0 {
		os.Exit(code)
	}
}

// report prints err for the user and returns the process exit code.
func report(err error) int {
	if err == nil {
		return 0
	}
	var redirect *redirectError
	if errors.As(err, &redirect) {
		return redirect.report()
	}
	var shown *silentError
	if errors.As(err, &shown) {
		return 1
	}

	switch apperr.KindOf(err) {
	case apperr.KindTransport:
		host := ""
		if current != nil {
			host = httperrors.ExtractHostFromURL(current.cfg.APIBaseURL)
		}
		pterm.Println(httperrors.Describe(err, "contacting the booking service", host))
	case apperr.KindUnauthenticated:
		if current != nil {
			if view, ok := current.nav.Last(); !ok || view != nav.Login {
				// The status is outside the configured logout set; the session was kept.
				pterm.Error.Println(logging.PresentError("", err))
				return 1
			}
		}
		pterm.Println(logging.FormatAPIError(err))
	case apperr.KindAPI, apperr.KindValidation:
		pterm.Println(logging.FormatAPIError(err))
	default:
		pterm.Error.Println(logging.PresentError("", err))
	}
	return 1
}

// notifySessionEnded tells the user when the server ended the session during a
// command that otherwise handled the failure itself.
func notifySessionEnded(rec *nav.Recorder, err error) {
	if view, ok := rec.Last(); ok && view == nav.Login && !apperr.Is(err, apperr.KindUnauthenticated) {
		var redirect *redirectError
		if errors.As(err, &redirect) {
			return
		}
		pterm.Warning.Println("Your session has ended. Run 'tripdesk login' to sign in again.")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default $XDG_CONFIG_HOME/tripdesk/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Keep the session in memory only for this run")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print results as JSON")
}

// mustApp returns the wired application. Commands that run with the app skipped never call it.
func mustApp() *app {
	if current == nil {
		panic(fmt.Sprintf("%s: application not initialized", rootCmd.Name()))
	}
	return current
}
