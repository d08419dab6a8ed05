// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"tripdesk/cli/internal/backend"
	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginEmail         string
	loginPasswordStdin bool
)

// loginCmd signs in with email and password and stores the session.
var loginCmd = &cobra.Command{
	Use:         "login",
	Aliases:     []string{"signin"},
	Short:       "Sign in with your email and password",
	Annotations: guestOnly(),
	Long: `The login command signs you in and stores the session (token and profile)
in the configured storage backend, the OS keychain by default.

The password is read without echo from the terminal, or from stdin with
--password-stdin for scripted use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		prompt := &terminal.Prompter{}
		if loginPasswordStdin {
			prompt.In = os.Stdin
		}

		email := strings.TrimSpace(loginEmail)
		if email == "" {
			if loginPasswordStdin {
				return apperr.New(apperr.KindValidation, "--email is required with --password-stdin")
			}
			var err error
			if email, err = (&terminal.Prompter{}).Line("Email: "); err != nil {
				return err
			}
		}
		password, err := readPassword(prompt, "Password: ")
		if err != nil {
			return err
		}

		res, _ := withSpinner("Signing in", func() (backend.Result, error) {
			return a.provider.Login(cmd.Context(), email, password), nil
		})
		if !res.Success {
			return authFailure(res)
		}

		if flagJSON {
			return printJSON(res.User)
		}
		if !loginPasswordStdin && terminal.IsInteractive() {
			terminal.ClearPreviousLines(len("Password: "))
		}
		pterm.Println(greeting(displayName(res.User)))
		return nil
	},
}

func readPassword(p *terminal.Prompter, label string) (string, error) {
	pw, err := p.Password(label)
	if errors.Is(err, terminal.ErrNotInteractive) {
		return "", apperr.New(apperr.KindValidation, "no terminal to prompt for a password; use --password-stdin")
	}
	return pw, err
}

// authFailure turns a failed auth Result into the error the command returns.
func authFailure(res backend.Result) error {
	switch apperr.KindOf(res.Err) {
	case apperr.KindTransport, apperr.KindStorage:
		return res.Err
	case apperr.KindValidation:
		return apperr.New(apperr.KindValidation, res.Error)
	}
	pterm.Error.Println(res.Error)
	return &silentError{err: errors.New(res.Error)}
}

// silentError has already been shown to the user.
type silentError struct{ err error }

func (e *silentError) Error() string { return e.err.Error() }
func (e *silentError) Unwrap() error { return e.err }

func greeting(who string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🧳 Ready for the next trip, %s?",
		"👋 Hello %s!",
		"✅ Signed in as %s",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], who)
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	rootCmd.AddCommand(loginCmd)
}
