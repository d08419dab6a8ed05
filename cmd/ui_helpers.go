// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"tripdesk/cli/internal/auth"
	"tripdesk/cli/internal/auth/guard"
	"tripdesk/cli/internal/model"
	"tripdesk/cli/internal/nav"
	"tripdesk/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Command annotations.
const (
	annotationAccess  = "tripdesk/access"
	annotationSkipApp = "tripdesk/skip-app"

	accessPublic = "public"
	accessGuest  = "guest"
	accessAuth   = "authenticated"
)

func guestOnly() map[string]string     { return map[string]string{annotationAccess: accessGuest} }
func authenticated() map[string]string { return map[string]string{annotationAccess: accessAuth} }
func public() map[string]string        { return map[string]string{annotationAccess: accessPublic} }

// accessOf returns the access level of cmd, inherited from the nearest annotated ancestor.
func accessOf(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if v, ok := c.Annotations[annotationAccess]; ok {
			return v
		}
	}
	return accessPublic
}

func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationSkipApp]; ok {
			return true
		}
	}
	return false
}

// checkAccess runs the route guard for cmd against the current auth state.
func checkAccess(ctx context.Context, cmd *cobra.Command, a *app) error {
	var decide func(auth.State) guard.Decision
	switch accessOf(cmd) {
	case accessGuest:
		decide = guard.GuestOnly
	case accessAuth:
		decide = guard.AuthenticatedOnly
	default:
		return nil
	}

	for {
		d := decide(a.provider.State())
		switch d.Outcome {
		case guard.Render:
			return nil
		case guard.Wait:
			select {
			case <-a.provider.Ready():
			case <-ctx.Done():
				return ctx.Err()
			}
		case guard.Redirect:
			a.nav.Navigate(d.Target)
			return &redirectError{target: d.Target, command: cmd.CommandPath(), user: a.provider.User()}
		}
	}
}

// redirectError stops a command that the guard turned away.
type redirectError struct {
	target  string
	command string
	user    *model.UserProfile
}

func (r *redirectError) Error() string {
	return fmt.Sprintf("%s: redirected to %s", r.command, r.target)
}

// report explains the redirect and returns the exit code.
func (r *redirectError) report() int {
	if r.target == nav.Landing {
		who := "someone"
		if r.user != nil {
			who = displayName(r.user)
		}
		pterm.Info.Printfln("Already signed in as %s. Run 'tripdesk logout' first to switch accounts.", who)
		return 0
	}
	pterm.Warning.Printfln("'%s' requires you to be signed in.", r.command)
	pterm.Println("   Run 'tripdesk login' to get started.")
	return 1
}

func displayName(u *model.UserProfile) string {
	switch {
	case u.Username != "" && u.Email != "":
		return fmt.Sprintf("%s <%s>", u.Username, u.Email)
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	default:
		return "user " + u.ID.String()
	}
}

// withSpinner runs fn behind a spinner when attached to a terminal.
func withSpinner[T any](text string, fn func() (T, error)) (T, error) {
	if flagJSON || !terminal.IsInteractive() {
		return fn()
	}
	cursor.Hide()
	defer cursor.Show()
	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(text)
	v, ferr := fn()
	if err == nil {
		_ = spinner.Stop()
	}
	return v, ferr
}

// run is withSpinner for calls without a result.
func run(text string, fn func() error) error {
	_, err := withSpinner(text, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func date(t model.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// clip shortens free text so a table row fits the terminal.
func clip(s string) string {
	limit := max(terminal.Width()/3, 20)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func stars(rating float64) string {
	if rating <= 0 {
		return "-"
	}
	return strconv.FormatFloat(rating, 'f', 1, 64) + "★"
}

func success(format string, args ...any) {
	if flagJSON {
		return
	}
	pterm.Success.Printfln(format, args...)
}
