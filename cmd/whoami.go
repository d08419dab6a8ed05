// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"slices"
	"strings"

	"tripdesk/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd shows the stored profile. It reads local state only.
var whoamiCmd = &cobra.Command{
	Use:         "whoami",
	Short:       "Show the signed-in account",
	Annotations: authenticated(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		u := a.provider.User()
		if flagJSON {
			return printJSON(u)
		}
		pterm.Printfln("👤 Current user: %s", displayName(u))
		pterm.Printfln("   Role: %s", orDash(string(u.Role)))
		if whoamiStorage {
			pterm.Printfln("   Storage: %s", describeStorage(a.storage, a.port))
		}
		return nil
	},
}

var whoamiStorage bool

// keyLister is implemented by storage ports that can enumerate their keys.
type keyLister interface {
	Keys() ([]string, error)
}

func describeStorage(name string, port session.Port) string {
	kl, ok := port.(keyLister)
	if !ok {
		return name
	}
	keys, err := kl.Keys()
	if err != nil {
		return fmt.Sprintf("%s (keys unavailable: %v)", name, err)
	}
	slices.Sort(keys)
	return fmt.Sprintf("%s (keys: %s)", name, strings.Join(keys, ", "))
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiStorage, "storage", false, "Also show where the session is stored")
	rootCmd.AddCommand(whoamiCmd)
}
