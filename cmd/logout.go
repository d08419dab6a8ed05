// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

// logoutCmd clears the stored session. The API has no logout endpoint, so
// nothing is sent over the network.
var logoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Remove the saved session",
	Annotations: authenticated(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustApp().provider.Logout(); err != nil {
			return err
		}
		success("Signed out. The saved session has been removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
