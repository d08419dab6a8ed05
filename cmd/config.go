// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"tripdesk/cli/internal/config"
	apperr "tripdesk/cli/internal/errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// configCmd edits the config file. It runs without opening the session so a
// broken setting can always be repaired.
var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show or change tripdesk settings",
	Annotations: map[string]string{annotationSkipApp: "true"},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration, including environment overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return apperr.New(apperr.KindValidation, err.Error())
		}
		return printJSON(cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, path, err := config.LoadFile(flagConfig)
		if err != nil {
			return err
		}
		pterm.Println(path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one setting in the config file",
	Example:   "  tripdesk config set api_base_url https://api.tripdesk.example\n  tripdesk config set storage.backend file",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := setConfigValue(flagConfig, args[0], args[1])
		if err != nil {
			return err
		}
		success("Set %s in %s", args[0], path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.LoadFile(flagConfig)
		if err != nil {
			return apperr.New(apperr.KindValidation, err.Error())
		}
		if err := config.Save(path, cfg); err != nil {
			return apperr.Wrap(apperr.KindStorage, "write config", err)
		}
		success("Wrote %s", path)
		return nil
	},
}

// setConfigValue updates key in the file only; environment overrides are not
// written back.
func setConfigValue(file, key, value string) (string, error) {
	cfg, path, err := config.LoadFile(file)
	if err != nil {
		return "", apperr.New(apperr.KindValidation, err.Error())
	}
	if err := cfg.Set(key, value); err != nil {
		return "", apperr.New(apperr.KindValidation, err.Error())
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return "", apperr.New(apperr.KindValidation, err.Error())
	}
	if err := config.Save(path, cfg); err != nil {
		return "", apperr.Wrap(apperr.KindStorage, "write config", err)
	}
	return path, nil
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configSetCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
