// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/pokedex/cmd/pokedex/config"
	"github.com/AleutianAI/pokedex/pkg/logging"
	"github.com/AleutianAI/pokedex/pkg/ux"
	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "pokedex",
		Short: "Manage Pokédex collections for any number of owners",
		Long: `pokedex keeps one Pokédex per owner. Owners can add, release,
evolve and pit their Pokémon against each other, merge Pokédexes
and list them in several orders.

Running pokedex with no subcommand starts the interactive session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default ~/.pokedex/pokedex.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"override logging.level: debug, info, warn or error")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Start the interactive Pokédex session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, opts)
		},
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the species catalog",
	}
	var listOpts catalogListOptions
	catalogListCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog species",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogList(cmd, opts, listOpts)
		},
	}
	catalogListCmd.Flags().StringVar(&listOpts.typeName, "type", "", "only species of this type, e.g. FIRE")
	catalogListCmd.Flags().BoolVar(&listOpts.evolvable, "evolvable", false, "only species that can evolve")

	catalogShowCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one species by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogShow(cmd, opts, args[0])
		},
	}
	catalogCmd.AddCommand(catalogListCmd, catalogShowCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}

	root.AddCommand(playCmd, catalogCmd, versionCmd)
	return root
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.PokedexConfig, error) {
	path := opts.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.PokedexConfig{}, NewCommandError(cmd.CommandPath(), exitConfig, err)
		}
		path = p
	}

	cfg, created, err := config.Load(path)
	if err != nil {
		return config.PokedexConfig{}, NewCommandError(cmd.CommandPath(), exitConfig, err)
	}
	if created {
		fmt.Fprintf(cmd.ErrOrStderr(), "First run detected, created the config at %s\n", path)
	}

	if opts.logLevel != "" {
		if _, err := logging.ParseLevel(opts.logLevel); err != nil {
			return config.PokedexConfig{}, NewCommandError(cmd.CommandPath(), exitUsage, err)
		}
		cfg.Logging.Level = opts.logLevel
	}
	return cfg, nil
}

// printerFor builds a Printer for the command's output and color setting.
func printerFor(cmd *cobra.Command, cfg config.PokedexConfig) *ux.Printer {
	setting, err := ux.ParseColorSetting(cfg.UI.Color)
	if err != nil {
		setting = ux.ColorAuto
	}
	out := cmd.OutOrStdout()
	return ux.NewPrinter(out, ux.DetectMode(out, setting))
}

func runVersion(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.Default()
	if err != nil {
		return NewCommandError(cmd.CommandPath(), exitFailed, err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pokedex %s\n", version)
	fmt.Fprintf(out, "catalog: %d species, sha256 %s\n", cat.Len(), cat.Digest())
	return nil
}
