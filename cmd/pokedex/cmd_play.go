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
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/pokedex/cmd/pokedex/config"
	"github.com/AleutianAI/pokedex/pkg/logging"
	"github.com/AleutianAI/pokedex/pkg/telemetry"
	"github.com/AleutianAI/pokedex/pkg/ux"
	"github.com/AleutianAI/pokedex/services/pokedex/catalog"
	"github.com/AleutianAI/pokedex/services/pokedex/dex"
	"github.com/AleutianAI/pokedex/services/pokedex/session"
)

// runPlay wires config, logging, telemetry and the registry into an
// interactive session and runs it to completion.
func runPlay(cmd *cobra.Command, opts *rootOptions) error {
	name := cmd.CommandPath()
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return NewCommandError(name, exitConfig, err)
	}
	defer logger.Close()
	logger.SetDefault()

	ctx := cmd.Context()
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "pokedex",
		ServiceVersion: version,
		TraceExporter:  cfg.Telemetry.Traces,
		MetricExporter: cfg.Telemetry.Metrics,
		TextfilePath:   cfg.Telemetry.TextfilePath,
		Output:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return NewCommandError(name, exitConfig, err)
	}
	defer func() {
		if serr := shutdown(context.WithoutCancel(ctx)); serr != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", serr.Error()))
		}
	}()

	cat, err := catalog.Default()
	if err != nil {
		return NewCommandError(name, exitFailed, err)
	}

	id := uuid.NewString()
	reg := dex.NewRegistry(cat, dex.Options{
		MaxRecords:    cfg.Limits.MaxRecords,
		MaxCloneNodes: cfg.Limits.MaxCloneNodes,
		Logger:        logger.WithSession(id).Slog(),
	})

	out := cmd.OutOrStdout()
	var prompter ux.Prompter
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		prompter = ux.NewPrompter(f, out, cfg.UI.Forms)
	} else {
		prompter = ux.NewLinePrompter(cmd.InOrStdin(), out)
	}

	s, err := session.New(session.Config{
		Registry: reg,
		Prompter: prompter,
		Printer:  printerFor(cmd, cfg),
		Logger:   logger.Slog(),
		ID:       id,
	})
	if err != nil {
		return NewCommandError(name, exitFailed, err)
	}

	logger.Info("play starting",
		slog.String("session_id", id),
		slog.String("catalog_digest", cat.Digest()),
		slog.Int("max_records", cfg.Limits.MaxRecords),
		slog.Int("max_clone_nodes", cfg.Limits.MaxCloneNodes),
	)
	return WrapCommandError(s.Run(ctx), name, exitFailed)
}

// newLogger builds the process logger. Console lines go to stderr so they
// never mix with the session on stdout.
func newLogger(cmd *cobra.Command, cfg config.PokedexConfig) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "pokedex",
		JSON:    cfg.Logging.JSON,
		Quiet:   cfg.Logging.Quiet,
		Output:  cmd.ErrOrStderr(),
	})
}
