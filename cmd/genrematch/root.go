// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package main

import (
	"context"

	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "genrematch",
		Short: "Content-based movie recommendations from genre similarity",
		Long: `genrematch fits a TF-IDF model over movie genres and recommends the movies
whose genres are most similar to a title you enter.

Without a subcommand it starts an interactive prompt.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")

	cmd.AddCommand(newRecommendCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

func runInteractive(cmd *cobra.Command, opts *rootOptions) error {
	ctx := commandContext(cmd)
	a, err := newApp(ctx, opts.configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	session, err := a.session(cmd.InOrStdin(), cmd.OutOrStdout(), 0)
	if err != nil {
		return err
	}
	return session.Run(ctx)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
