// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newRecommendCmd(root *rootOptions) *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Print recommendations for one title and exit",
		Long: `recommend prints the same block as one iteration of the interactive prompt.

Arguments are joined with single spaces, so quoting the title is optional
for ordinary titles. The shell collapses repeated or leading spaces between
unquoted words, so a title whose spacing matters must be passed as one
quoted argument.`,
		Example: `  genrematch recommend "Toy Story (1995)"
  genrematch recommend -n 5 heat (1995)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			a, err := newApp(ctx, root.configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			session, err := a.session(strings.NewReader(""), cmd.OutOrStdout(), topN)
			if err != nil {
				return err
			}
			return session.Query(ctx, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", 0, "number of recommendations (default recommend.default_top_n)")
	return cmd
}
