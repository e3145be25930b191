package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediadedup/internal/config"
	"mediadedup/internal/identity"
	"mediadedup/internal/library"
	"mediadedup/internal/report"
	"mediadedup/internal/scoring"
)

func newInspectCommand(ctx *commandContext, flags *scanFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dir>...",
		Short: "Show the grouping key and score of directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg, flags.debug)
			if err != nil {
				return err
			}
			keys, err := identity.NewFromConfig(cfg.Identity, logger)
			if err != nil {
				return err
			}
			scorer, err := scoring.Compile(cfg.ScorePatterns)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", arg, err)
				}
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("inspect %s: %w", arg, err)
				}
				if !info.IsDir() {
					return fmt.Errorf("inspect %s: not a directory", arg)
				}

				entry := library.NewEntry(path)
				res := keys.Resolve(entry)
				source := string(res.Source)
				if res.Source == identity.SourceID {
					source += " (" + filepath.Base(res.Sidecar) + ")"
				}
				rows = append(rows, []string{
					entry.Name,
					res.Key,
					source,
					strconv.Itoa(scorer.Score(entry.Name)),
					formatMatches(scorer.Explain(entry.Name)),
				})
			}

			headers := []string{"Directory", "Key", "Source", "Score", "Matched rules"}
			aligns := []report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), report.RenderTable(headers, rows, aligns))
			return nil
		},
	}
}

func formatMatches(matches []scoring.Match) string {
	if len(matches) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, fmt.Sprintf("%s (%+d)", m.Pattern, m.Weight))
	}
	return strings.Join(parts, ", ")
}
