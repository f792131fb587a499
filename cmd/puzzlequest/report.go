package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the weekly report and level progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.reports.WeeklyReport(ctx)
			if err != nil {
				return err
			}
			level, err := a.reports.LevelProgress(ctx)
			if err != nil {
				return err
			}
			next, err := a.reports.NextDifficulty(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "This week")
			fmt.Fprintf(out, "  puzzles solved: %d\n", report.PuzzlesSolved)
			fmt.Fprintf(out, "  average IQ:     %d\n", report.AverageIQ)
			fmt.Fprintf(out, "  streak:         %d\n", report.Streak)
			fmt.Fprintf(out, "  XP gained:      %d\n", report.XPGained)
			fmt.Fprintf(out, "Level %d: %d/%d XP\n", level.Level, level.TotalXP-level.CurrentLevelXP, level.NextLevelXP-level.CurrentLevelXP)
			fmt.Fprintf(out, "Suggested difficulty: %s\n", next)
			for _, note := range report.Improvements {
				fmt.Fprintf(out, "* %s\n", note)
			}
			return nil
		},
	}
}
