package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vytor/puzzlequest/internal/models"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show puzzle statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.reports.Stats(ctx)
			if err != nil {
				return err
			}
			progress, err := a.reports.Progress(ctx)
			if err != nil {
				return err
			}
			stored, err := a.store.Kinds(ctx)
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), progress, stats, stored)
		},
	}
}

func printStats(out io.Writer, p *models.Progress, s *models.Stats, stored []string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if len(stored) == 0 {
		fmt.Fprintln(w, "Stored records\tnone, showing defaults")
	} else {
		fmt.Fprintf(w, "Stored records\t%s\n", strings.Join(stored, ", "))
	}
	fmt.Fprintf(w, "Level\t%d (%d XP)\n", p.Level, p.TotalXP)
	fmt.Fprintf(w, "IQ estimate\t%d\n", p.AverageIQ)
	fmt.Fprintf(w, "Daily streak\t%d (longest %d)\n", p.Streak, p.LongestStreak)
	fmt.Fprintf(w, "Solved\t%d\n", s.TotalPuzzlesSolved)
	fmt.Fprintf(w, "Correct\t%d\n", s.CorrectAnswers)
	fmt.Fprintf(w, "Accuracy\t%.1f%%\n", s.Accuracy()*100)
	fmt.Fprintf(w, "Average time\t%.1fs\n", s.AverageTime)
	if s.BestTime != nil {
		fmt.Fprintf(w, "Best time\t%.1fs\n", *s.BestTime)
	}

	fmt.Fprintln(w, "\nDifficulty\tSolved\tCorrect")
	for _, d := range models.Difficulties {
		b := s.ByDifficulty[d]
		fmt.Fprintf(w, "%s\t%d\t%d\n", d, b.Solved, b.Correct)
	}

	fmt.Fprintln(w, "\nType\tSolved\tCorrect")
	for _, t := range models.PuzzleTypes {
		b := s.ByType[t]
		fmt.Fprintf(w, "%s\t%d\t%d\n", t, b.Solved, b.Correct)
	}

	if len(p.Achievements) > 0 {
		fmt.Fprintln(w, "\nAchievements")
		names := make([]string, 0, len(p.Achievements))
		for _, a := range p.Achievements {
			names = append(names, a.Title)
		}
		slices.Sort(names)
		for _, n := range names {
			fmt.Fprintf(w, "  %s\n", n)
		}
	}
	return w.Flush()
}
