package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/puzzlequest/internal/store"
)

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset [kind...]",
		Short: "Reset stored profile data",
		Long: "Removes the named records (" + strings.Join(store.AllKinds, ", ") + ").\n" +
			"With no arguments every record is removed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, kind := range args {
				if !slices.Contains(store.AllKinds, kind) {
					return fmt.Errorf("unknown record kind %q", kind)
				}
			}
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}

			ctx, a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Clear(ctx, args...); err != nil {
				return err
			}
			cleared := args
			if len(cleared) == 0 {
				cleared = store.AllKinds
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared: %s\n", strings.Join(cleared, ", "))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
	return cmd
}
