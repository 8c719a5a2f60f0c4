package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/tococyn/internal/dice"
	"github.com/lawnchairsociety/tococyn/internal/logger"
)

func newRollCmd(a *app) *cobra.Command {
	var times int
	var quiet bool

	cmd := &cobra.Command{
		Use:     "roll <notation>",
		Short:   "Roll dice notation such as 3D6 or 2D6+6",
		Example: "  tococyn roll 3D6\n  tococyn roll 1d100 --times 3",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if times < 1 {
				return fmt.Errorf("--times must be at least 1, got %d", times)
			}
			expr, err := dice.Parse(strings.Join(args, ""))
			if err != nil {
				return err
			}
			if err := expr.Limit(a.cfg.Dice.MaxCount); err != nil {
				return err
			}
			src, err := a.source()
			if err != nil {
				return err
			}

			for i := 0; i < times; i++ {
				result := expr.RollDetailed(src)
				logger.Info("Roll", "expression", result.Expression, "dice", result.Dice, "total", result.Total())
				if quiet {
					a.println(result.Total())
				} else {
					a.println(result.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&times, "times", "n", 1, "Number of independent rolls")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the totals")
	return cmd
}
