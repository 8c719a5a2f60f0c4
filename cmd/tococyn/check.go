package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/tococyn/internal/stats"
)

func newCheckCmd(a *app) *cobra.Command {
	var tierName string
	var value int

	cmd := &cobra.Command{
		Use:     "check <rating>",
		Short:   "Resolve a percentile check against a rating",
		Example: "  tococyn check 65 --tier hard\n  tococyn check 65 --value 12",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := stats.ParseRating(args[0])
			if err != nil {
				return err
			}
			tier, err := stats.ParseTier(tierName)
			if err != nil {
				return err
			}

			attr := stats.NewRatedAttribute("Check", "", rating)
			var result stats.Result
			if cmd.Flags().Changed("value") {
				if value < 1 || value > stats.CheckSides {
					return fmt.Errorf("--value must be 1-%d, got %d", stats.CheckSides, value)
				}
				result, err = attr.CheckValue(tier, value)
			} else {
				src, serr := a.source()
				if serr != nil {
					return serr
				}
				result, err = attr.Roll(src, tier)
			}
			if err != nil {
				return err
			}

			a.println(attr.Summary(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tierName, "tier", "t", "regular", "Tier to check: regular, hard or extreme")
	cmd.Flags().IntVar(&value, "value", 0, "Use this D100 value instead of rolling")
	return cmd
}
