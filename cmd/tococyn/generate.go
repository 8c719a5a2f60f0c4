package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/tococyn/internal/investigator"
	"github.com/lawnchairsociety/tococyn/internal/logger"
)

type generateOptions struct {
	first      string
	surname    string
	gender     string
	age        int
	era        string
	occupation string
	birthplace string
	residence  string
	set        map[string]int
	save       bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Create an investigator with rolled characteristics",
		Example: "  tococyn generate --first Jessy --surname Smith --gender female --age 27 --set STR=12 --save",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.generate(opts)
			if err != nil {
				return err
			}

			if opts.save {
				db, err := a.openDatabase()
				if err != nil {
					return err
				}
				defer db.Close()

				id, err := db.CreateInvestigator(inv)
				if err != nil {
					return err
				}
				logger.Info("Investigator saved", "id", id, "name", inv.FullName())
			}

			if inv.ID != 0 {
				a.println(fmt.Sprintf("#%d %s", inv.ID, inv.Describe()))
			} else {
				a.println(inv.Describe())
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.first, "first", "", "First name (required)")
	flags.StringVar(&opts.surname, "surname", "", "Surname (required)")
	flags.StringVar(&opts.gender, "gender", "x", "Gender: male, female or x")
	flags.IntVar(&opts.age, "age", 30, "Age in years")
	flags.StringVar(&opts.era, "era", "", "Era: 1920s, modern or pulp (default from config)")
	flags.StringVar(&opts.occupation, "occupation", "", "Occupation")
	flags.StringVar(&opts.birthplace, "birthplace", "", "Birthplace")
	flags.StringVar(&opts.residence, "residence", "", "Residence")
	flags.StringToIntVar(&opts.set, "set", nil, "Raw characteristic values instead of rolling, e.g. STR=12,DEX=9")
	flags.BoolVar(&opts.save, "save", false, "Store the investigator in the database")
	cmd.MarkFlagRequired("first")
	cmd.MarkFlagRequired("surname")
	return cmd
}

func (a *app) generate(opts *generateOptions) (*investigator.Investigator, error) {
	gender, err := investigator.ParseGender(opts.gender)
	if err != nil {
		return nil, err
	}
	eraName := opts.era
	if eraName == "" {
		eraName = a.cfg.Era
	}
	era, err := investigator.ParseEra(eraName)
	if err != nil {
		return nil, err
	}

	inv, err := investigator.New(opts.first, opts.surname, gender, opts.age)
	if err != nil {
		return nil, err
	}
	if err := a.cfg.NameFilter().CheckInvestigator(inv); err != nil {
		return nil, err
	}
	inv.Era = era
	inv.Occupation = opts.occupation
	inv.Birthplace = opts.birthplace
	inv.Residence = opts.residence

	src, err := a.source()
	if err != nil {
		return nil, err
	}
	if err := a.cfg.Roller(src).SetCharacteristics(inv, opts.set); err != nil {
		return nil, err
	}
	return inv, nil
}
