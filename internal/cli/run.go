package cli

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/nluthra2001/cpusched/internal/report"
	"github.com/nluthra2001/cpusched/internal/scenario"
	"github.com/nluthra2001/cpusched/internal/sched"
	"github.com/nluthra2001/cpusched/internal/sim"
)

var (
	flagRandom int
	flagSeed   int64
	flagAll    bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario.csv|scenario.yaml]",
		Short: "Run a scenario to completion and print the report",
		Long: "Run a scenario to completion and print the report.\n\n" +
			"CSV rows are id,burst,arrival[,priority[,deadline[,period]]]. Without a file\n" +
			"the built-in four-process scenario is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}

			configs := []sched.Config{}
			if flagAll {
				for _, info := range sched.Algorithms() {
					configs = append(configs, sched.Config{Algorithm: info.Algorithm, Quantum: cfg.Quantum})
				}
			} else {
				c, err := cfg.SchedConfig()
				if err != nil {
					return err
				}
				configs = append(configs, c)
			}

			for _, c := range configs {
				s, err := sim.New(c, sc.Processes, sim.WithLogger(logger))
				if err != nil {
					return err
				}
				if err := s.Run(cfg.MaxTicks); err != nil {
					return fmt.Errorf("%s: %w", c.Algorithm, err)
				}
				if err := report.Write(cmd.OutOrStdout(), cfg.Format, report.NewDocument(s)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	addSchedFlags(cmd)
	cmd.Flags().BoolVar(&flagAll, "all", false, "Run every algorithm in turn")
	cmd.Flags().StringVarP(&cfg.Format, "format", "f", cfg.Format, "Report format (text, json, yaml)")
	cmd.Flags().IntVar(&cfg.MaxTicks, "max-ticks", cfg.MaxTicks, "Abort after this many ticks (0 for no limit)")
	return cmd
}

// loadScenario reads the scenario named in args, or generates one. Algorithm
// settings from a YAML file apply unless the matching flag was given.
func loadScenario(cmd *cobra.Command, args []string) (scenario.Scenario, error) {
	var (
		sc  scenario.Scenario
		err error
	)
	switch {
	case flagRandom > scenario.MaxRandom:
		return scenario.Scenario{}, fmt.Errorf("%w: --random must be at most %d", scenario.ErrInvalidArgs, scenario.MaxRandom)
	case flagRandom > 0:
		sc = scenario.Random(rand.New(rand.NewSource(flagSeed)), flagRandom)
	case len(args) == 1:
		sc, err = scenario.Load(args[0])
		if err != nil {
			return scenario.Scenario{}, err
		}
	default:
		sc = scenario.Default()
	}

	if sc.Algorithm != "" && !cmd.Flags().Changed("algorithm") {
		cfg.Algorithm = sc.Algorithm
	}
	if sc.Quantum != 0 && !cmd.Flags().Changed("quantum") {
		cfg.Quantum = sc.Quantum
	}
	logger.Debug("scenario loaded", "processes", len(sc.Processes), "algorithm", cfg.Algorithm)
	return sc, nil
}
