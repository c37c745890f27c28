package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nluthra2001/cpusched/internal/config"
	"github.com/nluthra2001/cpusched/internal/logging"
)

var (
	cfg       config.Config
	flagDebug bool

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the cpusched CLI.
func NewRootCmd() *cobra.Command {
	cfg = config.Default()

	root := &cobra.Command{
		Use:   "cpusched",
		Short: "cpusched: tick-by-tick CPU scheduling simulator",
		Long: "cpusched simulates FCFS, SJF, SRTF, RR, priority, HRRN, EDF and RMS scheduling " +
			"one time unit at a time and reports the Gantt chart and per-process statistics.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				cfg.LogLevel = "debug"
			}
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging (logs every tick)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newPlayCmd(),
		newServeCmd(),
		newAlgorithmsCmd(),
	)
	return root
}

// addSchedFlags registers the algorithm selection flags shared by run and play.
func addSchedFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cfg.Algorithm, "algorithm", "a", cfg.Algorithm, "Scheduling algorithm (see 'cpusched algorithms')")
	cmd.Flags().IntVarP(&cfg.Quantum, "quantum", "q", cfg.Quantum, "Round Robin time quantum")
	cmd.Flags().IntVar(&flagRandom, "random", 0, "Generate this many random processes instead of reading a file")
	cmd.Flags().Int64Var(&flagSeed, "seed", 1, "Seed for --random")
}
