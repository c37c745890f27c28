package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nluthra2001/cpusched/internal/report"
	"github.com/nluthra2001/cpusched/internal/sched"
	"github.com/nluthra2001/cpusched/internal/sim"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [scenario.csv|scenario.yaml]",
		Short: "Animate a scenario one tick per interval",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}
			c, err := cfg.SchedConfig()
			if err != nil {
				return err
			}
			s, err := sim.New(c, sc.Processes, sim.WithLogger(logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			err = s.Play(ctx, cfg.Speed, func(res sched.Result) {
				_, _ = fmt.Fprintln(out, tickLine(res))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			_, _ = fmt.Fprintln(out)
			return report.Write(out, cfg.Format, report.NewDocument(s))
		},
	}

	addSchedFlags(cmd)
	cmd.Flags().DurationVar(&cfg.Speed, "speed", cfg.Speed, "Delay between ticks")
	cmd.Flags().StringVarP(&cfg.Format, "format", "f", cfg.Format, "Final report format (text, json, yaml)")
	return cmd
}

// tickLine renders one tick as "t=3  cpu=P2  ready=[P1 P3]".
func tickLine(res sched.Result) string {
	cpu := res.Executed
	if cpu == "" {
		cpu = sim.Idle
	}
	return fmt.Sprintf("t=%-4d cpu=%-5s ready=[%s]", res.Next.Tick-1, cpu, strings.Join(res.Next.ReadyQueue, " "))
}
