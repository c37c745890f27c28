package cli

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nluthra2001/cpusched/internal/sched"
)

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported scheduling algorithms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Algorithm", "Preemptive", "Description"})
			table.SetAutoWrapText(false)
			for _, info := range sched.Algorithms() {
				preemptive := "no"
				if info.Preemptive {
					preemptive = "yes"
				}
				table.Append([]string{string(info.Algorithm), info.Label, preemptive, info.Description})
			}
			table.Render()
		},
	}
}
