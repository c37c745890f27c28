package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/nluthra2001/cpusched/internal/sched"
	"github.com/nluthra2001/cpusched/internal/sim"
)

// WriteText renders doc as a title, a Gantt strip, the schedule table and the
// event log.
func WriteText(w io.Writer, doc Document) {
	outputTitle(w, doc.Title)
	outputGantt(w, doc.Gantt)
	outputSchedule(w, doc.Processes, doc.Summary)
	outputEvents(w, doc.Events)
}

//region Output helpers

func outputTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

func outputGantt(w io.Writer, gantt []sim.Block) {
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	_, _ = fmt.Fprint(w, "|")
	for i := range gantt {
		pid := gantt[i].ProcessID
		if gantt[i].IsIdle() {
			pid = "-"
		}
		padding := strings.Repeat(" ", max(8-len(pid), 0)/2)
		_, _ = fmt.Fprint(w, padding, pid, padding, "|")
	}
	_, _ = fmt.Fprintln(w)
	for i := range gantt {
		_, _ = fmt.Fprint(w, fmt.Sprint(gantt[i].Start), "\t")
		if len(gantt)-1 == i {
			_, _ = fmt.Fprint(w, fmt.Sprint(gantt[i].End))
		}
	}
	_, _ = fmt.Fprintf(w, "\n\n")
}

func outputSchedule(w io.Writer, procs []sched.Process, sum sim.Summary) {
	_, _ = fmt.Fprintln(w, "Schedule table")
	rows := make([][]string, len(procs))
	for i, p := range procs {
		rows[i] = []string{
			p.ID,
			fmt.Sprint(p.Priority),
			fmt.Sprint(p.Burst),
			fmt.Sprint(p.Arrival),
			optional(p.StartTime),
			fmt.Sprint(p.WaitingTime),
			fmt.Sprint(p.TurnaroundTime),
			responseTime(p),
			optional(p.CompletionTime),
			p.State.String(),
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Priority", "Burst", "Arrival", "Start", "Wait", "Turnaround", "Response", "Exit", "State"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "",
		fmt.Sprintf("CPU\n%.2f%%", sum.CPUUtilization),
		fmt.Sprintf("Average\n%.2f", sum.AvgWaiting),
		fmt.Sprintf("Average\n%.2f", sum.AvgTurnaround),
		fmt.Sprintf("Average\n%.2f", sum.AvgResponse),
		fmt.Sprintf("Throughput\n%.2f/t", sum.Throughput),
		fmt.Sprintf("%d/%d", sum.Completed, sum.Processes)})
	table.Render()
}

func outputEvents(w io.Writer, events []sim.Event) {
	if len(events) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "Event log")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Time", "Event", "Process", "Details"})
	table.SetAutoWrapText(false)
	for _, e := range events {
		table.Append([]string{fmt.Sprint(e.Time), string(e.Type), e.ProcessID, e.Details})
	}
	table.Render()
}

//endregion

func optional(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func responseTime(p sched.Process) string {
	rt, ok := p.ResponseTime()
	if !ok {
		return "-"
	}
	return fmt.Sprint(rt)
}
