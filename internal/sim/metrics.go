package sim

import "github.com/nluthra2001/cpusched/internal/sched"

// Summary aggregates the statistics of a run. Averages are taken over
// completed processes only.
type Summary struct {
	TotalTime      int     `json:"total_time" yaml:"total_time"`
	BusyTime       int     `json:"busy_time" yaml:"busy_time"`
	IdleTime       int     `json:"idle_time" yaml:"idle_time"`
	Processes      int     `json:"processes" yaml:"processes"`
	Completed      int     `json:"completed" yaml:"completed"`
	CPUUtilization float64 `json:"cpu_utilization" yaml:"cpu_utilization"` // percent
	AvgTurnaround  float64 `json:"avg_turnaround" yaml:"avg_turnaround"`
	AvgWaiting     float64 `json:"avg_waiting" yaml:"avg_waiting"`
	AvgResponse    float64 `json:"avg_response" yaml:"avg_response"`
	Throughput     float64 `json:"throughput" yaml:"throughput"` // completed per tick
}

func Summarize(procs []sched.Process, blocks []Block) Summary {
	sum := Summary{Processes: len(procs)}
	if n := len(blocks); n > 0 {
		sum.TotalTime = blocks[n-1].End
	}
	for _, b := range blocks {
		if !b.IsIdle() {
			sum.BusyTime += b.Len()
		}
	}
	sum.IdleTime = sum.TotalTime - sum.BusyTime

	var turnaround, waiting, response int
	for _, p := range procs {
		if p.State != sched.StateCompleted {
			continue
		}
		sum.Completed++
		turnaround += p.TurnaroundTime
		waiting += p.WaitingTime
		if rt, ok := p.ResponseTime(); ok {
			response += rt
		}
	}

	if sum.Completed > 0 {
		n := float64(sum.Completed)
		sum.AvgTurnaround = float64(turnaround) / n
		sum.AvgWaiting = float64(waiting) / n
		sum.AvgResponse = float64(response) / n
	}
	if sum.TotalTime > 0 {
		sum.CPUUtilization = float64(sum.BusyTime) / float64(sum.TotalTime) * 100
		sum.Throughput = float64(sum.Completed) / float64(sum.TotalTime)
	}
	return sum
}
