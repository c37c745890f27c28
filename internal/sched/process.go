package sched

import (
	"strconv"
	"strings"
)

// State is the lifecycle state of a simulated process.
type State string

const (
	StateWaiting   State = "WAITING"
	StateReady     State = "READY"
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
)

func (s State) String() string {
	return string(s)
}

// IsTerminal reports whether the process can no longer be selected.
func (s State) IsTerminal() bool {
	return s == StateCompleted
}

type (
	// Process is one simulated task. The static fields are fixed at creation;
	// the dynamic fields are only changed by Advance.
	Process struct {
		ID       string `json:"id" yaml:"id"`
		Arrival  int    `json:"arrival" yaml:"arrival"`
		Burst    int    `json:"burst" yaml:"burst"`
		Priority int    `json:"priority" yaml:"priority"`
		Deadline *int   `json:"deadline,omitempty" yaml:"deadline,omitempty"`
		Period   *int   `json:"period,omitempty" yaml:"period,omitempty"`
		Color    string `json:"color" yaml:"color"`

		Remaining      int   `json:"remaining" yaml:"remaining"`
		State          State `json:"state" yaml:"state"`
		StartTime      *int  `json:"start_time" yaml:"start_time"`
		CompletionTime *int  `json:"completion_time" yaml:"completion_time"`
		WaitingTime    int   `json:"waiting_time" yaml:"waiting_time"`
		TurnaroundTime int   `json:"turnaround_time" yaml:"turnaround_time"`
	}

	// Params are the creation parameters of a process.
	Params struct {
		Arrival  int  `json:"arrival" yaml:"arrival"`
		Burst    int  `json:"burst" yaml:"burst"`
		Priority int  `json:"priority" yaml:"priority"`
		Deadline *int `json:"deadline,omitempty" yaml:"deadline,omitempty"`
		Period   *int `json:"period,omitempty" yaml:"period,omitempty"`
	}
)

// Clone returns a deep copy of p.
func (p Process) Clone() Process {
	c := p
	c.Deadline = cloneInt(p.Deadline)
	c.Period = cloneInt(p.Period)
	c.StartTime = cloneInt(p.StartTime)
	c.CompletionTime = cloneInt(p.CompletionTime)
	return c
}

// ResponseTime is the delay between arrival and first CPU allocation.
// ok is false until the process has been dispatched once.
func (p Process) ResponseTime() (rt int, ok bool) {
	if p.StartTime == nil {
		return 0, false
	}
	return *p.StartTime - p.Arrival, true
}

// Params returns the creation parameters of p.
func (p Process) Params() Params {
	return Params{
		Arrival:  p.Arrival,
		Burst:    p.Burst,
		Priority: p.Priority,
		Deadline: cloneInt(p.Deadline),
		Period:   cloneInt(p.Period),
	}
}

// IntPtr returns a pointer to v, handy for optional deadlines and periods.
func IntPtr(v int) *int {
	return &v
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneProcesses(ps []Process) []Process {
	out := make([]Process, len(ps))
	for i := range ps {
		out[i] = ps[i].Clone()
	}
	return out
}

// idNumber extracts the numeric suffix of ids like "P12". Ids without a
// numeric suffix sort after every numbered id.
func idNumber(id string) int {
	n, err := strconv.Atoi(strings.TrimLeft(id, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

func processID(n int) string {
	return "P" + strconv.Itoa(n)
}
