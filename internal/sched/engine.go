package sched

import (
	"cmp"
	"slices"
)

// Snapshot is the complete simulation state between two ticks.
type Snapshot struct {
	Tick       int       `json:"tick" yaml:"tick"`
	Processes  []Process `json:"processes" yaml:"processes"`
	ReadyQueue []string  `json:"ready_queue" yaml:"ready_queue"`
	// ActiveID is the process holding the CPU, "" when idle.
	ActiveID string `json:"active_id" yaml:"active_id"`
	// QuantumElapsed counts the ticks the active process has held the CPU in
	// its current Round Robin slice.
	QuantumElapsed int `json:"quantum_elapsed" yaml:"quantum_elapsed"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Processes = cloneProcesses(s.Processes)
	c.ReadyQueue = slices.Clone(s.ReadyQueue)
	return c
}

// Process returns a copy of the process with the given id.
func (s Snapshot) Process(id string) (Process, bool) {
	for i := range s.Processes {
		if s.Processes[i].ID == id {
			return s.Processes[i].Clone(), true
		}
	}
	return Process{}, false
}

// Finished reports whether every process has completed. An empty snapshot is
// finished.
func (s Snapshot) Finished() bool {
	for i := range s.Processes {
		if !s.Processes[i].State.IsTerminal() {
			return false
		}
	}
	return true
}

// Result is the outcome of one tick.
type Result struct {
	Next Snapshot `json:"next" yaml:"next"`
	// Executed is the id of the process that used the CPU during the tick, ""
	// when the CPU was idle.
	Executed string `json:"executed" yaml:"executed"`
}

// Advance runs the simulation for exactly one time unit starting at s.Tick and
// returns the next snapshot. It never modifies s and the result shares no
// memory with it. cfg must pass Validate.
func Advance(s Snapshot, cfg Config) Result {
	tick := s.Tick
	procs := cloneProcesses(s.Processes)
	byID := make(map[string]*Process, len(procs))
	for i := range procs {
		byID[procs[i].ID] = &procs[i]
	}

	// Ids of removed processes are vacated, not errors.
	queue := make([]string, 0, len(s.ReadyQueue)+len(procs))
	for _, id := range s.ReadyQueue {
		if _, ok := byID[id]; ok {
			queue = append(queue, id)
		}
	}
	active, elapsed := s.ActiveID, s.QuantumElapsed
	if p, ok := byID[active]; active != "" && (!ok || p.State.IsTerminal()) {
		active, elapsed = "", 0
	}

	queue = admitArrivals(procs, queue, tick)

	if cfg.Algorithm == RR {
		active, elapsed, queue = selectRoundRobin(byID, queue, active, elapsed, cfg.Quantum)
	} else {
		active = selectRanked(procs, byID, cfg.Algorithm, active, tick)
	}

	for i := range procs {
		p := &procs[i]
		if p.State.IsTerminal() {
			continue
		}
		switch {
		case p.ID == active:
			p.State = StateRunning
			if p.StartTime == nil {
				p.StartTime = IntPtr(tick)
			}
		case p.Arrival <= tick:
			p.State = StateReady
			p.WaitingTime++
		default:
			p.State = StateWaiting
		}
	}

	var executed string
	if active != "" {
		p := byID[active]
		executed = active
		p.Remaining--
		elapsed++
		if p.Remaining <= 0 {
			p.Remaining = 0
			p.State = StateCompleted
			p.CompletionTime = IntPtr(tick + 1)
			p.TurnaroundTime = tick + 1 - p.Arrival
			queue = slices.DeleteFunc(queue, func(id string) bool { return id == active })
			active, elapsed = "", 0
		}
	}

	// Round Robin keeps its FIFO order; everyone else shows the ranking.
	if cfg.Algorithm != RR {
		queue = rankedQueue(procs, cfg.Algorithm, active, tick)
	}

	return Result{
		Next: Snapshot{
			Tick:           tick + 1,
			Processes:      procs,
			ReadyQueue:     queue,
			ActiveID:       active,
			QuantumElapsed: elapsed,
		},
		Executed: executed,
	}
}

// admitArrivals appends processes arriving at tick to the queue in ascending
// id order and marks them ready.
func admitArrivals(procs []Process, queue []string, tick int) []string {
	var arrivals []*Process
	for i := range procs {
		p := &procs[i]
		if p.Arrival == tick && !p.State.IsTerminal() && !slices.Contains(queue, p.ID) {
			arrivals = append(arrivals, p)
		}
	}
	slices.SortFunc(arrivals, func(a, b *Process) int {
		return cmp.Compare(idNumber(a.ID), idNumber(b.ID))
	})
	for _, p := range arrivals {
		queue = append(queue, p.ID)
		p.State = StateReady
	}
	return queue
}

// selectRoundRobin preempts the active process when its slice is used up and
// dispatches the head of the queue when the CPU is free. The dispatched
// process stays at the head of the queue while it runs.
func selectRoundRobin(byID map[string]*Process, queue []string, active string, elapsed, quantum int) (string, int, []string) {
	if active != "" {
		if p := byID[active]; p.Remaining > 0 && elapsed >= quantum {
			queue = slices.DeleteFunc(queue, func(id string) bool { return id == active })
			queue = append(queue, active)
			active, elapsed = "", 0
		}
	}
	if active == "" {
		for _, id := range queue {
			if !byID[id].State.IsTerminal() {
				return id, 0, queue
			}
		}
	}
	return active, elapsed, queue
}

func selectRanked(procs []Process, byID map[string]*Process, alg Algorithm, active string, tick int) string {
	if !alg.Preemptive() && active != "" && byID[active].Remaining > 0 {
		return active
	}

	var candidates []*Process
	for i := range procs {
		p := &procs[i]
		if p.Arrival <= tick && !p.State.IsTerminal() {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	rankWith(rankings[alg], candidates, tick)
	return candidates[0].ID
}

func rankedQueue(procs []Process, alg Algorithm, active string, tick int) []string {
	var ready []*Process
	for i := range procs {
		p := &procs[i]
		if p.State == StateReady && p.ID != active {
			ready = append(ready, p)
		}
	}
	rankWith(rankings[alg], ready, tick)

	queue := make([]string, len(ready))
	for i, p := range ready {
		queue[i] = p.ID
	}
	return queue
}
