package sched

import "fmt"

// Palette is the fixed set of display colours, cycled by creation index.
var Palette = []string{
	"#3b82f6", // blue
	"#ef4444", // red
	"#10b981", // emerald
	"#f59e0b", // amber
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#06b6d4", // cyan
	"#f97316", // orange
	"#84cc16", // lime
	"#d946ef", // fuchsia
}

// Registry owns the canonical set of processes in insertion order.
// It is not safe for concurrent use.
type Registry struct {
	procs   []Process
	created int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Create validates p and registers a new process with the next free id.
func (r *Registry) Create(p Params) (Process, error) {
	if p.Burst < 1 {
		return Process{}, fmt.Errorf("%w: burst must be >= 1, got %d", ErrInvalidBurst, p.Burst)
	}
	if p.Arrival < 0 {
		return Process{}, fmt.Errorf("%w: arrival must be >= 0, got %d", ErrInvalidArrival, p.Arrival)
	}

	index := r.created
	r.created++

	proc := Process{
		ID:        processID(index + 1),
		Arrival:   p.Arrival,
		Burst:     p.Burst,
		Priority:  p.Priority,
		Deadline:  cloneInt(p.Deadline),
		Period:    cloneInt(p.Period),
		Color:     Palette[index%len(Palette)],
		Remaining: p.Burst,
		State:     StateWaiting,
	}
	r.procs = append(r.procs, proc)
	return proc.Clone(), nil
}

// Remove deletes the process with the given id. Clearing the active slot and
// the ready queue is left to the caller.
func (r *Registry) Remove(id string) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProcessNotFound, id)
	}
	r.procs = append(r.procs[:i], r.procs[i+1:]...)
	return nil
}

// Get returns a copy of the process with the given id.
func (r *Registry) Get(id string) (Process, bool) {
	i := r.index(id)
	if i < 0 {
		return Process{}, false
	}
	return r.procs[i].Clone(), true
}

// Processes returns copies of all processes in insertion order.
func (r *Registry) Processes() []Process {
	return cloneProcesses(r.procs)
}

func (r *Registry) Len() int {
	return len(r.procs)
}

// AllCompleted reports whether every process is COMPLETED. An empty registry
// counts as completed.
func (r *Registry) AllCompleted() bool {
	for i := range r.procs {
		if !r.procs[i].State.IsTerminal() {
			return false
		}
	}
	return true
}

// Commit stores the runtime state computed by Advance. Records whose id is no
// longer registered are ignored.
func (r *Registry) Commit(ps []Process) {
	for _, p := range ps {
		if i := r.index(p.ID); i >= 0 {
			r.procs[i] = p.Clone()
		}
	}
}

// Reset puts every process back into its creation state. Ids and colours are
// kept.
func (r *Registry) Reset() {
	for i := range r.procs {
		p := &r.procs[i]
		p.Remaining = p.Burst
		p.State = StateWaiting
		p.StartTime = nil
		p.CompletionTime = nil
		p.WaitingTime = 0
		p.TurnaroundTime = 0
	}
}

func (r *Registry) index(id string) int {
	for i := range r.procs {
		if r.procs[i].ID == id {
			return i
		}
	}
	return -1
}
