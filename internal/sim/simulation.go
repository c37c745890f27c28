package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/nluthra2001/cpusched/internal/sched"
)

var (
	ErrFinished       = errors.New("simulation finished")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrArrivalInPast  = errors.New("arrival time already passed")
	ErrAlreadyStarted = errors.New("simulation already started")
	ErrTickLimit      = errors.New("tick limit reached")
)

// Simulation owns the state between ticks and drives the engine. It is not
// safe for concurrent use.
type Simulation struct {
	cfg    sched.Config
	reg    *sched.Registry
	logger *slog.Logger

	tick    int
	queue   []string
	active  string
	elapsed int

	gantt        Gantt
	history      []frame
	historyLimit int
}

// frame is the state before one tick, kept for Undo.
type frame struct {
	snap   sched.Snapshot
	blocks []Block
}

// Option configures optional Simulation settings.
type Option func(*Simulation)

// WithLogger sets the logger. Ticks are logged at DEBUG.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithHistoryLimit caps the number of undoable ticks. Zero keeps everything.
func WithHistoryLimit(n int) Option {
	return func(s *Simulation) {
		s.historyLimit = n
	}
}

// New creates a simulation at tick 0 with one process per entry of procs, in
// order.
func New(cfg sched.Config, procs []sched.Params, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:    cfg,
		reg:    sched.NewRegistry(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "sim", "algorithm", cfg.Algorithm.String())

	for i, p := range procs {
		if _, err := s.reg.Create(p); err != nil {
			return nil, fmt.Errorf("process %d: %w", i+1, err)
		}
	}
	return s, nil
}

func (s *Simulation) Config() sched.Config {
	return s.cfg
}

// SetConfig switches the algorithm. Only allowed before the first tick.
func (s *Simulation) SetConfig(cfg sched.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if s.tick > 0 {
		return fmt.Errorf("%w: at tick %d", ErrAlreadyStarted, s.tick)
	}
	s.cfg = cfg
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Simulation) Snapshot() sched.Snapshot {
	return sched.Snapshot{
		Tick:           s.tick,
		Processes:      s.reg.Processes(),
		ReadyQueue:     slices.Clone(s.queue),
		ActiveID:       s.active,
		QuantumElapsed: s.elapsed,
	}
}

// Gantt returns a copy of the execution log.
func (s *Simulation) Gantt() []Block {
	return s.gantt.Blocks()
}

func (s *Simulation) Tick() int {
	return s.tick
}

// Finished reports whether every process has completed.
func (s *Simulation) Finished() bool {
	return s.reg.AllCompleted()
}

// Step advances the simulation by one tick.
func (s *Simulation) Step() (sched.Result, error) {
	if s.Finished() {
		return sched.Result{}, ErrFinished
	}

	cur := s.Snapshot()
	res := sched.Advance(cur, s.cfg)

	s.push(frame{snap: cur, blocks: s.gantt.Blocks()})
	s.apply(res.Next)

	color := ""
	if p, ok := res.Next.Process(res.Executed); ok {
		color = p.Color
	}
	s.gantt.Record(cur.Tick, res.Executed, color)

	s.logger.Debug("tick",
		"tick", cur.Tick,
		"executed", res.Executed,
		"active", res.Next.ActiveID,
		"ready_queue", res.Next.ReadyQueue,
	)
	if s.Finished() {
		s.logger.Info("simulation finished", "ticks", s.tick, "blocks", len(s.gantt.blocks))
	}
	return res, nil
}

// Run steps until every process completes. maxTicks <= 0 means no limit.
func (s *Simulation) Run(maxTicks int) error {
	for n := 0; !s.Finished(); n++ {
		if maxTicks > 0 && n >= maxTicks {
			return fmt.Errorf("%w: %d ticks", ErrTickLimit, maxTicks)
		}
		if _, err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Play steps once per interval until the simulation finishes or ctx is done.
// fn, if non-nil, is called after every tick.
func (s *Simulation) Play(ctx context.Context, interval time.Duration, fn func(sched.Result)) error {
	if s.Finished() {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// select picks randomly when both channels are ready.
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.Step()
			if err != nil {
				return err
			}
			if fn != nil {
				fn(res)
			}
			if s.Finished() {
				return nil
			}
		}
	}
}

// Undo restores the state before the last tick.
func (s *Simulation) Undo() error {
	n := len(s.history)
	if n == 0 {
		return ErrNothingToUndo
	}
	f := s.history[n-1]
	s.history = s.history[:n-1]
	s.apply(f.snap)
	s.gantt.restore(f.blocks)
	return nil
}

// Reset goes back to tick 0 with every process in its creation state.
func (s *Simulation) Reset() {
	s.reg.Reset()
	s.tick, s.queue, s.active, s.elapsed = 0, nil, "", 0
	s.gantt.reset()
	s.history = nil
}

// AddProcess registers a new process. Its arrival may not lie before the
// current tick, otherwise its waiting time would be undercounted. Undo history
// is dropped.
func (s *Simulation) AddProcess(p sched.Params) (sched.Process, error) {
	if p.Arrival < s.tick {
		return sched.Process{}, fmt.Errorf("%w: arrival %d before tick %d", ErrArrivalInPast, p.Arrival, s.tick)
	}
	proc, err := s.reg.Create(p)
	if err != nil {
		return sched.Process{}, err
	}
	s.history = nil
	return proc, nil
}

// RemoveProcess deletes a process, vacating the CPU and the ready queue if it
// holds them. Undo history is dropped.
func (s *Simulation) RemoveProcess(id string) error {
	if err := s.reg.Remove(id); err != nil {
		return err
	}
	if s.active == id {
		s.active, s.elapsed = "", 0
	}
	s.queue = slices.DeleteFunc(s.queue, func(q string) bool { return q == id })
	s.history = nil
	return nil
}

func (s *Simulation) apply(next sched.Snapshot) {
	s.reg.Commit(next.Processes)
	s.tick = next.Tick
	s.queue = slices.Clone(next.ReadyQueue)
	s.active = next.ActiveID
	s.elapsed = next.QuantumElapsed
}

func (s *Simulation) push(f frame) {
	s.history = append(s.history, f)
	if s.historyLimit > 0 && len(s.history) > s.historyLimit {
		s.history = slices.Delete(s.history, 0, len(s.history)-s.historyLimit)
	}
}
