package sched

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(t *testing.T, params ...Params) Snapshot {
	t.Helper()
	reg := NewRegistry()
	for _, p := range params {
		_, err := reg.Create(p)
		require.NoError(t, err)
	}
	return Snapshot{Processes: reg.Processes()}
}

// trace runs the engine until every process completes and returns the
// executed id of each tick.
func trace(t *testing.T, s Snapshot, cfg Config) ([]string, Snapshot) {
	t.Helper()
	var executed []string
	for i := 0; !s.Finished(); i++ {
		require.Less(t, i, 1000, "simulation did not finish")
		res := Advance(s, cfg)
		executed = append(executed, res.Executed)
		s = res.Next
	}
	return executed, s
}

func mustProcess(t *testing.T, s Snapshot, id string) Process {
	t.Helper()
	p, ok := s.Process(id)
	require.True(t, ok, "process %s missing", id)
	return p
}

func TestAdvance_FCFS(t *testing.T) {
	s := newSnapshot(t, Params{Arrival: 0, Burst: 5}, Params{Arrival: 1, Burst: 3})

	executed, final := trace(t, s, Config{Algorithm: FCFS})

	assert.Equal(t, []string{"P1", "P1", "P1", "P1", "P1", "P2", "P2", "P2"}, executed)

	p1 := mustProcess(t, final, "P1")
	assert.Equal(t, 5, *p1.CompletionTime)
	assert.Equal(t, 0, p1.WaitingTime)
	assert.Equal(t, 5, p1.TurnaroundTime)

	p2 := mustProcess(t, final, "P2")
	assert.Equal(t, 8, *p2.CompletionTime)
	assert.Equal(t, 4, p2.WaitingTime)
	assert.Equal(t, 7, p2.TurnaroundTime)
	assert.Equal(t, 5, *p2.StartTime)
}

func TestAdvance_RoundRobinQueueOrder(t *testing.T) {
	s := newSnapshot(t, Params{Arrival: 0, Burst: 5}, Params{Arrival: 0, Burst: 3})
	cfg := Config{Algorithm: RR, Quantum: 2}

	steps := []struct {
		executed string
		queue    []string
		active   string
		elapsed  int
	}{
		{"P1", []string{"P1", "P2"}, "P1", 1},
		{"P1", []string{"P1", "P2"}, "P1", 2},
		{"P2", []string{"P2", "P1"}, "P2", 1}, // P1 preempted to the back
		{"P2", []string{"P2", "P1"}, "P2", 2},
		{"P1", []string{"P1", "P2"}, "P1", 1}, // P2 preempted to the back
		{"P1", []string{"P1", "P2"}, "P1", 2},
		{"P2", []string{"P1"}, "", 0}, // P2 completes its last unit
		{"P1", []string{}, "", 0},
	}
	for i, want := range steps {
		res := Advance(s, cfg)
		assert.Equal(t, want.executed, res.Executed, "tick %d executed", i)
		assert.Equal(t, want.queue, res.Next.ReadyQueue, "tick %d queue", i)
		assert.Equal(t, want.active, res.Next.ActiveID, "tick %d active", i)
		assert.Equal(t, want.elapsed, res.Next.QuantumElapsed, "tick %d quantum", i)
		s = res.Next
	}
	require.True(t, s.Finished())
	assert.Equal(t, 8, *mustProcess(t, s, "P1").CompletionTime)
	assert.Equal(t, 7, *mustProcess(t, s, "P2").CompletionTime)
}

func TestAdvance_RoundRobinArrivalBeforePreempted(t *testing.T) {
	// P2 arrives on the tick P1's slice expires and is queued ahead of it.
	s := newSnapshot(t, Params{Arrival: 0, Burst: 4}, Params{Arrival: 2, Burst: 1})

	executed, _ := trace(t, s, Config{Algorithm: RR, Quantum: 2})

	assert.Equal(t, []string{"P1", "P1", "P2", "P1", "P1"}, executed)
}

func TestAdvance_SRTFPreemption(t *testing.T) {
	s := newSnapshot(t, Params{Arrival: 0, Burst: 8}, Params{Arrival: 1, Burst: 4})

	executed, final := trace(t, s, Config{Algorithm: SRTF})

	want := []string{"P1", "P2", "P2", "P2", "P2", "P1", "P1", "P1", "P1", "P1", "P1", "P1"}
	assert.Equal(t, want, executed)
	assert.Equal(t, 5, *mustProcess(t, final, "P2").CompletionTime)
	assert.Equal(t, 12, *mustProcess(t, final, "P1").CompletionTime)
	assert.Equal(t, 4, mustProcess(t, final, "P1").WaitingTime)
}

func TestAdvance_EDFPicksEarliestDeadline(t *testing.T) {
	s := newSnapshot(t,
		Params{Arrival: 0, Burst: 1, Deadline: IntPtr(5)},
		Params{Arrival: 0, Burst: 6, Deadline: IntPtr(3)},
	)

	res := Advance(s, Config{Algorithm: EDF})

	assert.Equal(t, "P2", res.Executed)
	assert.Equal(t, []string{"P1"}, res.Next.ReadyQueue)
}

func TestAdvance_MissingDeadlineAndPeriodRankLast(t *testing.T) {
	tests := []struct {
		alg    Algorithm
		params []Params
	}{
		{EDF, []Params{{Burst: 1}, {Burst: 1, Deadline: IntPtr(100)}}},
		{RMS, []Params{{Burst: 1}, {Burst: 1, Period: IntPtr(100)}}},
	}
	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			res := Advance(newSnapshot(t, tt.params...), Config{Algorithm: tt.alg})
			assert.Equal(t, "P2", res.Executed)
		})
	}
}

func TestAdvance_NonPreemptiveKeepsRunning(t *testing.T) {
	for _, alg := range []Algorithm{FCFS, SJF, PriorityNP, HRRN} {
		t.Run(alg.String(), func(t *testing.T) {
			s := newSnapshot(t,
				Params{Arrival: 0, Burst: 6, Priority: 5},
				Params{Arrival: 1, Burst: 1, Priority: 1},
			)

			executed, _ := trace(t, s, Config{Algorithm: alg})

			assert.Equal(t, []string{"P1", "P1", "P1", "P1", "P1", "P1", "P2"}, executed)
		})
	}
}

func TestAdvance_PriorityPreemptive(t *testing.T) {
	s := newSnapshot(t,
		Params{Arrival: 0, Burst: 3, Priority: 5},
		Params{Arrival: 1, Burst: 2, Priority: 1},
	)

	executed, _ := trace(t, s, Config{Algorithm: PriorityP})

	assert.Equal(t, []string{"P1", "P2", "P2", "P1", "P1"}, executed)
}

func TestAdvance_SJFPicksShortestWhenFree(t *testing.T) {
	s := newSnapshot(t,
		Params{Arrival: 0, Burst: 2},
		Params{Arrival: 1, Burst: 5},
		Params{Arrival: 1, Burst: 3},
	)

	executed, _ := trace(t, s, Config{Algorithm: SJF})

	assert.Equal(t, []string{"P1", "P1", "P3", "P3", "P3", "P2", "P2", "P2", "P2", "P2"}, executed)
}

func TestAdvance_HRRNFavoursLongWait(t *testing.T) {
	// At tick 4: P2 waited 3 over burst 6 (1.5), P3 waited 1 over burst 1 (2.0).
	s := newSnapshot(t,
		Params{Arrival: 0, Burst: 4},
		Params{Arrival: 1, Burst: 6},
		Params{Arrival: 3, Burst: 1},
	)

	executed, _ := trace(t, s, Config{Algorithm: HRRN})

	assert.Equal(t, "P3", executed[4])
}

func TestAdvance_TieBreaksByArrivalThenID(t *testing.T) {
	s := newSnapshot(t,
		Params{Arrival: 1, Burst: 2},
		Params{Arrival: 0, Burst: 2},
		Params{Arrival: 0, Burst: 1},
		Params{Arrival: 0, Burst: 2},
	)

	executed, _ := trace(t, s, Config{Algorithm: SRTF})

	// At tick 1 P1, P2 and P4 all have 2 units left: P2 and P4 win on
	// arrival, P2 on id.
	assert.Equal(t, []string{"P3", "P2", "P2", "P4", "P4", "P1", "P1"}, executed)
}

func TestAdvance_SimultaneousArrivalsQueuedByID(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 11; i++ {
		_, err := reg.Create(Params{Arrival: 0, Burst: 1})
		require.NoError(t, err)
	}
	s := Snapshot{Processes: reg.Processes()}
	// Reverse the slice so insertion order disagrees with the id order.
	for i, j := 0, len(s.Processes)-1; i < j; i, j = i+1, j-1 {
		s.Processes[i], s.Processes[j] = s.Processes[j], s.Processes[i]
	}

	res := Advance(s, Config{Algorithm: RR, Quantum: 1})

	assert.Equal(t, "P1", res.Executed)
	assert.Equal(t, []string{"P2", "P3", "P4", "P5", "P6", "P7", "P8", "P9", "P10", "P11"}, res.Next.ReadyQueue)
}

func TestAdvance_IdleUntilArrival(t *testing.T) {
	s := newSnapshot(t, Params{Arrival: 2, Burst: 1})

	executed, final := trace(t, s, Config{Algorithm: FCFS})

	assert.Equal(t, []string{"", "", "P1"}, executed)
	p := mustProcess(t, final, "P1")
	assert.Equal(t, 0, p.WaitingTime)
	rt, ok := p.ResponseTime()
	assert.True(t, ok)
	assert.Equal(t, 0, rt)
}

func TestAdvance_StatesBeforeArrival(t *testing.T) {
	s := newSnapshot(t, Params{Arrival: 0, Burst: 2}, Params{Arrival: 5, Burst: 1}, Params{Arrival: 0, Burst: 2})

	res := Advance(s, Config{Algorithm: FCFS})

	assert.Equal(t, StateRunning, mustProcess(t, res.Next, "P1").State)
	assert.Equal(t, StateWaiting, mustProcess(t, res.Next, "P2").State)
	assert.Equal(t, StateReady, mustProcess(t, res.Next, "P3").State)
	assert.Equal(t, 1, mustProcess(t, res.Next, "P3").WaitingTime)
	assert.Equal(t, []string{"P3"}, res.Next.ReadyQueue)
	assert.Equal(t, 1, res.Next.Tick)
}

func TestAdvance_AllCompletedIsIdle(t *testing.T) {
	s := newSnapshot(t, Params{Arrival: 0, Burst: 1})
	_, final := trace(t, s, Config{Algorithm: FCFS})

	res := Advance(final, Config{Algorithm: FCFS})

	assert.Empty(t, res.Executed)
	assert.Empty(t, res.Next.ActiveID)
	assert.Equal(t, final.Processes, res.Next.Processes)

	empty := Advance(Snapshot{}, Config{Algorithm: RR, Quantum: 2})
	assert.Empty(t, empty.Executed)
	assert.Equal(t, 1, empty.Next.Tick)
}

func TestAdvance_RemovedActiveIsVacated(t *testing.T) {
	for _, cfg := range []Config{{Algorithm: RR, Quantum: 3}, {Algorithm: FCFS}, {Algorithm: SRTF}} {
		t.Run(cfg.Algorithm.String(), func(t *testing.T) {
			s := newSnapshot(t, Params{Arrival: 0, Burst: 5}, Params{Arrival: 0, Burst: 2})
			s = Advance(s, cfg).Next
			require.NotEmpty(t, s.ActiveID)
			removed := s.ActiveID

			// Drop the active process without touching ActiveID or the queue.
			kept := s.Processes[:0]
			for _, p := range s.Processes {
				if p.ID != removed {
					kept = append(kept, p)
				}
			}
			s.Processes = kept
			s.ReadyQueue = append(s.ReadyQueue, removed)

			res := Advance(s, cfg)

			assert.NotEqual(t, removed, res.Executed)
			assert.NotEmpty(t, res.Executed)
			assert.NotContains(t, res.Next.ReadyQueue, removed)
		})
	}
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	s := newSnapshot(t, Params{Arrival: 0, Burst: 3, Deadline: IntPtr(4)}, Params{Arrival: 0, Burst: 2})
	s = Advance(s, Config{Algorithm: RR, Quantum: 1}).Next
	before := s.Clone()

	res := Advance(s, Config{Algorithm: RR, Quantum: 1})

	assert.Equal(t, before, s)
	res.Next.ReadyQueue[0] = "changed"
	*res.Next.Processes[0].StartTime = 99
	*res.Next.Processes[0].Deadline = 99
	assert.Equal(t, before, s)
}

func randomParams(rng *rand.Rand, n int) []Params {
	params := make([]Params, n)
	for i := range params {
		params[i] = Params{
			Arrival:  rng.Intn(10),
			Burst:    rng.Intn(8) + 1,
			Priority: rng.Intn(5) + 1,
		}
		if rng.Intn(4) > 0 {
			params[i].Deadline = IntPtr(rng.Intn(30))
		}
		if rng.Intn(4) > 0 {
			params[i].Period = IntPtr(rng.Intn(20) + 1)
		}
	}
	return params
}

func TestAdvance_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 25; round++ {
		params := randomParams(rng, rng.Intn(7)+1)
		for _, info := range Algorithms() {
			cfg := Config{Algorithm: info.Algorithm, Quantum: rng.Intn(3) + 1}
			s := newSnapshot(t, params...)
			runs := make(map[string]int)

			for i := 0; !s.Finished(); i++ {
				require.Less(t, i, 500)
				res := Advance(s, cfg)

				running := 0
				for _, p := range res.Next.Processes {
					prev := mustProcess(t, s, p.ID)
					assert.LessOrEqual(t, p.Remaining, prev.Remaining)
					assert.GreaterOrEqual(t, p.Remaining, 0)
					if p.State == StateRunning {
						running++
					}
				}
				assert.LessOrEqual(t, running, 1)

				if res.Executed != "" {
					runs[res.Executed]++
				}
				s = res.Next
			}

			for _, p := range s.Processes {
				require.Equal(t, StateCompleted, p.State)
				assert.Equal(t, *p.CompletionTime-p.Arrival, p.TurnaroundTime, "%s %s", cfg.Algorithm, p.ID)
				assert.Equal(t, p.WaitingTime+p.Burst, p.TurnaroundTime, "%s %s", cfg.Algorithm, p.ID)
				assert.Equal(t, p.Burst, runs[p.ID])
			}
		}
	}
}

func TestAdvance_NonPreemptiveRunsContiguously(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 25; round++ {
		params := randomParams(rng, rng.Intn(6)+2)
		for _, alg := range []Algorithm{FCFS, SJF, PriorityNP, HRRN} {
			executed, final := trace(t, newSnapshot(t, params...), Config{Algorithm: alg})

			seen := make(map[string]bool)
			for i := 0; i < len(executed); {
				id := executed[i]
				if id == "" {
					i++
					continue
				}
				require.False(t, seen[id], "%s: %s dispatched twice", alg, id)
				seen[id] = true
				burst := mustProcess(t, final, id).Burst
				for j := 0; j < burst; j++ {
					require.Equal(t, id, executed[i+j], "%s: %s interrupted", alg, id)
				}
				i += burst
			}
		}
	}
}

func TestAdvance_Deterministic(t *testing.T) {
	params := randomParams(rand.New(rand.NewSource(3)), 6)
	for _, info := range Algorithms() {
		cfg := Config{Algorithm: info.Algorithm, Quantum: 2}
		first, a := trace(t, newSnapshot(t, params...), cfg)
		second, b := trace(t, newSnapshot(t, params...), cfg)
		assert.Equal(t, first, second, info.Algorithm)
		assert.Equal(t, a, b, info.Algorithm)
	}
}
