package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry()

	p, err := reg.Create(Params{Arrival: 2, Burst: 4, Priority: 3, Deadline: IntPtr(9)})
	require.NoError(t, err)

	assert.Equal(t, "P1", p.ID)
	assert.Equal(t, 4, p.Remaining)
	assert.Equal(t, StateWaiting, p.State)
	assert.Nil(t, p.StartTime)
	assert.Nil(t, p.CompletionTime)
	assert.Zero(t, p.WaitingTime)
	assert.Zero(t, p.TurnaroundTime)
	assert.Nil(t, p.Period)
	assert.Equal(t, 9, *p.Deadline)
	assert.Equal(t, Palette[0], p.Color)
}

func TestRegistry_CreateRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   error
	}{
		{"zero burst", Params{Burst: 0}, ErrInvalidBurst},
		{"negative burst", Params{Burst: -3}, ErrInvalidBurst},
		{"negative arrival", Params{Arrival: -1, Burst: 1}, ErrInvalidArrival},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			_, err := reg.Create(tt.params)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, reg.Len())
		})
	}
}

func TestRegistry_IDsAreNeverReused(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 3; i++ {
		_, err := reg.Create(Params{Burst: 1})
		require.NoError(t, err)
	}
	require.NoError(t, reg.Remove("P3"))

	p, err := reg.Create(Params{Burst: 1})
	require.NoError(t, err)

	assert.Equal(t, "P4", p.ID)
	assert.Equal(t, Palette[3], p.Color)
}

func TestRegistry_PaletteCycles(t *testing.T) {
	reg := NewRegistry()
	var last Process
	for i := 0; i <= len(Palette); i++ {
		var err error
		last, err = reg.Create(Params{Burst: 1})
		require.NoError(t, err)
	}
	assert.Equal(t, Palette[0], last.Color)
}

func TestRegistry_Remove(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Create(Params{Burst: 1})
	require.NoError(t, err)

	require.NoError(t, reg.Remove("P1"))
	assert.ErrorIs(t, reg.Remove("P1"), ErrProcessNotFound)
	_, ok := reg.Get("P1")
	assert.False(t, ok)
}

func TestRegistry_CommitAndReset(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Create(Params{Arrival: 0, Burst: 2})
	require.NoError(t, err)
	_, err = reg.Create(Params{Arrival: 0, Burst: 1})
	require.NoError(t, err)

	res := Advance(Snapshot{Processes: reg.Processes()}, Config{Algorithm: FCFS})
	require.NoError(t, reg.Remove("P2"))
	reg.Commit(res.Next.Processes)

	require.Equal(t, 1, reg.Len())
	p, _ := reg.Get("P1")
	assert.Equal(t, 1, p.Remaining)
	assert.Equal(t, StateRunning, p.State)

	reg.Reset()
	p, _ = reg.Get("P1")
	assert.Equal(t, 2, p.Remaining)
	assert.Equal(t, StateWaiting, p.State)
	assert.Nil(t, p.StartTime)
}

func TestRegistry_ProcessesAreCopies(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Create(Params{Burst: 1, Period: IntPtr(4)})
	require.NoError(t, err)

	ps := reg.Processes()
	ps[0].Remaining = 0
	*ps[0].Period = 1

	p, _ := reg.Get("P1")
	assert.Equal(t, 1, p.Remaining)
	assert.Equal(t, 4, *p.Period)
}

func TestRegistry_AllCompleted(t *testing.T) {
	reg := NewRegistry()
	assert.True(t, reg.AllCompleted())

	p1, err := reg.Create(Params{Burst: 1})
	require.NoError(t, err)
	p2, err := reg.Create(Params{Burst: 2})
	require.NoError(t, err)
	assert.False(t, reg.AllCompleted())

	p1.State = StateCompleted
	reg.Commit([]Process{p1})
	assert.False(t, reg.AllCompleted())

	p2.State = StateCompleted
	reg.Commit([]Process{p2})
	assert.True(t, reg.AllCompleted())
}
