package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input string
		want  Algorithm
	}{
		{"FCFS", FCFS},
		{"fcfs", FCFS},
		{" rr ", RR},
		{"priority_np", PriorityNP},
		{"priority-p", PriorityP},
		{"Hrrn", HRRN},
		{"edf", EDF},
		{"RMS", RMS},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseAlgorithm("lottery")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestAlgorithm_Preemptive(t *testing.T) {
	preemptive := map[Algorithm]bool{
		FCFS: false, SJF: false, PriorityNP: false, HRRN: false,
		SRTF: true, PriorityP: true, EDF: true, RMS: true, RR: true,
	}
	for alg, want := range preemptive {
		assert.Equal(t, want, alg.Preemptive(), alg)
	}
}

func TestAlgorithms_CoversEveryRanking(t *testing.T) {
	infos := Algorithms()
	require.Len(t, infos, 9)
	for _, info := range infos {
		assert.NotEmpty(t, info.Label)
		if info.Algorithm != RR {
			assert.Contains(t, rankings, info.Algorithm)
		}
	}
	assert.Equal(t, "Round Robin", RR.Label())
	assert.Equal(t, "MLFQ", Algorithm("MLFQ").Label())
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Algorithm: FCFS}.Validate())
	assert.NoError(t, Config{Algorithm: RR, Quantum: 1}.Validate())
	assert.ErrorIs(t, Config{Algorithm: RR}.Validate(), ErrInvalidQuantum)
	assert.ErrorIs(t, Config{Algorithm: "MLFQ", Quantum: 2}.Validate(), ErrUnknownAlgorithm)
}

func TestResponseRatio(t *testing.T) {
	p := Process{ID: "P1", Arrival: 2, Burst: 4, Remaining: 4}
	assert.InDelta(t, 1.0, ResponseRatio(p, 2), 1e-9)
	assert.InDelta(t, 1.5, ResponseRatio(p, 4), 1e-9)

	p.Remaining = 3 // one unit executed
	assert.InDelta(t, 1.25, ResponseRatio(p, 4), 1e-9)
}

func TestIDNumber(t *testing.T) {
	assert.Equal(t, 12, idNumber("P12"))
	assert.Less(t, idNumber("P9"), idNumber("P10"))
	assert.Greater(t, idNumber("job"), idNumber("P999"))
}
