package sched

import (
	"fmt"
	"strings"
)

// Algorithm selects the scheduling policy.
type Algorithm string

const (
	FCFS       Algorithm = "FCFS"
	SJF        Algorithm = "SJF"
	SRTF       Algorithm = "SRTF"
	RR         Algorithm = "RR"
	PriorityNP Algorithm = "PRIORITY_NP"
	PriorityP  Algorithm = "PRIORITY_P"
	HRRN       Algorithm = "HRRN"
	EDF        Algorithm = "EDF"
	RMS        Algorithm = "RMS"
)

// AlgorithmInfo describes an algorithm for catalogue listings.
type AlgorithmInfo struct {
	Algorithm   Algorithm `json:"algorithm" yaml:"algorithm"`
	Label       string    `json:"label" yaml:"label"`
	Description string    `json:"description" yaml:"description"`
	Preemptive  bool      `json:"preemptive" yaml:"preemptive"`
}

var catalogue = []AlgorithmInfo{
	{FCFS, "First-Come, First-Served", "Simple queue based on arrival time.", false},
	{SJF, "Shortest Job First (Non-Preemptive)", "Selects process with smallest burst time.", false},
	{SRTF, "Shortest Remaining Time First", "Preemptive version of SJF.", true},
	{RR, "Round Robin", "Fixed time quantum cycler.", true},
	{PriorityNP, "Priority (Non-Preemptive)", "Highest priority runs to completion.", false},
	{PriorityP, "Priority (Preemptive)", "Highest priority interrupts running process.", true},
	{HRRN, "Highest Response Ratio Next", "Dynamic priority based on waiting time.", false},
	{EDF, "Earliest Deadline First", "Dynamic priority based on closest deadline.", true},
	{RMS, "Rate Monotonic Scheduling", "Static priority based on period duration.", true},
}

// Algorithms lists every supported algorithm in display order.
func Algorithms() []AlgorithmInfo {
	out := make([]AlgorithmInfo, len(catalogue))
	copy(out, catalogue)
	return out
}

// ParseAlgorithm accepts canonical names case-insensitively, with '-' as an
// alias for '_' (so "priority-p" works on the command line).
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, info := range catalogue {
		if string(info.Algorithm) == name {
			return info.Algorithm, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

func (a Algorithm) String() string {
	return string(a)
}

// Info returns the catalogue entry for a.
func (a Algorithm) Info() (AlgorithmInfo, bool) {
	for _, info := range catalogue {
		if info.Algorithm == a {
			return info, true
		}
	}
	return AlgorithmInfo{}, false
}

// Label is the human readable name, or the raw value for unknown algorithms.
func (a Algorithm) Label() string {
	if info, ok := a.Info(); ok {
		return info.Label
	}
	return string(a)
}

// Preemptive reports whether a running process can be displaced before it
// finishes.
func (a Algorithm) Preemptive() bool {
	info, _ := a.Info()
	return info.Preemptive
}

// Config is the per-run algorithm configuration handed to Advance.
type Config struct {
	Algorithm Algorithm `json:"algorithm" yaml:"algorithm"`
	// Quantum is the Round Robin time slice; ignored by other algorithms.
	Quantum int `json:"quantum" yaml:"quantum"`
}

// Validate checks the preconditions Advance relies on.
func (c Config) Validate() error {
	if _, ok := c.Algorithm.Info(); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.Algorithm)
	}
	if c.Algorithm == RR && c.Quantum < 1 {
		return fmt.Errorf("%w: quantum must be >= 1, got %d", ErrInvalidQuantum, c.Quantum)
	}
	return nil
}
