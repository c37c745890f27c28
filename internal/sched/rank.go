package sched

import (
	"cmp"
	"slices"
)

// ranking orders two candidates at the given tick. A negative result means a
// should run before b. Ties are resolved by byArrivalThenID in rankWith.
type ranking func(a, b *Process, tick int) int

var rankings = map[Algorithm]ranking{
	FCFS:       byArrival,
	SJF:        byRemaining,
	SRTF:       byRemaining,
	PriorityNP: byPriority,
	PriorityP:  byPriority,
	HRRN:       byResponseRatio,
	EDF:        byDeadline,
	RMS:        byPeriod,
}

func byArrival(a, b *Process, _ int) int {
	return cmp.Compare(a.Arrival, b.Arrival)
}

func byRemaining(a, b *Process, _ int) int {
	return cmp.Compare(a.Remaining, b.Remaining)
}

func byPriority(a, b *Process, _ int) int {
	return cmp.Compare(a.Priority, b.Priority)
}

// byResponseRatio puts the highest ratio first. The ratios 1+wa/ba and
// 1+wb/bb are compared as wa*bb against wb*ba, which is exact for integers.
func byResponseRatio(a, b *Process, tick int) int {
	wa, wb := waited(a, tick), waited(b, tick)
	return cmp.Compare(wb*a.Burst, wa*b.Burst)
}

func byDeadline(a, b *Process, _ int) int {
	return compareOptional(a.Deadline, b.Deadline)
}

func byPeriod(a, b *Process, _ int) int {
	return compareOptional(a.Period, b.Period)
}

// compareOptional treats nil as +inf.
func compareOptional(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}

func byArrivalThenID(a, b *Process) int {
	if c := cmp.Compare(a.Arrival, b.Arrival); c != 0 {
		return c
	}
	return cmp.Compare(idNumber(a.ID), idNumber(b.ID))
}

func waited(p *Process, tick int) int {
	return tick - p.Arrival - (p.Burst - p.Remaining)
}

// ResponseRatio is the HRRN priority of p at tick: 1 + waited/burst.
func ResponseRatio(p Process, tick int) float64 {
	return 1 + float64(waited(&p, tick))/float64(p.Burst)
}

// rankWith sorts ps in place, best candidate first.
func rankWith(r ranking, ps []*Process, tick int) {
	slices.SortStableFunc(ps, func(a, b *Process) int {
		if c := r(a, b, tick); c != 0 {
			return c
		}
		return byArrivalThenID(a, b)
	})
}
