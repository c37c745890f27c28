package sim

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/nluthra2001/cpusched/internal/sched"
)

// EventType classifies entries of the event log.
type EventType string

const (
	EventArrival  EventType = "ARRIVAL"
	EventStart    EventType = "START"
	EventPreempt  EventType = "PREEMPT"
	EventComplete EventType = "COMPLETE"
)

// order within one tick: arrivals, then completions, then preemptions, then
// dispatches.
var eventOrder = map[EventType]int{
	EventArrival:  1,
	EventComplete: 2,
	EventPreempt:  3,
	EventStart:    4,
}

type Event struct {
	Time      int       `json:"time" yaml:"time"`
	Type      EventType `json:"type" yaml:"type"`
	ProcessID string    `json:"process_id" yaml:"process_id"`
	Details   string    `json:"details" yaml:"details"`
}

// Events reconstructs the chronological event log from the execution log and
// the process records as of tick. Arrivals after tick are not reported, and a
// block still running at tick has no end event yet.
func Events(procs []sched.Process, blocks []Block, tick int) []Event {
	var events []Event
	completion := make(map[string]int, len(procs))
	for _, p := range procs {
		if p.CompletionTime != nil {
			completion[p.ID] = *p.CompletionTime
		}
		if p.Arrival > tick {
			continue
		}
		events = append(events, Event{
			Time:      p.Arrival,
			Type:      EventArrival,
			ProcessID: p.ID,
			Details:   fmt.Sprintf("Arrived in ready queue (burst %d, priority %d)", p.Burst, p.Priority),
		})
	}

	for _, b := range blocks {
		if b.IsIdle() {
			continue
		}
		events = append(events, Event{Time: b.Start, Type: EventStart, ProcessID: b.ProcessID, Details: "Allocated to CPU"})
		end, completed := completion[b.ProcessID]
		switch {
		case completed && end == b.End:
			events = append(events, Event{Time: b.End, Type: EventComplete, ProcessID: b.ProcessID, Details: "Finished execution"})
		case b.End >= tick:
			// still on the CPU
		default:
			events = append(events, Event{Time: b.End, Type: EventPreempt, ProcessID: b.ProcessID, Details: "Preempted or time quantum expired"})
		}
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		if c := cmp.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return cmp.Compare(eventOrder[a.Type], eventOrder[b.Type])
	})
	return events
}
