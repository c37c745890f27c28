package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nluthra2001/cpusched/internal/sched"
	"github.com/nluthra2001/cpusched/internal/sim"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Source is the read-only view of a simulation a report is built from.
type Source interface {
	Config() sched.Config
	Snapshot() sched.Snapshot
	Gantt() []sim.Block
}

// Document is everything a report shows about one run.
type Document struct {
	Title     string          `json:"title" yaml:"title"`
	Algorithm sched.Algorithm `json:"algorithm" yaml:"algorithm"`
	Quantum   int             `json:"quantum,omitempty" yaml:"quantum,omitempty"`
	Tick      int             `json:"tick" yaml:"tick"`
	Finished  bool            `json:"finished" yaml:"finished"`
	Summary   sim.Summary     `json:"summary" yaml:"summary"`
	Gantt     []sim.Block     `json:"gantt" yaml:"gantt"`
	Processes []sched.Process `json:"processes" yaml:"processes"`
	Events    []sim.Event     `json:"events" yaml:"events"`
}

// NewDocument collects the report data of src.
func NewDocument(src Source) Document {
	cfg := src.Config()
	snap := src.Snapshot()
	blocks := src.Gantt()

	doc := Document{
		Title:     cfg.Algorithm.Label(),
		Algorithm: cfg.Algorithm,
		Tick:      snap.Tick,
		Finished:  snap.Finished(),
		Summary:   sim.Summarize(snap.Processes, blocks),
		Gantt:     blocks,
		Processes: snap.Processes,
		Events:    sim.Events(snap.Processes, blocks, snap.Tick),
	}
	if cfg.Algorithm == sched.RR {
		doc.Quantum = cfg.Quantum
		doc.Title = fmt.Sprintf("%s (quantum %d)", doc.Title, cfg.Quantum)
	}
	return doc
}

// Write renders doc as text, json or yaml.
func Write(w io.Writer, format string, doc Document) error {
	switch strings.ToLower(format) {
	case "", "text":
		WriteText(w, doc)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
