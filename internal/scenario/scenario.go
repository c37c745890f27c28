package scenario

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nluthra2001/cpusched/internal/sched"
)

var (
	ErrInvalidArgs  = errors.New("invalid args")
	ErrMalformedRow = errors.New("malformed row")
)

// MaxRandom caps the size of a generated process set.
const MaxRandom = 1000

// Scenario is a process set plus, optionally, the algorithm to run it with.
type Scenario struct {
	Algorithm string         `yaml:"algorithm,omitempty" json:"algorithm,omitempty"`
	Quantum   int            `yaml:"quantum,omitempty" json:"quantum,omitempty"`
	Processes []sched.Params `yaml:"processes" json:"processes"`
}

// Default is the process set the simulator starts with.
func Default() Scenario {
	return Scenario{
		Processes: []sched.Params{
			{Arrival: 0, Burst: 5, Priority: 2, Deadline: sched.IntPtr(10), Period: sched.IntPtr(10)},
			{Arrival: 1, Burst: 3, Priority: 1, Deadline: sched.IntPtr(5), Period: sched.IntPtr(5)},
			{Arrival: 2, Burst: 8, Priority: 3, Deadline: sched.IntPtr(20), Period: sched.IntPtr(20)},
			{Arrival: 3, Burst: 6, Priority: 4, Deadline: sched.IntPtr(15), Period: sched.IntPtr(15)},
		},
	}
}

// Random generates n processes sorted by arrival time.
// n is clamped to [0, MaxRandom].
func Random(rng *rand.Rand, n int) Scenario {
	n = min(max(n, 0), MaxRandom)
	procs := make([]sched.Params, n)
	for i := range procs {
		procs[i] = sched.Params{
			Arrival:  rng.Intn(8),
			Burst:    rng.Intn(8) + 2,
			Priority: rng.Intn(5) + 1,
			Deadline: sched.IntPtr(rng.Intn(20) + 5),
			Period:   sched.IntPtr(rng.Intn(15) + 5),
		}
	}
	slices.SortStableFunc(procs, func(a, b sched.Params) int {
		return cmp.Compare(a.Arrival, b.Arrival)
	})
	return Scenario{Processes: procs}
}

// Load reads a scenario file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as CSV.
func Load(path string) (Scenario, error) {
	f, closeFile, err := openFile(path)
	if err != nil {
		return Scenario{}, err
	}
	defer closeFile()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		procs, err := LoadCSV(f)
		return Scenario{Processes: procs}, err
	}
}

func openFile(path string) (*os.File, func(), error) {
	if path == "" {
		return nil, nil, fmt.Errorf("%w: must give a scheduling file to process", ErrInvalidArgs)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: error opening scheduling file", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// LoadYAML decodes a scenario document.
func LoadYAML(r io.Reader) (Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return Scenario{}, fmt.Errorf("%w: decoding YAML", err)
	}
	return sc, nil
}

// LoadCSV reads rows of id,burst,arrival[,priority[,deadline[,period]]].
// Rows are returned ordered by id so that id n becomes process Pn when the
// ids run from 1. Empty deadline or period cells mean "none".
func LoadCSV(r io.Reader) ([]sched.Params, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV", err)
	}

	type row struct {
		id     int
		params sched.Params
	}
	parsed := make([]row, 0, len(rows))
	seen := make(map[int]bool, len(rows))
	for i, rec := range rows {
		if len(rec) < 3 || len(rec) > 6 {
			return nil, fmt.Errorf("%w: line %d: want 3 to 6 columns, got %d", ErrMalformedRow, i+1, len(rec))
		}
		var (
			vals [4]int
			opt  [2]*int
		)
		for j := 0; j < len(rec) && j < 4; j++ {
			v, err := strToInt(rec[j])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %v", ErrMalformedRow, i+1, j+1, err)
			}
			vals[j] = v
		}
		for j := 4; j < len(rec); j++ {
			if strings.TrimSpace(rec[j]) == "" {
				continue
			}
			v, err := strToInt(rec[j])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %v", ErrMalformedRow, i+1, j+1, err)
			}
			opt[j-4] = sched.IntPtr(v)
		}
		if seen[vals[0]] {
			return nil, fmt.Errorf("%w: line %d: duplicate id %d", ErrMalformedRow, i+1, vals[0])
		}
		seen[vals[0]] = true

		parsed = append(parsed, row{
			id: vals[0],
			params: sched.Params{
				Burst:    vals[1],
				Arrival:  vals[2],
				Priority: vals[3],
				Deadline: opt[0],
				Period:   opt[1],
			},
		})
	}

	slices.SortStableFunc(parsed, func(a, b row) int { return cmp.Compare(a.id, b.id) })
	procs := make([]sched.Params, len(parsed))
	for i := range parsed {
		procs[i] = parsed[i].params
	}
	return procs, nil
}

func strToInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
