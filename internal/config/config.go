package config

import (
	"time"

	"github.com/nluthra2001/cpusched/internal/sched"
)

// Config holds the settings shared by the cpusched commands.
type Config struct {
	Algorithm string        // Scheduling algorithm name (default "FCFS")
	Quantum   int           // Round Robin time slice (default 2)
	MaxTicks  int           // Safety limit for batch runs, 0 for none
	Speed     time.Duration // Delay between ticks in play mode (default 800ms)
	Format    string        // Report format: text, json, yaml
	Addr      string        // HTTP listen address (default ":8080")
	LogLevel  string        // Log level: debug, info, warn, error
	LogFormat string        // Log format: text, json
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Algorithm: string(sched.FCFS),
		Quantum:   2,
		MaxTicks:  10000,
		Speed:     800 * time.Millisecond,
		Format:    "text",
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// SchedConfig parses the algorithm settings.
func (c Config) SchedConfig() (sched.Config, error) {
	alg, err := sched.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return sched.Config{}, err
	}
	cfg := sched.Config{Algorithm: alg, Quantum: c.Quantum}
	return cfg, cfg.Validate()
}
