package sim

import "slices"

// Idle marks ticks in which no process held the CPU.
const Idle = "IDLE"

// IdleColor is the display colour of idle blocks.
const IdleColor = "#1e293b"

// Block is a maximal run of consecutive ticks with the same occupant.
type Block struct {
	ProcessID string `json:"process_id" yaml:"process_id"`
	Start     int    `json:"start" yaml:"start"`
	End       int    `json:"end" yaml:"end"`
	Color     string `json:"color" yaml:"color"`
}

func (b Block) Len() int {
	return b.End - b.Start
}

func (b Block) IsIdle() bool {
	return b.ProcessID == Idle
}

// Gantt is the execution log built tick by tick from engine results.
type Gantt struct {
	blocks []Block
}

// Record appends one tick. An empty executed id records an idle tick.
func (g *Gantt) Record(tick int, executed, color string) {
	id := executed
	if id == "" {
		id, color = Idle, IdleColor
	}
	if n := len(g.blocks); n > 0 && g.blocks[n-1].ProcessID == id && g.blocks[n-1].End == tick {
		g.blocks[n-1].End = tick + 1
		return
	}
	g.blocks = append(g.blocks, Block{ProcessID: id, Start: tick, End: tick + 1, Color: color})
}

// Blocks returns a copy of the log.
func (g *Gantt) Blocks() []Block {
	return slices.Clone(g.blocks)
}

// End is the tick at which the last block ends.
func (g *Gantt) End() int {
	if len(g.blocks) == 0 {
		return 0
	}
	return g.blocks[len(g.blocks)-1].End
}

func (g *Gantt) restore(blocks []Block) {
	g.blocks = slices.Clone(blocks)
}

func (g *Gantt) reset() {
	g.blocks = nil
}
