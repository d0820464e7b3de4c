// Package core wraps the predecode stage with a simple fetch model so whole
// program images can be streamed through it, either with a plain tick loop or
// under an event-driven simulation engine.
package core

import (
	"encoding/binary"

	"github.com/sarchlab/arm9sim/timing/predecode"
)

// Stats holds run statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Fetched is the number of instruction words presented to predecode.
	Fetched uint64
	// Redirects is the number of decode-time fetch redirects followed.
	Redirects uint64
	// StallCycles is the number of cycles the stage stalled fetch.
	StallCycles uint64
}

// Core streams instructions from a flat image through the predecode stage.
// It models the fetch side only: the issue stage downstream of the latch is
// outside this package's scope.
type Core struct {
	// Stage is the predecode stage under simulation.
	Stage *predecode.Stage

	predictor *DirectionPredictor

	image []byte
	base  uint32
	pc    uint32
	thumb bool

	stats Stats
}

// NewCore creates a core over the given image. base is the address of the
// image's first byte; execution starts at entry.
func NewCore(image []byte, base, entry uint32, config *predecode.Config) *Core {
	if config == nil {
		config = predecode.DefaultConfig()
	}
	return &Core{
		Stage:     predecode.NewStage(config),
		predictor: NewDirectionPredictor(DefaultPredictorConfig()),
		image:     image,
		base:      base,
		pc:        entry,
		thumb:     entry&1 != 0,
	}
}

// PC returns the current fetch address.
func (c *Core) PC() uint32 {
	return c.pc &^ 1
}

// SetPC sets the fetch address. An odd address selects T-mode, mirroring the
// BX interworking convention.
func (c *Core) SetPC(pc uint32) {
	c.thumb = pc&1 != 0
	c.pc = pc &^ 1
}

// Halted reports whether fetch has run off the end of the image.
func (c *Core) Halted() bool {
	_, ok := c.fetch(c.pc)
	return !ok
}

// fetch reads the instruction at pc. In T-mode only a halfword is consumed.
func (c *Core) fetch(pc uint32) (uint32, bool) {
	off := pc - c.base
	if c.thumb {
		if pc < c.base || off+2 > uint32(len(c.image)) {
			return 0, false
		}
		return uint32(binary.LittleEndian.Uint16(c.image[off:])), true
	}
	if pc < c.base || off+4 > uint32(len(c.image)) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(c.image[off:]), true
}

// step is the fetch width in bytes.
func (c *Core) step() uint32 {
	if c.thumb {
		return 2
	}
	return 4
}

// pcPlus8 is the architectural PC the instruction observes: two fetch widths
// ahead of its own address.
func (c *Core) pcPlus8() uint32 {
	return c.pc + 2*c.step()
}

// Tick runs one cycle: fetch, predict, predecode, and follow any redirect.
func (c *Core) Tick() {
	c.stats.Cycles++

	word, ok := c.fetch(c.pc)
	if ok {
		c.stats.Fetched++
	}

	out := c.Stage.Tick(predecode.Input{
		Word:          word,
		Valid:         ok,
		PipelineValid: true,
		CopDone:       true,
		PC:            c.pc,
		PCPlus8:       c.pcPlus8(),
		TFlag:         c.thumb,
		Predictor:     c.predictor.Lookup(c.pc),
	})

	if ok {
		c.predictor.Store(c.pc, out.Predictor)
	}

	if out.Stall {
		c.stats.StallCycles++
		return
	}
	if out.Flush {
		c.stats.Redirects++
		c.pc = out.FlushTarget
		return
	}
	c.pc += c.step()
}

// Run ticks until fetch halts or maxCycles elapse. It returns the number of
// cycles consumed.
func (c *Core) Run(maxCycles uint64) uint64 {
	start := c.stats.Cycles
	for !c.Halted() && (maxCycles == 0 || c.stats.Cycles-start < maxCycles) {
		c.Tick()
	}
	return c.stats.Cycles - start
}

// Stats returns run statistics.
func (c *Core) Stats() Stats {
	return c.stats
}

// Predictor returns the fetch-side direction predictor.
func (c *Core) Predictor() *DirectionPredictor {
	return c.predictor
}

// Reset returns the core, stage and predictor to their power-on state,
// restarting fetch at the image base.
func (c *Core) Reset() {
	c.Stage.Reset()
	c.predictor.Reset()
	c.pc = c.base
	c.thumb = false
	c.stats = Stats{}
}
