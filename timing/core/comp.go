package core

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Comp drives a Core under an Akita simulation engine, one core cycle per
// engine tick.
type Comp struct {
	*sim.TickingComponent

	core      *Core
	maxCycles uint64
	ticked    uint64
}

// NewComp wraps the core in a ticking component registered with the engine.
// maxCycles of 0 means run until the core halts.
func NewComp(name string, engine sim.Engine, core *Core, maxCycles uint64) *Comp {
	c := &Comp{
		core:      core,
		maxCycles: maxCycles,
	}
	c.TickingComponent = sim.NewTickingComponent(name, engine, 1*sim.GHz, c)
	return c
}

// Tick advances the core one cycle. Returning false parks the component once
// the core halts or the cycle budget is spent.
func (c *Comp) Tick() bool {
	if c.core.Halted() {
		return false
	}
	if c.maxCycles != 0 && c.ticked >= c.maxCycles {
		return false
	}

	c.core.Tick()
	c.ticked++
	return true
}

// RunUnderEngine runs the core to completion on a serial engine and returns
// the number of cycles ticked.
func RunUnderEngine(name string, core *Core, maxCycles uint64) (uint64, error) {
	engine := sim.NewSerialEngine()
	comp := NewComp(name, engine, core, maxCycles)
	comp.TickLater()

	if err := engine.Run(); err != nil {
		return comp.ticked, err
	}
	return comp.ticked, nil
}
