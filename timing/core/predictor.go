package core

import "github.com/sarchlab/arm9sim/timing/predecode"

// PredictorConfig holds configuration for the fetch-side direction predictor.
type PredictorConfig struct {
	// Entries is the number of 2-bit counters. Must be a power of 2.
	// Default is 1024.
	Entries uint32
}

// DefaultPredictorConfig returns a default configuration.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{Entries: 1024}
}

// PredictorStats holds statistics for the direction predictor.
type PredictorStats struct {
	// Lookups is the number of per-instruction state reads.
	Lookups uint64
	// Updates is the number of state writebacks from predecode.
	Updates uint64
}

// DirectionPredictor is the fetch-side table of 2-bit saturating counters.
// Fetch reads an entry per instruction and hands the state to the predecode
// stage; the stage's (possibly reinforced) outgoing state is written back.
type DirectionPredictor struct {
	table   []predecode.PredictorState
	entries uint32
	stats   PredictorStats
}

// NewDirectionPredictor creates a predictor with the given configuration.
func NewDirectionPredictor(config PredictorConfig) *DirectionPredictor {
	entries := config.Entries
	if entries == 0 {
		entries = 1024
	}

	p := &DirectionPredictor{
		table:   make([]predecode.PredictorState, entries),
		entries: entries,
	}

	// Bias towards taken, matching the fetch stage's reset state.
	for i := range p.table {
		p.table[i] = predecode.WeaklyTaken
	}

	return p
}

// index maps a PC onto a table entry, dropping the alignment bits.
func (p *DirectionPredictor) index(pc uint32) uint32 {
	return (pc >> 2) & (p.entries - 1)
}

// Lookup returns the 2-bit state for the instruction at pc.
func (p *DirectionPredictor) Lookup(pc uint32) predecode.PredictorState {
	p.stats.Lookups++
	return p.table[p.index(pc)]
}

// Store writes the outgoing prediction state back for pc.
func (p *DirectionPredictor) Store(pc uint32, state predecode.PredictorState) {
	p.stats.Updates++
	p.table[p.index(pc)] = state
}

// Stats returns the predictor statistics.
func (p *DirectionPredictor) Stats() PredictorStats {
	return p.stats
}

// Reset restores the taken bias and clears the statistics.
func (p *DirectionPredictor) Reset() {
	for i := range p.table {
		p.table[i] = predecode.WeaklyTaken
	}
	p.stats = PredictorStats{}
}
