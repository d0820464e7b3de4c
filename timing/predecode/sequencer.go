package predecode

import "github.com/sarchlab/arm9sim/insts"

// SequenceInput is the per-cycle input to the multi-cycle sequencer. It sees
// the same hazard signals as the arbiter; the code-stall forcing applied to
// the interceptor does not apply here.
type SequenceInput struct {
	Env     Envelope
	Valid   bool
	IRQ     bool
	FIQ     bool
	TFlag   bool
	Hazards HazardSet
}

// SequenceResult carries the final envelope committed by the arbiter plus
// the sequencer's stall contribution.
type SequenceResult struct {
	Env   Envelope
	Valid bool
	IRQ   bool
	FIQ   bool
	Stall bool
}

// Sequencer splits complex instructions into ordered micro-operations, one
// per cycle, stalling fetch until the sequence completes.
type Sequencer interface {
	Step(in SequenceInput) SequenceResult

	// Abort cancels any in-flight sequence. Called by the stage when a
	// clear-class hazard or reset cancels the latch.
	Abort()
}

// defaultMultiplyBeats is the iterative multiplier occupancy for long
// multiplies when no override is configured.
const defaultMultiplyBeats = 4

// MicroSequencer is the shipped sequencer. It decomposes:
//   - block transfers into one single-register transfer per set list bit,
//     ascending, base writeback folded into the first beat
//   - atomic swap into a load beat followed by a store beat
//   - long multiply into repeated beats of the same word while the iterative
//     multiplier runs
//   - branch-with-link into a link-write beat followed by the branch beat
//
// Interrupts are only taken between whole instructions, so irq/fiq are
// suppressed on every beat after the first.
type MicroSequencer struct {
	beats  []Envelope
	index  int
	active bool

	mulBeats int
}

// NewMicroSequencer creates a sequencer with the given long-multiply beat
// count; 0 selects the default.
func NewMicroSequencer(mulBeats int) *MicroSequencer {
	if mulBeats <= 0 {
		mulBeats = defaultMultiplyBeats
	}
	return &MicroSequencer{mulBeats: mulBeats}
}

// Step emits the current micro-operation and advances the sequence when no
// hold-class hazard freezes the stage. While a sequence is live, upstream is
// stalled and keeps presenting the same instruction, so detection only runs
// on the first beat.
func (s *MicroSequencer) Step(in SequenceInput) SequenceResult {
	out := SequenceResult{
		Env:   in.Env,
		Valid: in.Valid,
		IRQ:   in.IRQ,
		FIQ:   in.FIQ,
	}

	if !s.active {
		if !in.Valid || in.Env.Undefined || !insts.IsMultiCycle(in.Env.Word) {
			return out
		}
		s.beats = decompose(in.Env, s.mulBeats)
		s.index = 0
		s.active = true
	}

	out.Env = s.beats[s.index]
	out.Stall = s.index < len(s.beats)-1
	if s.index > 0 {
		out.IRQ = false
		out.FIQ = false
	}

	switch Arbitrate(false, in.Hazards) {
	case ActionClear:
		s.Abort()
	case ActionCommit:
		s.index++
		if s.index == len(s.beats) {
			s.active = false
		}
	}

	return out
}

// Abort cancels the in-flight sequence.
func (s *MicroSequencer) Abort() {
	s.active = false
	s.index = 0
	s.beats = nil
}

// decompose builds the ordered beat list for a multi-cycle instruction.
func decompose(env Envelope, mulBeats int) []Envelope {
	w := env.Word
	cond := w & 0xF0000000

	switch {
	case insts.IsBlockTransfer(w):
		return blockBeats(env)

	case insts.IsSwap(w):
		byteBit := w & (1 << 22)
		rn := uint32(insts.Rn(w)) << 16
		load := cond | 1<<26 | 1<<24 | 1<<23 | byteBit | 1<<20 | rn |
			uint32(insts.Rd(w))<<12
		store := cond | 1<<26 | 1<<24 | 1<<23 | byteBit | rn |
			uint32(insts.Rm(w))<<12
		return []Envelope{{Word: load}, {Word: store}}

	case insts.IsLongMultiply(w):
		beats := make([]Envelope, mulBeats)
		for i := range beats {
			beats[i] = env
		}
		return beats

	default:
		// Branch-with-link: write the return address, then branch. The
		// branch beat keeps the original shift flag so Thumb-originated
		// offsets stay halfword-scaled.
		link := Envelope{Word: cond | 0x024FE004} // SUB LR, PC, #4
		branch := env
		branch.Word = w &^ (1 << 24)
		return []Envelope{link, branch}
	}
}

// blockBeats expands an LDM/STM into single transfers, ascending register
// order, with the base writeback folded into the first beat.
func blockBeats(env Envelope) []Envelope {
	w := env.Word
	cond := w & 0xF0000000
	rn := uint32(insts.Rn(w)) << 16
	var load uint32
	if insts.IsBlockLoad(w) {
		load = 1 << 20
	}
	writeback := w & (1 << 21)

	var beats []Envelope
	offset := uint32(0)
	for reg := uint32(0); reg < 16; reg++ {
		if insts.BlockRegisterList(w)&(1<<reg) == 0 {
			continue
		}
		beat := cond | 1<<26 | 1<<24 | 1<<23 | load | rn | reg<<12 | offset
		if len(beats) == 0 {
			beat |= writeback
		}
		beats = append(beats, Envelope{Word: beat})
		offset += 4
	}

	if len(beats) == 0 {
		// Empty register list: unpredictable on real silicon; forward the
		// original word as a single beat so nothing is silently dropped.
		return []Envelope{env}
	}
	return beats
}
