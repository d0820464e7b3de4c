// Package predecode implements the instruction predecode stage that sits
// between fetch and issue: coprocessor interception, Thumb expansion,
// speculative branch redirection, multi-cycle sequencing, and the hazard
// arbiter that owns the stage's output latch.
package predecode

// Envelope bundles an instruction word with the auxiliary bits that travel
// with it through the sub-decoders.
type Envelope struct {
	// Word is the 32-bit instruction word, in canonical ARM form once the
	// expander has run.
	Word uint32

	// NarrowShift selects a 1-bit shift for branch immediates instead of the
	// ARM-native 2-bit shift. Set for branches that originated as Thumb
	// encodings, whose offsets are halfword-scaled.
	NarrowShift bool

	// Undefined marks an instruction the compressed decoder could not
	// recognize. The word is still forwarded so downstream can take the
	// undefined-instruction trap.
	Undefined bool
}

// PredictorState is a 2-bit saturating branch prediction counter.
// It arrives per-instruction from the fetch stage, may be overwritten by the
// redirect calculator, and is carried out alongside the committed instruction.
type PredictorState uint8

// Predictor states, weakest not-taken to strongest taken.
const (
	StronglyNotTaken PredictorState = iota
	WeaklyNotTaken
	WeaklyTaken
	StronglyTaken
)

// Taken reports whether the counter's taken bit is set.
func (p PredictorState) Taken() bool {
	return p >= WeaklyTaken
}

// String returns a human-readable name for the state.
func (p PredictorState) String() string {
	switch p {
	case StronglyNotTaken:
		return "StronglyNotTaken"
	case WeaklyNotTaken:
		return "WeaklyNotTaken"
	case WeaklyTaken:
		return "WeaklyTaken"
	case StronglyTaken:
		return "StronglyTaken"
	default:
		return "Invalid"
	}
}
