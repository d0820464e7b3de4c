package predecode

import "github.com/sarchlab/arm9sim/insts"

// ExpandInput is the per-cycle input to the compressed instruction expander.
type ExpandInput struct {
	Word      uint32
	Valid     bool
	IRQ       bool
	FIQ       bool
	TFlag     bool
	CodeStall bool
}

// ExpandResult is the expander's per-cycle output: the canonical envelope
// plus the validity and event pass-throughs.
type ExpandResult struct {
	Env          Envelope
	Valid        bool
	IRQ          bool
	FIQ          bool
	ForceAlign32 bool
}

// Expander translates the compact 16-bit encoding into canonical ARM form.
// Selected at construction time from the build configuration.
type Expander interface {
	Expand(in ExpandInput) ExpandResult
}

// ThumbExpander is the enabled compressed-instruction expander. In T-mode it
// runs the low halfword of the fetch word through the Thumb format table;
// outside T-mode it is a pass-through.
//
// BL is the one Thumb instruction encoded as two halfwords. The high half
// expands to a NOP beat while its offset bits are staged in blHigh; the low
// half consumes them to form the full 24-bit immediate.
type ThumbExpander struct {
	blHigh uint32
}

// NewThumbExpander creates the enabled expander.
func NewThumbExpander() *ThumbExpander {
	return &ThumbExpander{}
}

// Expand produces the canonical envelope for the cycle. The BL staging
// register only advances on valid, un-stalled T-mode halfwords, so a held
// fetch never corrupts a BL pair.
func (t *ThumbExpander) Expand(in ExpandInput) ExpandResult {
	out := ExpandResult{
		Env:   Envelope{Word: in.Word},
		Valid: in.Valid,
		IRQ:   in.IRQ,
		FIQ:   in.FIQ,
	}

	if !in.TFlag {
		return out
	}

	exp := insts.ExpandThumb(uint16(in.Word), t.blHigh)
	out.Env = Envelope{
		Word:        exp.Word,
		NarrowShift: exp.NarrowShift,
		Undefined:   exp.Undefined,
	}
	out.ForceAlign32 = exp.ForceAlign32

	// The staging register persists until the next prefix: a stalled suffix
	// is re-expanded every cycle and must keep seeing the same high bits.
	if in.Valid && !in.CodeStall && exp.BLPrefix {
		t.blHigh = exp.OffsetHigh
	}

	return out
}

// nullExpander is the build-time-disabled expander: identity pass-through
// with the wide shift, aligned, defined defaults.
type nullExpander struct{}

func (nullExpander) Expand(in ExpandInput) ExpandResult {
	return ExpandResult{
		Env:   Envelope{Word: in.Word},
		Valid: in.Valid,
		IRQ:   in.IRQ,
		FIQ:   in.FIQ,
	}
}
