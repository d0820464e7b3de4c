package predecode

import "github.com/sarchlab/arm9sim/insts"

// InterceptInput is the per-cycle input to the coprocessor interceptor. The
// Stage pre-masks it: the instruction word and the irq/fiq lines are forced
// zero when the instruction is invalid, and CodeStall is forced low because
// this sub-decoder is insensitive to it.
type InterceptInput struct {
	Word          uint32
	Valid         bool
	IRQ           bool
	FIQ           bool
	Hazards       HazardSet
	TFlag         bool
	PipelineValid bool
	CopDone       bool
}

// InterceptResult is the interceptor's per-cycle output. DispatchValid and
// Dispatch are exposed directly at the system boundary and are never
// re-latched by this stage.
type InterceptResult struct {
	Word          uint32
	Valid         bool
	IRQ           bool
	FIQ           bool
	Stall         bool
	DispatchValid bool
	Dispatch      uint32
}

// Interceptor diverts coprocessor-targeted opcodes for separate dispatch.
// Implementations are selected at construction time from the build
// configuration; they compute a fresh result every cycle.
type Interceptor interface {
	Intercept(in InterceptInput) InterceptResult
}

// CopInterceptor is the enabled coprocessor interceptor. CDP, MCR/MRC and
// LDC/STC opcodes are put on the dispatch port and the stage stalls until the
// coprocessor signals completion; the opcode then proceeds down the pipeline
// so issue can retire it and collect any MRC writeback.
type CopInterceptor struct{}

// NewCopInterceptor creates the enabled interceptor.
func NewCopInterceptor() *CopInterceptor {
	return &CopInterceptor{}
}

// Intercept classifies the instruction and drives the dispatch port.
// Coprocessor access from T-mode arrives only through expanded 32-bit
// encodings, so raw Thumb halfwords are never classified here.
func (c *CopInterceptor) Intercept(in InterceptInput) InterceptResult {
	out := InterceptResult{
		Word:  in.Word,
		Valid: in.Valid,
		IRQ:   in.IRQ,
		FIQ:   in.FIQ,
	}

	if !in.Valid || !in.PipelineValid || in.TFlag || !insts.IsCoprocessor(in.Word) {
		return out
	}

	out.DispatchValid = true
	out.Dispatch = in.Word
	out.Stall = !in.CopDone
	if out.Stall {
		// The opcode is parked at the coprocessor interface; nothing
		// advances downstream until it completes.
		out.Valid = false
	}

	return out
}

// nullInterceptor is the build-time-disabled interceptor: a pure identity
// pass-through with the dispatch port pinned to (false, 0).
type nullInterceptor struct{}

func (nullInterceptor) Intercept(in InterceptInput) InterceptResult {
	return InterceptResult{
		Word:  in.Word,
		Valid: in.Valid,
		IRQ:   in.IRQ,
		FIQ:   in.FIQ,
	}
}
