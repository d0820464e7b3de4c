package predecode

import "github.com/sarchlab/arm9sim/insts"

// Redirect is the combinational output of the branch redirect calculator.
type Redirect struct {
	// Flush requests a clear-from-decode: the fetch stream is wrong and must
	// restart at Target.
	Flush bool

	// Target is the computed branch target, zero for non-branches.
	Target uint32

	// Predictor is the outgoing prediction state. Unconditional branches are
	// reinforced to StronglyTaken; everything else passes through unchanged.
	Predictor PredictorState
}

// ComputeRedirect performs branch detection and target computation for the
// expanded envelope. It redirects when the incoming predictor says taken or
// the branch is unconditional; a predicted-not-taken conditional branch is
// left alone, trusting that fetch already followed the fall-through path.
func ComputeRedirect(env Envelope, valid bool, pcPlus8 uint32, pred PredictorState) Redirect {
	r := Redirect{Predictor: pred}

	if !valid || !insts.IsBranch(env.Word) {
		return r
	}

	shift := uint(2)
	if env.NarrowShift {
		shift = 1
	}
	r.Target = pcPlus8 + uint32(insts.BranchOffset(env.Word)<<shift)

	always := insts.CondOf(env.Word) == insts.CondAL
	if always {
		r.Predictor = StronglyTaken
	}
	r.Flush = always || pred.Taken()
	if !r.Flush {
		r.Target = 0
	}

	return r
}
