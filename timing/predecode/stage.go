package predecode

// Input is everything the stage samples on one clock edge.
type Input struct {
	// Reset clears the latch regardless of every other input.
	Reset bool

	// Hazards are the six stall/clear signals, re-sampled every cycle.
	Hazards HazardSet

	// Word is the fetched instruction and Valid its validity flag.
	Word  uint32
	Valid bool

	// Event lines. IRQ and FIQ are masked against IMask/FMask at commit;
	// Abort passes through unmasked.
	IRQ   bool
	FIQ   bool
	Abort bool

	// PipelineValid gates coprocessor dispatch.
	PipelineValid bool

	// CopDone signals completion of an outstanding coprocessor operation.
	CopDone bool

	// PC is the instruction address; PCPlus8 the architectural PC it
	// observes and the base for branch targets.
	PC      uint32
	PCPlus8 uint32

	// Processor mode flags: T selects the compressed instruction set,
	// I and F mask the interrupt lines.
	TFlag bool
	IMask bool
	FMask bool

	// Predictor is the incoming 2-bit prediction state for this instruction.
	Predictor PredictorState
}

// Output is the stage's per-cycle result. Latch is the state after the edge;
// everything else reflects the current cycle's combinational values and is
// reported even on cycles where the latch holds or clears.
type Output struct {
	// Latch is a snapshot of the output register after the edge.
	Latch Latch

	// Stall is the aggregate upstream stall: interceptor stall OR sequencer
	// stall, independent of the latch decision.
	Stall bool

	// Coprocessor dispatch port, never re-latched by this stage.
	DispatchValid bool
	Dispatch      uint32

	// Flush requests a fetch redirect (clear-from-decode) to FlushTarget.
	Flush       bool
	FlushTarget uint32

	// Predictor is the updated prediction state for this instruction.
	Predictor PredictorState
}

// Stats holds per-stage event counts.
type Stats struct {
	// Cycles is the total number of edges evaluated.
	Cycles uint64
	// Commits, Holds and Clears count the arbiter's decisions.
	Commits uint64
	Holds   uint64
	Clears  uint64
	// Flushes counts decode-time branch redirects.
	Flushes uint64
	// Dispatches counts cycles with the coprocessor dispatch port driven.
	Dispatches uint64
	// StallCycles counts cycles with the aggregate stall output asserted.
	StallCycles uint64
}

// CommitRate returns committed edges as a fraction of all edges.
func (s Stats) CommitRate() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.Commits) / float64(s.Cycles)
}

// StallRate returns stalled edges as a fraction of all edges.
func (s Stats) StallRate() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.StallCycles) / float64(s.Cycles)
}

// StageOption is a functional option for configuring the Stage.
type StageOption func(*Stage)

// WithInterceptor overrides the configured coprocessor interceptor.
func WithInterceptor(i Interceptor) StageOption {
	return func(s *Stage) { s.interceptor = i }
}

// WithExpander overrides the configured compressed-instruction expander.
func WithExpander(e Expander) StageOption {
	return func(s *Stage) { s.expander = e }
}

// WithSequencer overrides the multi-cycle sequencer.
func WithSequencer(q Sequencer) StageOption {
	return func(s *Stage) { s.sequencer = q }
}

// Stage is the predecode stage. It owns the output latch and advances it
// exactly once per Tick through the hazard arbiter; the sub-decoders are
// selected at construction time from the build configuration.
type Stage struct {
	latch Latch

	interceptor Interceptor
	expander    Expander
	sequencer   Sequencer

	config Config
	stats  Stats
}

// NewStage creates a predecode stage. A nil config selects the defaults.
func NewStage(config *Config, opts ...StageOption) *Stage {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Stage{config: *config}

	if config.EnableCoprocessor {
		s.interceptor = NewCopInterceptor()
	} else {
		s.interceptor = nullInterceptor{}
	}
	if config.EnableThumb {
		s.expander = NewThumbExpander()
	} else {
		s.expander = nullExpander{}
	}
	s.sequencer = NewMicroSequencer(config.MultiplyBeats)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Tick evaluates one clock edge: interceptor, expander, redirect calculator
// and sequencer run combinationally, then the arbiter commits, holds or
// clears the latch.
func (s *Stage) Tick(in Input) Output {
	s.stats.Cycles++

	// The interceptor sees masked inputs: word and event lines forced zero
	// for invalid instructions, code-stall forced low.
	icpIn := InterceptInput{
		Hazards:       in.Hazards,
		TFlag:         in.TFlag,
		PipelineValid: in.PipelineValid,
		CopDone:       in.CopDone,
	}
	icpIn.Hazards.CodeStall = false
	if in.Valid {
		icpIn.Word = in.Word
		icpIn.Valid = true
		icpIn.IRQ = in.IRQ
		icpIn.FIQ = in.FIQ
	}
	icp := s.interceptor.Intercept(icpIn)

	exp := s.expander.Expand(ExpandInput{
		Word:      icp.Word,
		Valid:     icp.Valid,
		IRQ:       icp.IRQ,
		FIQ:       icp.FIQ,
		TFlag:     in.TFlag,
		CodeStall: in.Hazards.CodeStall,
	})

	redir := ComputeRedirect(exp.Env, exp.Valid, in.PCPlus8, in.Predictor)

	seq := s.sequencer.Step(SequenceInput{
		Env:     exp.Env,
		Valid:   exp.Valid,
		IRQ:     exp.IRQ,
		FIQ:     exp.FIQ,
		TFlag:   in.TFlag,
		Hazards: in.Hazards,
	})

	switch Arbitrate(in.Reset, in.Hazards) {
	case ActionClear:
		s.latch.Clear()
		s.sequencer.Abort()
		s.stats.Clears++
	case ActionHold:
		s.stats.Holds++
	case ActionCommit:
		s.latch = Latch{
			Env:          seq.Env,
			Valid:        seq.Valid,
			IRQ:          seq.IRQ && !in.IMask,
			FIQ:          seq.FIQ && !in.FMask,
			Abort:        in.Abort,
			Undefined:    exp.Env.Undefined && exp.Valid,
			PC:           in.PC,
			PCPlus8:      in.PCPlus8,
			ForceAlign32: exp.ForceAlign32,
			Predictor:    redir.Predictor,
		}
		s.stats.Commits++
	}

	out := Output{
		Latch:         s.latch,
		Stall:         icp.Stall || seq.Stall,
		DispatchValid: icp.DispatchValid,
		Dispatch:      icp.Dispatch,
		Flush:         redir.Flush,
		FlushTarget:   redir.Target,
		Predictor:     redir.Predictor,
	}

	if out.Stall {
		s.stats.StallCycles++
	}
	if out.Flush {
		s.stats.Flushes++
	}
	if out.DispatchValid {
		s.stats.Dispatches++
	}

	return out
}

// Latch returns a snapshot of the output register.
func (s *Stage) Latch() Latch {
	return s.latch
}

// Config returns the build-time configuration the stage was built with.
func (s *Stage) Config() Config {
	return s.config
}

// Stats returns the accumulated event counts.
func (s *Stage) Stats() Stats {
	return s.stats
}

// Reset clears the latch, aborts any in-flight sequence and zeroes the
// statistics, returning the stage to its power-on state.
func (s *Stage) Reset() {
	s.latch = Latch{}
	s.sequencer.Abort()
	s.stats = Stats{}
}
