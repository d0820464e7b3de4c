package predecode

// Latch is the stage's output register, read by the issue stage. It holds at
// most one in-flight instruction; there is no queueing inside the stage. The
// Stage mutates it exactly once per cycle, by a full commit, a clear, or a
// hold, and is its only writer.
type Latch struct {
	// Env is the committed instruction envelope.
	Env Envelope

	// Valid indicates the latch contains a live instruction.
	Valid bool

	// Exception flags tagged onto the instruction. IRQ and FIQ are already
	// masked against the I/F mode flags at commit time; Abort passes through
	// unmasked.
	IRQ       bool
	FIQ       bool
	Abort     bool
	Undefined bool

	// PC is the address of the committed instruction; PCPlus8 is the
	// architectural PC value it observes.
	PC      uint32
	PCPlus8 uint32

	// ForceAlign32 requests word-aligned PC treatment for expanded
	// PC-relative accesses.
	ForceAlign32 bool

	// Predictor is the 2-bit branch prediction state carried alongside the
	// instruction.
	Predictor PredictorState
}

// Clear invalidates the latch. Only the validity bit, the four exception
// flags, the predictor state, and the envelope's undefined marker are zeroed;
// the instruction word, shift flag, PC values and alignment flag keep their
// last committed contents. Downstream must never consume them while Valid is
// low.
func (l *Latch) Clear() {
	l.Valid = false
	l.IRQ = false
	l.FIQ = false
	l.Abort = false
	l.Undefined = false
	l.Predictor = StronglyNotTaken
	l.Env.Undefined = false
}
