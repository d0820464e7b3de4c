package predecode

// HazardSet holds the six stall/clear signals sampled by the arbiter each
// cycle. The signals are level-triggered and carry no state of their own;
// upstream recomputes them every cycle.
type HazardSet struct {
	// CodeStall holds the stage while the instruction fetch is incomplete.
	CodeStall bool
	// ClearFromWriteback cancels the latch on a writeback-stage exception.
	ClearFromWriteback bool
	// DataStall holds the stage while a data access is incomplete.
	DataStall bool
	// ClearFromALU cancels the latch on an execute-stage redirect.
	ClearFromALU bool
	// ShifterStall holds the stage for a multi-cycle shift.
	ShifterStall bool
	// IssueStall holds the stage while issue cannot accept an instruction.
	IssueStall bool
}

// Action is the arbiter's per-cycle decision for the output latch.
type Action int

// Latch actions. Exactly one is selected every cycle.
const (
	// ActionCommit advances the latch with the current cycle's values.
	ActionCommit Action = iota
	// ActionHold leaves the latch byte-for-byte unchanged.
	ActionHold
	// ActionClear invalidates the latch and zeroes its exception flags.
	ActionClear
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionCommit:
		return "Commit"
	case ActionHold:
		return "Hold"
	case ActionClear:
		return "Clear"
	default:
		return "Invalid"
	}
}

// hazardRule is one guarded entry of the priority chain.
type hazardRule struct {
	match  func(reset bool, h HazardSet) bool
	action Action
}

// hazardChain is the strict total priority order, highest first. A
// lower-priority condition never overrides a higher one, even when both are
// asserted in the same cycle.
var hazardChain = []hazardRule{
	{func(reset bool, h HazardSet) bool { return reset }, ActionClear},
	{func(_ bool, h HazardSet) bool { return h.CodeStall }, ActionHold},
	{func(_ bool, h HazardSet) bool { return h.ClearFromWriteback }, ActionClear},
	{func(_ bool, h HazardSet) bool { return h.DataStall }, ActionHold},
	{func(_ bool, h HazardSet) bool { return h.ClearFromALU }, ActionClear},
	{func(_ bool, h HazardSet) bool { return h.ShifterStall }, ActionHold},
	{func(_ bool, h HazardSet) bool { return h.IssueStall }, ActionHold},
}

// Arbitrate evaluates the priority chain top to bottom and returns the first
// matching action, or Commit when nothing is asserted.
func Arbitrate(reset bool, h HazardSet) Action {
	for _, rule := range hazardChain {
		if rule.match(reset, h) {
			return rule.action
		}
	}
	return ActionCommit
}
