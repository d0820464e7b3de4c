package predecode_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arm9sim/timing/predecode"
)

var _ = Describe("MicroSequencer", func() {
	var seq *predecode.MicroSequencer

	step := func(word uint32, hazards predecode.HazardSet) predecode.SequenceResult {
		return seq.Step(predecode.SequenceInput{
			Env:     predecode.Envelope{Word: word},
			Valid:   true,
			Hazards: hazards,
		})
	}

	BeforeEach(func() {
		seq = predecode.NewMicroSequencer(0)
	})

	Describe("block transfers", func() {
		// LDMIA R0!, {R1, R2, R3}
		const ldm = uint32(0xE8B0000E)

		It("should emit one load per register, ascending", func() {
			first := step(ldm, predecode.HazardSet{})
			Expect(first.Env.Word).To(Equal(uint32(0xE5B01000))) // LDR R1, [R0]!
			Expect(first.Stall).To(BeTrue())

			second := step(ldm, predecode.HazardSet{})
			Expect(second.Env.Word).To(Equal(uint32(0xE5902004))) // LDR R2, [R0, #4]
			Expect(second.Stall).To(BeTrue())

			third := step(ldm, predecode.HazardSet{})
			Expect(third.Env.Word).To(Equal(uint32(0xE5903008))) // LDR R3, [R0, #8]
			Expect(third.Stall).To(BeFalse())
		})

		It("should suppress irq and fiq after the first beat", func() {
			in := predecode.SequenceInput{
				Env:   predecode.Envelope{Word: ldm},
				Valid: true,
				IRQ:   true,
				FIQ:   true,
			}

			first := seq.Step(in)
			Expect(first.IRQ).To(BeTrue())
			Expect(first.FIQ).To(BeTrue())

			second := seq.Step(in)
			Expect(second.IRQ).To(BeFalse())
			Expect(second.FIQ).To(BeFalse())
		})

		It("should freeze the sequence under a hold-class hazard", func() {
			step(ldm, predecode.HazardSet{})

			held := step(ldm, predecode.HazardSet{DataStall: true})
			again := step(ldm, predecode.HazardSet{})
			Expect(held.Env.Word).To(Equal(again.Env.Word))
		})

		It("should abort the sequence on a clear-class hazard", func() {
			step(ldm, predecode.HazardSet{})
			step(ldm, predecode.HazardSet{ClearFromALU: true})

			// A fresh instruction starts a fresh sequence.
			first := step(ldm, predecode.HazardSet{})
			Expect(first.Env.Word).To(Equal(uint32(0xE5B01000)))
		})
	})

	Describe("atomic swap", func() {
		// SWP R0, R1, [R2]
		const swp = uint32(0xE1020091)

		It("should split into a load beat then a store beat", func() {
			first := step(swp, predecode.HazardSet{})
			Expect(first.Env.Word).To(Equal(uint32(0xE5920000))) // LDR R0, [R2]
			Expect(first.Stall).To(BeTrue())

			second := step(swp, predecode.HazardSet{})
			Expect(second.Env.Word).To(Equal(uint32(0xE5821000))) // STR R1, [R2]
			Expect(second.Stall).To(BeFalse())
		})
	})

	Describe("long multiply", func() {
		// UMULL R1, R2, R3, R4
		const umull = uint32(0xE0821493)

		It("should occupy the configured number of beats", func() {
			seq = predecode.NewMicroSequencer(3)

			Expect(step(umull, predecode.HazardSet{}).Stall).To(BeTrue())
			Expect(step(umull, predecode.HazardSet{}).Stall).To(BeTrue())
			Expect(step(umull, predecode.HazardSet{}).Stall).To(BeFalse())
		})

		It("should keep emitting the multiply word itself", func() {
			out := step(umull, predecode.HazardSet{})
			Expect(out.Env.Word).To(Equal(umull))
		})
	})

	Describe("branch with link", func() {
		// BL +8
		const bl = uint32(0xEB000002)

		It("should write the link register, then branch", func() {
			first := step(bl, predecode.HazardSet{})
			Expect(first.Env.Word).To(Equal(uint32(0xE24FE004))) // SUB LR, PC, #4
			Expect(first.Stall).To(BeTrue())

			second := step(bl, predecode.HazardSet{})
			Expect(second.Env.Word).To(Equal(uint32(0xEA000002))) // B +8
			Expect(second.Stall).To(BeFalse())
		})

		It("should keep the narrow shift flag on the branch beat", func() {
			in := predecode.SequenceInput{
				Env:   predecode.Envelope{Word: bl, NarrowShift: true},
				Valid: true,
			}

			link := seq.Step(in)
			Expect(link.Env.NarrowShift).To(BeFalse())

			branch := seq.Step(in)
			Expect(branch.Env.NarrowShift).To(BeTrue())
		})
	})

	Describe("single-cycle instructions", func() {
		It("should pass through without stalling", func() {
			out := step(0xE0810002, predecode.HazardSet{}) // ADD
			Expect(out.Env.Word).To(Equal(uint32(0xE0810002)))
			Expect(out.Stall).To(BeFalse())
		})

		It("should not sequence undefined-tagged instructions", func() {
			out := seq.Step(predecode.SequenceInput{
				Env:   predecode.Envelope{Word: 0xE8B0000E, Undefined: true},
				Valid: true,
			})
			Expect(out.Stall).To(BeFalse())
		})
	})
})
