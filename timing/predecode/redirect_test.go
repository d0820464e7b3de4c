package predecode_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arm9sim/timing/predecode"
)

var _ = Describe("Branch Redirect Calculator", func() {
	Describe("target arithmetic", func() {
		It("should compute forward targets with the 2-bit shift", func() {
			// B +8: imm24 = 2
			env := predecode.Envelope{Word: 0x0A000002} // BEQ
			r := predecode.ComputeRedirect(env, true, 0x1008, predecode.WeaklyTaken)

			Expect(r.Flush).To(BeTrue())
			Expect(r.Target).To(Equal(uint32(0x1008 + 8)))
		})

		It("should compute backward targets from the sign-extended immediate", func() {
			// imm24 = -2
			env := predecode.Envelope{Word: 0x0AFFFFFE}
			r := predecode.ComputeRedirect(env, true, 0x1008, predecode.StronglyTaken)

			Expect(r.Flush).To(BeTrue())
			Expect(r.Target).To(Equal(uint32(0x1008 - 8)))
		})

		It("should use the 1-bit shift for halfword-scaled offsets", func() {
			env := predecode.Envelope{Word: 0x0A000002, NarrowShift: true}
			r := predecode.ComputeRedirect(env, true, 0x1008, predecode.WeaklyTaken)

			Expect(r.Flush).To(BeTrue())
			Expect(r.Target).To(Equal(uint32(0x1008 + 4)))
		})
	})

	Describe("unconditional reinforcement", func() {
		It("should redirect and force StronglyTaken even when predicted not taken", func() {
			env := predecode.Envelope{Word: 0xEA000002} // B, always
			r := predecode.ComputeRedirect(env, true, 0x2000, predecode.StronglyNotTaken)

			Expect(r.Flush).To(BeTrue())
			Expect(r.Target).To(Equal(uint32(0x2008)))
			Expect(r.Predictor).To(Equal(predecode.StronglyTaken))
		})

		It("should reinforce from every incoming state", func() {
			env := predecode.Envelope{Word: 0xEA000000}
			for state := predecode.StronglyNotTaken; state <= predecode.StronglyTaken; state++ {
				r := predecode.ComputeRedirect(env, true, 0x100, state)
				Expect(r.Predictor).To(Equal(predecode.StronglyTaken))
			}
		})
	})

	Describe("conditional branches", func() {
		It("should trust a taken prediction and pass the state through", func() {
			env := predecode.Envelope{Word: 0x1A000004} // BNE
			r := predecode.ComputeRedirect(env, true, 0x3000, predecode.WeaklyTaken)

			Expect(r.Flush).To(BeTrue())
			Expect(r.Predictor).To(Equal(predecode.WeaklyTaken))
		})

		It("should not redirect a predicted-not-taken branch", func() {
			env := predecode.Envelope{Word: 0x1A000004}
			r := predecode.ComputeRedirect(env, true, 0x3000, predecode.WeaklyNotTaken)

			Expect(r.Flush).To(BeFalse())
			Expect(r.Target).To(BeZero())
			Expect(r.Predictor).To(Equal(predecode.WeaklyNotTaken))
		})
	})

	Describe("non-branch pass-through", func() {
		It("should ignore data-processing instructions", func() {
			env := predecode.Envelope{Word: 0xE0810002} // ADD
			r := predecode.ComputeRedirect(env, true, 0x4000, predecode.StronglyTaken)

			Expect(r.Flush).To(BeFalse())
			Expect(r.Target).To(BeZero())
			Expect(r.Predictor).To(Equal(predecode.StronglyTaken))
		})

		It("should ignore invalid instructions even when branch-shaped", func() {
			env := predecode.Envelope{Word: 0xEA000002}
			r := predecode.ComputeRedirect(env, false, 0x4000, predecode.WeaklyTaken)

			Expect(r.Flush).To(BeFalse())
			Expect(r.Target).To(BeZero())
			Expect(r.Predictor).To(Equal(predecode.WeaklyTaken))
		})
	})
})
