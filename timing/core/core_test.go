package core_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arm9sim/timing/core"
	"github.com/sarchlab/arm9sim/timing/predecode"
)

// assemble packs instruction words into a little-endian image.
func assemble(words ...uint32) []byte {
	image := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(image[4*i:], w)
	}
	return image
}

var _ = Describe("Core", func() {
	const base = uint32(0x8000)

	It("should stream straight-line code and halt at the image end", func() {
		image := assemble(0xE0810002, 0xE0820003, 0xE0830004)
		c := core.NewCore(image, base, base, nil)

		cycles := c.Run(0)

		Expect(cycles).To(Equal(uint64(3)))
		Expect(c.Halted()).To(BeTrue())
		Expect(c.Stats().Fetched).To(Equal(uint64(3)))
		Expect(c.Stage.Stats().Commits).To(Equal(uint64(3)))
	})

	It("should follow an unconditional branch redirect", func() {
		// B +8 lands one word past the image, halting fetch.
		image := assemble(0xEA000002, 0xE0810002, 0xE0810002, 0xE0810002)
		c := core.NewCore(image, base, base, nil)

		c.Run(0)

		Expect(c.Stats().Redirects).To(Equal(uint64(1)))
		Expect(c.PC()).To(Equal(base + 0x10))
		Expect(c.Predictor().Lookup(base)).To(Equal(predecode.StronglyTaken))
	})

	It("should stall fetch while the sequencer splits a block transfer", func() {
		image := assemble(0xE8B00006, 0xE0810002) // LDMIA R0!, {R1, R2}; ADD
		c := core.NewCore(image, base, base, nil)

		cycles := c.Run(0)

		Expect(cycles).To(Equal(uint64(3)))
		Expect(c.Stats().StallCycles).To(Equal(uint64(1)))
		Expect(c.Stage.Stats().Commits).To(Equal(uint64(3)))
	})

	It("should respect the cycle budget", func() {
		// B . spins forever.
		image := assemble(0xEAFFFFFE)
		c := core.NewCore(image, base, base, nil)

		cycles := c.Run(10)

		Expect(cycles).To(Equal(uint64(10)))
		Expect(c.Halted()).To(BeFalse())
	})

	It("should reset to the image base", func() {
		image := assemble(0xE0810002, 0xE0820003)
		c := core.NewCore(image, base, base, nil)
		c.Run(0)

		c.Reset()

		Expect(c.PC()).To(Equal(base))
		Expect(c.Stats()).To(Equal(core.Stats{}))
		Expect(c.Stage.Stats()).To(Equal(predecode.Stats{}))
	})

	It("should fetch halfwords in T-mode", func() {
		// MOVS R0, #5; MOVS R1, #6 as Thumb halfwords.
		image := []byte{0x05, 0x20, 0x06, 0x21}
		c := core.NewCore(image, base, base|1, nil)

		cycles := c.Run(0)

		Expect(cycles).To(Equal(uint64(2)))
		Expect(c.Stage.Stats().Commits).To(Equal(uint64(2)))
		Expect(c.Stage.Latch().Env.Word).To(Equal(uint32(0xE3B01006)))
	})
})

var _ = Describe("Akita harness", func() {
	const base = uint32(0x8000)

	It("should run the core to completion under the engine", func() {
		image := assemble(0xE0810002, 0xE0820003)
		c := core.NewCore(image, base, base, nil)

		ticked, err := core.RunUnderEngine("PredecodeTest", c, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(ticked).To(Equal(uint64(2)))
		Expect(c.Halted()).To(BeTrue())
	})

	It("should stop at the cycle budget", func() {
		image := assemble(0xEAFFFFFE) // B .
		c := core.NewCore(image, base, base, nil)

		ticked, err := core.RunUnderEngine("PredecodeBudget", c, 5)

		Expect(err).NotTo(HaveOccurred())
		Expect(ticked).To(Equal(uint64(5)))
	})
})
