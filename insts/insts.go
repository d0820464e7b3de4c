// Package insts provides ARMv4T instruction encodings and classification.
//
// This package implements the bit-level predicates and field extraction used
// by the predecode stage. It covers:
//   - Condition codes (EQ..AL, NV)
//   - Instruction-class tests: branch, coprocessor, block transfer, swap,
//     long multiply, branch-with-link
//   - Branch immediate extraction and sign extension
//   - Thumb (16-bit) to ARM (32-bit) expansion (see thumb.go)
//
// Usage:
//
//	if insts.IsBranch(word) {
//	    offset := insts.BranchOffset(word)
//	    ...
//	}
package insts

// Cond is the 4-bit condition field in bits [31:28] of every ARM instruction.
type Cond uint8

// Condition codes as encoded in the instruction word.
const (
	CondEQ Cond = iota // Z set
	CondNE             // Z clear
	CondCS             // C set
	CondCC             // C clear
	CondMI             // N set
	CondPL             // N clear
	CondVS             // V set
	CondVC             // V clear
	CondHI             // C set and Z clear
	CondLS             // C clear or Z set
	CondGE             // N == V
	CondLT             // N != V
	CondGT             // Z clear and N == V
	CondLE             // Z set or N != V
	CondAL             // always
	CondNV             // never (unpredictable space in ARMv4)
)

// String returns the assembler mnemonic suffix for the condition.
func (c Cond) String() string {
	names := [16]string{
		"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
		"HI", "LS", "GE", "LT", "GT", "LE", "AL", "NV",
	}
	return names[c&0xF]
}

// CondOf extracts the condition field from an instruction word.
func CondOf(word uint32) Cond {
	return Cond(word >> 28)
}

// IsBranch reports whether the word is a branch-class instruction (B or BL).
// Branch encodings carry 0b101 in bits [27:25].
func IsBranch(word uint32) bool {
	return (word>>25)&0x7 == 0b101
}

// IsBranchLink reports whether the word is a branch-with-link (BL).
// BL carries 0b1011 in bits [27:24].
func IsBranchLink(word uint32) bool {
	return (word>>24)&0xF == 0b1011
}

// BranchOffset returns the sign-extended 24-bit branch immediate, unshifted.
// The predecode stage applies the 1-bit or 2-bit shift itself.
func BranchOffset(word uint32) int32 {
	imm24 := word & 0x00FFFFFF
	if imm24&0x00800000 != 0 {
		imm24 |= 0xFF000000
	}
	return int32(imm24)
}

// IsCoprocessor reports whether the word targets a coprocessor.
// Covers CDP and MCR/MRC (bits [27:24] == 0b1110) and LDC/STC
// (bits [27:25] == 0b110). The NV condition space is excluded: those
// encodings are unpredictable on ARMv4, not coprocessor operations.
func IsCoprocessor(word uint32) bool {
	if CondOf(word) == CondNV {
		return false
	}
	return (word>>24)&0xF == 0b1110 || (word>>25)&0x7 == 0b110
}

// IsBlockTransfer reports whether the word is an LDM/STM.
// Block transfers carry 0b100 in bits [27:25].
func IsBlockTransfer(word uint32) bool {
	return (word>>25)&0x7 == 0b100
}

// IsBlockLoad reports whether a block transfer is a load (LDM).
func IsBlockLoad(word uint32) bool {
	return word&(1<<20) != 0
}

// BlockRegisterList returns the 16-bit register list of an LDM/STM.
func BlockRegisterList(word uint32) uint16 {
	return uint16(word)
}

// IsSwap reports whether the word is an atomic swap (SWP/SWPB).
func IsSwap(word uint32) bool {
	return (word>>23)&0x1F == 0b00010 &&
		(word>>20)&0x3 == 0 &&
		(word>>4)&0xFF == 0b00001001
}

// IsLongMultiply reports whether the word is a 64-bit multiply
// (UMULL/UMLAL/SMULL/SMLAL).
func IsLongMultiply(word uint32) bool {
	return (word>>23)&0x1F == 0b00001 && (word>>4)&0xF == 0b1001
}

// IsMultiCycle reports whether the word requires the multi-cycle sequencer:
// block transfers, atomic swap, long multiply, and branch-with-link.
func IsMultiCycle(word uint32) bool {
	return IsBlockTransfer(word) || IsSwap(word) ||
		IsLongMultiply(word) || IsBranchLink(word)
}

// Rn returns the base register field in bits [19:16].
func Rn(word uint32) uint8 {
	return uint8(word>>16) & 0xF
}

// Rd returns the destination register field in bits [15:12].
func Rd(word uint32) uint8 {
	return uint8(word>>12) & 0xF
}

// Rm returns the second operand register field in bits [3:0].
func Rm(word uint32) uint8 {
	return uint8(word) & 0xF
}
