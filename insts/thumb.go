package insts

// ThumbExpansion is the result of expanding one 16-bit Thumb halfword into a
// canonical ARM word.
type ThumbExpansion struct {
	// Word is the expanded ARM instruction word.
	Word uint32

	// NarrowShift indicates the branch immediate is halfword-scaled
	// (shifted left by 1 downstream instead of 2).
	NarrowShift bool

	// ForceAlign32 indicates a PC-relative access that requires the PC to be
	// treated as word-aligned.
	ForceAlign32 bool

	// Undefined marks an unallocated Thumb encoding. The halfword is still
	// forwarded, zero-extended, so downstream can raise the undefined trap.
	Undefined bool

	// BLPrefix marks the high half of a BL pair. The expansion is a NOP and
	// OffsetHigh must be staged for the following low half.
	BLPrefix bool

	// OffsetHigh carries the sign-extended upper offset bits of a BL prefix,
	// pre-shifted into halfword units.
	OffsetHigh uint32
}

const (
	armNOP = 0xE1A00000 // MOV R0, R0
	regSP  = 13
	regLR  = 14
	regPC  = 15
)

// ExpandThumb expands a 16-bit Thumb halfword into its ARM equivalent,
// working backwards through the format table of the ARM7TDMI data sheet
// (Figure 5-1). blHigh is the staged upper offset from a preceding BL prefix
// and is only consumed by the BL low half.
func ExpandThumb(op uint16, blHigh uint32) ThumbExpansion {
	switch {
	case op&0xF800 == 0xF800:
		// Format 19 - long branch with link, low half.
		return ThumbExpansion{
			Word:        0xEB000000 | ((blHigh | uint32(op&0x07FF)) & 0x00FFFFFF),
			NarrowShift: true,
		}

	case op&0xF800 == 0xF000:
		// Format 19 - long branch with link, high half. Expands to a NOP
		// beat; the offset bits are staged by the expander.
		high := uint32(op&0x07FF) << 11
		if op&0x0400 != 0 {
			high |= 0xFFC00000
		}
		return ThumbExpansion{
			Word:       armNOP,
			BLPrefix:   true,
			OffsetHigh: high,
		}

	case op&0xF800 == 0xE000:
		// Format 18 - unconditional branch.
		off := uint32(op & 0x07FF)
		if op&0x0400 != 0 {
			off |= 0xFFFFF800
		}
		return ThumbExpansion{
			Word:        0xEA000000 | (off & 0x00FFFFFF),
			NarrowShift: true,
		}

	case op&0xFF00 == 0xDF00:
		// Format 17 - software interrupt.
		return ThumbExpansion{Word: 0xEF000000 | uint32(op&0xFF)}

	case op&0xF000 == 0xD000:
		// Format 16 - conditional branch. Condition 0b1110 is unallocated.
		cond := uint32(op>>8) & 0xF
		if cond == 0xE {
			return undefined(op)
		}
		off := uint32(op & 0xFF)
		if op&0x80 != 0 {
			off |= 0xFFFFFF00
		}
		return ThumbExpansion{
			Word:        cond<<28 | 0x0A000000 | (off & 0x00FFFFFF),
			NarrowShift: true,
		}

	case op&0xF000 == 0xC000:
		// Format 15 - multiple load/store with base writeback.
		rb := uint32(op>>8) & 0x7
		word := uint32(0xE8A00000) | rb<<16 | uint32(op&0xFF)
		if op&0x0800 != 0 {
			word |= 1 << 20 // LDMIA
		}
		return ThumbExpansion{Word: word}

	case op&0xF600 == 0xB400:
		// Format 14 - push/pop registers.
		list := uint32(op & 0xFF)
		if op&0x0800 != 0 {
			// POP -> LDMIA SP!, {list, PC?}
			if op&0x0100 != 0 {
				list |= 1 << regPC
			}
			return ThumbExpansion{Word: 0xE8BD0000 | list}
		}
		// PUSH -> STMDB SP!, {list, LR?}
		if op&0x0100 != 0 {
			list |= 1 << regLR
		}
		return ThumbExpansion{Word: 0xE92D0000 | list}

	case op&0xFF00 == 0xB000:
		// Format 13 - add offset to stack pointer. The 7-bit word offset is
		// encoded with rotate 30 (imm8 << 2).
		imm := uint32(op & 0x7F)
		if op&0x80 != 0 {
			return ThumbExpansion{Word: 0xE24DDF00 | imm} // SUB SP, SP, #imm<<2
		}
		return ThumbExpansion{Word: 0xE28DDF00 | imm} // ADD SP, SP, #imm<<2

	case op&0xF000 == 0xB000:
		// Unallocated miscellaneous space between formats 13 and 14.
		return undefined(op)

	case op&0xF000 == 0xA000:
		// Format 12 - load address (ADD Rd, PC/SP, #imm8<<2).
		rd := uint32(op>>8) & 0x7
		imm := uint32(op & 0xFF)
		if op&0x0800 != 0 {
			return ThumbExpansion{Word: 0xE28D0F00 | rd<<12 | imm}
		}
		return ThumbExpansion{
			Word:         0xE28F0F00 | rd<<12 | imm,
			ForceAlign32: true,
		}

	case op&0xF000 == 0x9000:
		// Format 11 - SP-relative load/store.
		rd := uint32(op>>8) & 0x7
		off := uint32(op&0xFF) << 2
		if op&0x0800 != 0 {
			return ThumbExpansion{Word: 0xE59D0000 | rd<<12 | off}
		}
		return ThumbExpansion{Word: 0xE58D0000 | rd<<12 | off}

	case op&0xF000 == 0x8000:
		// Format 10 - load/store halfword with immediate offset.
		off := (uint32(op>>6) & 0x1F) << 1
		word := halfwordTransfer(op, off)
		if op&0x0800 != 0 {
			word |= 1 << 20 // LDRH
		}
		return ThumbExpansion{Word: word}

	case op&0xE000 == 0x6000:
		// Format 9 - load/store with immediate offset.
		rb := uint32(op>>3) & 0x7
		rd := uint32(op) & 0x7
		off := uint32(op>>6) & 0x1F
		word := uint32(0xE5800000) | rb<<16 | rd<<12
		if op&0x1000 != 0 {
			word |= 1 << 22 // byte access
		} else {
			off <<= 2
		}
		if op&0x0800 != 0 {
			word |= 1 << 20 // load
		}
		return ThumbExpansion{Word: word | off}

	case op&0xF200 == 0x5200:
		// Format 8 - load/store sign-extended byte/halfword.
		rb := uint32(op>>3) & 0x7
		rd := uint32(op) & 0x7
		rm := uint32(op>>6) & 0x7
		base := uint32(0xE1800090) | rb<<16 | rd<<12 | rm
		switch (op >> 10) & 0x3 {
		case 0: // STRH
			return ThumbExpansion{Word: base | 0x20}
		case 1: // LDRSB
			return ThumbExpansion{Word: base | 1<<20 | 0x40}
		case 2: // LDRH
			return ThumbExpansion{Word: base | 1<<20 | 0x20}
		default: // LDRSH
			return ThumbExpansion{Word: base | 1<<20 | 0x60}
		}

	case op&0xF200 == 0x5000:
		// Format 7 - load/store with register offset.
		rb := uint32(op>>3) & 0x7
		rd := uint32(op) & 0x7
		rm := uint32(op>>6) & 0x7
		word := uint32(0xE7800000) | rb<<16 | rd<<12 | rm
		if op&0x0400 != 0 {
			word |= 1 << 22 // byte access
		}
		if op&0x0800 != 0 {
			word |= 1 << 20 // load
		}
		return ThumbExpansion{Word: word}

	case op&0xF800 == 0x4800:
		// Format 6 - PC-relative load. The PC is forced word-aligned.
		rd := uint32(op>>8) & 0x7
		off := uint32(op&0xFF) << 2
		return ThumbExpansion{
			Word:         0xE59F0000 | rd<<12 | off,
			ForceAlign32: true,
		}

	case op&0xFC00 == 0x4400:
		// Format 5 - hi register operations / branch exchange.
		rd := uint32(op)&0x7 | uint32(op>>4)&0x8
		rm := uint32(op>>3) & 0xF
		switch (op >> 8) & 0x3 {
		case 0: // ADD Rd, Rd, Rm (flags not set)
			return ThumbExpansion{Word: 0xE0800000 | rd<<16 | rd<<12 | rm}
		case 1: // CMP Rd, Rm
			return ThumbExpansion{Word: 0xE1500000 | rd<<16 | rm}
		case 2: // MOV Rd, Rm
			return ThumbExpansion{Word: 0xE1A00000 | rd<<12 | rm}
		default: // BX Rm
			return ThumbExpansion{Word: 0xE12FFF10 | rm}
		}

	case op&0xFC00 == 0x4000:
		// Format 4 - ALU operations, all flag-setting.
		rd := uint32(op) & 0x7
		rs := uint32(op>>3) & 0x7
		return ThumbExpansion{Word: thumbALU((op>>6)&0xF, rd, rs)}

	case op&0xE000 == 0x2000:
		// Format 3 - move/compare/add/subtract immediate.
		rd := uint32(op>>8) & 0x7
		imm := uint32(op & 0xFF)
		switch (op >> 11) & 0x3 {
		case 0: // MOVS Rd, #imm
			return ThumbExpansion{Word: 0xE3B00000 | rd<<12 | imm}
		case 1: // CMP Rd, #imm
			return ThumbExpansion{Word: 0xE3500000 | rd<<16 | imm}
		case 2: // ADDS Rd, Rd, #imm
			return ThumbExpansion{Word: 0xE2900000 | rd<<16 | rd<<12 | imm}
		default: // SUBS Rd, Rd, #imm
			return ThumbExpansion{Word: 0xE2500000 | rd<<16 | rd<<12 | imm}
		}

	case op&0xF800 == 0x1800:
		// Format 2 - add/subtract.
		rd := uint32(op) & 0x7
		rs := uint32(op>>3) & 0x7
		rn := uint32(op>>6) & 0x7
		word := uint32(0xE0900000) | rs<<16 | rd<<12 | rn // ADDS register
		if op&0x0200 != 0 {
			word = 0xE0500000 | rs<<16 | rd<<12 | rn // SUBS register
		}
		if op&0x0400 != 0 {
			word |= 1 << 25 // 3-bit immediate instead of register
		}
		return ThumbExpansion{Word: word}

	case op&0xE000 == 0x0000:
		// Format 1 - move shifted register (LSL/LSR/ASR by immediate).
		rd := uint32(op) & 0x7
		rs := uint32(op>>3) & 0x7
		imm := uint32(op>>6) & 0x1F
		shift := uint32(op>>11) & 0x3
		return ThumbExpansion{Word: 0xE1B00000 | rd<<12 | imm<<7 | shift<<5 | rs}

	default:
		return undefined(op)
	}
}

// thumbALU maps a format 4 ALU opcode onto the flag-setting ARM equivalent.
func thumbALU(op4 uint16, rd, rs uint32) uint32 {
	switch op4 {
	case 0x0: // ANDS
		return 0xE0100000 | rd<<16 | rd<<12 | rs
	case 0x1: // EORS
		return 0xE0300000 | rd<<16 | rd<<12 | rs
	case 0x2: // MOVS Rd, Rd, LSL Rs
		return 0xE1B00010 | rd<<12 | rs<<8 | rd
	case 0x3: // MOVS Rd, Rd, LSR Rs
		return 0xE1B00030 | rd<<12 | rs<<8 | rd
	case 0x4: // MOVS Rd, Rd, ASR Rs
		return 0xE1B00050 | rd<<12 | rs<<8 | rd
	case 0x5: // ADCS
		return 0xE0B00000 | rd<<16 | rd<<12 | rs
	case 0x6: // SBCS
		return 0xE0D00000 | rd<<16 | rd<<12 | rs
	case 0x7: // MOVS Rd, Rd, ROR Rs
		return 0xE1B00070 | rd<<12 | rs<<8 | rd
	case 0x8: // TST
		return 0xE1100000 | rd<<16 | rs
	case 0x9: // NEG -> RSBS Rd, Rs, #0
		return 0xE2700000 | rs<<16 | rd<<12
	case 0xA: // CMP
		return 0xE1500000 | rd<<16 | rs
	case 0xB: // CMN
		return 0xE1700000 | rd<<16 | rs
	case 0xC: // ORRS
		return 0xE1900000 | rd<<16 | rd<<12 | rs
	case 0xD: // MULS Rd, Rd, Rs
		return 0xE0100090 | rd<<16 | rs<<8 | rd
	case 0xE: // BICS
		return 0xE1D00000 | rd<<16 | rd<<12 | rs
	default: // MVNS
		return 0xE1F00000 | rd<<12 | rs
	}
}

// halfwordTransfer builds the common LDRH/STRH immediate-offset encoding.
func halfwordTransfer(op uint16, off uint32) uint32 {
	rb := uint32(op>>3) & 0x7
	rd := uint32(op) & 0x7
	return 0xE1C000B0 | rb<<16 | rd<<12 | (off>>4)<<8 | off&0xF
}

func undefined(op uint16) ThumbExpansion {
	return ThumbExpansion{Word: uint32(op), Undefined: true}
}
