package opcode

// Set is an immutable membership table over raw opcode values.
//
// The source table is a raw integer list: duplicates collapse, and
// values wider than a byte are kept but can never match an opcode byte.
// Construction is loose on purpose; the table is data collected from
// hardware documentation, not a closed enumeration.
type Set struct {
	m map[uint16]struct{}
}

// NewSet builds a set from a raw value list.
func NewSet(values []uint16) *Set {
	m := make(map[uint16]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return &Set{m: m}
}

// Contains reports whether the opcode byte is in the set.
func (s *Set) Contains(b uint8) bool {
	_, ok := s.m[uint16(b)]
	return ok
}

// Len returns the number of distinct values, including any non-byte
// entries.
func (s *Set) Len() int {
	return len(s.m)
}

// unofficialTable lists the 6502 opcodes with implementation-defined
// behavior: the combined read-modify-write ops (SLO/RLA/SRE/RRA/DCP/ISC),
// the unstable loads and stores (LAX/SAX/AHX/TAS/...), the multi-byte
// NOPs, and the jam opcodes. A reference trace and an emulator are
// allowed to disagree wholesale on these steps.
var unofficialTable = []uint16{
	// ALR/ANC/ARR/XAA family
	0x4B, 0x0B, 0x2B, 0x8B, 0x6B,
	// DCP
	0xC7, 0xD7, 0xCF, 0xDF, 0xDB, 0xC3, 0xD3,
	// ISC
	0xE7, 0xF77, 0xEF, 0xFF, 0xFB, 0xE3, 0xF3,
	// LAS
	0xBB,
	// LAX
	0xA7, 0xB7, 0xB7, 0xAF, 0xBF, 0xA3, 0xB3, 0xAB,
	// RLA
	0x27, 0x37, 0x2F, 0x3F, 0x3B, 0x23, 0x33,
	// RRA
	0x67, 0x77, 0x6F, 0x7F, 0x7B, 0x63, 0x73,
	// SAX / AXS
	0x87, 0x97, 0x8F, 0x83, 0xCB,
	// AHX / SHX / SHY
	0x9F, 0x93, 0x9E, 0x9C,
	// SLO
	0x07, 0x17, 0x0F, 0x1F, 0x1B, 0x03, 0x13,
	// SRE
	0x47, 0x57, 0x4F, 0x5F, 0x5B, 0x43, 0x53,
	// TAS
	0x9B,
	// SBC immediate dual
	0xEB,
	// single-byte NOPs
	0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA,
	// NOP immediate
	0x80, 0x82, 0x89, 0xC2, 0xE2,
	// NOP zero page
	0x04, 0x44, 0x64,
	// NOP zero page,X
	0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4,
	// NOP absolute / absolute,X
	0x0C, 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC,
	// KIL (jam)
	0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2,
}

// Unofficial is the set of undocumented opcodes exempt from strict
// state comparison.
var Unofficial = NewSet(unofficialTable)

// IsUnofficial reports whether b is an undocumented opcode.
func IsUnofficial(b uint8) bool {
	return Unofficial.Contains(b)
}
