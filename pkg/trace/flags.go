package trace

// 6502 status flag bit positions in the P register.
const (
	FlagC uint8 = 0x01 // Carry
	FlagZ uint8 = 0x02 // Zero
	FlagI uint8 = 0x04 // Interrupt disable
	FlagD uint8 = 0x08 // Decimal mode
	FlagB uint8 = 0x10 // Break — no canonical value during interrupt sequences
	FlagU uint8 = 0x20 // Unused, reads back as set
	FlagV uint8 = 0x40 // Overflow
	FlagN uint8 = 0x80 // Negative
)
