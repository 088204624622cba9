package trace

import "fmt"

// Record is the canonical parsed form of one trace line: program
// counter, opcode byte, and the register/flag state printed after the
// labelled A: X: Y: P: SP: fields.
//
// Value type, 8 bytes, compared with ==. Records have no lifecycle of
// their own: they are produced per line, compared, and discarded. At
// most the current and previous step are ever held.
type Record struct {
	PC      uint16
	Opcode  uint8
	A, X, Y uint8
	P       uint8
	SP      uint8
}

// Equal reports exact field-wise equality.
func (r Record) Equal(o Record) bool {
	return r == o
}

// String formats the record in the emulator log's field order.
func (r Record) String() string {
	return fmt.Sprintf("%04X %02X A:%02X X:%02X Y:%02X P:%02X SP:%02X",
		r.PC, r.Opcode, r.A, r.X, r.Y, r.P, r.SP)
}
