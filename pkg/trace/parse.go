package trace

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// The two log formats agree on the six labelled hex fields; they differ
// in what comes before them. The emulator tags instruction lines with a
// log-level marker and prints PC and opcode as bare hex words. The
// reference trace starts with PC and opcode and carries a disassembly
// column in the middle, which is skipped; trailing columns (PPU
// coordinates, cycle counts) are ignored.
var (
	emulatorLineRE  = regexp.MustCompile(`^.*\[INFO\] (\w+)\s+(\w+)\s+A:(\w+) X:(\w+) Y:(\w+) P:(\w+) SP:(\w+)`)
	referenceLineRE = regexp.MustCompile(`^(\w+)\s+(\w+)\s+.*\s+A:(\w+) X:(\w+) Y:(\w+) P:(\w+) SP:(\w+)`)
)

// ErrBadReference marks an unparseable reference line. The reference
// trace is ground truth and every line of it is expected to parse;
// failure means the wrong file was supplied or the log is damaged.
var ErrBadReference = errors.New("unparseable reference line")

// ParseEmulatorLine parses one line of emulator output. ok is false for
// lines that are not instruction-state lines (blank lines, banners,
// other log levels); callers skip those without consuming a reference
// line and without reporting a divergence.
func ParseEmulatorLine(line string) (Record, bool) {
	m := emulatorLineRE.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}
	rec, err := decodeFields(m[1:])
	if err != nil {
		return Record{}, false
	}
	return rec, true
}

// ParseReferenceLine parses one line of the reference trace. A failure
// here is fatal to the comparison: silently skipping a reference line
// would desynchronize the two cursors with no way to detect it.
func ParseReferenceLine(line string) (Record, error) {
	m := referenceLineRE.FindStringSubmatch(line)
	if m == nil {
		return Record{}, fmt.Errorf("%w: %q", ErrBadReference, line)
	}
	rec, err := decodeFields(m[1:])
	if err != nil {
		return Record{}, fmt.Errorf("%w: %q: %v", ErrBadReference, line, err)
	}
	return rec, nil
}

// decodeFields converts the seven captured hex groups, in line order,
// into a Record. All-or-nothing: any group that is not well-formed hex
// of the right width fails the whole record.
func decodeFields(groups []string) (Record, error) {
	pc, err := strconv.ParseUint(groups[0], 16, 16)
	if err != nil {
		return Record{}, fmt.Errorf("pc %q: %v", groups[0], err)
	}
	op, err := strconv.ParseUint(groups[1], 16, 8)
	if err != nil {
		return Record{}, fmt.Errorf("opcode %q: %v", groups[1], err)
	}

	var regs [5]uint8
	names := [5]string{"A", "X", "Y", "P", "SP"}
	for i, g := range groups[2:] {
		v, err := strconv.ParseUint(g, 16, 8)
		if err != nil {
			return Record{}, fmt.Errorf("%s %q: %v", names[i], g, err)
		}
		regs[i] = uint8(v)
	}

	return Record{
		PC:     uint16(pc),
		Opcode: uint8(op),
		A:      regs[0],
		X:      regs[1],
		Y:      regs[2],
		P:      regs[3],
		SP:     regs[4],
	}, nil
}
