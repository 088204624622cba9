package compare

import (
	"fmt"

	"github.com/oisee/nes-tracediff/pkg/opcode"
	"github.com/oisee/nes-tracediff/pkg/trace"
)

// Options configures a comparison run.
type Options struct {
	// Strict disables the undocumented-opcode exemption: every step is
	// compared, including steps whose reference opcode has
	// implementation-defined behavior.
	Strict bool
}

// Divergence describes the first step at which the two traces disagree.
// At most one is produced per run; the scan stops on it.
type Divergence struct {
	Step int // index of the diverging step, counting consumed line pairs

	EmulatorLine  string // raw diverging emulator line
	ReferenceLine string // raw diverging reference line

	// The line pair consumed in the step immediately before the
	// divergence. Both empty when the very first consumed step
	// diverges.
	ContextEmulator  string
	ContextReference string

	Emulator  trace.Record // parsed diverging records, flags normalized
	Reference trace.Record
}

// Stats counts what a scan did.
type Stats struct {
	Compared     int // steps compared field by field
	NoiseSkipped int // emulator lines skipped as non-instruction output
	Ignored      int // steps skipped on undocumented reference opcodes
}

// stepOutcome is the decision made at one position of the dual-cursor
// scan. Every step makes exactly one of these one-way moves; the
// cursors never back up.
type stepOutcome int

const (
	stepAligned   stepOutcome = iota // records equal, both cursors advance
	stepSkipNoise                    // emulator line unparseable, emulator cursor advances alone
	stepSkipKnown                    // undocumented reference opcode, both cursors advance uncompared
	stepDiverged                     // records differ, scan stops
)

// Compare walks the two line sequences in lockstep and returns the
// first true divergence, or nil if the shorter sequence is consistent
// with the longer one's prefix. Trailing unmatched lines in the longer
// log are not reported.
//
// The only error condition is an unparseable reference line: the
// reference is ground truth, and skipping a bad line there would
// desynchronize the cursors with no way to detect it.
func Compare(emuLines, refLines []string, opts Options) (*Divergence, Stats, error) {
	var stats Stats
	var prevEmu, prevRef string

	step := 0
	i, j := 0, 0
	for i < len(emuLines) && j < len(refLines) {
		var emuRec, refRec trace.Record
		var outcome stepOutcome

		emuRec, ok := trace.ParseEmulatorLine(emuLines[i])
		if !ok {
			outcome = stepSkipNoise
		} else {
			var err error
			refRec, err = trace.ParseReferenceLine(refLines[j])
			if err != nil {
				return nil, stats, fmt.Errorf("reference line %d: %w", j+1, err)
			}
			outcome = judge(&emuRec, refRec, opts)
		}

		switch outcome {
		case stepSkipNoise:
			stats.NoiseSkipped++
			i++
			continue

		case stepSkipKnown:
			stats.Ignored++

		case stepAligned:
			stats.Compared++

		case stepDiverged:
			return &Divergence{
				Step:             step,
				EmulatorLine:     emuLines[i],
				ReferenceLine:    refLines[j],
				ContextEmulator:  prevEmu,
				ContextReference: prevRef,
				Emulator:         emuRec,
				Reference:        refRec,
			}, stats, nil
		}

		prevEmu, prevRef = emuLines[i], refLines[j]
		step++
		i++
		j++
	}

	return nil, stats, nil
}

// judge decides the outcome for one consumed line pair. The
// undocumented-opcode test uses the reference record's opcode byte and
// runs before any field comparison: on those opcodes the two
// implementations are allowed to disagree wholesale.
func judge(emu *trace.Record, ref trace.Record, opts Options) stepOutcome {
	if !opts.Strict && opcode.IsUnofficial(ref.Opcode) {
		return stepSkipKnown
	}
	NormalizeFlags(emu, ref)
	if emu.Equal(ref) {
		return stepAligned
	}
	return stepDiverged
}
