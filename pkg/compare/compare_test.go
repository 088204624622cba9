package compare

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/oisee/nes-tracediff/pkg/trace"
)

// emuLine formats an emulator-style instruction line.
func emuLine(r trace.Record) string {
	return fmt.Sprintf("[INFO] %04X  %02X  A:%02X X:%02X Y:%02X P:%02X SP:%02X",
		r.PC, r.Opcode, r.A, r.X, r.Y, r.P, r.SP)
}

// refLine formats a reference-style instruction line with a disassembly
// column and trailing cycle counters, nestest fashion.
func refLine(r trace.Record) string {
	return fmt.Sprintf("%04X  %02X 00 00  ??? $0000                       A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:  0, 0 CYC:7",
		r.PC, r.Opcode, r.A, r.X, r.Y, r.P, r.SP)
}

// makeLogs renders the same record sequence in both formats.
func makeLogs(recs []trace.Record) (emu, ref []string) {
	for _, r := range recs {
		emu = append(emu, emuLine(r))
		ref = append(ref, refLine(r))
	}
	return emu, ref
}

// steps builds a short, plausible instruction sequence of documented
// opcodes.
func steps(n int) []trace.Record {
	recs := make([]trace.Record, n)
	for i := range recs {
		recs[i] = trace.Record{
			PC:     0xC000 + uint16(i)*3,
			Opcode: 0xA9, // LDA immediate
			A:      uint8(i),
			P:      0x24,
			SP:     0xFD,
		}
	}
	return recs
}

func TestCompareIdentical(t *testing.T) {
	emu, ref := makeLogs(steps(10))

	div, stats, err := Compare(emu, ref, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if div != nil {
		t.Fatalf("unexpected divergence: %+v", div)
	}
	if stats.Compared != 10 {
		t.Errorf("Compared = %d, want 10", stats.Compared)
	}
}

func TestCompareDivergenceWithContext(t *testing.T) {
	recs := steps(6)
	emu, ref := makeLogs(recs)

	// Corrupt the emulator's accumulator at step 3.
	bad := recs[3]
	bad.A ^= 0x01
	emu[3] = emuLine(bad)

	div, _, err := Compare(emu, ref, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if div == nil {
		t.Fatal("expected a divergence")
	}

	want := &Divergence{
		Step:             3,
		EmulatorLine:     emu[3],
		ReferenceLine:    ref[3],
		ContextEmulator:  emu[2],
		ContextReference: ref[2],
		Emulator:         bad,
		Reference:        recs[3],
	}
	if diff := cmp.Diff(want, div); diff != "" {
		t.Errorf("divergence mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareFirstStepDivergence(t *testing.T) {
	recs := steps(3)
	emu, ref := makeLogs(recs)

	bad := recs[0]
	bad.X = 0x42
	emu[0] = emuLine(bad)

	div, _, err := Compare(emu, ref, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if div == nil {
		t.Fatal("expected a divergence")
	}
	if div.Step != 0 {
		t.Errorf("Step = %d, want 0", div.Step)
	}
	if div.ContextEmulator != "" || div.ContextReference != "" {
		t.Errorf("first-step divergence should have empty context, got %q / %q",
			div.ContextEmulator, div.ContextReference)
	}
}

// TestCompareUnofficialIgnored verifies that a step whose reference
// opcode is undocumented never diverges, no matter how wrong the
// emulator state is — and that strict mode turns the exemption off.
func TestCompareUnofficialIgnored(t *testing.T) {
	recs := steps(5)
	recs[2].Opcode = 0x04 // NOP zero page, undocumented
	emu, ref := makeLogs(recs)

	// Emulator disagrees on every register at the undocumented step.
	bad := trace.Record{PC: 0x1234, Opcode: 0x04, A: 0xDE, X: 0xAD, Y: 0xBE, P: 0xEF, SP: 0x01}
	emu[2] = emuLine(bad)

	div, stats, err := Compare(emu, ref, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if div != nil {
		t.Fatalf("undocumented step should be ignored, got divergence at step %d", div.Step)
	}
	if stats.Ignored != 1 {
		t.Errorf("Ignored = %d, want 1", stats.Ignored)
	}
	if stats.Compared != 4 {
		t.Errorf("Compared = %d, want 4", stats.Compared)
	}

	// Strict mode compares the step and reports it.
	div, _, err = Compare(emu, ref, Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if div == nil {
		t.Fatal("strict mode should report the divergence")
	}
	if div.Step != 2 {
		t.Errorf("strict divergence at step %d, want 2", div.Step)
	}
}

// TestCompareNoiseInvariance verifies interleaved non-instruction lines
// neither shift the divergence step nor change the reported pair.
func TestCompareNoiseInvariance(t *testing.T) {
	recs := steps(5)
	emu, ref := makeLogs(recs)

	bad := recs[4]
	bad.SP--
	emu[4] = emuLine(bad)

	cleanDiv, _, err := Compare(emu, ref, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cleanDiv == nil {
		t.Fatal("expected a divergence")
	}

	// Same run with banners and blank lines scattered through the
	// emulator log.
	noisy := []string{"=== reset ==="}
	for k, line := range emu {
		noisy = append(noisy, line)
		if k%2 == 0 {
			noisy = append(noisy, "", "[DEBUG] frame complete")
		}
	}

	noisyDiv, stats, err := Compare(noisy, ref, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if noisyDiv == nil {
		t.Fatal("expected a divergence")
	}
	if stats.NoiseSkipped == 0 {
		t.Error("expected skipped noise lines to be counted")
	}

	if noisyDiv.Step != cleanDiv.Step {
		t.Errorf("noise shifted divergence step: %d vs %d", noisyDiv.Step, cleanDiv.Step)
	}
	if noisyDiv.EmulatorLine != cleanDiv.EmulatorLine || noisyDiv.ReferenceLine != cleanDiv.ReferenceLine {
		t.Error("noise changed the reported divergence pair")
	}
	if noisyDiv.ContextEmulator != cleanDiv.ContextEmulator {
		t.Errorf("noise changed the context line: %q vs %q",
			noisyDiv.ContextEmulator, cleanDiv.ContextEmulator)
	}
}

// TestCompareFlagTolerance verifies bit 4 of P never triggers a
// divergence on its own, while every other bit does.
func TestCompareFlagTolerance(t *testing.T) {
	recs := steps(1)
	_, ref := makeLogs(recs)

	for bit := uint8(0); bit < 8; bit++ {
		mask := uint8(1) << bit
		flipped := recs[0]
		flipped.P ^= mask
		emu := []string{emuLine(flipped)}

		div, _, err := Compare(emu, ref, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if mask == trace.FlagB {
			if div != nil {
				t.Errorf("bit 4 difference should be tolerated, got divergence")
			}
		} else if div == nil {
			t.Errorf("P bit %d difference should diverge", bit)
		}
	}
}

// TestCompareShorterSequence verifies exhaustion of either log is "no
// divergence", trailing lines in the longer log notwithstanding.
func TestCompareShorterSequence(t *testing.T) {
	emu, ref := makeLogs(steps(8))

	for _, tc := range []struct {
		name     string
		emu, ref []string
	}{
		{"emulator shorter", emu[:3], ref},
		{"reference shorter", emu, ref[:3]},
		{"emulator empty", nil, ref},
		{"reference empty", emu, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			div, _, err := Compare(tc.emu, tc.ref, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if div != nil {
				t.Errorf("unexpected divergence: %+v", div)
			}
		})
	}
}

// TestCompareBadReference verifies an unparseable reference line fails
// the run instead of being skipped.
func TestCompareBadReference(t *testing.T) {
	emu, ref := makeLogs(steps(3))
	ref[1] = "this is not a trace line"

	_, _, err := Compare(emu, ref, Options{})
	if err == nil {
		t.Fatal("expected an error for the unparseable reference line")
	}
	if !errors.Is(err, trace.ErrBadReference) {
		t.Errorf("error %v is not ErrBadReference", err)
	}
}

// TestCompareScenario walks the concrete example from the tool's
// contract: a JMP step in both formats, then the bit-4 and accumulator
// variations.
func TestCompareScenario(t *testing.T) {
	ref := []string{"C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 SP:FD"}

	// Equal records: no divergence.
	emu := []string{"2024-06-01 12:00:00 [INFO] C000 4C A:00 X:00 Y:00 P:24 SP:FD"}
	div, _, err := Compare(emu, ref, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if div != nil {
		t.Fatalf("equal records diverged: %+v", div)
	}

	// P:34 differs from P:24 only in bit 4: still no divergence.
	emu = []string{"2024-06-01 12:00:00 [INFO] C000 4C A:00 X:00 Y:00 P:34 SP:FD"}
	div, _, err = Compare(emu, ref, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if div != nil {
		t.Fatalf("bit-4 flag variation diverged: %+v", div)
	}

	// A:01 is a true divergence, reported with this exact pair.
	emu = []string{"2024-06-01 12:00:00 [INFO] C000 4C A:01 X:00 Y:00 P:24 SP:FD"}
	div, _, err = Compare(emu, ref, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if div == nil {
		t.Fatal("expected a divergence")
	}
	if div.EmulatorLine != emu[0] || div.ReferenceLine != ref[0] {
		t.Errorf("wrong pair reported: %q / %q", div.EmulatorLine, div.ReferenceLine)
	}
}

// TestNormalizeFlags pins the normalization rule down at the record
// level: symmetric under bit-4 variation, inert for any other bit.
func TestNormalizeFlags(t *testing.T) {
	ref := trace.Record{PC: 0xC000, Opcode: 0xA9, P: 0x24, SP: 0xFD}

	emu := ref
	emu.P = 0x34
	NormalizeFlags(&emu, ref)
	if emu.P != ref.P {
		t.Errorf("bit-4 difference not absorbed: P = %02X", emu.P)
	}

	emu = ref
	emu.P = 0x25 // carry differs
	NormalizeFlags(&emu, ref)
	if emu.P != 0x25 {
		t.Errorf("non-bit-4 difference must not be rewritten: P = %02X", emu.P)
	}

	// Differs in bit 4 and carry: outside the tolerance, untouched.
	emu = ref
	emu.P = 0x35
	NormalizeFlags(&emu, ref)
	if emu.P != 0x35 {
		t.Errorf("combined difference must not be rewritten: P = %02X", emu.P)
	}
}
