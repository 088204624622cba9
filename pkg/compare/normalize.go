package compare

import "github.com/oisee/nes-tracediff/pkg/trace"

// NormalizeFlags absorbs the break-flag ambiguity before equality
// comparison. Bit 4 of P has no canonical value during interrupt
// sequences, so when the two flag bytes agree on every bit except
// possibly bit 4, the emulator's value is overwritten with the
// reference's. Any other flag difference is left alone and will surface
// as a divergence.
func NormalizeFlags(emu *trace.Record, ref trace.Record) {
	if emu.P|trace.FlagB == ref.P|trace.FlagB {
		emu.P = ref.P
	}
}
