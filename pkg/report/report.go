package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/oisee/nes-tracediff/pkg/compare"
	"github.com/oisee/nes-tracediff/pkg/opcode"
	"github.com/oisee/nes-tracediff/pkg/runner"
)

// WriteText renders a comparison result as human-readable text. A nil
// divergence prints the all-clear line.
func WriteText(w io.Writer, div *compare.Divergence) {
	if div == nil {
		fmt.Fprintln(w, "No errors found!")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Divergence at step %d: %s at $%04X",
		div.Step, opcode.Mnemonic(div.Reference.Opcode), div.Reference.PC)
	t.AppendHeader(table.Row{"", "Line"})
	t.AppendRow(table.Row{"Context (emu)", div.ContextEmulator})
	t.AppendRow(table.Row{"Context (ref)", div.ContextReference})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Error at (emu)", div.EmulatorLine})
	t.AppendRow(table.Row{"Error at (ref)", div.ReferenceLine})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Parsed (emu)", div.Emulator.String()})
	t.AppendRow(table.Row{"Parsed (ref)", div.Reference.String()})
	t.Render()
}

// WriteStats prints scan counters, for verbose runs.
func WriteStats(w io.Writer, stats compare.Stats) {
	fmt.Fprintf(w, "Compared %d steps (%d noise lines skipped, %d undocumented steps ignored)\n",
		stats.Compared, stats.NoiseSkipped, stats.Ignored)
}

// jsonReport is the machine-readable shape of a comparison result.
type jsonReport struct {
	Diverged  bool   `json:"diverged"`
	Step      int    `json:"step,omitempty"`
	Mnemonic  string `json:"mnemonic,omitempty"`
	Emulator  string `json:"emulator_line,omitempty"`
	Reference string `json:"reference_line,omitempty"`
	CtxEmu    string `json:"context_emulator_line,omitempty"`
	CtxRef    string `json:"context_reference_line,omitempty"`
}

// WriteJSON writes a comparison result as indented JSON.
func WriteJSON(w io.Writer, div *compare.Divergence) error {
	var rep jsonReport
	if div != nil {
		rep = jsonReport{
			Diverged:  true,
			Step:      div.Step,
			Mnemonic:  opcode.Mnemonic(div.Reference.Opcode),
			Emulator:  div.EmulatorLine,
			Reference: div.ReferenceLine,
			CtxEmu:    div.ContextEmulator,
			CtxRef:    div.ContextReference,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteBatchSummary renders one row per validated job.
func WriteBatchSummary(w io.Writer, results []runner.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Job", "Status", "Compared", "Ignored", "Detail"})
	for _, res := range results {
		status, detail := "ok", ""
		switch {
		case res.Err != nil:
			status = "error"
			detail = res.Err.Error()
		case res.Divergence != nil:
			status = "diverged"
			detail = fmt.Sprintf("step %d: %s at $%04X",
				res.Divergence.Step,
				opcode.Mnemonic(res.Divergence.Reference.Opcode),
				res.Divergence.Reference.PC)
		}
		t.AppendRow(table.Row{res.Job.Name, status, res.Stats.Compared, res.Stats.Ignored, detail})
	}
	t.Render()
}
