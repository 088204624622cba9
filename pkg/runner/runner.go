package runner

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/oisee/nes-tracediff/pkg/compare"
	"github.com/oisee/nes-tracediff/pkg/trace"
)

// Result is the outcome of one job.
type Result struct {
	Job        Job
	Divergence *compare.Divergence // nil when the traces agree
	Stats      compare.Stats
	Err        error // setup failure: emulator run, file IO, bad reference log
}

// RunJob executes one validation: invoke the emulator if a command is
// configured, then load both logs and compare them.
func RunJob(job Job) Result {
	res := Result{Job: job}

	if len(job.Command) > 0 {
		if err := runEmulator(job); err != nil {
			res.Err = err
			return res
		}
	}

	emuLines, err := trace.LoadFile(job.Log)
	if err != nil {
		res.Err = fmt.Errorf("emulator log: %w", err)
		return res
	}
	refLines, err := trace.LoadFile(job.Reference)
	if err != nil {
		res.Err = fmt.Errorf("reference log: %w", err)
		return res
	}

	res.Divergence, res.Stats, res.Err = compare.Compare(emuLines, refLines,
		compare.Options{Strict: job.Strict})
	return res
}

// runEmulator runs the configured command to completion. The emulator
// under test is expected to write its trace to job.Log as a side
// effect; its own output is only surfaced when the command fails.
func runEmulator(job Job) error {
	cmd := exec.Command(job.Command[0], job.Command[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("emulator %q: %w\n%s",
			strings.Join(job.Command, " "), err, out.String())
	}
	return nil
}
