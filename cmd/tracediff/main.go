package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oisee/nes-tracediff/pkg/compare"
	"github.com/oisee/nes-tracediff/pkg/report"
	"github.com/oisee/nes-tracediff/pkg/runner"
	"github.com/oisee/nes-tracediff/pkg/trace"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tracediff",
		Short:         "Validate an emulator's CPU trace against a reference trace",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// compare command
	var strict bool
	var jsonOut bool
	var verbose bool

	compareCmd := &cobra.Command{
		Use:   "compare [emulator.log] [reference.log]",
		Short: "Find the first divergence between two trace logs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			emuLines, err := trace.LoadFile(args[0])
			if err != nil {
				return err
			}
			refLines, err := trace.LoadFile(args[1])
			if err != nil {
				return err
			}

			div, stats, err := compare.Compare(emuLines, refLines, compare.Options{Strict: strict})
			if err != nil {
				return err
			}

			if verbose {
				report.WriteStats(os.Stdout, stats)
			}
			if jsonOut {
				if err := report.WriteJSON(os.Stdout, div); err != nil {
					return err
				}
			} else {
				report.WriteText(os.Stdout, div)
			}
			if div != nil {
				os.Exit(1)
			}
			return nil
		},
	}
	compareCmd.Flags().BoolVar(&strict, "strict", false, "Compare undocumented-opcode steps too")
	compareCmd.Flags().BoolVar(&jsonOut, "json", false, "Write the result as JSON")
	compareCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print scan statistics")

	// run command
	var jobName string

	runCmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "Run the emulator under test, then compare its trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runner.LoadConfig(args[0])
			if err != nil {
				return err
			}

			job := cfg.Jobs[0]
			if jobName != "" {
				found := false
				for _, j := range cfg.Jobs {
					if j.Name == jobName {
						job, found = j, true
						break
					}
				}
				if !found {
					return fmt.Errorf("no job named %q in %s", jobName, args[0])
				}
			}

			if verbose {
				fmt.Printf("Running %s\n", job.Name)
			}
			res := runner.RunJob(job)
			if res.Err != nil {
				return res.Err
			}

			if verbose {
				report.WriteStats(os.Stdout, res.Stats)
			}
			if jsonOut {
				if err := report.WriteJSON(os.Stdout, res.Divergence); err != nil {
					return err
				}
			} else {
				report.WriteText(os.Stdout, res.Divergence)
			}
			if res.Divergence != nil {
				os.Exit(1)
			}
			return nil
		},
	}
	runCmd.Flags().StringVar(&jobName, "job", "", "Job name to run (default: first job)")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "Write the result as JSON")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print progress and scan statistics")

	// batch command
	var numWorkers int

	batchCmd := &cobra.Command{
		Use:   "batch [config.yaml]",
		Short: "Validate every configured job, in parallel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runner.LoadConfig(args[0])
			if err != nil {
				return err
			}
			if numWorkers == 0 {
				numWorkers = cfg.Workers
			}

			pool := runner.NewPool(numWorkers)
			fmt.Printf("Validating %d jobs with %d workers\n", len(cfg.Jobs), pool.NumWorkers)

			results := pool.Run(cfg.Jobs)
			report.WriteBatchSummary(os.Stdout, results)

			ran, diverged := pool.Stats()
			fmt.Printf("Ran %d jobs, %d diverged\n", ran, diverged)

			for _, res := range results {
				if res.Err != nil || res.Divergence != nil {
					os.Exit(1)
				}
			}
			return nil
		},
	}
	batchCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = config value or NumCPU)")

	rootCmd.AddCommand(compareCmd, runCmd, batchCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
