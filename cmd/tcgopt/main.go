package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kbatuzov/tcgpeep/pkg/fuzz"
	"github.com/kbatuzov/tcgpeep/pkg/ir"
	"github.com/kbatuzov/tcgpeep/pkg/optimize"
	"github.com/kbatuzov/tcgpeep/pkg/report"
	"github.com/kbatuzov/tcgpeep/pkg/state"
)

// programFile is the on-disk JSON shape for a single `run`/`trace`
// input: a temp-namespace description paired with the op/arg stream it
// describes, mirroring how pkg/result shapes its JSON Rule records.
type programFile struct {
	Context ir.Context
	Program ir.Program
}

func loadProgramFile(path string) (*programFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening program file: %w", err)
	}
	defer f.Close()
	var pf programFile
	if err := json.NewDecoder(f).Decode(&pf); err != nil {
		return nil, fmt.Errorf("decoding program file: %w", err)
	}
	return &pf, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "tcgopt",
		Short: "Peephole optimizer for a three-address IR",
	}

	rootCmd.AddCommand(newRunCmd(), newFuzzCmd(), newBenchCmd(), newTraceCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "run [program.json]",
		Short: "Optimize a single IR program and print the rewritten stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := loadProgramFile(args[0])
			if err != nil {
				return err
			}

			before := len(pf.Program.Opcodes)
			pf.Program.Args = optimize.Optimize(&pf.Context, &pf.Program)
			after := countNonNop(pf.Program.Opcodes)

			printProgram(pf.Program)
			fmt.Printf("\n%d ops -> %d live ops (%d eliminated)\n", before, after, before-after)

			if output != "" {
				run := report.NewRun("run")
				run.ProgramsRun = 1
				run.OpsRemoved = before - after
				if err := report.SaveJSON(output, run); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Write a JSON run report to this path")
	return cmd
}

func newFuzzCmd() *cobra.Command {
	var nbSeeds int64
	var firstSeed int64
	var nbTemps, nbOps, constBias, rounds, workers int
	var output string

	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Generate random IR programs and check semantic preservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool := fuzz.NewPool(workers)
			params := fuzz.Params{
				Gen: fuzz.Gen{
					NbTemps:   nbTemps,
					NbOps:     nbOps,
					ConstBias: constBias,
				},
				FirstSeed:  firstSeed,
				NbSeeds:    nbSeeds,
				TempRounds: rounds,
			}

			fmt.Printf("Checking %s generated programs across %d workers...\n",
				humanize.Comma(nbSeeds), pool.NumWorkers)
			pool.Run(params)

			checked, mismatches := pool.Stats()
			run := report.NewRun("fuzz")
			run.ProgramsRun = int(checked)
			for _, f := range pool.Findings.Findings() {
				run.Findings = append(run.Findings, f)
			}

			if mismatches == 0 {
				color.Green("OK: %s programs checked, no mismatches\n", humanize.Comma(checked))
			} else {
				color.Red("FAIL: %s mismatches out of %s programs checked\n",
					humanize.Comma(mismatches), humanize.Comma(checked))
			}

			if output != "" {
				if err := report.SaveJSON(output, run); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
			}
			if mismatches > 0 {
				return fmt.Errorf("%d semantic mismatches found", mismatches)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&nbSeeds, "count", 1000, "Number of random programs to check")
	cmd.Flags().Int64Var(&firstSeed, "seed", 1, "First seed (programs use seed, seed+1, ...)")
	cmd.Flags().IntVar(&nbTemps, "temps", 6, "Number of temporaries per generated program")
	cmd.Flags().IntVar(&nbOps, "ops", 12, "Number of operations per generated program")
	cmd.Flags().IntVar(&constBias, "const-bias", 4, "Chance in ten that an operand is a known constant")
	cmd.Flags().IntVar(&rounds, "rounds", 3, "Random initial-state vectors tried per program")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of workers (0 = NumCPU)")
	cmd.Flags().StringVar(&output, "output", "", "Write a JSON fuzz report to this path")
	return cmd
}

func newBenchCmd() *cobra.Command {
	var nbSeeds int64
	var nbTemps, nbOps, constBias int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Report how many ops/args the optimizer eliminates on generated programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var totalOps, totalArgs, removedOps, removedArgs int64

			for seed := int64(1); seed <= nbSeeds; seed++ {
				ctx, prog := fuzz.Generate(seed, fuzz.Gen{NbTemps: nbTemps, NbOps: nbOps, ConstBias: constBias})
				beforeOps := int64(len(prog.Opcodes))
				beforeArgs := int64(len(prog.Args))

				newArgs := optimize.Optimize(ctx, prog)

				totalOps += beforeOps
				totalArgs += beforeArgs
				removedOps += beforeOps - int64(countNonNop(prog.Opcodes))
				removedArgs += beforeArgs - int64(len(newArgs))
			}

			fmt.Printf("programs checked:  %s\n", humanize.Comma(nbSeeds))
			fmt.Printf("ops before:        %s\n", humanize.Comma(totalOps))
			fmt.Printf("ops eliminated:    %s (%.1f%%)\n", humanize.Comma(removedOps),
				100*float64(removedOps)/float64(totalOps))
			fmt.Printf("arg words before:  %s\n", humanize.Comma(totalArgs))
			fmt.Printf("arg words removed: %s (%.1f%%)\n", humanize.Comma(removedArgs),
				100*float64(removedArgs)/float64(totalArgs))
			return nil
		},
	}
	cmd.Flags().Int64Var(&nbSeeds, "count", 2000, "Number of random programs to optimize")
	cmd.Flags().IntVar(&nbTemps, "temps", 6, "Number of temporaries per generated program")
	cmd.Flags().IntVar(&nbOps, "ops", 12, "Number of operations per generated program")
	cmd.Flags().IntVar(&constBias, "const-bias", 4, "Chance in ten that an operand is a known constant")
	return cmd
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace [program.json]",
		Short: "Optimize a program and print a colorized before/after op diff",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := loadProgramFile(args[0])
			if err != nil {
				return err
			}
			before := append([]ir.Opcode(nil), pf.Program.Opcodes...)

			var tbl *state.Table
			pf.Program.Args, tbl = optimize.OptimizeTrace(&pf.Context, &pf.Program)

			for i, op := range pf.Program.Opcodes {
				switch {
				case op == ir.Nop && before[i] != ir.Nop:
					color.Red("  [%3d] %-14s (was %s)\n", i, op, before[i])
				case op != before[i]:
					color.Yellow("  [%3d] %-14s (was %s)\n", i, op, before[i])
				default:
					color.Green("  [%3d] %-14s\n", i, op)
				}
			}

			fmt.Println("final temp state:")
			fmt.Println(tbl.Dump())
			return nil
		},
	}
	return cmd
}

func printProgram(prog ir.Program) {
	readPos := 0
	for _, op := range prog.Opcodes {
		n := ir.Defs[op].NbArgs
		if op == ir.Call {
			nbOuts, nbIns := ir.CallHeader(prog.Args[readPos])
			n = ir.CallArgCount(nbOuts, nbIns)
		}
		fmt.Printf("  %-14s %v\n", op, prog.Args[readPos:readPos+n])
		readPos += n
	}
}

func countNonNop(ops []ir.Opcode) int {
	n := 0
	for _, op := range ops {
		if op != ir.Nop {
			n++
		}
	}
	return n
}
