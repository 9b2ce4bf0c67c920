package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/mathefuchs/advanced-datastructures-st22/internal/bptree"
	"github.com/mathefuchs/advanced-datastructures-st22/internal/runner"
)

// bpCommand implements subcommands.Command for spec.md §6.1's "bp" mode.
type bpCommand struct{}

func (*bpCommand) Name() string     { return "bp" }
func (*bpCommand) Synopsis() string { return "run the dynamic BP-tree query benchmark" }
func (*bpCommand) Usage() string {
	return "bp <input_file> <output_file>\n"
}
func (*bpCommand) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*bpCommand) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	inputFile, outputFile := f.Arg(0), f.Arg(1)

	log := logrus.WithField("algo", "bp")

	in, err := os.Open(inputFile)
	if err != nil {
		log.WithError(err).Errorf("could not open input file %q", inputFile)
		return subcommands.ExitFailure
	}
	defer in.Close()

	queries, err := runner.ParseBPInput(in)
	if err != nil {
		log.WithError(err).Error("malformed bp input")
		return subcommands.ExitFailure
	}

	out, err := os.Create(outputFile)
	if err != nil {
		log.WithError(err).Errorf("could not open output file %q", outputFile)
		return subcommands.ExitFailure
	}
	defer out.Close()

	bp := bptree.New()

	log.WithField("queries", len(queries)).Info("running bp benchmark")
	start := time.Now()
	if err := runner.RunBP(bp, queries, out, log); err != nil {
		log.WithError(err).Error("error writing bp results")
		return subcommands.ExitFailure
	}
	elapsed := time.Since(start)

	runner.PrintResult(os.Stdout, "bp", elapsed.Milliseconds(), bp.SpaceBits(), runner.BPParamString())
	log.WithField("elapsed", elapsed).Info("bp benchmark finished")
	return subcommands.ExitSuccess
}
