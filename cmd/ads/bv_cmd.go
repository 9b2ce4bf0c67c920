package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/mathefuchs/advanced-datastructures-st22/internal/runner"
)

// bvCommand implements subcommands.Command for spec.md §6.1's "bv" mode.
type bvCommand struct{}

func (*bvCommand) Name() string     { return "bv" }
func (*bvCommand) Synopsis() string { return "run the dynamic bit-vector query benchmark" }
func (*bvCommand) Usage() string {
	return "bv <input_file> <output_file>\n"
}
func (*bvCommand) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*bvCommand) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	inputFile, outputFile := f.Arg(0), f.Arg(1)

	log := logrus.WithField("algo", "bv")

	in, err := os.Open(inputFile)
	if err != nil {
		log.WithError(err).Errorf("could not open input file %q", inputFile)
		return subcommands.ExitFailure
	}
	defer in.Close()

	bv, queries, err := runner.ParseBVInput(in)
	if err != nil {
		log.WithError(err).Error("malformed bv input")
		return subcommands.ExitFailure
	}

	out, err := os.Create(outputFile)
	if err != nil {
		log.WithError(err).Errorf("could not open output file %q", outputFile)
		return subcommands.ExitFailure
	}
	defer out.Close()

	log.WithField("queries", len(queries)).Info("running bv benchmark")
	start := time.Now()
	if err := runner.RunBV(bv, queries, out, log); err != nil {
		log.WithError(err).Error("error writing bv results")
		return subcommands.ExitFailure
	}
	elapsed := time.Since(start)

	runner.PrintResult(os.Stdout, "bv", elapsed.Milliseconds(), bv.SpaceBits(), runner.ParamString())
	log.WithField("elapsed", elapsed).Info("bv benchmark finished")
	return subcommands.ExitSuccess
}
