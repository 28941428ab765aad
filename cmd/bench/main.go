package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"taskSearch/internal/bench"
	"taskSearch/internal/logger"

	"github.com/spf13/cobra"
)

var errGateFailed = errors.New("скорость фильтрации ниже допустимой")

type benchOptions struct {
	seed       int64
	sizes      []int
	iterations int
	gate       bool
	verbose    bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the task filter engine on synthetic datasets",
		Long: `Generate synthetic task collections of the given sizes, run a text-only and
a multi-clause filter over each and print timing and throughput.

With --gate the command fails when any scenario filters fewer than
1000 items per millisecond.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, out, opts)
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&opts.seed, "seed", 0, "generator seed, 0 picks a time-based one")
	flags.IntSliceVar(&opts.sizes, "sizes", bench.DefaultSizes, "dataset sizes")
	flags.IntVar(&opts.iterations, "iterations", bench.DefaultIterations, "measured runs per scenario")
	flags.BoolVar(&opts.gate, "gate", false, "exit non-zero if any scenario is below the acceptable rate")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log generation and measurement progress")
	return cmd
}

func runBench(cmd *cobra.Command, out io.Writer, opts benchOptions) error {
	if opts.verbose {
		if err := logger.Init(logger.Options{Development: true}); err != nil {
			return fmt.Errorf("инициализация логгера: %w", err)
		}
		defer logger.Sync()
	}

	for _, size := range opts.sizes {
		if size < 0 {
			return fmt.Errorf("неверный размер набора: %d", size)
		}
	}

	now := time.Now()
	suite := bench.Suite{
		Scenarios: bench.Scenarios(now, opts.sizes, opts.iterations),
		Seed:      opts.seed,
		Now:       now,
	}

	results, err := suite.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(out, bench.Report(results))
	if opts.gate && !bench.AllAcceptable(results) {
		return errGateFailed
	}
	return nil
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
