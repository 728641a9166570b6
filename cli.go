/*
Copyright (C) 2024  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dc0d/onexit"
	"github.com/docker/go-units"
	"github.com/launix-de/lambda/lambda"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// globalFlags are shared by all commands.
type globalFlags struct {
	debug      bool
	stdlib     string
	depthLimit int

	logger *zap.Logger
}

func (g *globalFlags) setupLogger() error {
	var err error
	if g.debug {
		g.logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		g.logger, err = cfg.Build()
	}
	return err
}

// options configures an evaluator after the global flags.
func (g *globalFlags) options() ([]lambda.Option, error) {
	opts := []lambda.Option{lambda.WithLogger(g.logger), lambda.WithDepthLimit(g.depthLimit)}
	if g.stdlib != "" {
		r, err := lambda.OpenSource(g.stdlib)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		text, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", g.stdlib)
		}
		opts = append(opts, lambda.WithStandardLibrary(g.stdlib, string(text)))
	}
	return opts, nil
}

func (g *globalFlags) newEvaluator() (*lambda.Evaluator, error) {
	opts, err := g.options()
	if err != nil {
		return nil, err
	}
	return lambda.NewEvaluator(opts...)
}

// observerFlags select how reductions are reported.
type observerFlags struct {
	print      bool
	trace      string
	traceLimit string
}

func (f *observerFlags) addTo(flags *pflag.FlagSet) {
	flags.BoolVar(&f.print, "print", false, "print every reduction step to stderr")
	flags.StringVar(&f.trace, "trace", "", "write a Chrome trace of the reductions to `FILE` (.xz and .lz4 are compressed)")
	flags.StringVar(&f.traceLimit, "trace-limit", "", "maximum trace size, e.g. 64MB; later events are dropped")
}

// open builds the observer. The returned close function must be called when
// the reductions are done; the trace is also closed if the process exits early.
func (f *observerFlags) open(stderr io.Writer, logger *zap.Logger) (lambda.Observer, func() error, error) {
	var observers []lambda.Observer
	closer := func() error { return nil }
	if f.print {
		observers = append(observers, lambda.NewPrintObserver(stderr))
	}
	if f.trace != "" {
		var limit int64
		if f.traceLimit != "" {
			var err error
			limit, err = units.FromHumanSize(f.traceLimit)
			if err != nil {
				return nil, nil, errors.Wrap(err, "--trace-limit")
			}
		}
		sink, err := lambda.CreateSink(f.trace)
		if err != nil {
			return nil, nil, err
		}
		trace, err := lambda.NewTraceObserver(sink, limit)
		if err != nil {
			sink.Close()
			return nil, nil, err
		}
		onexit.Register(func() { trace.Close() }) // close trace file on exit
		observers = append(observers, trace)
		var once sync.Once
		var closeErr error
		closer = func() error {
			once.Do(func() {
				closeErr = trace.Close()
				fields := []zap.Field{
					zap.String("file", f.trace),
					zap.String("size", units.HumanSize(float64(trace.Written()))),
					zap.Int("dropped", trace.Dropped()),
				}
				if trace.Dropped() > 0 {
					logger.Warn("trace limit reached", fields...)
				} else {
					logger.Debug("trace written", fields...)
				}
			})
			return closeErr
		}
	}
	switch len(observers) {
	case 0:
		return lambda.EmptyObserver, closer, nil
	case 1:
		return observers[0], closer, nil
	}
	return lambda.MultiObserver(observers...), closer, nil
}

type lambdaCmd interface {
	register() *cobra.Command
	run(cmd *cobra.Command, args []string) error
}

func addCommand(parent *cobra.Command, child lambdaCmd) {
	cobraChild := child.register()
	cobraChild.RunE = func(cmd *cobra.Command, args []string) error {
		return child.run(cmd, args)
	}
	parent.AddCommand(cobraChild)
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{logger: zap.NewNop()}
	repl := &replCmd{g: g}
	rootCmd := &cobra.Command{
		Use:           "lambda",
		Short:         "Reduce untyped lambda calculus terms in normal order",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return g.setupLogger()
		},
		Args: cobra.NoArgs,
		// without a command, start the prompt
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.run(cmd, args)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&g.debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&g.stdlib, "stdlib", "", "load definitions from `FILE` instead of the bundled standard library")
	rootCmd.PersistentFlags().IntVar(&g.depthLimit, "depth-limit", lambda.DefaultDepthLimit, "give up reductions deeper than this")
	repl.addFlags(rootCmd.Flags())

	addCommand(rootCmd, &runCmd{g: g})
	addCommand(rootCmd, &evalCmd{g: g})
	addCommand(rootCmd, repl)
	addCommand(rootCmd, &watchCmd{g: g})
	addCommand(rootCmd, &serveCmd{g: g})
	addCommand(rootCmd, &defsCmd{g: g})
	return rootCmd
}

func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
