package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"code.selman.me/trebuchet/calibration"
	"code.selman.me/trebuchet/report"
)

const envVarPrefix = "TREBUCHET"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := realMain(
		ctx,
		os.Args,
		os.Stdin,
		os.Stdout,
		os.Stderr,
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func realMain(
	ctx context.Context,
	args []string,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
) error {
	exec := args[0]

	fs := flag.NewFlagSet(exec, flag.ExitOnError)
	fs.SetOutput(stderr)
	flagInput := fs.String("input", "input.txt", "input file")
	flagTrace := fs.Bool("trace", false, "print running total for each line")
	flagDebug := fs.Bool("debug", false, "debug logs")
	flagForceColor := fs.Bool("fc", false, "force color output")

	scoreFs := flag.NewFlagSet("score", flag.ExitOnError)
	scoreFs.SetOutput(stderr)
	flagOutput := scoreFs.String("o", "text", "output format: text, table or yaml")

	setup := func() *slog.Logger {
		if *flagForceColor {
			color.NoColor = false
		}
		return newLogger(stderr, *flagDebug)
	}

	scoreCmd := &ffcli.Command{
		Name:       "score",
		ShortUsage: fmt.Sprintf("%v score [-o text|table|yaml] [line ...]", exec),
		ShortHelp:  "Score given lines, or lines from stdin, one by one",
		FlagSet:    scoreFs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envVarPrefix)},
		Exec: func(_ context.Context, args []string) error {
			logger := setup()

			format, err := report.ParseFormat(*flagOutput)
			if err != nil {
				return err
			}

			lines := calibration.Lines(stdin)
			if len(args) > 0 {
				lines = calibration.Strings(args...)
			}

			var steps []calibration.Step
			calibration.Fold(lines, func(s calibration.Step) {
				if s.Err != nil {
					logger.Debug("skip line", "n", s.N, "err", s.Err)
				}
				steps = append(steps, s)
			})

			return report.Rows(stdout, format, steps)
		},
	}

	rootCmd := &ffcli.Command{
		Name:        exec,
		ShortUsage:  fmt.Sprintf("%v [flags] [<subcommand>]", exec),
		ShortHelp:   "Sum calibration values of the input file",
		FlagSet:     fs,
		Options:     []ff.Option{ff.WithEnvVarPrefix(envVarPrefix)},
		Subcommands: []*ffcli.Command{scoreCmd},
		Exec: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return flag.ErrHelp
			}

			logger := setup()

			f, err := os.Open(*flagInput)
			if err != nil {
				logger.Debug("open input", "path", *flagInput, "err", err)
				return nil
			}
			defer f.Close()

			var lines, skipped int64
			total := calibration.Fold(calibration.Lines(f), func(s calibration.Step) {
				lines++
				if s.Err != nil {
					skipped++
					logger.Debug("skip line", "n", s.N, "err", s.Err)
				}

				if *flagTrace {
					report.Trace(stdout, s)
				}
			})

			var size uint64
			if fi, err := f.Stat(); err == nil {
				size = uint64(fi.Size())
			}

			logger.Debug(
				"summed",
				"path", *flagInput,
				"size", humanize.Bytes(size),
				"lines", humanize.Comma(lines),
				"skipped", humanize.Comma(skipped),
				"total", total,
			)

			report.Total(stdout, total)
			return nil
		},
	}

	return rootCmd.ParseAndRun(ctx, args[1:])
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}

	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    noColor,
		}),
	)
}
