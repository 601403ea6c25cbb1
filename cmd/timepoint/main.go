// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	_ "time/tzdata"

	"github.com/cheggaaa/pb/v3"
	"github.com/noisysockets/timepoint"
	"github.com/noisysockets/timepoint/config"
	latestconfig "github.com/noisysockets/timepoint/config/v1alpha1"
	"github.com/noisysockets/timepoint/internal/resolution"
	"github.com/noisysockets/timepoint/internal/tai64n"
	"github.com/urfave/cli/v2"
	"golang.org/x/sys/unix"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var conf *latestconfig.Config
	var formatter *timepoint.Formatter
	clock := timepoint.SystemClock{}

	app := &cli.App{
		Name:  "timepoint",
		Usage: "Inspect and convert microsecond timestamps",
		Flags: []cli.Flag{
			&cli.GenericFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set the log level",
				Value:   fromLogLevel(slog.LevelInfo),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "The configuration file to use",
			},
			&cli.BoolFlag{
				Name:  "utc",
				Usage: "Format calendar timestamps in UTC regardless of the configured location",
			},
		},
		Before: func(c *cli.Context) error {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: (*slog.Level)(c.Generic("log-level").(*logLevelFlag)),
			}))

			conf = config.Default()
			if path := c.String("config"); path != "" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open config: %w", err)
				}
				defer f.Close()

				conf, err = config.FromYAML(f)
				if err != nil {
					return fmt.Errorf("failed to read config: %w", err)
				}

				logger.Debug("Loaded config", slog.String("path", path))
			}

			if c.Bool("utc") {
				conf.Location = "UTC"
			}

			var err error
			formatter, err = config.NewFormatter(conf, clock)
			if err != nil {
				return fmt.Errorf("failed to create formatter: %w", err)
			}

			if formatter.Legacy {
				logger.Warn("Legacy calendar formatting is enabled, calendar fields reflect the current time")
			}

			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "now",
				Usage: "Print the current time",
				Action: func(c *cli.Context) error {
					tp := timepoint.NowFrom(clock)

					fmt.Fprintln(c.App.Writer, tp.String())
					fmt.Fprintln(c.App.Writer, formatter.Format(tp))
					return nil
				},
			},
			{
				Name:            "format",
				Usage:           "Print a raw microsecond timestamp in compact and calendar form",
				ArgsUsage:       "<microseconds>",
				SkipFlagParsing: true,
				Action: func(c *cli.Context) error {
					tp, err := rawArg(c, 0)
					if err != nil {
						return err
					}

					fmt.Fprintln(c.App.Writer, tp.String())
					fmt.Fprintln(c.App.Writer, formatter.Format(tp))
					return nil
				},
			},
			{
				Name:            "parse",
				Usage:           "Convert a compact timestamp (eg. 12.345678) into microseconds",
				ArgsUsage:       "<timestamp>",
				SkipFlagParsing: true,
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return errors.New("missing timestamp argument")
					}

					tp, err := timepoint.Parse(c.Args().First())
					if err != nil {
						return fmt.Errorf("failed to parse timestamp: %w", err)
					}

					fmt.Fprintln(c.App.Writer, tp.MicrosecondsSinceEpoch())
					return nil
				},
			},
			{
				Name:            "from-unix",
				Usage:           "Convert whole Unix seconds into microseconds",
				ArgsUsage:       "<seconds>",
				SkipFlagParsing: true,
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return errors.New("missing seconds argument")
					}

					seconds, err := strconv.ParseInt(c.Args().First(), 10, 64)
					if err != nil {
						return fmt.Errorf("invalid unix seconds %q: %w", c.Args().First(), err)
					}

					fmt.Fprintln(c.App.Writer, timepoint.FromUnixTime(seconds).MicrosecondsSinceEpoch())
					return nil
				},
			},
			{
				Name:            "diff",
				Usage:           "Print former minus later in seconds",
				ArgsUsage:       "<former> <later>",
				SkipFlagParsing: true,
				Action: func(c *cli.Context) error {
					former, err := rawArg(c, 0)
					if err != nil {
						return err
					}

					later, err := rawArg(c, 1)
					if err != nil {
						return err
					}

					diff := timepoint.TimeDifference(former, later)
					fmt.Fprintln(c.App.Writer, strconv.FormatFloat(diff, 'f', -1, 64))
					return nil
				},
			},
			{
				Name:            "add",
				Usage:           "Shift a timestamp by a (possibly fractional) number of seconds",
				ArgsUsage:       "<microseconds> <seconds>",
				SkipFlagParsing: true,
				Action: func(c *cli.Context) error {
					tp, err := rawArg(c, 0)
					if err != nil {
						return err
					}

					if c.NArg() < 2 {
						return errors.New("missing seconds argument")
					}

					seconds, err := strconv.ParseFloat(c.Args().Get(1), 64)
					if err != nil {
						return fmt.Errorf("invalid seconds %q: %w", c.Args().Get(1), err)
					}

					fmt.Fprintln(c.App.Writer, timepoint.AddTime(tp, seconds).MicrosecondsSinceEpoch())
					return nil
				},
			},
			{
				Name:            "compare",
				Usage:           "Print <, = or > for two timestamps",
				ArgsUsage:       "<a> <b>",
				SkipFlagParsing: true,
				Action: func(c *cli.Context) error {
					a, err := rawArg(c, 0)
					if err != nil {
						return err
					}

					b, err := rawArg(c, 1)
					if err != nil {
						return err
					}

					fmt.Fprintln(c.App.Writer, [...]string{"<", "=", ">"}[a.Compare(b)+1])
					return nil
				},
			},
			{
				Name:      "tai64n",
				Usage:     "Convert between microseconds and TAI64N labels",
				ArgsUsage: "<microseconds | @label>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "whiten",
						Usage: "Clear the low bits of the nanosecond field",
					},
					&cli.BoolFlag{
						Name:  "decode",
						Usage: "Decode a TAI64N label into microseconds",
					},
				},
				Action: func(c *cli.Context) error {
					if c.Bool("decode") {
						if c.NArg() < 1 {
							return errors.New("missing label argument")
						}

						label, err := tai64n.Parse(c.Args().First())
						if err != nil {
							return fmt.Errorf("failed to parse label: %w", err)
						}

						fmt.Fprintln(c.App.Writer, label.TimePoint().MicrosecondsSinceEpoch())
						return nil
					}

					tp, err := rawArg(c, 0)
					if err != nil {
						return err
					}

					if c.Bool("whiten") {
						fmt.Fprintln(c.App.Writer, tai64n.StampWhitened(tp))
					} else {
						fmt.Fprintln(c.App.Writer, tai64n.Stamp(tp))
					}
					return nil
				},
			},
			{
				Name:  "resolution",
				Usage: "Measure how finely the system clock advances",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "samples",
						Usage: "Clock reads per worker (overrides the config)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers (overrides the config)",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Do not display a progress bar",
					},
				},
				Action: func(c *cli.Context) error {
					samples, workers := config.ResolutionSettings(conf)
					if c.IsSet("samples") {
						samples = c.Int("samples")
					}
					if c.IsSet("workers") {
						workers = c.Int("workers")
					}

					opts := resolution.Options{
						Samples: samples,
						Workers: workers,
					}

					var bar *pb.ProgressBar
					if !c.Bool("no-progress") {
						bar = pb.New(samples * workers)
						bar.SetWriter(os.Stderr)
						bar.Start()
						opts.Progress = func(n int) { bar.Add(n) }
					}

					ctx, stop := shutdownContext(c.Context)
					defer stop()

					report, err := resolution.Probe(ctx, logger, clock, opts)
					if bar != nil {
						bar.Finish()
					}
					if err != nil {
						if ctx.Err() != nil {
							logger.Info("Received signal, shutting down")
						}
						return err
					}

					w := c.App.Writer
					fmt.Fprintf(w, "reads: %d\n", report.Reads)
					fmt.Fprintf(w, "ticks: %d\n", report.Ticks)
					fmt.Fprintf(w, "backwards: %d\n", report.Backwards)
					fmt.Fprintf(w, "outliers: %d\n", report.Outliers)
					fmt.Fprintf(w, "min: %s\n", report.Min)
					fmt.Fprintf(w, "median: %s\n", report.Median)
					fmt.Fprintf(w, "p99: %s\n", report.P99)
					fmt.Fprintf(w, "max: %s\n", report.Max)
					fmt.Fprintf(w, "sub-millisecond: %t\n", report.SubMillisecond)

					if !report.SubMillisecond {
						logger.Warn("Clock does not advance in sub-millisecond steps, microsecond digits will read as zero")
					}

					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("Failed to run app", "error", err)
		return 1
	}

	return 0
}

// shutdownContext is cancelled on SIGTERM or an interrupt.
func shutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, unix.SIGTERM)
}

func rawArg(c *cli.Context, i int) (timepoint.TimePoint, error) {
	if c.NArg() <= i {
		return timepoint.TimePoint{}, fmt.Errorf("missing argument %d", i+1)
	}

	raw, err := strconv.ParseInt(c.Args().Get(i), 10, 64)
	if err != nil {
		return timepoint.TimePoint{}, fmt.Errorf("invalid raw timestamp %q: %w", c.Args().Get(i), err)
	}

	return timepoint.New(raw), nil
}

type logLevelFlag slog.Level

func fromLogLevel(l slog.Level) *logLevelFlag {
	f := logLevelFlag(l)
	return &f
}

func (f *logLevelFlag) Set(value string) error {
	return (*slog.Level)(f).UnmarshalText([]byte(value))
}

func (f *logLevelFlag) String() string {
	return (*slog.Level)(f).String()
}
