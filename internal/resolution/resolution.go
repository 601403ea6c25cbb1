// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package resolution measures how finely the wall clock advances.
package resolution

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/noisysockets/timepoint"
	"golang.org/x/sync/errgroup"
)

// Deltas larger than this are recorded as outliers (eg. the clock was stepped).
const maxTick = time.Minute

// Options configures a Probe.
type Options struct {
	// Samples is the number of clock reads per worker.
	Samples int
	// Workers is the number of goroutines reading the clock concurrently.
	Workers int
	// Progress, if set, is called with the number of reads completed since
	// the last call. It may be called from several goroutines at once.
	Progress func(n int)
}

// Report summarises the observed clock ticks.
type Report struct {
	// Reads is the total number of clock reads compared against their predecessor.
	Reads int
	// Ticks is the number of reads that observed the clock moving forward.
	Ticks int64
	// Backwards is the number of reads that observed the clock moving backward.
	Backwards int64
	// Outliers is the number of forward steps too large to record.
	Outliers int64
	Min      time.Duration
	Median   time.Duration
	P99      time.Duration
	Max      time.Duration
	// SubMillisecond is set if the clock was seen advancing by less than a
	// millisecond. If not, the low microsecond digits of timestamps read
	// from this clock will be zero.
	SubMillisecond bool
}

// Probe reads clock repeatedly and reports the distribution of the
// smallest observable forward steps. The clock must be safe for concurrent use.
func Probe(ctx context.Context, logger *slog.Logger, clock timepoint.Clock, opts Options) (*Report, error) {
	if opts.Samples <= 0 {
		return nil, fmt.Errorf("samples must be positive: %d", opts.Samples)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	logger.Debug("Probing clock resolution",
		slog.Int("samples", opts.Samples), slog.Int("workers", opts.Workers))

	var mu sync.Mutex
	ticks := newHistogram()
	report := Report{Reads: opts.Samples * opts.Workers}
	minTick := int64(math.MaxInt64)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.Workers; i++ {
		worker := i
		g.Go(func() error {
			local := newHistogram()
			var backwards, outliers int64
			localMin := int64(math.MaxInt64)

			prev := timepoint.NowFrom(clock)
			for n := 1; n <= opts.Samples; n++ {
				if n%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}

				cur := timepoint.NowFrom(clock)
				delta := cur.MicrosecondsSinceEpoch() - prev.MicrosecondsSinceEpoch()
				prev = cur

				switch {
				case delta < 0:
					backwards++
				case delta > 0:
					if err := local.RecordValue(delta); err != nil {
						outliers++
						logger.Debug("Dropping clock step", slog.Int("worker", worker), slog.Int64("micros", delta))
					} else {
						localMin = min(localMin, delta)
					}
				}

				if opts.Progress != nil && n%100 == 0 {
					opts.Progress(100)
				}
			}
			if opts.Progress != nil {
				opts.Progress(opts.Samples % 100)
			}

			mu.Lock()
			defer mu.Unlock()

			ticks.Merge(local)
			report.Backwards += backwards
			report.Outliers += outliers
			minTick = min(minTick, localMin)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to probe clock: %w", err)
	}

	report.Ticks = ticks.TotalCount() + report.Outliers
	if ticks.TotalCount() > 0 {
		report.Min = time.Duration(minTick) * time.Microsecond
		report.Median = time.Duration(ticks.ValueAtQuantile(50)) * time.Microsecond
		report.P99 = time.Duration(ticks.ValueAtQuantile(99)) * time.Microsecond
		report.Max = time.Duration(ticks.Max()) * time.Microsecond
		report.SubMillisecond = report.Min < time.Millisecond
	}

	if report.Backwards > 0 {
		logger.Warn("Clock moved backwards during probe", slog.Int64("count", report.Backwards))
	}

	return &report, nil
}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, maxTick.Microseconds(), 3)
}
