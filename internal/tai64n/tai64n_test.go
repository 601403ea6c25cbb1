// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 *
 * Portions of this file are based on code originally from wireguard-go,
 *
 * Copyright (C) 2017-2023 WireGuard LLC. All Rights Reserved.
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of
 * this software and associated documentation files (the "Software"), to deal in
 * the Software without restriction, including without limitation the rights to
 * use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
 * of the Software, and to permit persons to whom the Software is furnished to do
 * so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package tai64n

import (
	"math"
	"testing"
	"time"

	"github.com/noisysockets/timepoint"
	"github.com/stretchr/testify/require"
)

// Test that whitened timestamps are monotonic and that nanosecond-level
// information is hidden.
func TestMonotonic(t *testing.T) {
	startTime := time.Unix(0, 123456789) // a nontrivial bit pattern
	// Whitening should reduce timestamp granularity
	// to more than 10 but fewer than 20 milliseconds.
	tests := []struct {
		name      string
		t1, t2    time.Time
		wantAfter bool
	}{
		{"after_10_us", startTime, startTime.Add(10 * time.Microsecond), false},
		{"after_1_ms", startTime, startTime.Add(time.Millisecond), false},
		{"after_10_ms", startTime, startTime.Add(10 * time.Millisecond), false},
		{"after_20_ms", startTime, startTime.Add(20 * time.Millisecond), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts1 := StampWhitened(timepoint.FromTime(tt.t1))
			ts2 := StampWhitened(timepoint.FromTime(tt.t2))
			got := ts2.After(ts1)
			if got != tt.wantAfter {
				t.Errorf("after = %v; want %v", got, tt.wantAfter)
			}
		})
	}

	// Without whitening every microsecond counts.
	ts1 := Stamp(timepoint.FromTime(startTime))
	ts2 := Stamp(timepoint.FromTime(startTime.Add(time.Microsecond)))
	require.True(t, ts2.After(ts1))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		raw  int64
		want string
	}{
		{1529965530123456, "@400000005b316be4075bca00"},
		{0, "@400000000000000a00000000"},
		{-1, "@40000000000000093b9ac618"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			tp := timepoint.New(tt.raw)

			ts := Stamp(tp)
			require.Equal(t, tt.want, ts.String())
			require.Equal(t, tp, ts.TimePoint())

			parsed, err := Parse(tt.want)
			require.NoError(t, err)
			require.Equal(t, ts, parsed)
		})
	}

	whitened := StampWhitened(timepoint.New(1529965530123456))
	require.Equal(t, "@400000005b316be407000000", whitened.String())
}

func TestRange(t *testing.T) {
	for _, raw := range []int64{math.MaxInt64, math.MinInt64} {
		ts := Stamp(timepoint.New(raw))

		parsed, err := Parse(ts.String())
		require.NoError(t, err)
		require.Equal(t, raw, parsed.TimePoint().MicrosecondsSinceEpoch())
	}

	tests := []struct {
		label string
		ok    bool
	}{
		{"@400008637bd05b002e3de018", true},  // 9223372036854.775807
		{"@400008637bd05b002e3de400", false}, // 9223372036854.775808
		{"@400008637bd05b0100000000", false}, // 9223372036855
		{"@3ffff79c842fa5130d5ce600", true},  // -9223372036855 + 0.224192
		{"@3ffff79c842fa5130d5ce218", false}, // -9223372036855 + 0.224191
		{"@3ffff79c842fa51200000000", false}, // -9223372036856
		{"@000000000000000000000000", false},
		{"@ffffffffffffffff00000000", false},
	}

	for _, tt := range tests {
		_, err := Parse(tt.label)
		if tt.ok {
			require.NoError(t, err, tt.label)
		} else {
			require.Error(t, err, tt.label)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "@zz", "@4000", "@400000005b316be4ffffffff"} {
		_, err := Parse(s)
		require.Error(t, err, s)
	}
}
