// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package timepoint provides TimePoint, a microsecond resolution timestamp
// stored as a signed 64-bit count of microseconds since the Unix epoch.
package timepoint

import "time"

// MicrosecondsPerSecond is the number of microseconds in one second.
const MicrosecondsPerSecond = 1000 * 1000

// TimePoint is an instant expressed as microseconds since the Unix epoch.
// The zero value is the "unset" timestamp (the epoch itself).
//
// A TimePoint is a plain value and is safe to share between goroutines as
// long as nobody calls Swap on it. Callers must serialize Swap on a shared
// instance themselves.
type TimePoint struct {
	microsecondsSinceEpoch int64
}

// New returns a TimePoint holding the given raw microsecond count.
func New(microsecondsSinceEpoch int64) TimePoint {
	return TimePoint{microsecondsSinceEpoch: microsecondsSinceEpoch}
}

// Now returns the current wall clock time at microsecond granularity.
func Now() TimePoint {
	return NowFrom(SystemClock{})
}

// NowFrom returns the current time as reported by clock.
func NowFrom(clock Clock) TimePoint {
	return FromTime(clock.Now())
}

// FromUnixTime converts a whole second Unix timestamp.
func FromUnixTime(seconds int64) TimePoint {
	return New(seconds * MicrosecondsPerSecond)
}

// FromTime truncates t to microsecond precision.
func FromTime(t time.Time) TimePoint {
	return New(t.UnixMicro())
}

// Time converts the TimePoint into a time.Time in the local time zone.
func (tp TimePoint) Time() time.Time {
	return time.UnixMicro(tp.microsecondsSinceEpoch)
}

// MicrosecondsSinceEpoch returns the raw stored value.
func (tp TimePoint) MicrosecondsSinceEpoch() int64 {
	return tp.microsecondsSinceEpoch
}

// SecondsSinceEpoch returns the whole seconds since the epoch, truncated
// toward zero (so -1µs is second 0, not -1).
func (tp TimePoint) SecondsSinceEpoch() int64 {
	return tp.microsecondsSinceEpoch / MicrosecondsPerSecond
}

// IsZero reports whether tp is the unset timestamp.
func (tp TimePoint) IsZero() bool {
	return tp.microsecondsSinceEpoch == 0
}

// Swap exchanges the values of tp and other.
func (tp *TimePoint) Swap(other *TimePoint) {
	tp.microsecondsSinceEpoch, other.microsecondsSinceEpoch = other.microsecondsSinceEpoch, tp.microsecondsSinceEpoch
}

func (tp TimePoint) Less(other TimePoint) bool {
	return tp.microsecondsSinceEpoch < other.microsecondsSinceEpoch
}

func (tp TimePoint) Greater(other TimePoint) bool {
	return tp.microsecondsSinceEpoch > other.microsecondsSinceEpoch
}

func (tp TimePoint) LessOrEqual(other TimePoint) bool {
	return tp.microsecondsSinceEpoch <= other.microsecondsSinceEpoch
}

func (tp TimePoint) GreaterOrEqual(other TimePoint) bool {
	return tp.microsecondsSinceEpoch >= other.microsecondsSinceEpoch
}

func (tp TimePoint) Equal(other TimePoint) bool {
	return tp.microsecondsSinceEpoch == other.microsecondsSinceEpoch
}

func (tp TimePoint) NotEqual(other TimePoint) bool {
	return tp.microsecondsSinceEpoch != other.microsecondsSinceEpoch
}

// Compare returns -1 if tp is before other, +1 if it is after, and 0 if
// they are equal.
func (tp TimePoint) Compare(other TimePoint) int {
	switch {
	case tp.microsecondsSinceEpoch < other.microsecondsSinceEpoch:
		return -1
	case tp.microsecondsSinceEpoch > other.microsecondsSinceEpoch:
		return 1
	default:
		return 0
	}
}

// TimeDifference returns former minus later in seconds. The result is
// negative when former is chronologically before later.
func TimeDifference(former, later TimePoint) float64 {
	diff := former.microsecondsSinceEpoch - later.microsecondsSinceEpoch
	return float64(diff) / MicrosecondsPerSecond
}

// AddTime returns ts shifted by the given number of seconds. Fractions of a
// microsecond are truncated toward zero. ts itself is not modified.
func AddTime(ts TimePoint, seconds float64) TimePoint {
	delta := int64(seconds * MicrosecondsPerSecond)
	return New(ts.microsecondsSinceEpoch + delta)
}
