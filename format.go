// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package timepoint

import (
	"fmt"
	"time"
)

// String returns the compact "<seconds>.<microseconds>" form, eg. "12.345678".
func (tp TimePoint) String() string {
	seconds := tp.microsecondsSinceEpoch / MicrosecondsPerSecond
	microseconds := tp.microsecondsSinceEpoch % MicrosecondsPerSecond
	return fmt.Sprintf("%d.%06d", seconds, microseconds)
}

// FormattedString returns the calendar form "YYYY-MM-DD HH:MM:SS", with a
// ".ffffff" suffix if showMicroseconds is set. Fields are taken from tp in
// the process local time zone.
func (tp TimePoint) FormattedString(showMicroseconds bool) string {
	return Formatter{ShowMicroseconds: showMicroseconds}.Format(tp)
}

// Formatter renders TimePoints in calendar form.
type Formatter struct {
	// Location is the time zone used to break the timestamp into calendar
	// fields. If nil, time.Local is used.
	Location *time.Location
	// ShowMicroseconds appends the six digit microsecond fraction.
	ShowMicroseconds bool
	// Legacy takes the calendar fields from Clock at format time rather than
	// from the TimePoint being formatted. Only the microsecond fraction comes
	// from the TimePoint. This matches the output of older producers that
	// had this bug and should not be used for anything else.
	Legacy bool
	// Clock is read when Legacy is set. If nil, SystemClock is used.
	Clock Clock
}

// Format renders tp.
func (f Formatter) Format(tp TimePoint) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}

	var t time.Time
	var microseconds int64
	if f.Legacy {
		clock := f.Clock
		if clock == nil {
			clock = SystemClock{}
		}
		t = clock.Now().In(loc)
		microseconds = tp.microsecondsSinceEpoch % MicrosecondsPerSecond
	} else {
		t = tp.Time().In(loc)
		microseconds = int64(t.Nanosecond() / 1000)
	}

	if f.ShowMicroseconds {
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%06d",
			t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), microseconds)
	}

	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}
