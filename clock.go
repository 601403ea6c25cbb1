// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package timepoint

import "time"

// Clock is a source of wall clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host's realtime clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return systemNow()
}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
