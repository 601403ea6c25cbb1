// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package config

const (
	// DefaultLocation is the time zone used for calendar formatting (if not specified).
	DefaultLocation = "Local"
	// Microseconds are shown unless turned off.
	DefaultShowMicroseconds = true
	// DefaultResolutionSamples is the number of clock reads per probe worker.
	DefaultResolutionSamples = 10000
	// DefaultResolutionWorkers is the number of concurrent probe workers.
	DefaultResolutionWorkers = 4
)
