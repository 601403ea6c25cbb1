// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package timepoint_test

import (
	"fmt"
	"time"

	"github.com/noisysockets/timepoint"
)

func Example() {
	start := timepoint.FromUnixTime(1529965530)
	end := timepoint.AddTime(start, 1.5)

	fmt.Println(end)
	fmt.Println(timepoint.TimeDifference(start, end))

	f := timepoint.Formatter{Location: time.UTC, ShowMicroseconds: true}
	fmt.Println(f.Format(end))
	// Output:
	// 1529965531.500000
	// -1.5
	// 2018-06-25 22:25:31.500000
}

func ExampleTimePoint_Swap() {
	a, b := timepoint.New(100), timepoint.New(200)
	a.Swap(&b)

	fmt.Println(a.MicrosecondsSinceEpoch(), b.MicrosecondsSinceEpoch())
	// Output: 200 100
}
