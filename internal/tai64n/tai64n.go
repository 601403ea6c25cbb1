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

// Package tai64n encodes timestamps in the TAI64N external format: an eight
// byte TAI64 label followed by a four byte nanosecond count, both big-endian.
package tai64n

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/noisysockets/timepoint"
)

const (
	TimestampSize = 12
	base          = uint64(0x400000000000000a)
	whitenerMask  = uint32(0x1000000 - 1)

	// Bounds of a TimePoint as floored seconds plus a non-negative fraction.
	minSeconds      = math.MinInt64/timepoint.MicrosecondsPerSecond - 1
	minMicroseconds = timepoint.MicrosecondsPerSecond + math.MinInt64%timepoint.MicrosecondsPerSecond
	maxSeconds      = math.MaxInt64 / timepoint.MicrosecondsPerSecond
	maxMicroseconds = math.MaxInt64 % timepoint.MicrosecondsPerSecond
)

type Timestamp [TimestampSize]byte

// Stamp encodes tp at full (microsecond) precision.
func Stamp(tp timepoint.TimePoint) Timestamp {
	t := tp.Time()

	var tai64n Timestamp
	binary.BigEndian.PutUint64(tai64n[:], base+uint64(t.Unix()))
	binary.BigEndian.PutUint32(tai64n[8:], uint32(t.Nanosecond()))
	return tai64n
}

// StampWhitened encodes tp with the low 24 bits of the nanosecond field
// cleared, leaving a granularity of roughly 16ms.
func StampWhitened(tp timepoint.TimePoint) Timestamp {
	tai64n := Stamp(tp)
	nano := binary.BigEndian.Uint32(tai64n[8:]) &^ whitenerMask
	binary.BigEndian.PutUint32(tai64n[8:], nano)
	return tai64n
}

func Now() Timestamp {
	return Stamp(timepoint.Now())
}

func (t1 Timestamp) After(t2 Timestamp) bool {
	return bytes.Compare(t1[:], t2[:]) > 0
}

// TimePoint decodes the timestamp. Nanoseconds below a microsecond are
// dropped. Labels from Stamp or Parse always fit; the result for any other
// label outside the TimePoint range is undefined.
func (t Timestamp) TimePoint() timepoint.TimePoint {
	secs := int64(binary.BigEndian.Uint64(t[:8]) - base)
	nano := int64(binary.BigEndian.Uint32(t[8:12]))
	return timepoint.New(secs*timepoint.MicrosecondsPerSecond + nano/1000)
}

// String returns the hex form used by daemontools, eg. "@400000005b316be4075bca00".
func (t Timestamp) String() string {
	return "@" + hex.EncodeToString(t[:])
}

// Parse decodes the hex form produced by String. The leading "@" is optional.
func Parse(s string) (Timestamp, error) {
	var tai64n Timestamp

	raw, err := hex.DecodeString(strings.TrimPrefix(s, "@"))
	if err != nil {
		return tai64n, fmt.Errorf("failed to decode tai64n label: %w", err)
	}
	if len(raw) != TimestampSize {
		return tai64n, fmt.Errorf("tai64n label must be %d bytes, got %d", TimestampSize, len(raw))
	}
	nano := binary.BigEndian.Uint32(raw[8:])
	if nano > 999999999 {
		return tai64n, fmt.Errorf("tai64n nanoseconds out of range: %d", nano)
	}

	// The label must fit in a TimePoint.
	secs := int64(binary.BigEndian.Uint64(raw[:8]) - base)
	micros := int64(nano / 1000)
	if secs < minSeconds || secs > maxSeconds ||
		(secs == minSeconds && micros < minMicroseconds) ||
		(secs == maxSeconds && micros > maxMicroseconds) {
		return tai64n, fmt.Errorf("tai64n seconds out of range: %d", secs)
	}

	copy(tai64n[:], raw)
	return tai64n, nil
}
