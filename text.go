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
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidTimePoint = errors.New("invalid timepoint")

// Parse parses the compact form produced by TimePoint.String. It also
// accepts plain decimal seconds such as "1.5" or "-42".
//
// A signed fraction such as "0.-00001" is only accepted exactly as String
// renders it: a negative remainder in a six character field, with seconds
// of zero or below.
func Parse(s string) (TimePoint, error) {
	secPart, fracPart, hasFrac := strings.Cut(s, ".")

	negative := strings.HasPrefix(secPart, "-")
	secDigits := strings.TrimPrefix(secPart, "-")
	if secDigits == "" || !isDigits(secDigits) {
		return TimePoint{}, fmt.Errorf("%w: bad seconds in %q", ErrInvalidTimePoint, s)
	}

	seconds, err := strconv.ParseUint(secDigits, 10, 64)
	if err != nil {
		return TimePoint{}, fmt.Errorf("%w: out of range: %q", ErrInvalidTimePoint, s)
	}

	var microseconds uint64
	if hasFrac {
		if strings.HasPrefix(fracPart, "-") {
			remainder, err := strconv.ParseUint(fracPart[1:], 10, 64)
			if err != nil || !isDigits(fracPart[1:]) || remainder == 0 || remainder >= MicrosecondsPerSecond ||
				fmt.Sprintf("%06d", -int64(remainder)) != fracPart {
				return TimePoint{}, fmt.Errorf("%w: bad fraction in %q", ErrInvalidTimePoint, s)
			}
			if secPart != "0" && !(negative && seconds > 0) {
				return TimePoint{}, fmt.Errorf("%w: signed fraction with non-negative seconds in %q", ErrInvalidTimePoint, s)
			}
			negative = true
			microseconds = remainder
		} else {
			if fracPart == "" || len(fracPart) > 6 || !isDigits(fracPart) {
				return TimePoint{}, fmt.Errorf("%w: bad fraction in %q", ErrInvalidTimePoint, s)
			}
			microseconds, _ = strconv.ParseUint(fracPart+strings.Repeat("0", 6-len(fracPart)), 10, 64)
		}
	}

	// The negative range reaches one further than the positive one.
	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}
	if seconds > (limit-microseconds)/MicrosecondsPerSecond {
		return TimePoint{}, fmt.Errorf("%w: out of range: %q", ErrInvalidTimePoint, s)
	}

	magnitude := seconds*MicrosecondsPerSecond + microseconds
	if negative {
		return New(-int64(magnitude)), nil
	}

	return New(int64(magnitude)), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) TimePoint {
	tp, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return tp
}

func (tp TimePoint) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

func (tp *TimePoint) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*tp = parsed
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
