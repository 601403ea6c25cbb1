// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package v1alpha1

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	configtypes "github.com/noisysockets/timepoint/config/types"
)

const APIVersion = "timepoint.noisysockets.github.com/v1alpha1"

// Config controls how timestamps are displayed and how the host clock is probed.
type Config struct {
	configtypes.TypeMeta `yaml:",inline"`
	// Location is the IANA time zone used for calendar formatting, eg. "Europe/Dublin".
	// "Local" and "UTC" are also accepted. If not specified, the process local
	// time zone will be used.
	Location string `yaml:"location,omitempty"`
	// ShowMicroseconds appends the six digit microsecond fraction to calendar
	// timestamps. If not specified, microseconds are shown.
	ShowMicroseconds *bool `yaml:"showMicroseconds,omitempty"`
	// LegacyCalendar takes the calendar fields from the live clock at format
	// time, with only the microsecond fraction taken from the timestamp. This
	// is only useful for comparing against output from older producers.
	LegacyCalendar bool `yaml:"legacyCalendar,omitempty"`
	// Resolution is the configuration for the clock resolution probe.
	Resolution *ResolutionConfig `yaml:"resolution,omitempty"`
}

// ResolutionConfig is the configuration for the clock resolution probe.
type ResolutionConfig struct {
	// Samples is the number of clock reads per worker.
	// If not specified, a default value of 10000 will be used.
	Samples int `yaml:"samples,omitempty"`
	// Workers is the number of goroutines reading the clock concurrently.
	// If not specified, a default value of 4 will be used.
	Workers int `yaml:"workers,omitempty"`
}

func (c *Config) GetAPIVersion() string {
	return APIVersion
}

func (c *Config) GetKind() string {
	return "Config"
}

func (c *Config) PopulateTypeMeta() {
	c.TypeMeta = configtypes.TypeMeta{
		APIVersion: APIVersion,
		Kind:       "Config",
	}
}

// Validate checks the config for errors, reporting all of them at once.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.Location != "" {
		if _, err := time.LoadLocation(c.Location); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("invalid location %q: %w", c.Location, err))
		}
	}

	if c.Resolution != nil {
		if c.Resolution.Samples < 0 {
			errs = multierror.Append(errs, fmt.Errorf("resolution samples must not be negative: %d", c.Resolution.Samples))
		}
		if c.Resolution.Workers < 0 {
			errs = multierror.Append(errs, fmt.Errorf("resolution workers must not be negative: %d", c.Resolution.Workers))
		}
	}

	return errs.ErrorOrNil()
}

func GetConfigByKind(kind string) (configtypes.Config, error) {
	switch kind {
	case "Config":
		return &Config{}, nil
	default:
		return nil, fmt.Errorf("unsupported kind: %s", kind)
	}
}
