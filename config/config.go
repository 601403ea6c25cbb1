// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package config

import (
	"fmt"
	"io"
	"time"

	"github.com/noisysockets/timepoint"
	configtypes "github.com/noisysockets/timepoint/config/types"
	latestconfig "github.com/noisysockets/timepoint/config/v1alpha1"
	"gopkg.in/yaml.v3"
)

// FromYAML reads the given reader and returns a validated config object.
func FromYAML(r io.Reader) (*latestconfig.Config, error) {
	confBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from reader: %w", err)
	}

	var typeMeta configtypes.TypeMeta
	if err := yaml.Unmarshal(confBytes, &typeMeta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal type meta from config file: %w", err)
	}

	var versionedConf configtypes.Config
	switch typeMeta.APIVersion {
	case latestconfig.APIVersion:
		versionedConf, err = latestconfig.GetConfigByKind(typeMeta.Kind)
	default:
		return nil, fmt.Errorf("unsupported api version: %s", typeMeta.APIVersion)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config by kind %q: %w", typeMeta.Kind, err)
	}

	if err := yaml.Unmarshal(confBytes, versionedConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from config file: %w", err)
	}

	conf, ok := versionedConf.(*latestconfig.Config)
	if !ok {
		return nil, fmt.Errorf("unsupported config version: %s", versionedConf.GetAPIVersion())
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return conf, nil
}

// ToYAML writes the given config object to the given writer.
func ToYAML(w io.Writer, conf *latestconfig.Config) error {
	conf.PopulateTypeMeta()

	if err := yaml.NewEncoder(w).Encode(conf); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return nil
}

// Default returns a config with every optional field filled in.
func Default() *latestconfig.Config {
	showMicroseconds := DefaultShowMicroseconds

	conf := &latestconfig.Config{
		Location:         DefaultLocation,
		ShowMicroseconds: &showMicroseconds,
		Resolution: &latestconfig.ResolutionConfig{
			Samples: DefaultResolutionSamples,
			Workers: DefaultResolutionWorkers,
		},
	}
	conf.PopulateTypeMeta()

	return conf
}

// NewFormatter builds a calendar formatter from the config. The clock is
// only consulted when the legacy calendar mode is enabled.
func NewFormatter(conf *latestconfig.Config, clock timepoint.Clock) (*timepoint.Formatter, error) {
	locName := conf.Location
	if locName == "" {
		locName = DefaultLocation
	}

	loc, err := time.LoadLocation(locName)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", locName, err)
	}

	showMicroseconds := DefaultShowMicroseconds
	if conf.ShowMicroseconds != nil {
		showMicroseconds = *conf.ShowMicroseconds
	}

	return &timepoint.Formatter{
		Location:         loc,
		ShowMicroseconds: showMicroseconds,
		Legacy:           conf.LegacyCalendar,
		Clock:            clock,
	}, nil
}

// ResolutionSettings returns the probe sample and worker counts, falling
// back to the defaults for anything left unset.
func ResolutionSettings(conf *latestconfig.Config) (samples, workers int) {
	samples, workers = DefaultResolutionSamples, DefaultResolutionWorkers
	if conf.Resolution != nil {
		if conf.Resolution.Samples > 0 {
			samples = conf.Resolution.Samples
		}
		if conf.Resolution.Workers > 0 {
			workers = conf.Resolution.Workers
		}
	}
	return samples, workers
}
