// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 The Noisy Sockets Authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package config_test

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/hashicorp/go-multierror"
	"github.com/noisysockets/timepoint"
	"github.com/noisysockets/timepoint/config"
	"github.com/noisysockets/timepoint/config/v1alpha1"
	"github.com/stretchr/testify/require"
)

func TestFromYAML(t *testing.T) {
	configFile, err := os.Open("testdata/config.yaml")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, configFile.Close())
	})

	conf, err := config.FromYAML(configFile)
	require.NoError(t, err)

	require.Equal(t, "Config", conf.GetKind())
	require.Equal(t, v1alpha1.APIVersion, conf.GetAPIVersion())

	require.Equal(t, "Europe/Dublin", conf.Location)
	require.NotNil(t, conf.ShowMicroseconds)
	require.False(t, *conf.ShowMicroseconds)
	require.True(t, conf.LegacyCalendar)

	samples, workers := config.ResolutionSettings(conf)
	require.Equal(t, 500, samples)
	require.Equal(t, 2, workers)
}

func TestToYAML(t *testing.T) {
	configFile, err := os.Open("testdata/config.yaml")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, configFile.Close())
	})

	conf, err := config.FromYAML(configFile)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = config.ToYAML(&buf, conf)
	require.NoError(t, err)

	conf2, err := config.FromYAML(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.Equal(t, conf, conf2)
}

func TestInvalid(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		configFile, err := os.Open("testdata/invalid.yaml")
		require.NoError(t, err)
		t.Cleanup(func() {
			require.NoError(t, configFile.Close())
		})

		_, err = config.FromYAML(configFile)
		require.Error(t, err)

		// Every problem is reported, not just the first one.
		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		require.Len(t, merr.Errors, 3)
	})

	t.Run("Unknown API Version", func(t *testing.T) {
		_, err := config.FromYAML(strings.NewReader("apiVersion: example.com/v1\nkind: Config\n"))
		require.ErrorContains(t, err, "unsupported api version")
	})

	t.Run("Unknown Kind", func(t *testing.T) {
		_, err := config.FromYAML(strings.NewReader("apiVersion: " + v1alpha1.APIVersion + "\nkind: Peer\n"))
		require.ErrorContains(t, err, "unsupported kind")
	})
}

func TestDefaults(t *testing.T) {
	configFile, err := os.Open("testdata/minimal.yaml")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, configFile.Close())
	})

	conf, err := config.FromYAML(configFile)
	require.NoError(t, err)

	samples, workers := config.ResolutionSettings(conf)
	require.Equal(t, config.DefaultResolutionSamples, samples)
	require.Equal(t, config.DefaultResolutionWorkers, workers)

	f, err := config.NewFormatter(conf, nil)
	require.NoError(t, err)
	require.Equal(t, time.Local, f.Location)
	require.True(t, f.ShowMicroseconds)
	require.False(t, f.Legacy)

	def := config.Default()
	require.NoError(t, def.Validate())
	require.Equal(t, v1alpha1.APIVersion, def.APIVersion)
	require.True(t, *def.ShowMicroseconds)
}

func TestNewFormatter(t *testing.T) {
	configFile, err := os.Open("testdata/config.yaml")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, configFile.Close())
	})

	conf, err := config.FromYAML(configFile)
	require.NoError(t, err)

	// Legacy mode reads the calendar fields from the clock.
	clock := timepoint.FixedClock(time.Date(2024, time.July, 1, 9, 30, 0, 0, time.UTC))
	f, err := config.NewFormatter(conf, clock)
	require.NoError(t, err)

	// Dublin is on IST (UTC+1) in July.
	require.Equal(t, "2024-07-01 10:30:00", f.Format(timepoint.New(12_345_678)))

	conf.LegacyCalendar = false
	f, err = config.NewFormatter(conf, clock)
	require.NoError(t, err)
	require.Equal(t, "1970-01-01 01:00:12", f.Format(timepoint.New(12_345_678)))
}
