// LocationChanger Config
// Copyright (c) 2026 The LocationChanger Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LocationChanger Config.
//
// LocationChanger Config is free software: you can redistribute it and/or
// modify it under the terms of the GNU General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LocationChanger Config is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LocationChanger Config.  If not, see <http://www.gnu.org/licenses/>.

package mappings

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := ExportCSV(&buf, []Mapping{New("Home", "MyWifi"), New("Office", "Guest, Network")})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "location,ssid\n"))
	assert.Contains(t, out, "Home,MyWifi\n")
	assert.Contains(t, out, `Office,"Guest, Network"`)
}

func TestExportCSV_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, nil))
	assert.Equal(t, "location,ssid\n", buf.String())
}

func TestImportCSV(t *testing.T) {
	t.Parallel()

	in := "location,ssid\nHome,MyWifi\n,NoLocation\nOffice,\"Guest, Network\"\nWork,\n"

	ms, err := ImportCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []Pair{
		{Location: "Home", SSID: "MyWifi"},
		{Location: "Office", SSID: "Guest, Network"},
	}, Pairs(ms))
	for _, m := range ms {
		assert.NotEmpty(t, m.ID)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	ms := []Mapping{New("Home", "My Wifi"), New("Cafe", `Quote "d"`)}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, ms))

	got, err := ImportCSV(&buf)
	require.NoError(t, err)
	assert.True(t, EqualPairs(ms, got))
}
