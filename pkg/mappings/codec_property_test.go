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
	"testing"

	"pgregory.net/rapid"
)

func locationGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z][A-Za-z0-9_-]{0,15}`)
}

// SSIDs without quotes whose words are separated by single spaces survive
// the whitespace tokenisation unchanged.
func ssidGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9_.-]{1,10}( [A-Za-z0-9_.'-]{1,10}){0,3}`)
}

func mappingsGen() *rapid.Generator[[]Mapping] {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) Mapping {
		return New(locationGen().Draw(t, "location"), ssidGen().Draw(t, "ssid"))
	}), 0, 20)
}

// TestPropertyRoundTripPreservesPairs verifies Parse(Serialize(m)) keeps
// location/SSID values and their order.
func TestPropertyRoundTripPreservesPairs(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		ms := mappingsGen().Draw(t, "mappings")

		got := Parse(Serialize(ms))
		if !EqualPairs(ms, got) {
			t.Fatalf("round trip mismatch:\nwant %v\ngot  %v", Pairs(ms), Pairs(got))
		}
	})
}

// TestPropertyParseNeverPanics verifies arbitrary text parses without
// panicking and never yields an empty location.
func TestPropertyParseNeverPanics(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")

		for _, m := range Parse(text) {
			if m.Location == "" {
				t.Fatalf("parsed empty location from %q", text)
			}
			if m.ID == "" {
				t.Fatalf("parsed mapping without id from %q", text)
			}
		}
	})
}

// TestPropertySerializeIsStable verifies serializing a parsed file again
// yields identical text.
func TestPropertySerializeIsStable(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		ms := mappingsGen().Draw(t, "mappings")

		first := Serialize(ms)
		second := Serialize(Parse(first))
		if first != second {
			t.Fatalf("serialize not stable:\n%q\n%q", first, second)
		}
	})
}

// TestPropertyNormalizedSSIDSurvivesRoundTrip verifies any non-empty
// normalized SSID comes back from the flat file unchanged.
func TestPropertyNormalizedSSIDSurvivesRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		ssid := NormalizeSSID(rapid.StringMatching(`[ \t"A-Za-z0-9']{0,20}`).Draw(t, "ssid"))
		if NormalizeSSID(ssid) != ssid {
			t.Fatalf("normalize not idempotent for %q", ssid)
		}
		if ssid == "" {
			return
		}

		ms := []Mapping{New("Home", ssid)}
		got := Parse(Serialize(ms))
		if !EqualPairs(ms, got) {
			t.Fatalf("round trip mismatch:\nwant %v\ngot  %v", Pairs(ms), Pairs(got))
		}
	})
}
