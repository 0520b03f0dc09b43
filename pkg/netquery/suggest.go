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


package netquery

import (
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"
)

// minSuggestSimilarity is the Jaro-Winkler score a location name needs to
// be offered as a correction.
const minSuggestSimilarity float32 = 0.8

// ClosestLocation returns the available location most similar to name. It
// reports false when name is itself available or nothing comes close.
// Location names are matched case-sensitively by the switcher, so a
// difference only in case is still suggested.
func ClosestLocation(name string, available []string) (string, bool) {
	if name == "" || slices.Contains(available, name) {
		return "", false
	}

	query := strings.ToLower(name)
	best := ""
	var bestScore float32
	for _, candidate := range available {
		score := edlib.JaroWinklerSimilarity(query, strings.ToLower(candidate))
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore < minSuggestSimilarity {
		return "", false
	}
	return best, true
}
