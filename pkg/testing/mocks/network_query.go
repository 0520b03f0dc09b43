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

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNetworkQuery is a testify mock for service.NetworkQuery.
type MockNetworkQuery struct {
	mock.Mock
}

func (m *MockNetworkQuery) CurrentSSID(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

func (m *MockNetworkQuery) AvailableLocations(ctx context.Context) []string {
	args := m.Called(ctx)
	locations, _ := args.Get(0).([]string)
	return locations
}

// NewMockNetworkQuery returns a mock answering every call with the given
// values.
func NewMockNetworkQuery(ssid string, locations []string) *MockNetworkQuery {
	m := &MockNetworkQuery{}
	m.On("CurrentSSID", mock.Anything).Return(ssid).Maybe()
	m.On("AvailableLocations", mock.Anything).Return(locations).Maybe()
	return m
}
