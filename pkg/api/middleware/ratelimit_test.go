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

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter_BasicFunctionality(t *testing.T) {
	t.Parallel()
	limiter := NewIPRateLimiter(nil)

	rl := limiter.GetLimiter("192.168.1.100")
	assert.NotNil(t, rl)

	for i := range BurstSize {
		assert.True(t, rl.Allow(), "should allow request %d within burst", i+1)
	}
	assert.False(t, rl.Allow(), "should block request beyond burst size")
}

func TestIPRateLimiter_DifferentIPs(t *testing.T) {
	t.Parallel()
	limiter := NewIPRateLimiter(nil)

	rl1 := limiter.GetLimiter("192.168.1.100")
	rl2 := limiter.GetLimiter("192.168.1.101")
	assert.NotSame(t, rl1, rl2)

	for range BurstSize {
		rl1.Allow()
	}
	assert.False(t, rl1.Allow())
	assert.True(t, rl2.Allow())
}

func TestIPRateLimiter_SameIPReuse(t *testing.T) {
	t.Parallel()
	limiter := NewIPRateLimiter(nil)

	assert.Same(t, limiter.GetLimiter("10.0.0.1"), limiter.GetLimiter("10.0.0.1"))
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	limiter := NewIPRateLimiter(clock)

	limiter.GetLimiter("10.0.0.1")
	clock.Advance(6 * time.Minute)
	limiter.GetLimiter("10.0.0.2")
	clock.Advance(5 * time.Minute)

	limiter.Cleanup()
	assert.Equal(t, 1, limiter.Len())

	clock.Advance(11 * time.Minute)
	limiter.Cleanup()
	assert.Equal(t, 0, limiter.Len())
}

func TestHTTPRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	limiter := NewIPRateLimiter(nil)
	handler := HTTPRateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make(map[int]int)
	for range BurstSize + 5 {
		req := httptest.NewRequest(http.MethodGet, "/api/status", http.NoBody)
		req.RemoteAddr = "127.0.0.1:54321"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes[rec.Code]++
	}

	assert.Equal(t, BurstSize, codes[http.StatusOK])
	assert.Equal(t, 5, codes[http.StatusTooManyRequests])
}

func TestParseRemoteIP(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "127.0.0.1", ParseRemoteIP("127.0.0.1:7498").String())
	assert.Equal(t, "::1", ParseRemoteIP("[::1]:7498").String())
	assert.Equal(t, "10.1.2.3", ParseRemoteIP("10.1.2.3").String())
	assert.Nil(t, ParseRemoteIP("not-an-ip"))
}
