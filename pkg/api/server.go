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

// Package api serves the optional local HTTP API: REST endpoints over the
// sync engine plus a WebSocket that pushes change notifications.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/LocationChanger/locationchanger-config/pkg/api/middleware"
	"github.com/LocationChanger/locationchanger-config/pkg/api/models"
	"github.com/LocationChanger/locationchanger-config/pkg/api/validation"
	"github.com/LocationChanger/locationchanger-config/pkg/config"
	"github.com/LocationChanger/locationchanger-config/pkg/service"
	"github.com/LocationChanger/locationchanger-config/pkg/service/state"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	engine  *service.Engine
	router  chi.Router
	session *melody.Melody
	limiter *middleware.IPRateLimiter
	origins []string
}

// NewServer builds the router. Browser origins other than localhost must be
// listed in allowedOrigins.
func NewServer(engine *service.Engine, allowedOrigins []string) *Server {
	s := &Server{
		engine:  engine,
		session: melody.New(),
		limiter: middleware.NewIPRateLimiter(nil),
		origins: slices.Clone(allowedOrigins),
	}
	s.session.Upgrader.CheckOrigin = s.checkOrigin
	s.session.HandleMessage(middleware.WebSocketRateLimitHandler(s.limiter, handleWSMessage))

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.NoCache)
	r.Use(middleware.HTTPRateLimitMiddleware(s.limiter))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: append([]string{"http://localhost:*", "http://127.0.0.1:*"}, s.origins...),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	r.Get("/api/ws", func(w http.ResponseWriter, r *http.Request) {
		if err := s.session.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.APIRequestTimeout))

		r.Get("/api/status", s.handleStatus)
		r.Get("/api/ssid", s.handleSSID)
		r.Get("/api/locations", s.handleLocations)
		r.Get("/api/mappings", s.handleMappings)
		r.Post("/api/mappings", s.handleAddMapping)
		r.Post("/api/mappings/reload", s.handleReloadMappings)
		r.Delete("/api/mappings/{id}", s.handleDeleteMapping)
		r.Get("/api/settings", s.handleSettings)
		r.Put("/api/settings", s.handleUpdateSettings)
		r.Post("/api/save", s.handleSave)
	})

	s.router = r
	return s
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.origins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || middleware.ParseRemoteIP(host).IsLoopback()
}

func handleWSMessage(session *melody.Session, msg []byte) {
	// heartbeat, the socket is otherwise push only
	if string(msg) == "ping" {
		if err := session.Write([]byte("pong")); err != nil {
			log.Error().Err(err).Msg("sending pong")
		}
		return
	}
	log.Debug().Int("size", len(msg)).Msg("ignoring websocket message")
}

// Broadcast pushes every notification to all WebSocket sessions until the
// channel closes or ctx is done.
func (s *Server) Broadcast(ctx context.Context, notifications <-chan models.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-notifications:
			if !ok {
				return
			}
			data, err := json.Marshal(notif)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification")
				continue
			}
			if err := s.session.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

func (s *Server) Close() error {
	if err := s.session.Close(); err != nil {
		return fmt.Errorf("failed to close websocket sessions: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("writing response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
}

func readBody(r *http.Request) (json.RawMessage, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return data, nil
}

// persistStatus maps engine errors onto HTTP status codes.
func persistStatus(err error) int {
	var perr *service.PersistError
	switch {
	case errors.Is(err, service.ErrInvalidMapping),
		errors.Is(err, service.ErrInvalidSettings),
		errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.As(err, &perr):
		return http.StatusInternalServerError
	default:
		var verr *validation.Error
		if errors.As(err, &verr) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Status(r.Context()))
}

func (s *Server) handleSSID(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.SSIDResponse{SSID: s.engine.CurrentSSID(r.Context())})
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.LocationsResponse{Locations: s.engine.AvailableLocations(r.Context())})
}

func (s *Server) handleMappings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.MappingsResponse{
		Mappings: state.MappingResponses(s.engine.Mappings()),
	})
}

func (s *Server) handleAddMapping(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var params models.AddMappingParams
	if err := validation.ValidateAndUnmarshal(body, &params); err != nil {
		writeError(w, persistStatus(err), err)
		return
	}

	m, err := s.engine.AddMapping(params.Location, params.SSID)
	if errors.Is(err, service.ErrInvalidMapping) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := models.AddMappingResponse{MappingResponse: state.MappingResponse(m)}
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, persistStatus(err), resp)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.engine.RemoveMapping(id); err != nil {
		writeError(w, persistStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReloadMappings(w http.ResponseWriter, _ *http.Request) {
	changed, err := s.engine.ReloadMappings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ReloadResponse{Changed: changed})
}

func settingsResponse(e *service.Engine) models.SettingsResponse {
	vals := e.Snapshot()
	return models.SettingsResponse{
		LogLevel:            vals.LogLevel,
		FallbackLocation:    vals.FallbackLocation,
		EnableNotifications: vals.EnableNotifications,
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, settingsResponse(s.engine))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var params models.UpdateSettingsParams
	if err := validation.ValidateAndUnmarshal(body, &params); err != nil {
		writeError(w, persistStatus(err), err)
		return
	}

	if err := s.engine.UpdateSettings(params); err != nil {
		writeError(w, persistStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse(s.engine))
}

func (s *Server) handleSave(w http.ResponseWriter, _ *http.Request) {
	if err := s.engine.Save(); err != nil {
		writeError(w, persistStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Serve runs the API on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener, notifications <-chan models.Notification) error {
	s.limiter.StartCleanup(ctx)
	go s.Broadcast(ctx, notifications)

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	log.Info().Str("addr", ln.Addr().String()).Msg("api listening")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// melody sessions are hijacked connections, close them first
	if err := s.Close(); err != nil {
		log.Warn().Err(err).Msg("closing websocket sessions")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	return nil
}

// Start binds the configured address and serves until ctx is done.
func Start(
	ctx context.Context,
	cfg *config.Instance,
	engine *service.Engine,
	notifications <-chan models.Notification,
) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", cfg.APIListen())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.APIListen(), err)
	}
	return NewServer(engine, cfg.AllowedOrigins()).Serve(ctx, ln, notifications)
}
