// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-deflateviz.
//
// go-deflateviz is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-deflateviz is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-deflateviz.  If not, see <https://www.gnu.org/licenses/>.

// Package server exposes compression and decode tracing over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/opencontainers/go-digest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	deflateviz "github.com/ZaparooProject/go-deflateviz"
	"github.com/ZaparooProject/go-deflateviz/compressor"
	"github.com/ZaparooProject/go-deflateviz/internal/binary"
)

// DigestHeader carries the sha256 digest of the decoded input.
const DigestHeader = "X-Input-Digest"

// Config holds server settings.
type Config struct {
	Logger      logrus.FieldLogger
	Compressor  string // default compressor name
	MaxBodySize int64
	CacheSize   int
	Iterations  int // default effort hint
}

type cacheKey struct {
	digest digest.Digest
	raw    bool
}

// Server routes API requests. It is safe for concurrent use.
type Server struct {
	cfg      Config
	log      logrus.FieldLogger
	router   *mux.Router
	cache    *lru.Cache[cacheKey, *deflateviz.Result]
	registry *prometheus.Registry
	metrics  *metrics
}

// New builds a Server with its own metrics registry.
func New(cfg Config) (*Server, error) {
	if cfg.MaxBodySize <= 0 {
		return nil, errors.New("max body size must be positive")
	}
	if _, err := compressor.Get(cfg.Compressor); err != nil {
		return nil, err
	}

	cache, err := lru.New[cacheKey, *deflateviz.Result](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		cfg:      cfg,
		log:      log,
		router:   mux.NewRouter(),
		cache:    cache,
		registry: registry,
		metrics:  newMetrics(registry),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Use(s.instrument)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/compress", s.handleCompress).Methods(http.MethodPost)
	api.HandleFunc("/decode", s.handleDecode).Methods(http.MethodPost)
	api.HandleFunc("/compressors", s.handleCompressors).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		elapsed := sinceInMilliseconds(start)
		s.metrics.requests.WithLabelValues(route, fmt.Sprint(rec.status)).Inc()
		s.metrics.latency.WithLabelValues(route).Observe(elapsed)

		s.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"route":       route,
			"status":      rec.status,
			"duration_ms": elapsed,
		}).Debug("request served")
	})
}

// decode returns the cached result for data, decoding on a miss.
func (s *Server) decode(data []byte, raw bool) (*deflateviz.Result, digest.Digest, error) {
	key := cacheKey{digest: digest.FromBytes(data), raw: raw}
	if res, ok := s.cache.Get(key); ok {
		s.metrics.cacheLookups.WithLabelValues("hit").Inc()
		return res, key.digest, nil
	}
	s.metrics.cacheLookups.WithLabelValues("miss").Inc()

	res, err := deflateviz.DecodeWithOptions(data, deflateviz.Options{
		Raw:    raw,
		Logger: s.log.WithField("digest", key.digest.Encoded()[:12]),
	})
	if err != nil {
		return nil, key.digest, err
	}

	s.metrics.decodedBytes.Add(float64(len(res.Output)))
	for _, tok := range res.Tokens {
		s.metrics.tokens.WithLabelValues(tok.Kind().String()).Inc()
	}
	s.cache.Add(key, res)
	return res, key.digest, nil
}

type decodeRequest struct {
	Hex    string `json:"hex,omitempty"`
	Base64 string `json:"base64,omitempty"`
	Raw    bool   `json:"raw"`
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	var (
		data []byte
		err  error
	)
	switch {
	case req.Hex != "" && req.Base64 != "":
		s.writeError(w, http.StatusBadRequest, errors.New("give hex or base64, not both"))
		return
	case req.Hex != "":
		data, err = binary.ParseHex(req.Hex)
	case req.Base64 != "":
		data, err = binary.ParseBase64(req.Base64)
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("hex or base64 is required"))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("parse input: %w", err))
		return
	}

	res, dgst, err := s.decode(data, req.Raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set(DigestHeader, dgst.String())
	s.writeJSON(w, http.StatusOK, res)
}

type compressRequest struct {
	Source     string `json:"source"`
	Compressor string `json:"compressor,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
	Raw        bool   `json:"raw"`
}

type compressResponse struct {
	Result           *deflateviz.Result `json:"result"`
	CompressedHex    string             `json:"compressed_hex"`
	CompressedBase64 string             `json:"compressed_base64"`
	Compressor       string             `json:"compressor"`
	Size             int                `json:"size"`
}

func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	var req compressRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	name := req.Compressor
	if name == "" {
		name = s.cfg.Compressor
	}
	iterations := req.Iterations
	if iterations == 0 {
		iterations = s.cfg.Iterations
	}

	compressed, err := deflateviz.Compress(r.Context(), []byte(req.Source), deflateviz.CompressOptions{
		Raw:        req.Raw,
		Iterations: iterations,
		Compressor: name,
	})
	switch {
	case errors.Is(err, compressor.ErrUnknownCompressor):
		s.writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	res, dgst, err := s.decode(compressed, req.Raw)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("decode compressed output: %w", err))
		return
	}

	if name == "" {
		name = compressor.DefaultName
	}
	w.Header().Set(DigestHeader, dgst.String())
	s.writeJSON(w, http.StatusOK, compressResponse{
		Result:           res,
		CompressedHex:    binary.FormatHex(compressed),
		CompressedBase64: binary.FormatBase64(compressed),
		Compressor:       name,
		Size:             len(compressed),
	})
}

func (s *Server) handleCompressors(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"compressors": compressor.Names(),
		"default":     compressor.DefaultName,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readJSON decodes the request body into v, writing an error response on failure.
func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.WithError(err).WithField("status", status).Info("request failed")
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
