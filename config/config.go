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

// Package config loads deflateviz settings from a TOML file, a .env file and
// the environment, applying defaults and validating the result.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ZaparooProject/go-deflateviz/compressor"
	"github.com/ZaparooProject/go-deflateviz/input"
)

const (
	EnvVarPrefix      = "DEFLATEVIZ"
	DefaultConfigFile = "deflateviz.toml"

	DefaultMaxInputSize = input.DefaultMaxSize
	DefaultListen       = "127.0.0.1:8080"
	DefaultMaxBodySize  = 8 << 20
	DefaultCacheSize    = 128
	DefaultReadTimeout  = duration(10 * time.Second)
	DefaultWriteTimeout = duration(60 * time.Second)
	DefaultLogLevel     = "info"
	DefaultLogFormat    = LogFormatText

	MinIterations   = 0
	MaxIterations   = 1000
	MinCacheSize    = 1
	MaxCacheSize    = 100_000
	MaxInputSizeCap = 1 << 30

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// VERSION gets set during build
var VERSION = "0.0.0"

var validLogFormats = map[string]struct{}{
	LogFormatText: {},
	LogFormatJSON: {},
}

type TOML struct {
	Decode   *TOMLDecode   `toml:"decode"`
	Compress *TOMLCompress `toml:"compress"`
	Server   *TOMLServer   `toml:"server"`
	Log      *TOMLLog      `toml:"log"`
}

type TOMLDecode struct {
	Raw          bool  `toml:"raw"`
	MaxInputSize int64 `toml:"max_input_size"`
}

type TOMLCompress struct {
	Compressor string `toml:"compressor"`
	Iterations int    `toml:"iterations"`
}

type TOMLServer struct {
	Listen       string   `toml:"listen"`
	MaxBodySize  int64    `toml:"max_body_size"`
	CacheSize    int      `toml:"cache_size"`
	ReadTimeout  duration `toml:"read_timeout"`
	WriteTimeout duration `toml:"write_timeout"`
}

type TOMLLog struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LoadEnv loads a .env file from the working directory when one exists.
func LoadEnv() {
	_ = godotenv.Load(".env")
}

// Default returns a configuration with every default applied.
func Default() *TOML {
	t := &TOML{}
	// setDefaults only fails on nil
	_ = setDefaults(t)
	return t
}

// Load reads file, applies defaults and validates. A missing file is not an
// error when it is the default path.
func Load(file string) (*TOML, error) {
	data, err := os.ReadFile(file) //nolint:gosec // config path comes from the operator
	if err != nil {
		if os.IsNotExist(err) && file == DefaultConfigFile {
			return Default(), nil
		}
		return nil, errors.Wrap(err, "error reading config file")
	}
	return Parse(data)
}

// Parse decodes TOML data, applies defaults and validates.
func Parse(data []byte) (*TOML, error) {
	t := &TOML{}

	if err := toml.Unmarshal(data, t); err != nil {
		return nil, errors.Wrap(err, "error parsing TOML config")
	}

	if err := setDefaults(t); err != nil {
		return nil, errors.Wrap(err, "error setting TOML defaults")
	}

	if err := Validate(t); err != nil {
		return nil, errors.Wrap(err, "error validating TOML config")
	}

	return t, nil
}

// Encode writes t as TOML.
func Encode(t *TOML) ([]byte, error) {
	data, err := toml.Marshal(t)
	if err != nil {
		return nil, errors.Wrap(err, "error encoding TOML config")
	}
	return data, nil
}

func setDefaults(t *TOML) error {
	if t == nil {
		return errors.New("toml config cannot be nil")
	}

	if t.Decode == nil {
		t.Decode = &TOMLDecode{}
	}

	if t.Compress == nil {
		t.Compress = &TOMLCompress{}
	}

	if t.Server == nil {
		t.Server = &TOMLServer{}
	}

	if t.Log == nil {
		t.Log = &TOMLLog{}
	}

	// [decode]
	if t.Decode.MaxInputSize == 0 {
		t.Decode.MaxInputSize = DefaultMaxInputSize
	}

	// [compress]
	if t.Compress.Compressor == "" {
		t.Compress.Compressor = compressor.DefaultName
	}

	if t.Compress.Iterations == 0 {
		t.Compress.Iterations = compressor.DefaultIterations
	}

	// [server]
	if t.Server.Listen == "" {
		t.Server.Listen = DefaultListen
	}

	if t.Server.MaxBodySize == 0 {
		t.Server.MaxBodySize = DefaultMaxBodySize
	}

	if t.Server.CacheSize == 0 {
		t.Server.CacheSize = DefaultCacheSize
	}

	if t.Server.ReadTimeout == 0 {
		t.Server.ReadTimeout = DefaultReadTimeout
	}

	if t.Server.WriteTimeout == 0 {
		t.Server.WriteTimeout = DefaultWriteTimeout
	}

	// [log]
	if t.Log.Level == "" {
		t.Log.Level = DefaultLogLevel
	}

	if t.Log.Format == "" {
		t.Log.Format = DefaultLogFormat
	}

	return nil
}

// Validate checks every section of t.
func Validate(t *TOML) error {
	if t == nil {
		return errors.New("toml config cannot be nil")
	}

	if err := validateDecode(t.Decode); err != nil {
		return errors.Wrap(err, "decode error(s)")
	}

	if err := validateCompress(t.Compress); err != nil {
		return errors.Wrap(err, "compress error(s)")
	}

	if err := validateServer(t.Server); err != nil {
		return errors.Wrap(err, "server error(s)")
	}

	if err := validateLog(t.Log); err != nil {
		return errors.Wrap(err, "log error(s)")
	}

	return nil
}

func validateDecode(d *TOMLDecode) error {
	if d == nil {
		return errors.New("decode cannot be empty")
	}

	if d.MaxInputSize < 1 || d.MaxInputSize > MaxInputSizeCap {
		return errors.Errorf("decode.max_input_size must be between 1 and %d", MaxInputSizeCap)
	}

	return nil
}

func validateCompress(c *TOMLCompress) error {
	if c == nil {
		return errors.New("compress cannot be empty")
	}

	if _, err := compressor.Get(c.Compressor); err != nil {
		return errors.Wrapf(err, "compress.compressor %s is invalid", c.Compressor)
	}

	if c.Iterations < MinIterations || c.Iterations > MaxIterations {
		return errors.Errorf("compress.iterations must be between %d and %d", MinIterations, MaxIterations)
	}

	return nil
}

func validateServer(s *TOMLServer) error {
	if s == nil {
		return errors.New("server cannot be empty")
	}

	if s.Listen == "" {
		return errors.New("server.listen cannot be empty")
	}

	if s.MaxBodySize < 1 || s.MaxBodySize > MaxInputSizeCap {
		return errors.Errorf("server.max_body_size must be between 1 and %d", MaxInputSizeCap)
	}

	if s.CacheSize < MinCacheSize || s.CacheSize > MaxCacheSize {
		return errors.Errorf("server.cache_size must be between %d and %d", MinCacheSize, MaxCacheSize)
	}

	if s.ReadTimeout < 0 || s.WriteTimeout < 0 {
		return errors.New("server timeouts cannot be negative")
	}

	return nil
}

func validateLog(l *TOMLLog) error {
	if l == nil {
		return errors.New("log cannot be empty")
	}

	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return errors.Wrapf(err, "log.level %s is invalid", l.Level)
	}

	if _, ok := validLogFormats[l.Format]; !ok {
		return errors.Errorf("log.format %s is invalid", l.Format)
	}

	return nil
}

// Configure applies the [log] section to logger. debug forces DebugLevel.
func (l *TOMLLog) Configure(logger *logrus.Logger, debug bool) error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return errors.Wrap(err, "error parsing log level")
	}
	if debug {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if l.Format == LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// Duration returns the value as a time.Duration.
func (d duration) Duration() time.Duration {
	return time.Duration(d)
}

type duration time.Duration

func (d duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(dur)
	return nil
}
