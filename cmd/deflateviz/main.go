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

// Command deflateviz traces DEFLATE, zlib and gzip streams token by token.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ZaparooProject/go-deflateviz/config"
	"github.com/ZaparooProject/go-deflateviz/input"
)

// CLI is the command-line grammar.
type CLI struct {
	ConfigFile string `kong:"help='Path to the TOML config file',default='deflateviz.toml',short='c'"`
	Debug      bool   `kong:"help='Enable debug output',short='d'"`
	JSON       bool   `kong:"help='Emit JSON instead of text',name='json'"`

	Version kong.VersionFlag `help:"Show version and exit" short:"v" env:"-"`

	Decode      DecodeCmd      `kong:"cmd,help='Decode a stream and print its trace'"`
	Compress    CompressCmd    `kong:"cmd,help='Compress input and print the trace of the result'"`
	Compare     CompareCmd     `kong:"cmd,help='Compare output sizes of the registered compressors'"`
	Compressors CompressorsCmd `kong:"cmd,help='List registered compressors'"`
	Serve       ServeCmd       `kong:"cmd,help='Serve the HTTP API'"`
}

// Globals carries resolved settings into command Run methods.
type Globals struct {
	Ctx      context.Context //nolint:containedctx // handed to each command once
	Config   *config.TOML
	Log      *logrus.Logger
	Resolver *input.Resolver
	Stdout   io.Writer
	JSON     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	config.LoadEnv()

	// --help and --version request an exit mid-parse; the first code wins.
	exitCode := -1

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("deflateviz"),
		kong.Description("Token-level tracer for DEFLATE, zlib and gzip streams"),
		kong.UsageOnError(),
		kong.DefaultEnvars(config.EnvVarPrefix),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"version": config.VERSION,
		},
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) {
			if exitCode < 0 {
				exitCode = c
			}
		}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	globals, err := newGlobals(ctx, cli, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := kctx.Run(globals); err != nil {
		globals.Log.Debugf("command failed: %+v", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newGlobals(ctx context.Context, cli *CLI, stdin io.Reader, stdout, stderr io.Writer) (*Globals, error) {
	cfg, err := config.Load(cli.ConfigFile)
	if err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	if err := cfg.Log.Configure(logger, cli.Debug); err != nil {
		return nil, errors.Wrap(err, "error configuring logging")
	}
	if cli.Debug {
		logger.Debug("debug mode enabled")
	}

	return &Globals{
		Ctx:    ctx,
		Config: cfg,
		Log:    logger,
		Resolver: &input.Resolver{
			Stdin:   stdin,
			Logger:  logger,
			MaxSize: cfg.Decode.MaxInputSize,
		},
		Stdout: stdout,
		JSON:   cli.JSON,
	}, nil
}
