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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-deflateviz/compressor"
	"github.com/ZaparooProject/go-deflateviz/config"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestCLIVersion(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "--version")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, config.VERSION)
}

func TestCLIHelp(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "--help")
	assert.Equal(t, 0, res.code)
	for _, cmd := range []string{"decode", "compress", "compare", "compressors", "serve"} {
		assert.Contains(t, res.stdout, cmd)
	}
}

func TestCLIMissingArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"decode without input", []string{"decode"}},
		{"unknown command", []string{"explode"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := runCLI(t, "", tt.args...)
			assert.NotEqual(t, 0, res.code)
			assert.Contains(t, res.stderr, "Error")
		})
	}
}

func TestCLIDecodeText(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "decode", "--raw", "--tokens", "hex:4b040300")
	require.Equal(t, 0, res.code, res.stderr)

	for _, want := range []string{
		"Envelope: raw",
		"Output Bytes: 6",
		"Block 0 (fixed, final):",
		"Literal Values: 97 ('a')",
		"match len 5 dist 1",
		"Output: aaaaaa",
	} {
		assert.Contains(t, res.stdout, want)
	}
}

func TestCLIDecodeZlibChecksum(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "decode", "hex:789c4b04030007fb0247")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Envelope: zlib")
	assert.Contains(t, res.stdout, "Checksum: adler32 OK (0x07fb0247)")
}

func TestCLIDecodeStdinJSON(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "\x4b\x04\x03\x00", "--json", "decode", "-r", "--", "-")
	require.Equal(t, 0, res.code, res.stderr)

	var out struct {
		Source struct {
			Ref  string `json:"ref"`
			Size int    `json:"size"`
		} `json:"source"`
		Result struct {
			Envelope string `json:"envelope"`
			Output   []byte `json:"output"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, "-", out.Source.Ref)
	assert.Equal(t, 4, out.Source.Size)
	assert.Equal(t, "raw", out.Result.Envelope)
	assert.Equal(t, "aaaaaa", string(out.Result.Output))
}

func TestCLIDecodeFileHint(t *testing.T) {
	t.Parallel()

	// The .deflate extension selects raw decoding without --raw.
	path := filepath.Join(t.TempDir(), "sample.deflate")
	require.NoError(t, os.WriteFile(path, []byte{0x4B, 0x04, 0x03, 0x00}, 0o600))

	res := runCLI(t, "", "decode", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Hint: raw")
	assert.Contains(t, res.stdout, "Output: aaaaaa")
}

func TestCLIDecodeError(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "decode", "--raw", "hex:07")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "reserved block type")
}

func TestCLICompress(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 30)
	out := filepath.Join(t.TempDir(), "out.zz")

	res := runCLI(t, "", "compress", "--text", "--tables", "-o", out, text)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Compressor: "+compressor.DefaultName)
	assert.Contains(t, res.stdout, "Envelope: zlib")
	assert.Contains(t, res.stdout, "Checksum: adler32 OK")

	written, err := os.ReadFile(out) //nolint:gosec // test temp file
	require.NoError(t, err)
	assert.Equal(t, byte(0x78), written[0])

	// The written file decodes back through the zlib hint.
	res = runCLI(t, "", "--json", "decode", out)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"envelope": "zlib"`)
}

func TestCLICompressRawJSON(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "--json", "compress", "--text", "--raw", "--compressor", compressor.NameStored, "hello")
	require.Equal(t, 0, res.code, res.stderr)

	var out struct {
		Compressor string `json:"compressor"`
		Result     struct {
			Envelope string `json:"envelope"`
			Output   []byte `json:"output"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, compressor.NameStored, out.Compressor)
	assert.Equal(t, "raw", out.Result.Envelope)
	assert.Equal(t, "hello", string(out.Result.Output))
}

func TestCLICompare(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "compare", "--text", strings.Repeat("abcabc", 100))
	require.Equal(t, 0, res.code, res.stderr)
	for _, name := range compressor.Names() {
		assert.Contains(t, res.stdout, name)
	}

	res = runCLI(t, "", "compare", "--text", "--compressors", "nope", "abc")
	assert.Equal(t, 1, res.code)
}

func TestCLICompressors(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "compressors")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, compressor.DefaultName+" (default)")
}

func TestCLIBadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0o600))

	res := runCLI(t, "", "-c", path, "compressors")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error loading config")
}
