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

package archive_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-deflateviz/archive"
	"github.com/ZaparooProject/go-deflateviz/inflate"
)

type zipMember struct {
	name   string
	data   []byte
	method uint16
}

// createTestZIP writes a zip file in dir holding members in order.
func createTestZIP(t *testing.T, dir, name string, members ...zipMember) string {
	t.Helper()

	zipPath := filepath.Join(dir, name)
	file, err := os.Create(zipPath) //nolint:gosec // Test helper creates files in test temp directory
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	writer := zip.NewWriter(file)
	for _, m := range members {
		w, err := writer.CreateHeader(&zip.FileHeader{Name: m.name, Method: m.method})
		require.NoError(t, err)
		_, err = w.Write(m.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return zipPath
}

var sampleText = []byte(strings.Repeat("a sample that deflates nicely. ", 50))

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	zipPath := createTestZIP(t, dir, "test.zip", zipMember{name: "a.txt", data: []byte("x"), method: zip.Deflate})

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"zip archive", zipPath, false},
		{"missing zip", filepath.Join(dir, "missing.zip"), true},
		{"missing 7z", filepath.Join(dir, "missing.7z"), true},
		{"missing rar", filepath.Join(dir, "missing.rar"), true},
		{"unsupported format", filepath.Join(dir, "test.tar"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			arc, err := archive.Open(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, arc.Close())
		})
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := archive.Open("samples.tar")
	var formatErr archive.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, ".tar", formatErr.Format)
}

func TestIsArchiveExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want bool
	}{
		{".zip", true},
		{".ZIP", true},
		{".7z", true},
		{".rar", true},
		{".tar", false},
		{".gz", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, archive.IsArchiveExtension(tt.ext), tt.ext)
	}
}

func TestZIPArchiveListAndOpen(t *testing.T) {
	t.Parallel()

	zipPath := createTestZIP(t, t.TempDir(), "samples.zip",
		zipMember{name: "dir/text.txt", data: sampleText, method: zip.Deflate},
		zipMember{name: "stored.bin", data: []byte("plain"), method: zip.Store},
	)
	arc, err := archive.OpenZIP(zipPath)
	require.NoError(t, err)
	defer func() { _ = arc.Close() }()

	files, err := arc.List()
	require.NoError(t, err)
	assert.Equal(t, []archive.FileInfo{
		{Name: "dir/text.txt", Size: int64(len(sampleText)), Method: archive.MethodDeflate},
		{Name: "stored.bin", Size: 5, Method: archive.MethodStore},
	}, files)

	reader, size, err := arc.Open("DIR/TEXT.TXT")
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()
	assert.Equal(t, int64(len(sampleText)), size)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, sampleText, data)

	_, _, err = arc.Open("nope.txt")
	var notFound archive.FileNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope.txt", notFound.InternalPath)
}

func TestZIPArchiveOpenRaw(t *testing.T) {
	t.Parallel()

	zipPath := createTestZIP(t, t.TempDir(), "samples.zip",
		zipMember{name: "text.txt", data: sampleText, method: zip.Deflate},
		zipMember{name: "stored.bin", data: []byte("plain"), method: zip.Store},
	)
	arc, err := archive.OpenZIP(zipPath)
	require.NoError(t, err)
	defer func() { _ = arc.Close() }()

	raw, err := arc.OpenRaw("text.txt")
	require.NoError(t, err)
	assert.Less(t, len(raw), len(sampleText))

	trace, err := inflate.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, sampleText, trace.Output)

	_, err = arc.OpenRaw("stored.bin")
	var notDeflated archive.NotDeflatedError
	require.ErrorAs(t, err, &notDeflated)
	assert.Equal(t, archive.MethodStore, notDeflated.Method)

	var opener archive.RawOpener = arc
	_, err = opener.OpenRaw("missing")
	require.ErrorAs(t, err, &archive.FileNotFoundError{})
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	zipPath := createTestZIP(t, t.TempDir(), "samples.zip",
		zipMember{name: "text.txt", data: sampleText, method: zip.Deflate},
	)
	arc, err := archive.Open(zipPath)
	require.NoError(t, err)
	defer func() { _ = arc.Close() }()

	data, err := archive.ReadFile(arc, "text.txt", 0)
	require.NoError(t, err)
	assert.Equal(t, sampleText, data)

	data, err = archive.ReadFile(arc, "text.txt", int64(len(sampleText)))
	require.NoError(t, err)
	assert.Len(t, data, len(sampleText))

	_, err = archive.ReadFile(arc, "text.txt", 10)
	var tooLarge archive.TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(10), tooLarge.Limit)
}

func TestSevenZipAndRARRejectGarbage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"bad.7z", "bad.rar"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("not an archive at all"), 0o600))

		arc, err := archive.Open(path)
		if err != nil {
			continue
		}
		// RAR defers parsing until the first scan.
		_, err = arc.List()
		assert.Error(t, err, name)
		_ = arc.Close()
	}
}
