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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZaparooProject/go-deflateviz/archive"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"format with reason", archive.FormatError{Format: ".tar", Reason: "not supported"}, []string{".tar", "not supported"}},
		{"format", archive.FormatError{Format: ".tar"}, []string{".tar"}},
		{"not found", archive.FileNotFoundError{Archive: "/s.zip", InternalPath: "a.gz"}, []string{"/s.zip", "a.gz"}},
		{"no samples", archive.NoSamplesError{Archive: "/s.zip"}, []string{"/s.zip", "no compressed samples"}},
		{"not deflated", archive.NotDeflatedError{Archive: "/s.zip", InternalPath: "a", Method: "store"}, []string{"store", "not deflate"}},
		{"too large", archive.TooLargeError{InternalPath: "a", Size: 20, Limit: 10}, []string{"20 bytes", "limit is 10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, want := range tt.want {
				assert.Contains(t, tt.err.Error(), want)
			}
		})
	}
}
