/*
   CardFS - SD card file access layer
   Copyright (c) 2022, the CardFS authors

   This file is part of CardFS.

   CardFS is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   CardFS is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with CardFS. If not, see <http://www.gnu.org/licenses/>.
*/

package payload

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainReader(t *testing.T) {

	r, err := NewReader(ioutil.NopCloser(bytes.NewReader([]byte("plain"))), "")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, []byte("plain"), data)
	require.Equal(t, "", r.Compressor())
}

func TestGZipReader(t *testing.T) {

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Name = "config.json"
	_, err := zw.Write([]byte("gzipped payload"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	r, err := NewReader(ioutil.NopCloser(&buf), "gz")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, []byte("gzipped payload"), data)
	require.Equal(t, "config.json", r.Name())
	require.Equal(t, "gzip", r.Compressor())
}

func TestZipReader(t *testing.T) {

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("config.json")
	require.NoError(t, err)
	_, err = w.Write([]byte("zipped payload"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	r, err := NewReader(ioutil.NopCloser(&buf), "zip")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, []byte("zipped payload"), data)
	require.Equal(t, "config.json", r.Name())
	require.Equal(t, "zip", r.Compressor())
}

func TestEmptyZipArchive(t *testing.T) {

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	require.NoError(t, zw.Close())

	_, err := NewReader(ioutil.NopCloser(&buf), "zip")
	require.Error(t, err)
}

func TestUnsupportedCompressor(t *testing.T) {

	_, err := NewReader(ioutil.NopCloser(bytes.NewReader(nil)), "rar")
	require.Error(t, err)
}

func TestSplitNameCompressor(t *testing.T) {

	name, comp := SplitNameCompressor("payloads/config.json.gz")
	require.Equal(t, "config.json", name)
	require.Equal(t, "gz", comp)

	name, comp = SplitNameCompressor("config.json")
	require.Equal(t, "config.json", name)
	require.Equal(t, "", comp)

	name, comp = SplitNameCompressor("bundle.7z")
	require.Equal(t, "bundle", name)
	require.Equal(t, "7z", comp)
}
