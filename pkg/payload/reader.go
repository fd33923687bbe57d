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
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	log "github.com/sirupsen/logrus"
)

/*
	NewReader wraps r so that compressed payloads arrive decompressed on
	the card. compressor can be gzip/gz, zip, 7z, or empty for a plain
	payload. Archives must carry the payload as their first entry; further
	entries are ignored with a warning.
*/
func NewReader(r io.ReadCloser, compressor string) (*Reader, error) {

	log.WithField("compressor", compressor).Debug("payload reader requested")

	var ret *Reader
	var err error

	switch compressor {

	case "gzip":
		fallthrough
	case "gz":
		ret, err = getGZipReader(r)

	case "zip":
		ret, err = getArchiveReader(r, false)

	case "7z":
		ret, err = getArchiveReader(r, true)

	case "":
		ret = &Reader{readCloser: r}
	}

	if ret == nil && err == nil {
		err = fmt.Errorf("unsupported compressor: '%s'", compressor)
	}

	if err != nil {
		return nil, err
	}

	return ret, nil
}

//
type Reader struct {
	readCloser io.ReadCloser
	//
	name       string
	compressor string
}

//
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.readCloser.Read(p)
}

//
func (r *Reader) Close() error {
	return r.readCloser.Close()
}

// Name returns the payload name recorded in the archive, if any.
func (r *Reader) Name() string {
	return r.name
}

//
func (r *Reader) Compressor() string {
	return r.compressor
}

//
func getGZipReader(r io.ReadCloser) (*Reader, error) {

	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &Reader{
		readCloser: gzr,
		name:       gzr.Name,
		compressor: "gzip",
	}, nil
}

//
func getArchiveReader(r io.ReadCloser, zip7 bool) (*Reader, error) {

	// both archive formats need random access, so soak up the stream
	var sponge bytes.Buffer
	size, err := io.Copy(&sponge, r)
	if err != nil {
		return nil, err
	}
	r.Close()

	ret := &Reader{}

	if zip7 {
		zr, err := sevenzip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("empty 7-zip archive")
		}
		if len(zr.File) > 1 {
			log.Warn("7-zip archive has more than one entry, using first")
		}

		ret.name = zr.File[0].Name
		ret.compressor = "7z"
		ret.readCloser, err = zr.File[0].Open()
		if err != nil {
			return nil, err
		}

	} else {
		zr, err := zip.NewReader(bytes.NewReader(sponge.Bytes()), size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("empty zip archive")
		}
		if len(zr.File) > 1 {
			log.Warn("zip archive has more than one entry, using first")
		}

		ret.name = zr.File[0].Name
		ret.compressor = "zip"
		ret.readCloser, err = zr.File[0].Open()
		if err != nil {
			return nil, err
		}
	}

	return ret, nil
}

// SplitNameCompressor derives the payload name and compressor from a file
// reference such as 'settings.json.gz'.
func SplitNameCompressor(file string) (name, compressor string) {

	_, name = filepath.Split(file)

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	switch ext {
	case "gz", "gzip", "zip", "7z":
		compressor = ext
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	return name, compressor
}
