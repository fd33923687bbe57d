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

package repo

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// payloads pulled from a URL are capped; the card is small
const maxHTTPPayload = 1048576

/*
	Resolve turns a payload reference into a readable source: an http(s)
	URL is fetched, anything else is resolved as a file inside the repo
	directory. References must not escape the repo.
*/
func Resolve(ref, dir string) (io.ReadCloser, error) {

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return NewHTTPSource(ref)
	}

	if dir == "" {
		return nil, fmt.Errorf("no payload repo configured")
	}

	path := filepath.Join(dir, filepath.Clean("/"+ref))
	return NewFileSource(path)
}

//
func NewFileSource(file string) (*FileSource, error) {
	if f, err := os.Open(file); err != nil {
		return nil, err
	} else {
		return &FileSource{file: f, reader: bufio.NewReader(f)}, nil
	}
}

//
type FileSource struct {
	file   *os.File
	reader io.Reader
}

//
func (fs *FileSource) Read(p []byte) (n int, err error) {
	return fs.reader.Read(p)
}

//
func (fs *FileSource) Close() error {
	return fs.file.Close()
}

//
func NewHTTPSource(url string) (*HTTPSource, error) {
	if resp, err := http.Get(url); err != nil {
		return nil, err
	} else {
		return &HTTPSource{
			url:      url,
			response: resp,
			reader:   io.LimitReader(resp.Body, maxHTTPPayload)}, nil
	}
}

//
type HTTPSource struct {
	url      string
	response *http.Response
	reader   io.Reader
}

//
func (hs *HTTPSource) Read(p []byte) (n int, err error) {
	return hs.reader.Read(p)
}

//
func (hs *HTTPSource) Close() error {
	return hs.response.Body.Close()
}
