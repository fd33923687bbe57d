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

package fs

import (
	"io"

	"github.com/tealfin/cardfs/pkg/volume"
)

/*
	File is one open file on the card volume, permanently bound to either
	read or write access. The driver accepts reads and writes on any handle
	regardless of which primitive opened it, so the binding is enforced
	here, on every call.

	A File owns its driver handle exclusively and must not be shared across
	goroutines; the handle is a single mutable cursor.
*/
type File struct {
	vol    *Volume
	fd     volume.Fd
	write  bool
	closed bool
}

/*
	Read implements io.Reader for files opened with read access. A short
	read is not an error; end of stream is io.EOF. A file opened for
	writing refuses with a permission-denied error before touching the
	driver.
*/
func (f *File) Read(p []byte) (int, error) {

	if f.write {
		return 0, volume.NewError(volume.ErrPermissionDenied,
			"files opened in write mode cannot be read from")
	}

	n := f.vol.drv.Read(f.fd, p)

	if n < 0 {
		return 0, volume.NewError(volume.ErrOther, "could not read from file")
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}

	return n, nil
}

/*
	Write writes from p and returns the number of bytes actually written,
	which may be less than len(p) without this being an error. Callers that
	need all-or-fail semantics use WriteAll. A file opened for reading
	refuses with a permission-denied error before touching the driver.
*/
func (f *File) Write(p []byte) (int, error) {

	if !f.write {
		return 0, volume.NewError(volume.ErrPermissionDenied,
			"files opened in read mode cannot be written to")
	}

	n := f.vol.drv.Write(f.fd, p)

	if n < 0 {
		return 0, volume.NewError(volume.ErrOther, "could not write to file")
	}

	return n, nil
}

// WriteAll writes all of p, looping over short writes until the buffer is
// consumed or an error occurs.
func (f *File) WriteAll(p []byte) error {

	for len(p) > 0 {
		n, err := f.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return volume.NewError(volume.ErrOther,
				"driver accepted no bytes")
		}
		p = p[n:]
	}

	return nil
}

// Flush hands buffered data of this file to the media. The driver does not
// surface sync failures, so Flush always succeeds once it returns.
func (f *File) Flush() error {
	f.vol.drv.Sync(f.fd)
	return nil
}

// SyncAll flushes data and metadata. The driver offers no metadata-only
// sync, so SyncAll and SyncData collapse onto the same primitive.
func (f *File) SyncAll() error {
	return f.Flush()
}

// SyncData flushes file data; see SyncAll.
func (f *File) SyncData() error {
	return f.Flush()
}

// Metadata queries this file's metadata. An open handle always refers to a
// regular file; directories cannot be opened.
func (f *File) Metadata() (*Metadata, error) {

	size := f.vol.drv.Size(f.fd)
	if size < 0 {
		return nil, volume.NewError(volume.ErrInvalidData,
			"failed to get file size")
	}

	return &Metadata{size: size, sized: true}, nil
}

// Close releases the driver handle, exactly once. It never flushes;
// callers needing durability call SyncAll first.
func (f *File) Close() error {

	if f.closed {
		return nil
	}
	f.closed = true

	f.vol.drv.Close(f.fd)
	f.fd = nil

	return nil
}
