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

package volume

// seek origins for Driver.Seek
const (
	SeekStart   = 0
	SeekCurrent = 1
	SeekEnd     = 2
)

// Stat return values of interest; any non-zero value other than StatDir
// denotes a regular file
const (
	StatNone = 0
	StatDir  = 3
)

// Fd is an open file object of the driver. It is opaque above the driver
// layer, must never be duplicated (two owners would share one cursor), and
// is released exactly once via Close. A nil Fd returned from an open call
// means the open failed; the driver does not say why.
type Fd interface{}

/*
	Driver is the fixed call surface of the vendor storage driver for the
	card volume. It deliberately mirrors the hardware ABI rather than
	smoothing it over:

	- a file can be opened for reading or for writing, never both
	- directories cannot be created, listed, renamed, or removed
	- files cannot be renamed or removed
	- every call blocks on the calling goroutine until done

	Path arguments are raw, NUL-terminated bytes as produced by Path.Encode.
	Everything above this interface must route status codes through
	Translate before handing them to a caller.
*/
type Driver interface {

	// Mount makes the card volume available. Mounting is idempotent and
	// cheap when the volume is already up, so it is safe to issue before
	// every open.
	Mount() Status

	// OpenRead opens an existing file read-only.
	OpenRead(path []byte) Fd

	// OpenWrite opens a file for writing, creating it when absent. The
	// cursor starts at the current end of the file.
	OpenWrite(path []byte) Fd

	// OpenCreate opens a file for writing, creating it when absent and
	// truncating it to zero length when present.
	OpenCreate(path []byte) Fd

	// Read reads up to len(p) bytes into p. It returns the number of bytes
	// read, 0 at end of stream, or a negative value on failure.
	Read(fd Fd, p []byte) int

	// Write writes up to len(p) bytes from p. It returns the number of
	// bytes written, which may be short, or a negative value on failure.
	Write(fd Fd, p []byte) int

	// Seek moves the cursor of fd.
	Seek(fd Fd, offset int64, whence int)

	// Sync flushes buffered data of fd to the media. The driver does not
	// report sync failures.
	Sync(fd Fd)

	// Size returns the byte length of fd, or a negative value on failure.
	Size(fd Fd) int64

	// Stat reports what exists at path: StatNone, StatDir, or any other
	// non-zero value for a regular file.
	Stat(path []byte) int

	// Close releases fd. It must not flush.
	Close(fd Fd)
}
