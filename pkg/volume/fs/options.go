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
	log "github.com/sirupsen/logrus"

	"github.com/tealfin/cardfs/pkg/volume"
)

/*
	OpenOptions accumulates the requested access configuration for one open
	call. Flags are only validated when Open is called, not as they are
	set, so any setter order is fine.

	The driver exposes four open primitives with overlapping semantics:
	plain read, write-append, write-create-truncate, and write-append plus
	a rewind. Open collapses the flag combination onto exactly one of them
	and rejects combinations the hardware cannot honor, most prominently
	simultaneous read and write access.
*/
type OpenOptions struct {
	vol *Volume
	//
	read      bool
	write     bool
	append    bool
	truncate  bool
	createNew bool
}

// Read sets the option for read access.
func (o *OpenOptions) Read(read bool) *OpenOptions {
	o.read = read
	return o
}

// Write sets the option for write access. When the file already exists and
// neither Append nor Truncate is set, writes overwrite from the beginning
// of the file without discarding trailing bytes beyond what is newly
// written; the driver has no truncate-without-create primitive.
func (o *OpenOptions) Write(write bool) *OpenOptions {
	o.write = write
	return o
}

// Append sets the option for append mode: writes land at the current end
// of file, using the driver's native append primitive rather than an
// emulated seek-then-write.
func (o *OpenOptions) Append(append bool) *OpenOptions {
	o.append = append
	return o
}

// Truncate sets the option for truncating an existing file to zero length.
// Takes effect only together with write access.
func (o *OpenOptions) Truncate(truncate bool) *OpenOptions {
	o.truncate = truncate
	return o
}

// Create sets the option to create the file when absent. The driver can
// only create files through its write primitives, so this implies write
// access.
func (o *OpenOptions) Create(create bool) *OpenOptions {
	o.write = create
	return o
}

// CreateNew sets the option to create a new file, failing when anything
// already exists at the target path. Requires write access.
func (o *OpenOptions) CreateNew(createNew bool) *OpenOptions {
	o.createNew = createNew
	return o
}

/*
	Open resolves the accumulated configuration into exactly one driver
	open call and returns a File bound to the resulting access direction
	for its whole lifetime.

	Error kinds a caller can rely on: invalid-input for read+write, for no
	access mode, and for unencodable paths; already-exists for CreateNew on
	an existing path; not-found when the driver refuses the open (it does
	not distinguish missing files from other open failures).
*/
func (o *OpenOptions) Open(path volume.Path) (*File, error) {

	drv := o.vol.drv

	// mounting is idempotent, so issue it before every open
	if err := volume.Translate(drv.Mount()); err != nil {
		return nil, err
	}

	raw, err := path.Encode()
	if err != nil {
		return nil, err
	}

	if o.read && o.write {
		return nil, volume.NewError(volume.ErrInvalidInput,
			"files cannot be opened with read and write access")
	}

	if o.createNew {
		if drv.Stat(raw) != volume.StatNone {
			return nil, volume.NewError(volume.ErrAlreadyExists,
				"file already exists")
		}
	}

	var fd volume.Fd

	switch {

	case o.read:
		// append/truncate are meaningless without write access and are
		// ignored here
		fd = drv.OpenRead(raw)

	case o.write && o.append:
		fd = drv.OpenWrite(raw)

	case o.write && o.truncate:
		fd = drv.OpenCreate(raw)

	case o.write:
		// overwrite-from-start: the append primitive rewound to offset 0;
		// existing bytes beyond what gets written stay in place
		fd = drv.OpenWrite(raw)
		if fd != nil {
			drv.Seek(fd, 0, volume.SeekStart)
		}

	default:
		return nil, volume.NewError(volume.ErrInvalidInput,
			"no access mode requested")
	}

	if fd == nil {
		// the driver does not say why an open failed
		return nil, volume.NewError(volume.ErrNotFound, "could not open file")
	}

	log.WithFields(log.Fields{
		"path":  path,
		"write": o.write,
	}).Trace("file opened")

	return &File{vol: o.vol, fd: fd, write: o.write}, nil
}
