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

package memdrv

import (
	"bytes"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/tealfin/cardfs/pkg/volume"
)

/*
	Driver is an in-memory stand-in for the vendor card driver, used by
	tests and by the daemon's memory mode. It models the same constraints
	as the hardware: a flat namespace of top-level files, read XOR write
	handles, one cursor per handle, no delete, no rename.

	Cursor semantics follow the FatFs behavior underneath the real driver:
	the write-append primitive creates absent files and positions the
	cursor at the end, writes happen at the cursor and extend the file as
	needed, and a seek past the end pads with zeros on the next write.
*/
type Driver struct {
	mu sync.Mutex
	//
	files map[string][]byte
	dirs  map[string]bool
	//
	mounted        bool
	writeProtected bool
	mountFault     *volume.Status
	//
	syncs int
}

//
func New() *Driver {
	return &Driver{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// fd is the driver-level file object; it must never be aliased
type fd struct {
	name   string
	cursor int64
	write  bool
	closed bool
}

//
func (d *Driver) Mount() volume.Status {

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mountFault != nil {
		return *d.mountFault
	}

	if !d.mounted {
		log.Trace("memory volume mounted")
		d.mounted = true
	}

	return volume.StatusOK
}

//
func (d *Driver) OpenRead(path []byte) volume.Fd {

	d.mu.Lock()
	defer d.mu.Unlock()

	name, ok := decodePath(path)
	if !ok || !d.mounted || d.dirs[name] {
		return nil
	}
	if _, present := d.files[name]; !present {
		return nil
	}

	return &fd{name: name}
}

//
func (d *Driver) OpenWrite(path []byte) volume.Fd {

	d.mu.Lock()
	defer d.mu.Unlock()

	name, ok := d.openableForWrite(path)
	if !ok {
		return nil
	}

	if _, present := d.files[name]; !present {
		d.files[name] = nil
	}

	return &fd{name: name, cursor: int64(len(d.files[name])), write: true}
}

//
func (d *Driver) OpenCreate(path []byte) volume.Fd {

	d.mu.Lock()
	defer d.mu.Unlock()

	name, ok := d.openableForWrite(path)
	if !ok {
		return nil
	}

	d.files[name] = nil

	return &fd{name: name, write: true}
}

//
func (d *Driver) openableForWrite(path []byte) (string, bool) {

	name, ok := decodePath(path)
	if !ok || !d.mounted || d.writeProtected || d.dirs[name] {
		return "", false
	}

	return name, true
}

//
func (d *Driver) Read(f volume.Fd, p []byte) int {

	d.mu.Lock()
	defer d.mu.Unlock()

	h := d.handle(f)
	if h == nil || h.write {
		return -1
	}

	data := d.files[h.name]
	if h.cursor >= int64(len(data)) {
		return 0
	}

	n := copy(p, data[h.cursor:])
	h.cursor += int64(n)

	return n
}

//
func (d *Driver) Write(f volume.Fd, p []byte) int {

	d.mu.Lock()
	defer d.mu.Unlock()

	h := d.handle(f)
	if h == nil || !h.write {
		return -1
	}

	data := d.files[h.name]

	// a cursor past the end pads the gap with zeros
	if gap := h.cursor - int64(len(data)); gap > 0 {
		data = append(data, make([]byte, gap)...)
	}

	if end := h.cursor + int64(len(p)); end > int64(len(data)) {
		grown := make([]byte, end)
		copy(grown, data)
		data = grown
	}

	copy(data[h.cursor:], p)
	h.cursor += int64(len(p))
	d.files[h.name] = data

	return len(p)
}

//
func (d *Driver) Seek(f volume.Fd, offset int64, whence int) {

	d.mu.Lock()
	defer d.mu.Unlock()

	h := d.handle(f)
	if h == nil {
		return
	}

	size := int64(len(d.files[h.name]))

	var pos int64
	switch whence {
	case volume.SeekStart:
		pos = offset
	case volume.SeekCurrent:
		pos = h.cursor + offset
	case volume.SeekEnd:
		pos = size + offset
	default:
		return
	}

	if pos < 0 {
		pos = 0
	}
	h.cursor = pos
}

//
func (d *Driver) Sync(f volume.Fd) {

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle(f) != nil {
		d.syncs++
	}
}

//
func (d *Driver) Size(f volume.Fd) int64 {

	d.mu.Lock()
	defer d.mu.Unlock()

	h := d.handle(f)
	if h == nil {
		return -1
	}

	return int64(len(d.files[h.name]))
}

//
func (d *Driver) Stat(path []byte) int {

	d.mu.Lock()
	defer d.mu.Unlock()

	name, ok := decodePath(path)
	if !ok {
		return volume.StatNone
	}

	if d.dirs[name] {
		return volume.StatDir
	}
	if _, present := d.files[name]; present {
		return 1
	}

	return volume.StatNone
}

//
func (d *Driver) Close(f volume.Fd) {

	d.mu.Lock()
	defer d.mu.Unlock()

	if h := d.handle(f); h != nil {
		h.closed = true
	}
}

//
func (d *Driver) handle(f volume.Fd) *fd {

	h, ok := f.(*fd)
	if !ok || h == nil || h.closed {
		return nil
	}

	return h
}

// decodePath takes the bytes up to the first NUL, as the real driver does.
func decodePath(path []byte) (string, bool) {

	ix := bytes.IndexByte(path, 0)
	if ix < 0 {
		return "", false
	}

	return string(path[:ix]), true
}

// --- test & tooling hooks, not part of the driver surface ---

// FailMount makes all subsequent Mount calls report s; nil clears the fault.
func (d *Driver) FailMount(s *volume.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mountFault = s
}

// SetWriteProtected toggles the card's write-protect switch. Open calls
// needing write access return a null handle while set.
func (d *Driver) SetWriteProtected(wp bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeProtected = wp
}

// AddDir registers a directory name, visible to Stat only.
func (d *Driver) AddDir(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirs[name] = true
}

// FileData returns a copy of the named file's content.
func (d *Driver) FileData(name string) ([]byte, bool) {

	d.mu.Lock()
	defer d.mu.Unlock()

	data, ok := d.files[name]
	if !ok {
		return nil, false
	}

	ret := make([]byte, len(data))
	copy(ret, data)

	return ret, true
}

// SyncCount reports how many sync calls the driver has seen.
func (d *Driver) SyncCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syncs
}
