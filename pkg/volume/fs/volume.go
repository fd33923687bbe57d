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
	"bytes"
	"unicode/utf8"

	"github.com/tealfin/cardfs/pkg/volume"
)

/*
	Volume is the file-access layer over one card driver. It presents an
	API close to what a standard filesystem package would offer, with the
	card's capability gaps enforced instead of papered over: handles are
	read XOR write, nothing can be deleted or renamed, and directories can
	only be observed via Stat.

	The underlying volume is process-wide, implicitly mounted state; there
	is no unmount. All operations are synchronous and return every failure
	to the caller, there are no retries.
*/
type Volume struct {
	drv volume.Driver
}

//
func New(drv volume.Driver) *Volume {
	return &Volume{drv: drv}
}

// Options returns a blank open configuration, all flags false.
func (v *Volume) Options() *OpenOptions {
	return &OpenOptions{vol: v}
}

// Open opens the named file read-only.
func (v *Volume) Open(path volume.Path) (*File, error) {
	return v.Options().Read(true).Open(path)
}

// Create opens the named file write-only, creating it when absent and
// truncating it to zero length when present.
func (v *Volume) Create(path volume.Path) (*File, error) {
	return v.Options().Create(true).Truncate(true).Open(path)
}

// CreateNew opens the named file write-only, failing with an already-exists
// error when something is already there.
func (v *Volume) CreateNew(path volume.Path) (*File, error) {
	return v.Options().Write(true).CreateNew(true).Open(path)
}

// Exists reports whether anything, file or directory, exists at path. An
// unencodable path reports false rather than an error.
func (v *Volume) Exists(path volume.Path) bool {

	raw, err := path.Encode()
	if err != nil {
		return false
	}

	return v.drv.Stat(raw) != volume.StatNone
}

// Stat queries the metadata of path. For a regular file, a transient
// read-only handle is opened to obtain the size, then discarded.
func (v *Volume) Stat(path volume.Path) (*Metadata, error) {

	raw, err := path.Encode()
	if err != nil {
		return nil, err
	}

	// directories cannot be opened as files, so their size stays unknown
	if v.drv.Stat(raw) == volume.StatDir {
		return &Metadata{dir: true}, nil
	}

	f, err := v.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Metadata()
}

// ReadFile reads the whole content of the named file.
func (v *Volume) ReadFile(path volume.Path) ([]byte, error) {

	f, err := v.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ReadString reads the whole content of the named file as UTF-8 text.
func (v *Volume) ReadString(path volume.Path) (string, error) {

	data, err := v.ReadFile(path)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", volume.NewError(volume.ErrInvalidData,
			"file was not valid UTF-8")
	}

	return string(data), nil
}

// WriteFile replaces the content of the named file with data, creating the
// file when absent. It does not sync; callers needing durability open the
// file themselves and call SyncAll.
func (v *Volume) WriteFile(path volume.Path, data []byte) error {

	f, err := v.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.WriteAll(data)
}

/*
	Copy copies the content of from into to, creating or truncating to, and
	returns the number of bytes copied. The driver has no rename or copy
	primitive, so this is a plain read-then-write: a failure mid-write
	leaves to partially written. That is a hardware-imposed limitation, not
	something this layer can repair with an atomic swap.
*/
func (v *Volume) Copy(from, to volume.Path) (int64, error) {

	data, err := v.ReadFile(from)
	if err != nil {
		return 0, err
	}

	f, err := v.Create(to)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := f.WriteAll(data); err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}
