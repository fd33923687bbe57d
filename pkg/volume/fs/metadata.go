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

// Metadata describes one object on the card volume.
type Metadata struct {
	dir   bool
	size  int64
	sized bool
}

//
func (m *Metadata) IsDir() bool {
	return m.dir
}

//
func (m *Metadata) IsFile() bool {
	return !m.dir
}

// Size returns the byte length and whether it is known. Directories have
// no size; the driver cannot open them as files to measure one.
func (m *Metadata) Size() (int64, bool) {
	return m.size, m.sized
}
