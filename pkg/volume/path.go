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

import (
	"strings"
)

// Path names a file on the card volume. The driver only addresses
// top-level names as files; deeper paths are meaningful solely for Stat.
type Path string

// PathFromBytes reconstructs a Path from raw platform bytes, e.g. as
// received over a transport.
func PathFromBytes(b []byte) Path {
	return Path(b)
}

// Encode returns the NUL-terminated raw bytes handed to the driver. It
// fails when the path itself contains a NUL, which the driver would
// misread as an early terminator.
func (p Path) Encode() ([]byte, error) {

	if strings.IndexByte(string(p), 0) >= 0 {
		return nil, NewError(ErrInvalidInput,
			"path contained an embedded terminator byte")
	}

	b := make([]byte, len(p)+1)
	copy(b, p)
	return b, nil
}
