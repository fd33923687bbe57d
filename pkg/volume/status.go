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
	"fmt"
)

// Status is the enumerated outcome the driver reports for volume-level
// operations. The vendor documents exactly these values and no others;
// they follow the FatFs result code set underlying the driver.
type Status int

const (
	StatusOK Status = iota
	StatusDiskErr
	StatusIntErr
	StatusNotReady
	StatusNoFile
	StatusNoPath
	StatusInvalidName
	StatusDenied
	StatusExist
	StatusInvalidObject
	StatusWriteProtected
	StatusInvalidDrive
	StatusNotEnabled
	StatusNoFilesystem
	StatusMkfsAborted
	StatusTimeout
	StatusLocked
	StatusNotEnoughCore
	StatusTooManyOpenFiles
	StatusInvalidParameter
)

/*
	Translate maps a driver status to the error taxonomy. StatusOK yields
	nil; every other documented status maps to exactly one kind with a
	fixed cause string.

	A value outside the enumeration is a contract violation by the vendor
	driver, not an I/O failure, and panics. Coercing an unknown status into
	a plausible-looking kind would hide the driver evolving underneath us.
*/
func Translate(s Status) error {

	switch s {

	case StatusOK:
		return nil

	case StatusDiskErr:
		return NewError(ErrUncategorized,
			"internal function reported an unrecoverable hard error")
	case StatusIntErr:
		return NewError(ErrUncategorized,
			"assertion failed and an insanity is detected in the internal process")
	case StatusNotReady:
		return NewError(ErrUncategorized,
			"the storage device could not be prepared to work")
	case StatusNoFile:
		return NewError(ErrNotFound,
			"could not find the file in the directory")
	case StatusNoPath:
		return NewError(ErrNotFound,
			"a directory in the path name could not be found")
	case StatusInvalidName:
		return NewError(ErrInvalidInput,
			"the given string is invalid as a path name")
	case StatusDenied:
		return NewError(ErrPermissionDenied,
			"the required access for this operation was denied")
	case StatusExist:
		return NewError(ErrAlreadyExists,
			"an object with the same name already exists in the directory")
	case StatusInvalidObject:
		return NewError(ErrUncategorized,
			"invalid or null file/directory object")
	case StatusWriteProtected:
		return NewError(ErrPermissionDenied,
			"a write operation was performed on write-protected media")
	case StatusInvalidDrive:
		return NewError(ErrInvalidInput,
			"an invalid drive number was specified in the path name")
	case StatusNotEnabled:
		return NewError(ErrUncategorized,
			"work area for the logical drive has not been registered")
	case StatusNoFilesystem:
		return NewError(ErrUncategorized,
			"valid FAT volume could not be found on the drive")
	case StatusMkfsAborted:
		return NewError(ErrUncategorized,
			"failed to create filesystem volume")
	case StatusTimeout:
		return NewError(ErrTimedOut,
			"the function was canceled due to a timeout of thread-safe control")
	case StatusLocked:
		return NewError(ErrUncategorized,
			"the operation to the object was rejected by file sharing control")
	case StatusNotEnoughCore:
		return NewError(ErrUncategorized,
			"not enough memory for the operation")
	case StatusTooManyOpenFiles:
		return NewError(ErrUncategorized,
			"maximum number of open files has been reached")
	case StatusInvalidParameter:
		return NewError(ErrInvalidInput,
			"a given parameter was invalid")
	}

	panic(fmt.Sprintf(
		"volume: driver returned status %d, outside the documented enumeration", s))
}
