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
	"errors"
	"fmt"
)

// Kind classifies an Error. The set is closed; nothing in this module
// invents further kinds at runtime.
type Kind int

const (
	ErrNotFound Kind = iota
	ErrAlreadyExists
	ErrInvalidInput
	ErrInvalidData
	ErrPermissionDenied
	ErrTimedOut
	ErrUncategorized
	ErrOther
)

//
func (k Kind) String() string {
	switch k {
	case ErrNotFound:
		return "not found"
	case ErrAlreadyExists:
		return "already exists"
	case ErrInvalidInput:
		return "invalid input"
	case ErrInvalidData:
		return "invalid data"
	case ErrPermissionDenied:
		return "permission denied"
	case ErrTimedOut:
		return "timed out"
	case ErrUncategorized:
		return "uncategorized"
	}
	return "other"
}

// Error pairs an error kind with a fixed, human-readable cause. The cause
// is sufficient for logging without further translation.
type Error struct {
	Kind  Kind
	Cause string
}

//
func NewError(kind Kind, cause string) *Error {
	return &Error{Kind: kind, Cause: cause}
}

//
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
}

// IsKind reports whether err is or wraps a volume Error of kind k.
func IsKind(err error, k Kind) bool {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind == k
	}
	return false
}
