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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslateOK(t *testing.T) {
	require.NoError(t, Translate(StatusOK))
}

func TestTranslateKinds(t *testing.T) {

	cases := map[Status]Kind{
		StatusDiskErr:          ErrUncategorized,
		StatusIntErr:           ErrUncategorized,
		StatusNotReady:         ErrUncategorized,
		StatusNoFile:           ErrNotFound,
		StatusNoPath:           ErrNotFound,
		StatusInvalidName:      ErrInvalidInput,
		StatusDenied:           ErrPermissionDenied,
		StatusExist:            ErrAlreadyExists,
		StatusInvalidObject:    ErrUncategorized,
		StatusWriteProtected:   ErrPermissionDenied,
		StatusInvalidDrive:     ErrInvalidInput,
		StatusNotEnabled:       ErrUncategorized,
		StatusNoFilesystem:     ErrUncategorized,
		StatusMkfsAborted:      ErrUncategorized,
		StatusTimeout:          ErrTimedOut,
		StatusLocked:           ErrUncategorized,
		StatusNotEnoughCore:    ErrUncategorized,
		StatusTooManyOpenFiles: ErrUncategorized,
		StatusInvalidParameter: ErrInvalidInput,
	}

	for status, kind := range cases {
		err := Translate(status)
		require.Error(t, err)
		require.True(t, IsKind(err, kind),
			"status %d should map to kind %s, got %v", status, kind, err)
	}
}

func TestTranslateCausesAreStable(t *testing.T) {
	err := Translate(StatusNoFile)
	require.EqualError(t, err, "not found: could not find the file in the directory")
}

func TestTranslateUnknownStatusPanics(t *testing.T) {
	require.Panics(t, func() {
		Translate(Status(99))
	})
}

func TestPathEncode(t *testing.T) {

	raw, err := Path("data.txt").Encode()
	require.NoError(t, err)
	require.Equal(t, []byte("data.txt\x00"), raw)

	_, err = Path("da\x00ta.txt").Encode()
	require.Error(t, err)
	require.True(t, IsKind(err, ErrInvalidInput))
}

func TestPathFromBytes(t *testing.T) {
	require.Equal(t, Path("log.bin"), PathFromBytes([]byte("log.bin")))
}
