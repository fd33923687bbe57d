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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tealfin/cardfs/pkg/volume"
)

func TestReadOnReadHandle(t *testing.T) {

	vol, _ := newTestVolume(t)
	require.NoError(t, vol.WriteFile("a.txt", []byte("hello world")))

	f, err := vol.Open("a.txt")
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 5)
	n, err := f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte("hello"), buf)

	rest, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, []byte(" world"), rest)

	// end of stream
	n, err = f.Read(buf)
	require.Equal(t, 0, n)
	require.Equal(t, io.EOF, err)
}

func TestWriteOnReadHandleDenied(t *testing.T) {

	vol, drv := newTestVolume(t)
	require.NoError(t, vol.WriteFile("a.txt", []byte("abc")))

	f, err := vol.Open("a.txt")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("nope"))
	require.Error(t, err)
	require.True(t, volume.IsKind(err, volume.ErrPermissionDenied))

	// the refused write never reached the driver
	data, _ := drv.FileData("a.txt")
	require.Equal(t, []byte("abc"), data)
}

func TestReadOnWriteHandleDenied(t *testing.T) {

	vol, _ := newTestVolume(t)

	f, err := vol.Create("a.txt")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Read(make([]byte, 4))
	require.Error(t, err)
	require.True(t, volume.IsKind(err, volume.ErrPermissionDenied))

	_, err = f.Write([]byte("fine"))
	require.NoError(t, err)
}

func TestCloseDoesNotFlush(t *testing.T) {

	vol, drv := newTestVolume(t)

	f, err := vol.Create("a.txt")
	require.NoError(t, err)
	require.NoError(t, f.WriteAll([]byte("abc")))

	before := drv.SyncCount()
	require.NoError(t, f.Close())
	require.Equal(t, before, drv.SyncCount())

	// double close releases only once and stays quiet
	require.NoError(t, f.Close())
}

func TestSyncVariantsCollapse(t *testing.T) {

	vol, drv := newTestVolume(t)

	f, err := vol.Create("a.txt")
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Flush())
	require.NoError(t, f.SyncAll())
	require.NoError(t, f.SyncData())
	require.Equal(t, 3, drv.SyncCount())
}

func TestMetadataFromHandle(t *testing.T) {

	vol, _ := newTestVolume(t)
	require.NoError(t, vol.WriteFile("a.txt", []byte("abcdef")))

	f, err := vol.Open("a.txt")
	require.NoError(t, err)
	defer f.Close()

	md, err := f.Metadata()
	require.NoError(t, err)
	require.True(t, md.IsFile())
	require.False(t, md.IsDir())

	size, ok := md.Size()
	require.True(t, ok)
	require.Equal(t, int64(6), size)
}

func TestWriteAllLoopsOverShortWrites(t *testing.T) {

	vol := New(&shortWriteDriver{Driver: newRaw()})
	f, err := vol.Create("a.txt")
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.WriteAll([]byte("abcdefgh")))

	rd, err := vol.ReadFile("a.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("abcdefgh"), rd)
}
