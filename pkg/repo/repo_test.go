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

package repo

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeRepoFile(t *testing.T, dir, name, content string) {
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
}

func TestIndexSearch(t *testing.T) {

	repo := t.TempDir()
	writeRepoFile(t, repo, "configs/robot-config.json", "{}")
	writeRepoFile(t, repo, "firmware/motor-calibration.bin", "bin")
	writeRepoFile(t, repo, "notes.txt", "hi")

	ix, err := NewIndex(filepath.Join(t.TempDir(), "index"), repo)
	require.NoError(t, err)
	require.NoError(t, ix.Start())
	defer ix.Stop()

	res, err := ix.Search("config", 10)
	require.NoError(t, err)
	require.True(t, res.Complete)
	require.Contains(t, res.Hits, filepath.Join("configs", "robot-config.json"))

	res, err = ix.Search("calibration", 10)
	require.NoError(t, err)
	require.Contains(t, res.Hits, filepath.Join("firmware", "motor-calibration.bin"))

	_, err = ix.Search("  ", 10)
	require.Error(t, err)
}

func TestIndexList(t *testing.T) {

	repo := t.TempDir()
	writeRepoFile(t, repo, "a.bin", "a")
	writeRepoFile(t, repo, "b.bin", "b")
	writeRepoFile(t, repo, "c.bin", "c")

	ix, err := NewIndex(filepath.Join(t.TempDir(), "index"), repo)
	require.NoError(t, err)
	require.NoError(t, ix.Start())
	defer ix.Stop()

	res, err := ix.List(10)
	require.NoError(t, err)
	require.Len(t, res.Hits, 3)
	require.True(t, res.Complete)

	res, err = ix.List(2)
	require.NoError(t, err)
	require.Len(t, res.Hits, 2)
	require.False(t, res.Complete)
}

func TestIndexPrune(t *testing.T) {

	repo := t.TempDir()
	base := filepath.Join(t.TempDir(), "index")

	writeRepoFile(t, repo, "stale.bin", "x")
	writeRepoFile(t, repo, "kept.bin", "x")

	ix, err := NewIndex(base, repo)
	require.NoError(t, err)
	require.NoError(t, ix.Start())
	ix.Stop()

	require.NoError(t, os.Remove(filepath.Join(repo, "stale.bin")))

	ix, err = NewIndex(base, repo)
	require.NoError(t, err)
	require.NoError(t, ix.Start())
	defer ix.Stop()

	res, err := ix.List(10)
	require.NoError(t, err)
	require.Equal(t, []string{"kept.bin"}, res.Hits)
}

func TestResolveFileSource(t *testing.T) {

	repo := t.TempDir()
	writeRepoFile(t, repo, "payload.bin", "content")

	src, err := Resolve("payload.bin", repo)
	require.NoError(t, err)
	defer src.Close()

	data, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, []byte("content"), data)
}

func TestResolveCannotEscapeRepo(t *testing.T) {

	repo := t.TempDir()
	outside := filepath.Join(filepath.Dir(repo), "secret")
	require.NoError(t, ioutil.WriteFile(outside, []byte("x"), 0644))

	_, err := Resolve("../secret", repo)
	require.Error(t, err)
}

func TestResolveWithoutRepo(t *testing.T) {
	_, err := Resolve("anything.bin", "")
	require.Error(t, err)
}
