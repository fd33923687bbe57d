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

package run

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type probe struct {
	Runner
	//
	Path  string
	Items int
	Fast  bool
}

func newProbe(run func() error) *probe {
	p := &probe{}
	p.Runner = *NewRunner("probe", "probe runner", "", "", "", run)
	p.AddBaseSettings()
	p.AddSetting(&p.Path, "path", "p", "CARDFS_PATH", nil, "a path", false)
	p.AddSetting(&p.Items, "items", "i", "", 100, "max items", false)
	p.AddSetting(&p.Fast, "fast", "f", "", nil, "go fast", false)
	return p
}

func TestRunnerFlagsAndDefaults(t *testing.T) {

	p := newProbe(func() error {
		return nil
	})
	require.NoError(t, p.Execute([]string{"--path", "a.txt", "-f"}))

	p.ParseSettings()
	require.Equal(t, "a.txt", p.Path)
	require.Equal(t, 100, p.Items)
	require.True(t, p.Fast)
	require.Equal(t, "localhost:8888", p.Address)
}

func TestRunnerEnvOverride(t *testing.T) {

	t.Setenv("CARDFS_PATH", "from-env.txt")
	t.Setenv("CARDFS_ITEMS", "7")

	p := newProbe(func() error {
		return nil
	})
	require.NoError(t, p.Execute(nil))

	p.ParseSettings()
	require.Equal(t, "from-env.txt", p.Path)
	require.Equal(t, 7, p.Items)
}

func TestRunnerFlagBeatsEnv(t *testing.T) {

	t.Setenv("CARDFS_PATH", "from-env.txt")

	p := newProbe(func() error {
		return nil
	})
	require.NoError(t, p.Execute([]string{"--path", "from-flag.txt"}))

	p.ParseSettings()
	require.Equal(t, "from-flag.txt", p.Path)
}

func TestAPICall(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path == "/boom" {
				http.Error(w, "it broke", http.StatusUnprocessableEntity)
				return
			}
			w.Write([]byte("pong"))
		}))
	defer srv.Close()

	p := newProbe(func() error {
		return nil
	})
	p.Address = strings.TrimPrefix(srv.URL, "http://")

	resp, err := p.apiCall("GET", "/ping", false, nil)
	require.NoError(t, err)
	defer resp.Close()

	body, err := io.ReadAll(resp)
	require.NoError(t, err)
	require.Equal(t, "pong", string(body))

	_, err = p.apiCall("GET", "/boom", false, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "it broke")
}
