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

package control

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tealfin/cardfs/pkg/daemon"
	"github.com/tealfin/cardfs/pkg/repo"
	"github.com/tealfin/cardfs/pkg/volume/memdrv"
)

func newTestAPI(t *testing.T, repoDir string) (*API, *memdrv.Driver, *daemon.Daemon) {
	drv := memdrv.New()
	d := daemon.New(drv)
	t.Cleanup(d.Stop)
	return NewAPI(d, repoDir), drv, d
}

func do(t *testing.T, a *API, method, target string,
	body io.Reader) *httptest.ResponseRecorder {

	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec
}

func TestVersion(t *testing.T) {

	a, _, _ := newTestAPI(t, "")

	rec := do(t, a, "GET", "/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "cardfs")

	req := httptest.NewRequest("GET", "/version", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.NotEmpty(t, reply["version"])
}

func TestPutAndGetFile(t *testing.T) {

	a, _, _ := newTestAPI(t, "")

	rec := do(t, a, "PUT", "/file/data.txt", bytes.NewBufferString("hello"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, a, "GET", "/file?path=data.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hello", rec.Body.String())
}

func TestGetMissingFile(t *testing.T) {

	a, _, _ := newTestAPI(t, "")

	rec := do(t, a, "GET", "/file?path=nope.txt", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFileMissingArg(t *testing.T) {

	a, _, _ := newTestAPI(t, "")

	rec := do(t, a, "GET", "/file", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPutCompressedBody(t *testing.T) {

	a, _, _ := newTestAPI(t, "")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("compressed content"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	rec := do(t, a, "PUT", "/file/data.txt?compressor=gz", &buf)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, a, "GET", "/file?path=data.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "compressed content", rec.Body.String())
}

func TestPutFromRepoRef(t *testing.T) {

	repoDir := t.TempDir()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("payload from repo"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, ioutil.WriteFile(
		filepath.Join(repoDir, "payload.bin.gz"), buf.Bytes(), 0644))

	a, _, _ := newTestAPI(t, repoDir)

	rec := do(t, a, "PUT", "/file/payload.bin?ref=payload.bin.gz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, a, "GET", "/file?path=payload.bin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "payload from repo", rec.Body.String())
}

func TestPutRefWithoutRepo(t *testing.T) {

	a, _, _ := newTestAPI(t, "")

	rec := do(t, a, "PUT", "/file/x?ref=payload.bin", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestStatus(t *testing.T) {

	a, drv, _ := newTestAPI(t, "")
	drv.AddDir("logs")

	rec := do(t, a, "PUT", "/file/data.txt", bytes.NewBufferString("12345"))
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest("GET", "/status?path=data.txt", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.Equal(t, true, reply["file"])
	require.Equal(t, false, reply["dir"])
	require.Equal(t, float64(5), reply["size"])

	req = httptest.NewRequest("GET", "/status?path=logs", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.Equal(t, true, reply["dir"])
	require.NotContains(t, reply, "size")

	rec = do(t, a, "GET", "/status?path=nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCopy(t *testing.T) {

	a, _, _ := newTestAPI(t, "")

	rec := do(t, a, "PUT", "/file/src.txt", bytes.NewBufferString("content"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, a, "POST", "/copy?from=src.txt&to=dst.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "copied 7 bytes")

	rec = do(t, a, "GET", "/file?path=dst.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "content", rec.Body.String())

	rec = do(t, a, "POST", "/copy?from=missing&to=dst", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, a, "POST", "/copy?from=src.txt", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSearchWithoutIndex(t *testing.T) {

	a, _, _ := newTestAPI(t, "")

	rec := do(t, a, "GET", "/search?term=x", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, a, "GET", "/ls", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSearchAndList(t *testing.T) {

	repoDir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(
		filepath.Join(repoDir, "robot-config.json"), []byte("{}"), 0644))
	require.NoError(t, ioutil.WriteFile(
		filepath.Join(repoDir, "calibration.bin"), []byte("x"), 0644))

	ix, err := repo.NewIndex(filepath.Join(t.TempDir(), "index"), repoDir)
	require.NoError(t, err)
	require.NoError(t, ix.Start())

	a, _, d := newTestAPI(t, repoDir)
	d.SetIndex(ix)

	req := httptest.NewRequest("GET", "/search?term=config", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res repo.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Contains(t, res.Hits, "robot-config.json")

	rec = do(t, a, "GET", "/ls", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "calibration.bin")

	rec = do(t, a, "GET", "/search?term=", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, a, "GET", "/ls?items=bogus", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
