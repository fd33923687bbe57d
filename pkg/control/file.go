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
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/tealfin/cardfs/pkg/payload"
	"github.com/tealfin/cardfs/pkg/repo"
	"github.com/tealfin/cardfs/pkg/volume"
)

// uploads straight from the request body are capped like repo payloads
const maxUpload = 1048576

//
func (a *API) status(w http.ResponseWriter, req *http.Request) {

	path := getArg(req, "path")
	if path == "" {
		handleError(fmt.Errorf("missing argument 'path'"),
			http.StatusUnprocessableEntity, w)
		return
	}

	md, err := a.daemon.Stat(volume.Path(path))
	if cardError(err, w) {
		return
	}

	if wantsJSON(req) {
		reply := map[string]interface{}{
			"path": path,
			"dir":  md.IsDir(),
			"file": md.IsFile(),
		}
		if size, ok := md.Size(); ok {
			reply["size"] = size
		}
		sendJSONReply(reply, http.StatusOK, w)

	} else {
		kind := "file"
		if md.IsDir() {
			kind = "dir"
		}
		line := fmt.Sprintf("%s\t%s", kind, path)
		if size, ok := md.Size(); ok {
			line = fmt.Sprintf("%s\t%d", line, size)
		}
		sendReply([]byte(line+"\n"), http.StatusOK, w)
	}
}

//
func (a *API) getFile(w http.ResponseWriter, req *http.Request) {

	path := getArg(req, "path")
	if path == "" {
		handleError(fmt.Errorf("missing argument 'path'"),
			http.StatusUnprocessableEntity, w)
		return
	}

	data, err := a.daemon.ReadFile(volume.Path(path))
	if cardError(err, w) {
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	sendReply(data, http.StatusOK, w)
}

/*
	putFile writes the payload to the named card file. The payload comes
	either from the request body or, with the 'ref' argument, from the
	payload repo or an http(s) URL. A 'compressor' argument forces
	decompression; without it the compressor is derived from the reference
	name.
*/
func (a *API) putFile(w http.ResponseWriter, req *http.Request) {

	vars := mux.Vars(req)
	name := vars["name"]

	var source io.ReadCloser
	compressor := getArg(req, "compressor")

	if ref := getArg(req, "ref"); ref != "" {
		req.Body.Close()
		src, err := repo.Resolve(ref, a.repoDir)
		if handleError(err, http.StatusUnprocessableEntity, w) {
			return
		}
		source = src
		if compressor == "" {
			_, compressor = payload.SplitNameCompressor(ref)
		}

	} else {
		source = http.MaxBytesReader(w, req.Body, maxUpload)
	}

	reader, err := payload.NewReader(source, compressor)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}
	defer reader.Close()

	data, err := ioutil.ReadAll(reader)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if cardError(a.daemon.WriteFile(volume.Path(name), data), w) {
		return
	}

	log.WithFields(log.Fields{
		"name": name,
		"size": len(data),
	}).Info("file uploaded")

	sendReply([]byte(fmt.Sprintf("wrote %d bytes to %s\n", len(data), name)),
		http.StatusOK, w)
}

//
func (a *API) copy(w http.ResponseWriter, req *http.Request) {

	from := getArg(req, "from")
	to := getArg(req, "to")
	if from == "" || to == "" {
		handleError(fmt.Errorf("missing argument 'from' or 'to'"),
			http.StatusUnprocessableEntity, w)
		return
	}

	n, err := a.daemon.Copy(volume.Path(from), volume.Path(to))
	if cardError(err, w) {
		return
	}

	if wantsJSON(req) {
		sendJSONReply(map[string]interface{}{
			"from":   from,
			"to":     to,
			"copied": n,
		}, http.StatusOK, w)

	} else {
		sendReply([]byte(fmt.Sprintf("copied %d bytes\n", n)),
			http.StatusOK, w)
	}
}
