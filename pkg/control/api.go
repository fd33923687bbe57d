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
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/tealfin/cardfs/pkg/daemon"
	"github.com/tealfin/cardfs/pkg/volume"
)

/*
	NewAPI creates the control API for the given daemon. The API exposes
	the card over HTTP for CLI clients and scripting:

	GET  /version            daemon & protocol versions
	GET  /status?path=       metadata of a card path
	GET  /file?path=         download a card file
	PUT  /file/{name}        upload body or ?ref= payload to a card file
	POST /copy?from=&to=     card-to-card copy
	GET  /search?term=       search the payload repo index
	GET  /ls                 list the payload repo index
*/
func NewAPI(d *daemon.Daemon, repoDir string) *API {

	a := &API{daemon: d, repoDir: repoDir}

	router := mux.NewRouter()
	router.HandleFunc("/version", a.version).Methods("GET")
	router.HandleFunc("/status", a.status).Methods("GET")
	router.HandleFunc("/file", a.getFile).Methods("GET")
	router.HandleFunc("/file/{name}", a.putFile).Methods("PUT")
	router.HandleFunc("/copy", a.copy).Methods("POST")
	router.HandleFunc("/search", a.search).Methods("GET")
	router.HandleFunc("/ls", a.list).Methods("GET")
	a.router = router

	return a
}

//
type API struct {
	daemon  *daemon.Daemon
	repoDir string
	router  *mux.Router
}

//
func (a *API) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	a.router.ServeHTTP(w, req)
}

// Serve runs the control API until the listener fails.
func (a *API) Serve(addr string) error {
	log.WithField("address", addr).Info("control API listening")
	return http.ListenAndServe(addr, a.router)
}

// --- shared helpers ---

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {
	if e == nil {
		return false
	}
	log.Errorf("%v", e)
	http.Error(w, fmt.Sprintf("%v", e), statusCode)
	return true
}

// cardError maps volume error kinds onto HTTP status codes before handing
// off to handleError
func cardError(e error, w http.ResponseWriter) bool {

	if e == nil {
		return false
	}

	status := http.StatusInternalServerError

	switch {
	case volume.IsKind(e, volume.ErrNotFound):
		status = http.StatusNotFound
	case volume.IsKind(e, volume.ErrAlreadyExists):
		status = http.StatusConflict
	case volume.IsKind(e, volume.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	case volume.IsKind(e, volume.ErrInvalidData):
		status = http.StatusUnprocessableEntity
	case volume.IsKind(e, volume.ErrPermissionDenied):
		status = http.StatusForbidden
	case volume.IsKind(e, volume.ErrTimedOut):
		status = http.StatusGatewayTimeout
	case strings.Contains(e.Error(), "could not lock"):
		status = http.StatusLocked
	}

	return handleError(e, status, w)
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem sending JSON reply: %v", err)
	}
}

//
func getArg(req *http.Request, name string) string {
	return req.URL.Query().Get(name)
}

//
func getIntArg(req *http.Request, name string, def int) (int, error) {

	arg := getArg(req, name)
	if arg == "" {
		return def, nil
	}

	ret, err := strconv.Atoi(arg)
	if err != nil {
		return def, fmt.Errorf("invalid argument '%s': %v", name, err)
	}

	return ret, nil
}

//
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}
