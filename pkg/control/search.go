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
	"net/http"
	"strings"

	"github.com/tealfin/cardfs/pkg/repo"
)

// default cap on hits returned by search and ls
const defaultItems = 25

//
func (a *API) search(w http.ResponseWriter, req *http.Request) {

	ix := a.daemon.Index()
	if ix == nil {
		handleError(fmt.Errorf("no payload repo configured"),
			http.StatusServiceUnavailable, w)
		return
	}

	items, err := getIntArg(req, "items", defaultItems)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	res, err := ix.Search(getArg(req, "term"), items)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	sendSearchReply(res, req, w)
}

//
func (a *API) list(w http.ResponseWriter, req *http.Request) {

	ix := a.daemon.Index()
	if ix == nil {
		handleError(fmt.Errorf("no payload repo configured"),
			http.StatusServiceUnavailable, w)
		return
	}

	items, err := getIntArg(req, "items", defaultItems)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	res, err := ix.List(items)
	if handleError(err, http.StatusInternalServerError, w) {
		return
	}

	sendSearchReply(res, req, w)
}

//
func sendSearchReply(res *repo.SearchResult, req *http.Request,
	w http.ResponseWriter) {

	if wantsJSON(req) {
		sendJSONReply(res, http.StatusOK, w)
		return
	}

	var b strings.Builder
	for _, h := range res.Hits {
		b.WriteString(h)
		b.WriteString("\n")
	}
	if !res.Complete {
		b.WriteString(fmt.Sprintf("... and %d more\n",
			res.Total-uint64(len(res.Hits))))
	}
	sendReply([]byte(b.String()), http.StatusOK, w)
}
