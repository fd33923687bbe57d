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

	"github.com/tealfin/cardfs/pkg/util"
)

//
func (a *API) version(w http.ResponseWriter, req *http.Request) {

	if wantsJSON(req) {
		sendJSONReply(map[string]string{
			"version": util.CardFSVersion,
		}, http.StatusOK, w)

	} else {
		sendReply([]byte(
			fmt.Sprintf("cardfs %s\n", util.CardFSVersion)), http.StatusOK, w)
	}
}
