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
	"fmt"
	"io"
	"net/url"
	"os"
)

//
func NewStat() *Stat {

	s := &Stat{}
	s.Runner = *NewRunner(
		"stat [-a|--address {address}] -p|--path {path}",
		"get metadata of a card path",
		`
Use the stat command to check whether a card path is a file or a
directory, and to get the size of a file.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Path, "path", "p", "", nil, "card path to check", true)

	return s
}

//
type Stat struct {
	Runner
	//
	Path string
}

//
func (s *Stat) Run() error {

	s.ParseSettings()

	resp, err := s.apiCall("GET",
		fmt.Sprintf("/status?path=%s", url.QueryEscape(s.Path)), false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	_, err = io.Copy(os.Stdout, resp)
	return err
}
