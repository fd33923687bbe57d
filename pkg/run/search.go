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
func NewSearch() *Search {

	s := &Search{}
	s.Runner = *NewRunner(
		"search [-a|--address {address}] -t|--term {search term} [-i|--items {max results}]",
		"search for payloads in the daemon repo",
		`
Use the search command to find payloads in the daemon's repository, if
enabled.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Term, "term", "t", "", nil,
		"search term; used to search through the payload file names", true)
	s.AddSetting(&s.Items, "items", "i", "", 100,
		"max number of search results to return", false)

	return s
}

//
type Search struct {
	Runner
	//
	Term  string
	Items int
}

//
func (s *Search) Run() error {

	s.ParseSettings()

	resp, err := s.apiCall("GET",
		fmt.Sprintf("/search?items=%d&term=%s", s.Items, url.QueryEscape(s.Term)),
		false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	if _, err := io.Copy(os.Stdout, resp); err != nil {
		return err
	}

	return nil
}

//
func NewLs() *Ls {

	l := &Ls{}
	l.Runner = *NewRunner(
		"ls [-a|--address {address}] [-i|--items {max results}]",
		"list payloads in the daemon repo",
		`
Use the ls command to list the payloads in the daemon's repository, if
enabled. The card volume itself cannot be listed.`,
		"", runnerHelpEpilogue, l.Run)

	l.AddBaseSettings()
	l.AddSetting(&l.Items, "items", "i", "", 100,
		"max number of results to return", false)

	return l
}

//
type Ls struct {
	Runner
	//
	Items int
}

//
func (l *Ls) Run() error {

	l.ParseSettings()

	resp, err := l.apiCall("GET",
		fmt.Sprintf("/ls?items=%d", l.Items), false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	_, err = io.Copy(os.Stdout, resp)
	return err
}
