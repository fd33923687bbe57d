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
func NewCopy() *Copy {

	c := &Copy{}
	c.Runner = *NewRunner(
		"copy [-a|--address {address}] -f|--from {path} -t|--to {path}",
		"copy a file on the card",
		`
Use the copy command to copy one card file onto another card path. The
copy is not atomic; when it fails, the target may be missing or partial.`,
		"", runnerHelpEpilogue, c.Run)

	c.AddBaseSettings()
	c.AddSetting(&c.From, "from", "f", "", nil, "source card path", true)
	c.AddSetting(&c.To, "to", "t", "", nil, "target card path", true)

	return c
}

//
type Copy struct {
	Runner
	//
	From string
	To   string
}

//
func (c *Copy) Run() error {

	c.ParseSettings()

	resp, err := c.apiCall("POST",
		fmt.Sprintf("/copy?from=%s&to=%s",
			url.QueryEscape(c.From), url.QueryEscape(c.To)), false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	_, err = io.Copy(os.Stdout, resp)
	return err
}
