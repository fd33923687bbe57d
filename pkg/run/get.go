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
func NewGet() *Get {

	g := &Get{}
	g.Runner = *NewRunner(
		"get [-a|--address {address}] -p|--path {path} [-o|--output {file}]",
		"read a file from the card",
		`
Use the get command to read a file from the card. The content goes to
stdout, or to a local file when --output is given.`,
		"", runnerHelpEpilogue, g.Run)

	g.AddBaseSettings()
	g.AddSetting(&g.Path, "path", "p", "", nil, "card path to read", true)
	g.AddSetting(&g.Output, "output", "o", "", nil, "local output file", false)

	return g
}

//
type Get struct {
	Runner
	//
	Path   string
	Output string
}

//
func (g *Get) Run() error {

	g.ParseSettings()

	resp, err := g.apiCall("GET",
		fmt.Sprintf("/file?path=%s", url.QueryEscape(g.Path)), false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	out := io.Writer(os.Stdout)
	if g.Output != "" {
		f, err := os.Create(g.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	_, err = io.Copy(out, resp)
	return err
}
