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
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/tealfin/cardfs/pkg/payload"
)

//
func NewPut() *Put {

	p := &Put{}
	p.Runner = *NewRunner(
		"put [-a|--address {address}] -n|--name {name} [-i|--input {file}] [-r|--ref {reference}] [-c|--compressor {gz|zip|7z}]",
		"write a file to the card",
		`
Use the put command to write a file to the card. The payload comes from a
local file given with --input, or from the daemon's payload repo or an
http(s) URL given with --ref. Without either, stdin is used. Compressed
payloads are unpacked before writing; the compressor is derived from the
input or reference name, or forced with --compressor.`,
		"", runnerHelpEpilogue, p.Run)

	p.AddBaseSettings()
	p.AddSetting(&p.Name, "name", "n", "", nil, "card path to write", true)
	p.AddSetting(&p.Input, "input", "i", "", nil, "local payload file", false)
	p.AddSetting(&p.Ref, "ref", "r", "", nil,
		"payload reference, repo file or http(s) URL", false)
	p.AddSetting(&p.Compressor, "compressor", "c", "", nil,
		"payload compressor", false)

	return p
}

//
type Put struct {
	Runner
	//
	Name       string
	Input      string
	Ref        string
	Compressor string
}

//
func (p *Put) Run() error {

	p.ParseSettings()

	if p.Input != "" && p.Ref != "" {
		return fmt.Errorf("--input and --ref are mutually exclusive")
	}

	target := fmt.Sprintf("/file/%s", url.PathEscape(p.Name))

	var body io.Reader

	if p.Ref != "" {
		target = fmt.Sprintf("%s?ref=%s", target, url.QueryEscape(p.Ref))
		if p.Compressor != "" {
			target = fmt.Sprintf("%s&compressor=%s",
				target, url.QueryEscape(p.Compressor))
		}

	} else {
		if p.Input != "" {
			f, err := os.Open(p.Input)
			if err != nil {
				return err
			}
			defer f.Close()
			body = bufio.NewReader(f)
			if p.Compressor == "" {
				_, p.Compressor = payload.SplitNameCompressor(p.Input)
			}
		} else {
			body = os.Stdin
		}
		if p.Compressor != "" {
			target = fmt.Sprintf("%s?compressor=%s",
				target, url.QueryEscape(p.Compressor))
		}
	}

	resp, err := p.apiCall("PUT", target, false, body)
	if err != nil {
		return err
	}
	defer resp.Close()

	_, err = io.Copy(os.Stdout, resp)
	return err
}
