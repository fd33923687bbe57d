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
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/tealfin/cardfs/pkg/control"
	"github.com/tealfin/cardfs/pkg/daemon"
	"github.com/tealfin/cardfs/pkg/repo"
	"github.com/tealfin/cardfs/pkg/volume"
	"github.com/tealfin/cardfs/pkg/volume/memdrv"
	"github.com/tealfin/cardfs/pkg/volume/serdrv"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		"serve [-a|--address {address}] [--driver {memory|serial}] [-d|--device {device}] [-b|--baud {rate}] [-r|--repo {dir}]",
		"run the card daemon",
		`
Use the serve command to run the card daemon. It owns the card driver,
serializes access to the card, and exposes the control API over HTTP.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddSetting(&s.Listen, "address", "a", "CARDFS_ADDRESS",
		"localhost:8888", "listen address for the control API", false)
	s.AddSetting(&s.Driver, "driver", "", "CARDFS_DRIVER",
		"serial", "card driver, 'serial' or 'memory'", false)
	s.AddSetting(&s.Device, "device", "d", "CARDFS_DEVICE",
		"", "serial device of the card adapter", false)
	s.AddSetting(&s.Baud, "baud", "b", "CARDFS_BAUD",
		uint(115200), "baud rate of the card adapter", false)
	s.AddSetting(&s.Repo, "repo", "r", "CARDFS_REPO",
		"", "payload repository directory", false)

	return s
}

//
type Serve struct {
	Runner
	//
	Listen string
	Driver string
	Device string
	Baud   uint
	Repo   string
}

//
func (s *Serve) Run() error {

	s.ParseSettings()

	var drv volume.Driver

	switch s.Driver {

	case "memory":
		drv = memdrv.New()

	case "serial":
		if s.Device == "" {
			return fmt.Errorf("no serial device given")
		}
		sd, err := serdrv.Open(s.Device, s.Baud)
		if err != nil {
			return err
		}
		defer sd.CloseConn()
		drv = sd

	default:
		return fmt.Errorf("unknown driver: '%s'", s.Driver)
	}

	d := daemon.New(drv)
	defer d.Stop()

	if s.Repo != "" {
		ix, err := repo.NewIndex(filepath.Join(s.Repo, ".index"), s.Repo)
		if err != nil {
			return err
		}
		if err := ix.Start(); err != nil {
			return err
		}
		d.SetIndex(ix)
		log.WithField("repo", s.Repo).Info("payload repo enabled")
	}

	return control.NewAPI(d, s.Repo).Serve(s.Listen)
}
