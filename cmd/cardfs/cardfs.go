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

package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/tealfin/cardfs/pkg/run"
	"github.com/tealfin/cardfs/pkg/util"
)

//
type command interface {
	Execute(args []string) error
}

//
func main() {

	setupLogging()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var cmd command

	switch os.Args[1] {

	case "serve":
		cmd = run.NewServe()
	case "get":
		cmd = run.NewGet()
	case "put":
		cmd = run.NewPut()
	case "copy":
		cmd = run.NewCopy()
	case "stat":
		cmd = run.NewStat()
	case "search":
		cmd = run.NewSearch()
	case "ls":
		cmd = run.NewLs()
	case "version":
		cmd = run.NewVersion()

	case "-h", "--help", "help":
		usage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: '%s'\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err := cmd.Execute(os.Args[2:]); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

//
func setupLogging() {

	log.SetOutput(os.Stderr)

	if level := os.Getenv("CARDFS_LOG_LEVEL"); level != "" {
		if l, err := log.ParseLevel(level); err == nil {
			log.SetLevel(l)
		} else {
			log.Warnf("invalid log level '%s', using default", level)
		}
	}

	if os.Getenv("CARDFS_LOG_FORCE_COLORS") == "true" {
		log.SetFormatter(&log.TextFormatter{ForceColors: true})
	}
}

//
func usage() {
	fmt.Printf(`cardfs %s

usage: cardfs {command} [arguments]

commands:

  serve     run the card daemon
  get       read a file from the card
  put       write a file to the card
  copy      copy a file on the card
  stat      get metadata of a card path
  search    search for payloads in the daemon repo
  ls        list payloads in the daemon repo
  version   get client & daemon version info

Run 'cardfs {command} --help' for details about a command.
`, util.CardFSVersion)
}
