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

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

/*
	NewDirWatcher creates a recursive file system watcher for the directory
	tree rooted in dir, used to keep the payload repo index fresh.
	Directories added to the tree later are picked up and watched as well.
	The watcher is idle until Start is called.
*/
func NewDirWatcher(dir string) (*DirWatcher, error) {

	ret := &DirWatcher{
		release: make(chan bool),
	}

	var err error
	if ret.watcher, err = fsnotify.NewWatcher(); err != nil {
		return nil, err
	}

	if err := filepath.Walk(dir, ret.addDirWalking); err != nil {
		log.Errorf("error walking directory '%s': %v", dir, err)
		return nil, err
	}

	return ret, nil
}

//
type DirWatcher struct {
	watcher *fsnotify.Watcher
	release chan bool
	running bool
}

/*
	Start starts this directory watcher. Every change in the watched tree
	is passed to handler. Additionally, a timer is set to expire after
	backoff; when no further changes arrive before it fires, flush is
	called. Batching the flush here means it runs on the same goroutine as
	the handler, so the client does not have to be thread safe.
*/
func (dw *DirWatcher) Start(backoff time.Duration,
	handler func(fsnotify.Event) error, flush func() error) error {

	if dw.watcher == nil {
		return fmt.Errorf("directory watcher not initialized or stopped")
	}

	if dw.running {
		return fmt.Errorf("directory watcher already started")
	}

	dw.running = true

	go func() {

		timer := time.NewTimer(time.Millisecond)
		<-timer.C

		for {
			select {

			case evt, ok := <-dw.watcher.Events:

				if !ok {
					log.Debug("directory watcher routine exiting")
					dw.running = false
					dw.release <- true
					return
				}

				timer.Stop()
				dw.handleEvent(evt)
				if err := handler(evt); err != nil {
					log.Errorf("error in watch event handler: %v", err)
				}
				timer = time.NewTimer(backoff)

			case err, ok := <-dw.watcher.Errors:
				if ok {
					log.Errorf("directory watcher error: %v", err)
				}

			case <-timer.C:
				if err := flush(); err != nil {
					log.Errorf("error flushing: %v", err)
				}
			}
		}
	}()

	return nil
}

/*
	Stop signals this directory watcher to stop, and waits until it has
	stopped. A stopped directory watcher cannot be started again. Returns
	immediately if this directory watcher is not running.
*/
func (dw *DirWatcher) Stop() {

	if dw.watcher == nil {
		return
	}

	running := dw.running

	if err := dw.watcher.Close(); err != nil {
		log.Errorf("could not close file watcher: %v", err)
	}

	if running {
		<-dw.release
	}

	dw.watcher = nil
}

// newly created directories join the watch
func (dw *DirWatcher) handleEvent(evt fsnotify.Event) {

	if evt.Op&fsnotify.Create == 0 {
		return
	}

	info, err := os.Lstat(evt.Name)
	if err != nil || !info.IsDir() {
		return
	}

	if err := dw.watcher.Add(evt.Name); err != nil {
		log.Errorf("error adding watch for directory '%s': %v", evt.Name, err)
		return
	}

	log.WithField("path", evt.Name).Debug("starting directory watch")
}

//
func (dw *DirWatcher) addDirWalking(
	path string, info os.FileInfo, err error) error {

	if err != nil {
		return err
	}

	if !info.IsDir() {
		return nil
	}

	if err := dw.watcher.Add(path); err != nil {
		log.Errorf("error adding watch for directory '%s': %v", path, err)
		return err
	}

	log.WithField("path", path).Debug("starting directory watch")
	return nil
}
