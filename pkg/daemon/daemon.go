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

package daemon

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tealfin/cardfs/pkg/repo"
	"github.com/tealfin/cardfs/pkg/volume"
	"github.com/tealfin/cardfs/pkg/volume/fs"
)

// how long an operation waits for exclusive card access before giving up
const lockTimeout = 3 * time.Second

/*
	Daemon owns the one card driver of this process and serializes all
	access to it. The driver handle is a single mutable cursor and the
	volume knows nothing about concurrent callers, so every operation takes
	the card lock for its full duration.
*/
type Daemon struct {
	drv volume.Driver
	vol *fs.Volume
	//
	index *repo.Index
	//
	lock chan bool
}

//
func New(drv volume.Driver) *Daemon {
	return &Daemon{
		drv:  drv,
		vol:  fs.New(drv),
		lock: make(chan bool, 1),
	}
}

// SetIndex attaches the payload repo index used by search and by ref-based
// uploads. Optional.
func (d *Daemon) SetIndex(ix *repo.Index) {
	d.index = ix
}

//
func (d *Daemon) Index() *repo.Index {
	return d.index
}

// Stop releases daemon resources; the card itself has no unmount.
func (d *Daemon) Stop() {
	if d.index != nil {
		d.index.Stop()
	}
}

//
func (d *Daemon) tryLock(ctx context.Context) bool {
	select {
	case d.lock <- true:
		log.Trace("card locked")
		return true
	case <-ctx.Done():
		log.Debug("card lock timed out")
		return false
	}
}

//
func (d *Daemon) unlock() {
	select {
	case <-d.lock:
		log.Trace("card unlocked")
	default:
		log.Debug("card was already unlocked")
	}
}

//
func (d *Daemon) locked(op func() error) error {

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	if !d.tryLock(ctx) {
		return fmt.Errorf("could not lock card")
	}
	defer d.unlock()

	return op()
}

// ReadFile reads the whole content of the named file from the card.
func (d *Daemon) ReadFile(path volume.Path) ([]byte, error) {

	var data []byte

	err := d.locked(func() error {
		var err error
		data, err = d.vol.ReadFile(path)
		return err
	})

	return data, err
}

// WriteFile replaces the named file on the card with data and syncs it to
// the media before releasing the handle.
func (d *Daemon) WriteFile(path volume.Path, data []byte) error {

	return d.locked(func() error {

		f, err := d.vol.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := f.WriteAll(data); err != nil {
			return err
		}

		// closing never flushes, so sync explicitly
		if err := f.SyncAll(); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"path": path,
			"size": len(data),
		}).Info("file written")

		return nil
	})
}

// Copy copies one card file onto another card path.
func (d *Daemon) Copy(from, to volume.Path) (int64, error) {

	var n int64

	err := d.locked(func() error {
		var err error
		n, err = d.vol.Copy(from, to)
		return err
	})

	return n, err
}

//
func (d *Daemon) Stat(path volume.Path) (*fs.Metadata, error) {

	var md *fs.Metadata

	err := d.locked(func() error {
		var err error
		md, err = d.vol.Stat(path)
		return err
	})

	return md, err
}

//
func (d *Daemon) Exists(path volume.Path) (bool, error) {

	var present bool

	err := d.locked(func() error {
		present = d.vol.Exists(path)
		return nil
	})

	return present, err
}
