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

package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/tealfin/cardfs/pkg/util"
)

// characters folded into spaces when cleaning payload names for indexing
const replaceChars = "`~!@#$%^&*_-+=()[]{}|;:',.<>?"

var nameCleaner *strings.Replacer

//
func init() {
	rep := make([]string, 2*len(replaceChars))
	for ix, c := range replaceChars {
		rep[ix*2] = string(c)
		rep[ix*2+1] = " "
	}
	nameCleaner = strings.NewReplacer(rep...)
}

const watchBackoff = 5 * time.Second
const batchSize = 100

/*
	NewIndex creates or opens the search index stored at base, covering the
	payload files below the repo directory. The index only becomes live
	once Start has been called.
*/
func NewIndex(base, repo string) (*Index, error) {

	var err error
	i := &Index{}

	if i.base, err = filepath.Abs(base); err != nil {
		return nil, err
	}
	if i.repo, err = filepath.Abs(repo); err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"base": i.base, "repo": i.repo})

	if _, err := os.Stat(i.base); err != nil {
		if os.IsNotExist(err) {
			logger.Info("creating new index")
			i.index, err = bleve.New(i.base, bleve.NewIndexMapping())
		}

		if err != nil {
			logger.Errorf("cannot create index: %v", err)
			return nil, err
		}

		logger.Info("new index created")
		i.empty = true

	} else {
		logger.Info("opening index")
		i.index, err = bleve.Open(i.base)
		if err != nil {
			logger.Errorf("cannot open index: %v", err)
			return nil, err
		}

		logger.Info("index opened")
	}

	i.batch = i.index.NewBatch()
	return i, nil
}

// document indexed per payload file
type Entry struct {
	Name string
}

//
type Index struct {
	base    string
	repo    string
	stopped bool
	//
	index   bleve.Index
	empty   bool
	watcher *util.DirWatcher
	//
	batch      *bleve.Batch
	batchCount int
}

// Repo returns the payload directory this index covers.
func (i *Index) Repo() string {
	return i.repo
}

// Start brings the index in sync with the repo directory and begins
// watching the directory for changes.
func (i *Index) Start() error {

	start := time.Now()
	log.Info("pruning index")
	if err := i.prune(); err != nil {
		return fmt.Errorf("error pruning index: %v", err)
	}
	log.WithField(
		"duration", time.Since(start)).Info("index pruning finished")

	start = time.Now()
	log.Info("updating index")
	if err := i.update(); err != nil {
		return fmt.Errorf("error updating index: %v", err)
	}
	log.WithField(
		"duration", time.Since(start)).Info("index update finished")

	if err := i.startWatching(); err != nil {
		return fmt.Errorf("error starting repo watcher: %v", err)
	}

	if err := i.batched(true); err != nil {
		return err
	}

	log.Info("index ready")
	return nil
}

//
func (i *Index) Stop() {

	if i.watcher != nil {
		i.watcher.Stop()
	}

	if i.index != nil {
		i.index.Close()
	}

	i.stopped = true
}

// prune drops documents whose payload file is gone from the repo
func (i *Index) prune() error {

	if i.empty {
		return nil
	}

	ix, err := i.index.Advanced()
	if err != nil {
		return err
	}

	rd, err := ix.Reader()
	if err != nil {
		return err
	}
	defer rd.Close()

	docs, err := rd.DocIDReaderAll()
	if err != nil {
		return err
	}
	defer docs.Close()

	for {
		d, err := docs.Next()
		if err != nil {
			return err
		}
		if d == nil {
			return nil
		}

		id, err := rd.ExternalID(d)
		if err != nil {
			return err
		}

		if _, err := os.Stat(filepath.Join(i.repo, id)); os.IsNotExist(err) {
			log.WithField("file", id).Debug("pruning")
			i.batch.Delete(id)
			if err := i.batched(false); err != nil {
				return err
			}
		}
	}
}

// update walks the repo directory and (re-)indexes every payload file
func (i *Index) update() error {

	return filepath.Walk(i.repo,
		func(path string, info os.FileInfo, err error) error {

			if err != nil {
				return err
			}
			if info.IsDir() {
				// the index directory itself may live inside the repo
				if path == i.base {
					return filepath.SkipDir
				}
				return nil
			}

			return i.add(path)
		})
}

//
func (i *Index) add(path string) error {

	id, err := filepath.Rel(i.repo, path)
	if err != nil {
		return err
	}

	log.WithField("file", id).Debug("indexing")

	if err := i.batch.Index(id, Entry{Name: cleanName(id)}); err != nil {
		return err
	}

	return i.batched(false)
}

//
func (i *Index) remove(path string) error {

	id, err := filepath.Rel(i.repo, path)
	if err != nil {
		return err
	}

	log.WithField("file", id).Debug("removing from index")
	i.batch.Delete(id)

	return i.batched(false)
}

// batched flushes the current batch when it has grown large enough, or in
// any case when force is set
func (i *Index) batched(force bool) error {

	i.batchCount++

	if !force && i.batchCount < batchSize {
		return nil
	}

	if err := i.index.Batch(i.batch); err != nil {
		return err
	}

	i.batch.Reset()
	i.batchCount = 0

	return nil
}

//
func (i *Index) startWatching() error {

	var err error
	if i.watcher, err = util.NewDirWatcher(i.repo); err != nil {
		return err
	}

	return i.watcher.Start(watchBackoff,

		func(evt fsnotify.Event) error {

			if strings.HasPrefix(evt.Name, i.base) {
				return nil
			}

			switch {

			case evt.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if info, err := os.Stat(evt.Name); err == nil && !info.IsDir() {
					return i.add(evt.Name)
				}

			case evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				return i.remove(evt.Name)
			}

			return nil
		},

		func() error {
			return i.batched(true)
		})
}

//
func cleanName(name string) string {
	return strings.Join(strings.Fields(nameCleaner.Replace(name)), " ")
}
