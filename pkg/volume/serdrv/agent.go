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

package serdrv

import (
	"encoding/binary"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/tealfin/cardfs/pkg/volume"
)

/*
	Agent is the device side of the serial protocol: it owns the real
	driver and answers one request at a time until the transport closes.
	It also backs the protocol tests, where it serves a memory driver over
	a pipe.
*/
type Agent struct {
	drv volume.Driver
	//
	fds    map[uint32]volume.Fd
	nextFd uint32
}

//
func NewAgent(drv volume.Driver) *Agent {
	return &Agent{
		drv:    drv,
		fds:    make(map[uint32]volume.Fd),
		nextFd: 1,
	}
}

// Serve processes requests from conn until it is closed or fails. A closed
// transport is a normal shutdown and returns nil.
func (a *Agent) Serve(conn io.ReadWriteCloser) error {

	for {
		op, payload, err := readFrame(conn)
		if err != nil {
			if err == io.EOF || err == io.ErrClosedPipe {
				log.Debug("agent transport closed")
				return nil
			}
			return err
		}

		if err := writeResponse(conn, a.handle(op, payload)); err != nil {
			return err
		}
	}
}

//
func (a *Agent) handle(op byte, payload []byte) []byte {

	switch op {

	case opMount:
		return []byte{byte(a.drv.Mount())}

	case opOpenRead:
		return a.open(a.drv.OpenRead(payload))
	case opOpenWrite:
		return a.open(a.drv.OpenWrite(payload))
	case opOpenCreate:
		return a.open(a.drv.OpenCreate(payload))

	case opRead:
		if len(payload) < 8 {
			return putUint32(uint32(0xffffffff))
		}
		fd := a.fds[binary.LittleEndian.Uint32(payload)]
		count := binary.LittleEndian.Uint32(payload[4:])
		if count > maxPayload {
			count = maxPayload
		}
		buf := make([]byte, count)
		n := a.drv.Read(fd, buf)
		resp := putUint32(uint32(int32(n)))
		if n > 0 {
			resp = append(resp, buf[:n]...)
		}
		return resp

	case opWrite:
		if len(payload) < 4 {
			return putUint32(uint32(0xffffffff))
		}
		fd := a.fds[binary.LittleEndian.Uint32(payload)]
		n := a.drv.Write(fd, payload[4:])
		return putUint32(uint32(int32(n)))

	case opSeek:
		if len(payload) < 13 {
			return nil
		}
		fd := a.fds[binary.LittleEndian.Uint32(payload)]
		offset := int64(binary.LittleEndian.Uint64(payload[4:]))
		a.drv.Seek(fd, offset, int(payload[12]))
		return nil

	case opSync:
		if len(payload) >= 4 {
			a.drv.Sync(a.fds[binary.LittleEndian.Uint32(payload)])
		}
		return nil

	case opSize:
		if len(payload) < 4 {
			return putInt64(-1)
		}
		return putInt64(a.drv.Size(a.fds[binary.LittleEndian.Uint32(payload)]))

	case opStat:
		return putUint32(uint32(int32(a.drv.Stat(payload))))

	case opClose:
		if len(payload) >= 4 {
			id := binary.LittleEndian.Uint32(payload)
			if fd, ok := a.fds[id]; ok {
				a.drv.Close(fd)
				delete(a.fds, id)
			}
		}
		return nil
	}

	log.Warnf("agent received unknown op %d", op)
	return nil
}

//
func (a *Agent) open(fd volume.Fd) []byte {

	if fd == nil {
		return putUint32(0)
	}

	id := a.nextFd
	a.nextFd++
	a.fds[id] = fd

	return putUint32(id)
}
