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
	"fmt"
	"io"
	"sync"

	"github.com/jacobsa/go-serial/serial"
	log "github.com/sirupsen/logrus"

	"github.com/tealfin/cardfs/pkg/volume"
)

/*
	Driver is the host-side volume.Driver that forwards every call to the
	on-device agent over a serial link. The vendor ABI this mirrors has no
	error channel besides status codes and negative returns, so transport
	failures are logged and reported as StatusDiskErr, a null handle, or a
	negative count, whichever the call allows.
*/
type Driver struct {
	mu   sync.Mutex
	conn io.ReadWriteCloser
}

// Open connects to the device agent on the named serial port.
func Open(device string, baud uint) (*Driver, error) {

	port, err := serial.Open(serial.OpenOptions{
		PortName:        device,
		BaudRate:        baud,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open serial port '%s': %v", device, err)
	}

	log.WithFields(log.Fields{
		"device": device,
		"baud":   baud,
	}).Info("serial card driver connected")

	return NewOn(port), nil
}

// NewOn wraps an already established transport, e.g. a pipe in tests.
func NewOn(conn io.ReadWriteCloser) *Driver {
	return &Driver{conn: conn}
}

//
func (d *Driver) CloseConn() error {
	return d.conn.Close()
}

// remote file handle; just the agent-side id
type remoteFd uint32

//
func (d *Driver) transact(op byte, payload []byte) ([]byte, error) {

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := writeFrame(d.conn, op, payload); err != nil {
		return nil, err
	}

	return readResponse(d.conn)
}

//
func (d *Driver) Mount() volume.Status {

	resp, err := d.transact(opMount, nil)
	if err != nil || len(resp) < 1 {
		log.Errorf("mount transport failure: %v", err)
		return volume.StatusDiskErr
	}

	return volume.Status(resp[0])
}

//
func (d *Driver) OpenRead(path []byte) volume.Fd {
	return d.open(opOpenRead, path)
}

//
func (d *Driver) OpenWrite(path []byte) volume.Fd {
	return d.open(opOpenWrite, path)
}

//
func (d *Driver) OpenCreate(path []byte) volume.Fd {
	return d.open(opOpenCreate, path)
}

//
func (d *Driver) open(op byte, path []byte) volume.Fd {

	resp, err := d.transact(op, path)
	if err != nil || len(resp) < 4 {
		log.Errorf("open transport failure: %v", err)
		return nil
	}

	id := binary.LittleEndian.Uint32(resp)
	if id == 0 {
		return nil
	}

	return remoteFd(id)
}

//
func (d *Driver) Read(fd volume.Fd, p []byte) int {

	id, ok := fd.(remoteFd)
	if !ok {
		return -1
	}

	payload := append(putUint32(uint32(id)), putUint32(uint32(len(p)))...)

	resp, err := d.transact(opRead, payload)
	if err != nil || len(resp) < 4 {
		log.Errorf("read transport failure: %v", err)
		return -1
	}

	n := int(int32(binary.LittleEndian.Uint32(resp)))
	if n <= 0 {
		return n
	}
	if len(resp) < 4+n {
		log.Errorf("read response truncated: want %d bytes, have %d",
			n, len(resp)-4)
		return -1
	}

	return copy(p, resp[4:4+n])
}

//
func (d *Driver) Write(fd volume.Fd, p []byte) int {

	id, ok := fd.(remoteFd)
	if !ok {
		return -1
	}

	payload := append(putUint32(uint32(id)), p...)

	resp, err := d.transact(opWrite, payload)
	if err != nil || len(resp) < 4 {
		log.Errorf("write transport failure: %v", err)
		return -1
	}

	return int(int32(binary.LittleEndian.Uint32(resp)))
}

//
func (d *Driver) Seek(fd volume.Fd, offset int64, whence int) {

	id, ok := fd.(remoteFd)
	if !ok {
		return
	}

	payload := append(putUint32(uint32(id)), putInt64(offset)...)
	payload = append(payload, byte(whence))

	if _, err := d.transact(opSeek, payload); err != nil {
		log.Errorf("seek transport failure: %v", err)
	}
}

//
func (d *Driver) Sync(fd volume.Fd) {

	id, ok := fd.(remoteFd)
	if !ok {
		return
	}

	if _, err := d.transact(opSync, putUint32(uint32(id))); err != nil {
		log.Errorf("sync transport failure: %v", err)
	}
}

//
func (d *Driver) Size(fd volume.Fd) int64 {

	id, ok := fd.(remoteFd)
	if !ok {
		return -1
	}

	resp, err := d.transact(opSize, putUint32(uint32(id)))
	if err != nil || len(resp) < 8 {
		log.Errorf("size transport failure: %v", err)
		return -1
	}

	return int64(binary.LittleEndian.Uint64(resp))
}

//
func (d *Driver) Stat(path []byte) int {

	resp, err := d.transact(opStat, path)
	if err != nil || len(resp) < 4 {
		log.Errorf("stat transport failure: %v", err)
		return volume.StatNone
	}

	return int(int32(binary.LittleEndian.Uint32(resp)))
}

//
func (d *Driver) Close(fd volume.Fd) {

	id, ok := fd.(remoteFd)
	if !ok {
		return
	}

	if _, err := d.transact(opClose, putUint32(uint32(id))); err != nil {
		log.Errorf("close transport failure: %v", err)
	}
}
