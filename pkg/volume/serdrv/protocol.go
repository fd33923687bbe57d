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
)

/*
	Wire protocol between the host and the on-device agent owning the real
	card driver. One request, one response, strictly in order; the link is
	a single serial line, so there is no interleaving to worry about.

	request:  op byte, u32 payload length, payload
	response:          u32 payload length, payload

	All integers are little-endian. File handles travel as u32 agent-side
	ids; id 0 is the null handle.
*/
const (
	opMount byte = iota + 1
	opOpenRead
	opOpenWrite
	opOpenCreate
	opRead
	opWrite
	opSeek
	opSync
	opSize
	opStat
	opClose
)

// caps a response payload; nothing legitimate comes close
const maxPayload = 1 << 20

//
func writeFrame(w io.Writer, op byte, payload []byte) error {

	head := make([]byte, 5)
	head[0] = op
	binary.LittleEndian.PutUint32(head[1:], uint32(len(payload)))

	if _, err := w.Write(head); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}

	return nil
}

//
func readFrame(r io.Reader) (byte, []byte, error) {

	head := make([]byte, 5)
	if _, err := io.ReadFull(r, head); err != nil {
		return 0, nil, err
	}

	size := binary.LittleEndian.Uint32(head[1:])
	if size > maxPayload {
		return 0, nil, fmt.Errorf("oversized frame: %d bytes", size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}

	return head[0], payload, nil
}

//
func writeResponse(w io.Writer, payload []byte) error {

	head := make([]byte, 4)
	binary.LittleEndian.PutUint32(head, uint32(len(payload)))

	if _, err := w.Write(head); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}

	return nil
}

//
func readResponse(r io.Reader) ([]byte, error) {

	head := make([]byte, 4)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, err
	}

	size := binary.LittleEndian.Uint32(head)
	if size > maxPayload {
		return nil, fmt.Errorf("oversized response: %d bytes", size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	return payload, nil
}

//
func putUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

//
func putInt64(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}
