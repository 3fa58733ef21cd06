package message

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/roblatour/netblocker/internal/safety"
)

// Frame layout: Magic(2) | Version(1) | Kind(1) | Status(1) | Reserved(1) | CRC(2)
// CRC is the low 16 bits of the IEEE CRC-32 over the first six bytes.
// Every frame is exactly FrameSize bytes; anything else is rejected.
const (
	FrameSize = 8

	frameVersion = 1
)

var frameMagic = [2]byte{0xEB, 0x05}

// Decode errors, all of which map to a comms alarm at the receiver.
var (
	ErrFrameSize    = errors.New("message: wrong frame size")
	ErrFrameMagic   = errors.New("message: bad magic")
	ErrFrameVersion = errors.New("message: unsupported version")
	ErrFrameKind    = errors.New("message: unknown kind")
	ErrFrameStatus  = errors.New("message: unknown status")
	ErrFrameCRC     = errors.New("message: CRC mismatch")
)

// Encode serializes t into a fixed-size frame.
func Encode(t Transmission) []byte {
	data := make([]byte, FrameSize)
	data[0] = frameMagic[0]
	data[1] = frameMagic[1]
	data[2] = frameVersion
	data[3] = byte(t.Kind)
	data[4] = byte(t.Status)
	data[5] = 0
	crc := crc32.ChecksumIEEE(data[:6])
	binary.LittleEndian.PutUint16(data[6:8], uint16(crc))
	return data
}

// Decode parses and validates a frame.
func Decode(data []byte) (Transmission, error) {
	var t Transmission
	if len(data) != FrameSize {
		return t, ErrFrameSize
	}
	if data[0] != frameMagic[0] || data[1] != frameMagic[1] {
		return t, ErrFrameMagic
	}
	if data[2] != frameVersion {
		return t, ErrFrameVersion
	}
	want := uint16(crc32.ChecksumIEEE(data[:6]))
	if got := binary.LittleEndian.Uint16(data[6:8]); got != want {
		return t, ErrFrameCRC
	}
	t.Kind = Kind(data[3])
	if !t.Kind.Valid() {
		return t, ErrFrameKind
	}
	t.Status = safety.SwitchStatus(data[4])
	if !t.Status.Valid() {
		return t, ErrFrameStatus
	}
	return t, nil
}
