// Package wire implements the length-prefixed framing used on stream
// connections: a 4-byte little-endian unsigned payload length followed by
// exactly that many bytes of encoded access-unit data. There is no
// handshake, no version negotiation, and one logical stream per
// connection.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// lengthSize is the fixed size of the frame length prefix.
const lengthSize = 4

// MaxFrameSize caps the declared payload length of a single frame. A
// frame claiming more than this is treated as a framing violation, which
// ends the session like any other read failure.
const MaxFrameSize = 64 << 20

// ErrFrameTooLarge is returned when a frame declares a payload longer
// than MaxFrameSize.
var ErrFrameTooLarge = errors.New("wire: declared frame length exceeds limit")

// ReadFrame reads one complete frame from r. Both the length prefix and
// the payload are accumulated with io.ReadFull, so a short read on the
// underlying connection is never mistaken for a complete frame. A clean
// EOF before the first prefix byte returns io.EOF; a stream truncated
// mid-frame returns io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [lengthSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint32(prefix[:])
	if length > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}

// WriteFrame writes payload to w as one frame. The payload slice is
// written as-is; the caller retains ownership of the buffer.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var prefix [lengthSize]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("wire: write length: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("wire: write payload: %w", err)
	}
	return nil
}
