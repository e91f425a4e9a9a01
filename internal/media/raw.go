package media

import (
	"encoding/binary"
	"fmt"
)

// Raw frame payload layout: uint16 LE width, uint16 LE height, then
// width*height luma bytes. This is the built-in codec used by the feeder
// and by deployments that ship pre-decoded grayscale frames; hardware
// codecs plug in behind the Decoder interface instead.
const rawHeaderSize = 4

// RawDecoder decodes raw grayscale frame payloads.
type RawDecoder struct{}

// NewRawDecoder returns a decoder for raw grayscale frames.
func NewRawDecoder() (Decoder, error) {
	return &RawDecoder{}, nil
}

func (d *RawDecoder) Feed(data []byte) (*Picture, error) {
	if len(data) < rawHeaderSize {
		return nil, fmt.Errorf("raw frame: %d byte payload, want at least %d", len(data), rawHeaderSize)
	}
	width := int(binary.LittleEndian.Uint16(data[0:2]))
	height := int(binary.LittleEndian.Uint16(data[2:4]))
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("raw frame: zero dimension %dx%d", width, height)
	}
	pixels := data[rawHeaderSize:]
	if len(pixels) != width*height {
		return nil, fmt.Errorf("raw frame: %dx%d declares %d pixels, payload has %d", width, height, width*height, len(pixels))
	}
	return &Picture{
		Width:   width,
		Height:  height,
		Planes:  [][]byte{pixels},
		Strides: []int{width},
	}, nil
}

func (d *RawDecoder) Close() {}

// EncodeRaw builds a raw frame payload from a luma plane. pixels must
// hold exactly width*height bytes.
func EncodeRaw(width, height int, pixels []byte) ([]byte, error) {
	if width <= 0 || height <= 0 || width > 0xffff || height > 0xffff {
		return nil, fmt.Errorf("raw frame: dimensions %dx%d out of range", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("raw frame: %dx%d needs %d pixels, got %d", width, height, width*height, len(pixels))
	}
	buf := make([]byte, rawHeaderSize+len(pixels))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(width))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(height))
	copy(buf[rawHeaderSize:], pixels)
	return buf, nil
}
