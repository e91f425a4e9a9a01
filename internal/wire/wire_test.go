package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// chunkReader yields at most chunk bytes per Read call, forcing callers
// to assemble frames across multiple short reads.
type chunkReader struct {
	data  []byte
	chunk int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func TestRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 65536, 4 << 20}

	for _, size := range sizes {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(i)
		}

		var buf bytes.Buffer
		if err := WriteFrame(&buf, payload); err != nil {
			t.Fatalf("WriteFrame(%d bytes): %v", size, err)
		}
		if got := buf.Len(); got != size+4 {
			t.Errorf("frame for %d byte payload is %d bytes, want %d", size, got, size+4)
		}

		out, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame(%d bytes): %v", size, err)
		}
		if !bytes.Equal(out, payload) {
			t.Errorf("round trip of %d byte payload altered data", size)
		}
	}
}

func TestLengthPrefixIsLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, make([]byte, 0x0102)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	prefix := buf.Bytes()[:4]
	want := []byte{0x02, 0x01, 0x00, 0x00}
	if !bytes.Equal(prefix, want) {
		t.Errorf("length prefix = %v, want %v", prefix, want)
	}
}

func TestReadFrameSplitAcrossReads(t *testing.T) {
	payload := []byte("access unit data")
	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	// Deliver the length prefix 2 bytes at a time and the payload in
	// single bytes; a short read must never complete a frame early.
	for _, chunk := range []int{1, 2, 3} {
		r := &chunkReader{data: append([]byte(nil), buf.Bytes()...), chunk: chunk}
		out, err := ReadFrame(r)
		if err != nil {
			t.Fatalf("ReadFrame with %d byte chunks: %v", chunk, err)
		}
		if !bytes.Equal(out, payload) {
			t.Errorf("ReadFrame with %d byte chunks = %q, want %q", chunk, out, payload)
		}
	}
}

func TestReadFrameTruncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty stream", nil, io.EOF},
		{"partial prefix", []byte{5, 0}, io.ErrUnexpectedEOF},
		{"partial payload", []byte{5, 0, 0, 0, 'a', 'b'}, io.ErrUnexpectedEOF},
		{"prefix only", []byte{5, 0, 0, 0}, io.ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrame(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadFrame = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], MaxFrameSize+1)
	_, err := ReadFrame(bytes.NewReader(prefix[:]))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("ReadFrame = %v, want ErrFrameTooLarge", err)
	}
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	payload := make([]byte, MaxFrameSize+1)
	err := WriteFrame(io.Discard, payload)
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("WriteFrame = %v, want ErrFrameTooLarge", err)
	}
}
