// Package serial implements kiln's endian-aware binary serializer
// (§4.3): a single Serializer that either reads or writes, built on
// top of a stream.Reader or stream.Writer, plus the proxy taxonomy
// that describes how composite values ride the wire. Go has no
// compile-time operator overload to dispatch read vs. write the way
// the spec's `%` does, so Serializer instead tracks its own mode and
// every helper function branches on it explicitly — the same
// information, expressed the idiomatic-Go way.
package serial

import (
	"encoding/binary"
	"fmt"

	"github.com/phanxgames/kiln/stream"
)

// Mode distinguishes a Serializer opened for reading from one opened
// for writing. A Serializer is never both; callers that need
// round-trip tests open two.
type Mode int

const (
	Reading Mode = iota
	Writing
)

// Serializer adapts a stream.Reader or stream.Writer to the typed
// encode/decode helpers below. Endian is the wire's byte order;
// fixed-width arithmetic values are byte-swapped to match it one
// element at a time, mirroring §4.3 ("byte-level blobs are not
// swapped").
type Serializer struct {
	mode   Mode
	endian binary.ByteOrder
	r      stream.Reader
	w      stream.Writer
}

// NewReader opens s for decoding, interpreting multi-byte values in
// the given endian.
func NewReader(r stream.Reader, endian binary.ByteOrder) *Serializer {
	return &Serializer{mode: Reading, endian: endian, r: r}
}

// NewWriter opens s for encoding, writing multi-byte values in the
// given endian.
func NewWriter(w stream.Writer, endian binary.ByteOrder) *Serializer {
	return &Serializer{mode: Writing, endian: endian, w: w}
}

func (s *Serializer) IsReading() bool { return s.mode == Reading }
func (s *Serializer) IsWriting() bool { return s.mode == Writing }

func assertf(format string, args ...any) {
	panic(fmt.Sprintf("kiln: serial: "+format, args...))
}

// readExact fills buf entirely or panics: a short read off a
// serializer's underlying stream is always a programmer/data error
// here, never a recoverable condition (§4.3's assertion contract).
func (s *Serializer) readExact(buf []byte) {
	n, status := s.r.Read(buf)
	if n != len(buf) || status.Fail {
		assertf("unexpected EOF or I/O failure reading %d bytes (got %d, status %v)", len(buf), n, status)
	}
}

func (s *Serializer) writeExact(buf []byte) {
	if status := s.w.Write(buf); !status.OK() {
		assertf("I/O failure writing %d bytes (status %v)", len(buf), status)
	}
}
