package stream

import (
	"errors"
	"io"
	"os"
)

// FileMode selects how a File stream opens its underlying path,
// mirroring the three POSIX stdio modes the spec names (§4.1).
type FileMode int

const (
	ReadBinary FileMode = iota
	WriteBinaryTruncate
	WriteBinaryAppend
)

// File is a POSIX stdio-style wrapper over *os.File implementing
// Reader, Writer, and Seekable. Its status mirrors ferror/feof: a
// failed syscall sets Fail, io.EOF sets EOF, and nothing in between.
type File struct {
	f        *os.File
	lastErrd bool
}

// OpenFile opens path under mode. On failure it returns a nil *File
// and the OS error; callers check err the ordinary Go way at open
// time, then use IOStatus for every operation after that.
func OpenFile(path string, mode FileMode) (*File, error) {
	var flag int
	var perm = os.FileMode(0644)
	switch mode {
	case ReadBinary:
		flag = os.O_RDONLY
	case WriteBinaryTruncate:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case WriteBinaryAppend:
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		assertf("OpenFile: unknown FileMode %d", mode)
	}
	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

// Close releases the underlying file descriptor.
func (s *File) Close() error { return s.f.Close() }

func (s *File) Read(buf []byte) (int, IOStatus) {
	n, err := io.ReadFull(s.f, buf)
	if err == nil {
		return n, StatusOK
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, StatusEOF
	}
	s.lastErrd = true
	return n, StatusFail
}

func (s *File) Write(buf []byte) IOStatus {
	n, err := s.f.Write(buf)
	if err != nil || n != len(buf) {
		s.lastErrd = true
		return StatusFail
	}
	return StatusOK
}

func (s *File) Position() uint64 {
	pos, err := s.f.Seek(0, 1)
	if err != nil {
		s.lastErrd = true
		return 0
	}
	return uint64(pos)
}

func (s *File) SeekTo(pos uint64) uint64 {
	got, err := s.f.Seek(int64(pos), 0)
	if err != nil {
		s.lastErrd = true
		return s.Position()
	}
	return uint64(got)
}

func (s *File) SeekRelative(delta int64) uint64 {
	got, err := s.f.Seek(delta, 1)
	if err != nil {
		s.lastErrd = true
		return s.Position()
	}
	return uint64(got)
}
