package runtime

import (
	"fmt"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/resource"
	"github.com/phanxgames/kiln/stream"
)

// Package is a mounted ResourcePackage: the fixed header and full
// manifest are read at mount time and the archive file is kept open
// as a shared reader for the package's lifetime (§4.8).
type Package struct {
	name     string
	file     *stream.File
	manifest []resource.Metadata
	byName   map[hash.Value64]int

	locked bool // at most one active resource stream at a time
}

// MountPackage opens path, reads its header and manifest, and builds
// the name_hash → manifest_index lookup.
func MountPackage(name, path string) (*Package, error) {
	f, err := stream.OpenFile(path, stream.ReadBinary)
	if err != nil {
		return nil, err
	}
	_, manifest, err := resource.ReadArchiveHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	p := &Package{
		name:     name,
		file:     f,
		manifest: manifest,
		byName:   make(map[hash.Value64]int, len(manifest)),
	}
	for i, m := range manifest {
		if m.IsHole() {
			continue
		}
		if _, exists := p.byName[m.NameHash]; !exists {
			p.byName[m.NameHash] = i
		}
	}
	return p, nil
}

func (p *Package) lookup(nameHash hash.Value64) (resource.Metadata, bool) {
	idx, ok := p.byName[nameHash]
	if !ok {
		return resource.Metadata{}, false
	}
	return p.manifest[idx], true
}

// Close releases the archive file handle.
func (p *Package) Close() error { return p.file.Close() }

// StreamLock is the RAII-style handle §4.8 describes: it guarantees
// close_resource_stream runs on every exit path and is the single
// enforcer of "at most one active resource stream at a time".
type StreamLock struct {
	pkg *Package
}

// OpenResourceStream positions the archive's shared reader at entry's
// data offset and returns a lock guarding exclusive access. Panics if
// a stream is already open on this package (§4.8 assertion).
func (p *Package) OpenResourceStream(id uint32) (*StreamLock, error) {
	if p.locked {
		panic(fmt.Sprintf("kiln: runtime: package %s: a resource stream is already open", p.name))
	}
	entry, ok := p.entryByID(id)
	if !ok {
		return nil, fmt.Errorf("kiln: runtime: package %s: no manifest entry with id %d", p.name, id)
	}
	p.file.SeekTo(entry.DataOffset)
	p.locked = true
	return &StreamLock{pkg: p}, nil
}

func (p *Package) entryByID(id uint32) (resource.Metadata, bool) {
	for _, m := range p.manifest {
		if m.Id == id {
			return m, true
		}
	}
	return resource.Metadata{}, false
}

// Reader exposes the underlying archive reader for the duration the
// lock is held.
func (l *StreamLock) Reader() stream.Reader { return l.pkg.file }

// Close releases the lock, asserting (debug check, §4.8) that the
// final stream position landed within entry's [offset, offset+size]
// window.
func (l *StreamLock) Close(entry resource.Metadata) error {
	pos := l.pkg.file.Position()
	lo, hi := entry.DataOffset, entry.DataOffset+entry.DataSize
	l.pkg.locked = false
	if pos < lo || pos > hi {
		return fmt.Errorf("kiln: runtime: resource stream for id %d ended at offset %d, outside [%d,%d]", entry.Id, pos, lo, hi)
	}
	return nil
}
