// Package runtime implements the online resource manager (§4.8):
// mounted ResourcePackages shadow each other newest-over-oldest, loads
// are refcounted, and an archive allows at most one open resource
// stream at a time.
package runtime

import (
	"fmt"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/resource"
	"github.com/phanxgames/kiln/stream"
)

// Handler loads and unloads one resource type.
type Handler struct {
	// Load is called with the manager (so a loader can itself ref
	// dependencies), the resource's name, and a reader positioned at
	// the blob's start.
	Load func(mgr *Manager, name string, r stream.Reader) (any, error)
	// Unload releases whatever Load returned.
	Unload func(value any)
	// ExpectedFormatVersion is checked against the manifest entry's
	// FormatVer before Load runs.
	ExpectedFormatVersion uint32
}

type activeEntry struct {
	value    any
	typ      hash.Value32
	refcount int
}

// Manager is the online ResourceManager (§4.8): handler registry,
// mounted packages (later mounts shadow earlier ones), and the
// refcounted active-resource table.
type Manager struct {
	handlers map[hash.Value32]Handler
	packages []*Package
	active   map[hash.Value64]*activeEntry
}

// NewManager creates an empty resource manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[hash.Value32]Handler),
		active:   make(map[hash.Value64]*activeEntry),
	}
}

// RegisterHandler installs the handler for typ. Must be called before
// any package claiming that type is mounted (§4.8 invariant).
func (m *Manager) RegisterHandler(typ hash.Value32, h Handler) {
	m.handlers[typ] = h
}

// Mount appends pkg to the mount list — later mounts shadow earlier
// ones in Find/Ref resolution. Panics if pkg's manifest names a type
// with no registered handler.
func (m *Manager) Mount(pkg *Package) error {
	for _, entry := range pkg.manifest {
		if entry.IsHole() {
			continue
		}
		if _, ok := m.handlers[entry.Type]; !ok {
			panic(fmt.Sprintf("kiln: runtime: package %s: no handler registered for type %v", pkg.name, entry.Type))
		}
	}
	m.packages = append(m.packages, pkg)
	return nil
}

// find scans mounted packages from newest to oldest, returning the
// first manifest entry matching (typ, nameHash) and the package that
// owns it (§4.8 "patch-stack" resolution).
func (m *Manager) find(typ hash.Value32, nameHash hash.Value64) (*Package, resource.Metadata, bool) {
	for i := len(m.packages) - 1; i >= 0; i-- {
		pkg := m.packages[i]
		if entry, ok := pkg.lookup(nameHash); ok && entry.Type == typ {
			return pkg, entry, true
		}
	}
	return nil, resource.Metadata{}, false
}

// Ref loads (or re-references) the resource (typ, name). On a fresh
// load, the stream position after Load is expected to land within the
// entry's [offset, offset+size] window (debug check, §4.8).
func (m *Manager) Ref(typ hash.Value32, name string) (any, error) {
	nameHash := hash.Calc64(name)
	if e, ok := m.active[nameHash]; ok && e.typ == typ {
		e.refcount++
		return e.value, nil
	}

	pkg, entry, ok := m.find(typ, nameHash)
	if !ok {
		return nil, fmt.Errorf("kiln: runtime: resource %q (type %v) not found in any mounted package", name, typ)
	}
	handler, ok := m.handlers[typ]
	if !ok {
		return nil, fmt.Errorf("kiln: runtime: no handler registered for type %v", typ)
	}
	if entry.FormatVer != handler.ExpectedFormatVersion {
		return nil, fmt.Errorf("kiln: runtime: resource %q: format version %d, handler expects %d", name, entry.FormatVer, handler.ExpectedFormatVersion)
	}

	lock, err := pkg.OpenResourceStream(entry.Id)
	if err != nil {
		return nil, err
	}
	value, err := handler.Load(m, name, lock.Reader())
	closeErr := lock.Close(entry)
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}

	m.active[nameHash] = &activeEntry{value: value, typ: typ, refcount: 1}
	return value, nil
}

// Unref decrements the refcount for (typ, name); at zero it unloads
// the resource and removes the active entry. Panics on an unref
// without a matching prior ref (§4.8 invariant: refcount never
// underflows).
func (m *Manager) Unref(typ hash.Value32, name string) {
	nameHash := hash.Calc64(name)
	e, ok := m.active[nameHash]
	if !ok || e.typ != typ {
		panic(fmt.Sprintf("kiln: runtime: Unref(%v, %q) without a matching Ref", typ, name))
	}
	e.refcount--
	if e.refcount < 0 {
		panic(fmt.Sprintf("kiln: runtime: refcount underflow for %q", name))
	}
	if e.refcount == 0 {
		if handler, ok := m.handlers[typ]; ok && handler.Unload != nil {
			handler.Unload(e.value)
		}
		delete(m.active, nameHash)
	}
}
