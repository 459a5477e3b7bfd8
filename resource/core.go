// Package resource defines the types shared by kiln's offline compiler
// pipeline (resource/compiler) and online runtime (resource/runtime):
// resource metadata, the on-disk package archive layout, and the
// generational handle arenas GPU resources are addressed through
// (§3, §4.6–§4.9).
package resource

import (
	"github.com/phanxgames/kiln/hash"
)

// ArchiveFormatVersion is the current package archive format version
// (§3's "Package archive (on disk)" layout).
const ArchiveFormatVersion uint32 = 3

// NullID marks a hole: a manifest slot retained for id stability after
// its resource was deleted, or a free handle-arena slot.
const NullID uint32 = 0

// Metadata is one package-manifest record (§3): identity, type, format
// version, and the blob's location within the archive. The compiler
// assigns each entry a per-package monotonic Id starting at 1.
type Metadata struct {
	Id         uint32
	NameHash   hash.Value64
	TagGlob    hash.Value64
	Type       hash.Value32
	FormatVer  uint32
	DataOffset uint64
	DataSize   uint64
}

// IsHole reports whether this manifest slot is a retained-but-deleted
// entry: Type == NullID (§4.10's resource-slot state machine — a free
// slot and a hole share the NULL sentinel).
func (m Metadata) IsHole() bool { return uint32(m.Type) == NullID }

// PackageName identifies a package by its FNV-1a hash.
type PackageName = hash.Value32
