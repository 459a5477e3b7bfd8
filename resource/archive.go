package resource

import (
	"encoding/binary"
	"fmt"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/serial"
	"github.com/phanxgames/kiln/stream"
)

// archiveEndian fixes the package archive's wire byte order, matching
// kvs's little-endian choice (SPEC_FULL.md Open Question resolution #3).
var archiveEndian = binary.LittleEndian

// DataAlignment is the byte boundary the first blob is padded to,
// after the manifest (SPEC_FULL.md Open Question resolution #1):
// `u32 format_version; u32 count; Metadata[count]; <pad>; blobs...`.
const DataAlignment = 16

func alignUp(v uint64, align uint64) uint64 {
	return (v + align - 1) / align * align
}

// metadataRecordSize is the fixed wire size of one Metadata record:
// id(4) + name_hash(8) + tag_glob(8) + type(4) + format_ver(4) +
// data_offset(8) + data_size(8).
const metadataRecordSize = 4 + 8 + 8 + 4 + 4 + 8 + 8

func encodeMetadata(s *serial.Serializer, m *Metadata) {
	s.Uint32(&m.Id)
	nameHash := uint64(m.NameHash)
	s.Uint64(&nameHash)
	tagGlob := uint64(m.TagGlob)
	s.Uint64(&tagGlob)
	typ := uint32(m.Type)
	s.Uint32(&typ)
	s.Uint32(&m.FormatVer)
	s.Uint64(&m.DataOffset)
	s.Uint64(&m.DataSize)
}

// WriteArchive writes the fixed header, the manifest (non-hole and
// hole entries alike — holes are retained for id stability), pads to
// DataAlignment, then each non-hole entry's blob at its recorded
// DataOffset/DataSize. blobs maps a Metadata's Id to its compiled
// bytes; holes and entries absent from blobs contribute no bytes.
func WriteArchive(w stream.Writer, manifest []Metadata, blobs map[uint32][]byte) error {
	s := serial.NewWriter(w, archiveEndian)
	version := ArchiveFormatVersion
	s.Uint32(&version)
	count := uint32(len(manifest))
	s.Uint32(&count)

	headerSize := uint64(8) + uint64(len(manifest))*metadataRecordSize
	dataStart := alignUp(headerSize, DataAlignment)

	offset := dataStart
	patched := make([]Metadata, len(manifest))
	copy(patched, manifest)
	for i := range patched {
		if patched[i].IsHole() {
			patched[i].DataOffset = 0
			patched[i].DataSize = 0
			continue
		}
		blob := blobs[patched[i].Id]
		patched[i].DataOffset = offset
		patched[i].DataSize = uint64(len(blob))
		offset += uint64(len(blob))
	}

	for i := range patched {
		encodeMetadata(s, &patched[i])
	}

	pad := int(dataStart - headerSize)
	if pad > 0 {
		zeros := make([]byte, pad)
		if status := w.Write(zeros); !status.OK() {
			return fmt.Errorf("kiln: resource: padding write failed: %v", status)
		}
	}

	for i := range patched {
		if patched[i].IsHole() {
			continue
		}
		blob := blobs[patched[i].Id]
		if status := w.Write(blob); !status.OK() {
			return fmt.Errorf("kiln: resource: blob write failed for id %d: %v", patched[i].Id, status)
		}
	}
	return nil
}

// ReadArchiveHeader reads the format version and full manifest from r,
// leaving the stream positioned at the start of the blob region.
func ReadArchiveHeader(r stream.Reader) (version uint32, manifest []Metadata, err error) {
	s := serial.NewReader(r, archiveEndian)
	s.Uint32(&version)
	if version != ArchiveFormatVersion {
		return version, nil, fmt.Errorf("kiln: resource: unsupported archive version %d (want %d)", version, ArchiveFormatVersion)
	}
	var count uint32
	s.Uint32(&count)
	manifest = make([]Metadata, count)
	for i := range manifest {
		decodeMetadata(s, &manifest[i])
	}
	return version, manifest, nil
}

func decodeMetadata(s *serial.Serializer, m *Metadata) {
	s.Uint32(&m.Id)
	var nameHash uint64
	var typ uint32
	var tagGlob uint64
	s.Uint64(&nameHash)
	s.Uint64(&tagGlob)
	s.Uint32(&typ)
	s.Uint32(&m.FormatVer)
	s.Uint64(&m.DataOffset)
	s.Uint64(&m.DataSize)
	m.NameHash = hash.Value64(nameHash)
	m.TagGlob = hash.Value64(tagGlob)
	m.Type = hash.Value32(typ)
}
