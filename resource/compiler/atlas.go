package compiler

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/resource"
	"github.com/phanxgames/kiln/serial"
	"github.com/phanxgames/kiln/stream"
)

// AtlasFormatVersion guards the packed texture-atlas region table.
const AtlasFormatVersion uint32 = 1

// AtlasType is the registered type hash for `.texture_atlas` sources.
var AtlasType = hash.Calc32("texture_atlas")

// atlasRegion is one compiled region record, sorted by NameHash for
// binary search at load time.
type atlasRegion struct {
	NameHash  hash.Value64
	Page      uint16
	X, Y      uint16
	Width     uint16
	Height    uint16
	OriginalW uint16
	OriginalH uint16
	OffsetX   int16
	OffsetY   int16
	Rotated   bool
}

type atlasRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type atlasSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type atlasFrame struct {
	Frame            atlasRect `json:"frame"`
	Rotated          bool      `json:"rotated"`
	SpriteSourceSize atlasRect `json:"spriteSourceSize"`
	SourceSize       atlasSize `json:"sourceSize"`
}

type atlasTexturePage struct {
	Frames map[string]atlasFrame `json:"frames"`
}

// NewTextureAtlasCompiler builds the texture_atlas ResourceCompiler:
// TexturePacker JSON (hash or array format) in, a name-hash-sorted
// packed region table out, per SUPPLEMENTED FEATURES.
func NewTextureAtlasCompiler() ResourceCompiler {
	return ResourceCompiler{
		Type:        AtlasType,
		FormatVer:   AtlasFormatVersion,
		SourceGlobs: []string{"**/*.texture_atlas"},
		CompileFn: func(cm *CompilerManager, pkg *PackageCompiler, meta *resource.Metadata, in stream.Reader, out stream.Writer) bool {
			src, err := readAll(in)
			if err != nil {
				return false
			}
			regions, err := parseAtlasJSON(src)
			if err != nil {
				return false
			}
			s := serial.NewWriter(out, serialEndian)
			encodeAtlas(s, regions)
			return true
		},
	}
}

// parseAtlasJSON detects the hash vs array TexturePacker format (the
// same two branches atlas.go's LoadAtlas distinguishes) and returns
// regions sorted by their 64-bit name hash.
func parseAtlasJSON(data []byte) ([]atlasRegion, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("kiln: compiler: atlas: invalid JSON: %w", err)
	}

	var regions []atlasRegion
	switch {
	case probe.Textures != nil:
		var pages []atlasTexturePage
		if err := json.Unmarshal(probe.Textures, &pages); err != nil {
			return nil, fmt.Errorf("kiln: compiler: atlas: invalid textures array: %w", err)
		}
		for page, tex := range pages {
			for name, f := range tex.Frames {
				regions = append(regions, frameToAtlasRegion(name, f, uint16(page)))
			}
		}
	case probe.Frames != nil:
		var frames map[string]atlasFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("kiln: compiler: atlas: invalid frames object: %w", err)
		}
		for name, f := range frames {
			regions = append(regions, frameToAtlasRegion(name, f, 0))
		}
	default:
		return nil, fmt.Errorf("kiln: compiler: atlas: JSON has neither \"frames\" nor \"textures\"")
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].NameHash < regions[j].NameHash })
	return regions, nil
}

func frameToAtlasRegion(name string, f atlasFrame, page uint16) atlasRegion {
	return atlasRegion{
		NameHash:  hash.Calc64(name),
		Page:      page,
		X:         uint16(f.Frame.X),
		Y:         uint16(f.Frame.Y),
		Width:     uint16(f.Frame.W),
		Height:    uint16(f.Frame.H),
		OriginalW: uint16(f.SourceSize.W),
		OriginalH: uint16(f.SourceSize.H),
		OffsetX:   int16(f.SpriteSourceSize.X),
		OffsetY:   int16(f.SpriteSourceSize.Y),
		Rotated:   f.Rotated,
	}
}

func encodeAtlas(s *serial.Serializer, regions []atlasRegion) {
	serial.Collection[uint32](s, &regions, func(s *serial.Serializer, r *atlasRegion) {
		nameHash := uint64(r.NameHash)
		serial.RawValue(s, &nameHash)
		r.NameHash = hash.Value64(nameHash)
		serial.RawValue(s, &r.Page)
		serial.RawValue(s, &r.X)
		serial.RawValue(s, &r.Y)
		serial.RawValue(s, &r.Width)
		serial.RawValue(s, &r.Height)
		serial.RawValue(s, &r.OriginalW)
		serial.RawValue(s, &r.OriginalH)
		serial.RawValue(s, &r.OffsetX)
		serial.RawValue(s, &r.OffsetY)
		rotated := uint8(0)
		if r.Rotated {
			rotated = 1
		}
		serial.RawValue(s, &rotated)
		r.Rotated = rotated != 0
	})
}

// DecodeAtlas reads back a packed region table written by
// encodeAtlas, exposed for runtime consumers of a loaded
// texture_atlas resource.
func DecodeAtlas(r stream.Reader) ([]atlasRegion, error) {
	s := serial.NewReader(r, serialEndian)
	var regions []atlasRegion
	serial.Collection[uint32](s, &regions, func(s *serial.Serializer, rg *atlasRegion) {
		var nameHash uint64
		serial.RawValue(s, &nameHash)
		rg.NameHash = hash.Value64(nameHash)
		serial.RawValue(s, &rg.Page)
		serial.RawValue(s, &rg.X)
		serial.RawValue(s, &rg.Y)
		serial.RawValue(s, &rg.Width)
		serial.RawValue(s, &rg.Height)
		serial.RawValue(s, &rg.OriginalW)
		serial.RawValue(s, &rg.OriginalH)
		serial.RawValue(s, &rg.OffsetX)
		serial.RawValue(s, &rg.OffsetY)
		var rotated uint8
		serial.RawValue(s, &rotated)
		rg.Rotated = rotated != 0
	})
	return regions, nil
}
