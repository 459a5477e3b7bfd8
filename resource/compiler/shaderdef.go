package compiler

import (
	"fmt"

	"github.com/phanxgames/kiln/kvs"
	"github.com/phanxgames/kiln/serial"
)

// ShaderDefFormatVersion guards the binary ShaderDef produced by the
// shader-prelude and shader compilers (§4.6 "per-compiler conventions").
const ShaderDefFormatVersion uint32 = 1

// shaderUnit marks whether a compiled ShaderDef is a standalone prelude
// (sharable sources + declarations only) or a linkable unit that a
// fullscreen pass or draw command can actually bind.
type shaderUnit uint8

const (
	unitPrelude shaderUnit = iota
	unitLinkable
)

// ParamBlock is one declared fixed or draw param-block binding.
type ParamBlock struct {
	Name  string
	Index int32
}

// ShaderDef is the compiled form read from a `ShaderDef` KVS document:
// per-stage sources, the list of prelude dependencies by name, and the
// param-block declarations this unit contributes (§4.9 "Shader merging").
type ShaderDef struct {
	Unit          shaderUnit
	VertexSource  string
	FragmentSource string
	Prelude       []string
	ParamBlocks   []ParamBlock
}

// parseShaderDefKVS reads a ShaderDef out of a parsed KVS document:
//
//	vertex = ```...```
//	fragment = ```...```
//	prelude = [ "name" ... ]
//	param_blocks = [ { name = foo index = 0 } ... ]
func parseShaderDefKVS(n *kvs.Node) (ShaderDef, error) {
	var def ShaderDef
	if v, ok := n.FindByName("vertex"); ok {
		def.VertexSource = v.Str
	}
	if v, ok := n.FindByName("fragment"); ok {
		def.FragmentSource = v.Str
	}
	if v, ok := n.FindByName("prelude"); ok {
		for _, item := range v.Array {
			def.Prelude = append(def.Prelude, item.Str)
		}
	}
	if v, ok := n.FindByName("param_blocks"); ok {
		for _, item := range v.Array {
			if item.Kind != kvs.KindNode {
				return ShaderDef{}, fmt.Errorf("kiln: compiler: param_blocks entries must be objects")
			}
			name, _ := item.Node.FindByName("name")
			index, _ := item.Node.FindByName("index")
			def.ParamBlocks = append(def.ParamBlocks, ParamBlock{Name: name.Str, Index: int32(index.Int)})
		}
	}
	return def, nil
}

// EncodeShaderDef writes def as binary through s — a u8 unit tag,
// the two stage sources, the prelude name list, and the param-block
// declarations, following the proxy taxonomy used throughout the
// resource format (§4.3).
func EncodeShaderDef(s *serial.Serializer, def *ShaderDef) {
	u := uint8(def.Unit)
	serial.RawValue(s, &u)
	def.Unit = shaderUnit(u)
	serial.String[uint32](s, &def.VertexSource)
	serial.String[uint32](s, &def.FragmentSource)
	serial.Collection[uint32](s, &def.Prelude, func(s *serial.Serializer, v *string) {
		serial.String[uint32](s, v)
	})
	serial.Collection[uint32](s, &def.ParamBlocks, func(s *serial.Serializer, v *ParamBlock) {
		serial.String[uint32](s, &v.Name)
		serial.RawValue(s, &v.Index)
	})
}
