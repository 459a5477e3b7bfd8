package gfx

import (
	"fmt"

	"github.com/phanxgames/kiln/resource/compiler"
)

// MergedShader is the built form of a shader unit after its prelude
// dependency closure and fixed/draw param-block discipline have been
// resolved (§4.9 "Shader merging").
type MergedShader struct {
	VertexSource    string
	FragmentSource  string
	FixedParams     []compiler.ParamBlock // unioned across all contributors
	DrawParams      []compiler.ParamBlock // renumbered 0..k-1 in declaration order
}

// ShaderLibrary resolves a unit's ShaderDef against a lookup of
// preludes by name, the way the offline shader compiler validates
// prelude[] resolution and the runtime performs the actual merge.
type ShaderLibrary struct {
	preludes map[string]compiler.ShaderDef
}

// NewShaderLibrary creates an empty library.
func NewShaderLibrary() *ShaderLibrary {
	return &ShaderLibrary{preludes: make(map[string]compiler.ShaderDef)}
}

// AddPrelude registers a decoded prelude ShaderDef under name.
func (lib *ShaderLibrary) AddPrelude(name string, def compiler.ShaderDef) {
	lib.preludes[name] = def
}

// Merge builds a MergedShader for unit: the transitive closure of
// unit.Prelude (depth-first, de-duplicated by name), then unit's own
// sources. No shared shader_config source is prepended; the library
// has none.
// Fixed param blocks are unioned; conflicting names or indices abort.
// Draw param blocks are renumbered 0..k-1 in declaration order.
func (lib *ShaderLibrary) Merge(unit compiler.ShaderDef) (MergedShader, error) {
	visited := make(map[string]bool)
	var vertexParts, fragmentParts []string
	var fixed []compiler.ParamBlock
	fixedByName := make(map[string]int32)
	fixedByIndex := make(map[int32]string)

	var visit func(name string) error
	visit = func(name string) error {
		if visited[name] {
			return nil
		}
		visited[name] = true
		prelude, ok := lib.preludes[name]
		if !ok {
			return fmt.Errorf("kiln: gfx: shader: prelude %q does not resolve", name)
		}
		for _, dep := range prelude.Prelude {
			if err := visit(dep); err != nil {
				return err
			}
		}
		vertexParts = append(vertexParts, prelude.VertexSource)
		fragmentParts = append(fragmentParts, prelude.FragmentSource)
		for _, pb := range prelude.ParamBlocks {
			if existing, ok := fixedByName[pb.Name]; ok && existing != pb.Index {
				return fmt.Errorf("kiln: gfx: shader: param block %q declared at conflicting indices %d and %d", pb.Name, existing, pb.Index)
			}
			if other, ok := fixedByIndex[pb.Index]; ok && other != pb.Name {
				return fmt.Errorf("kiln: gfx: shader: param blocks %q and %q both declared at index %d", other, pb.Name, pb.Index)
			}
			if _, ok := fixedByName[pb.Name]; !ok {
				fixedByName[pb.Name] = pb.Index
				fixedByIndex[pb.Index] = pb.Name
				fixed = append(fixed, compiler.ParamBlock{Name: pb.Name, Index: pb.Index})
			}
		}
		return nil
	}

	for _, dep := range unit.Prelude {
		if err := visit(dep); err != nil {
			return MergedShader{}, err
		}
	}

	vertexParts = append(vertexParts, unit.VertexSource)
	fragmentParts = append(fragmentParts, unit.FragmentSource)

	draw := make([]compiler.ParamBlock, len(unit.ParamBlocks))
	for i, pb := range unit.ParamBlocks {
		draw[i] = compiler.ParamBlock{Name: pb.Name, Index: int32(i)}
	}

	return MergedShader{
		VertexSource:   joinSources(vertexParts),
		FragmentSource: joinSources(fragmentParts),
		FixedParams:    fixed,
		DrawParams:     draw,
	}, nil
}

func joinSources(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n"
		}
		out += p
	}
	return out
}
