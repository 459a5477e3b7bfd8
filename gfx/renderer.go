package gfx

import (
	"fmt"

	"github.com/phanxgames/kiln/resource"
)

// Handle kind arenas use 16 index bits by default — 65536 live GPU
// objects per kind is generous for the scenes this engine targets.
const defaultIndexBits = 16

// FixedParamBlockCount is the size of the renderer's global binding
// table (§4.9: "fixed_param_blocks[0..15]").
const FixedParamBlockCount = 16

// gpuResource is the placeholder payload stored in a handle arena —
// in a real backend this would wrap a GPU object (texture, buffer,
// etc); here it is an opaque label sufficient for command-stream
// bookkeeping and tests.
type gpuResource struct {
	Kind  string
	Label string
}

// Renderer owns the handle arenas for every GPU resource kind §3
// names, the fixed param-block bindings, the generator registry, and
// the per-frame command stream (§4.9).
type Renderer struct {
	Buffers        *resource.Arena[gpuResource]
	BufferBindings *resource.Arena[gpuResource]
	Textures       *resource.Arena[gpuResource]
	RenderTargets  *resource.Arena[gpuResource]
	Framebuffers   *resource.Arena[gpuResource]
	Shaders        *resource.Arena[gpuResource]
	Uniforms       *resource.Arena[gpuResource]

	FixedParamBlocks [FixedParamBlockCount]resource.Handle

	Generators *GeneratorRegistry
	config     *RenderConfig
	instances  []Generator // one per GeneratorUnit, parallel across pipes/layers

	Stream     *CommandStream
	vpNodes    map[int]*RenderNode // one RenderNode per viewport index, reused across frames
}

// NewRenderer creates a renderer with empty arenas and a builtin
// generator registry.
func NewRenderer() *Renderer {
	reg := NewGeneratorRegistry()
	RegisterBuiltins(reg)
	return &Renderer{
		Buffers:        resource.NewArena[gpuResource](defaultIndexBits),
		BufferBindings: resource.NewArena[gpuResource](defaultIndexBits),
		Textures:       resource.NewArena[gpuResource](defaultIndexBits),
		RenderTargets:  resource.NewArena[gpuResource](defaultIndexBits),
		Framebuffers:   resource.NewArena[gpuResource](defaultIndexBits),
		Shaders:        resource.NewArena[gpuResource](defaultIndexBits),
		Uniforms:       resource.NewArena[gpuResource](defaultIndexBits),
		Generators:     reg,
		Stream:         NewCommandStream(),
		vpNodes:        make(map[int]*RenderNode),
	}
}

// LoadConfig installs cfg as the active render graph, instantiating a
// runtime Generator for every unit in every pipe's layers.
func (r *Renderer) LoadConfig(cfg *RenderConfig) error {
	r.config = cfg
	r.instances = r.instances[:0]
	r.Stream = NewCommandStream()
	r.vpNodes = make(map[int]*RenderNode)
	for _, pipe := range cfg.Pipes {
		for _, layer := range pipe.Layers {
			for _, unit := range layer.Seq {
				gen, err := r.Generators.NewRuntime(unit.GeneratorHash)
				if err != nil {
					return fmt.Errorf("kiln: gfx: pipe %q layer %q unit %q: %w", pipe.Name, layer.Name, unit.Name, err)
				}
				if err := gen.Init(unit.Blob); err != nil {
					return fmt.Errorf("kiln: gfx: pipe %q layer %q unit %q: init: %w", pipe.Name, layer.Name, unit.Name, err)
				}
				r.instances = append(r.instances, gen)
			}
		}
	}
	return nil
}

// Config returns the currently loaded render config, or nil.
func (r *Renderer) Config() *RenderConfig { return r.config }

// RenderViewport pushes every generator in the named viewport's pipe,
// in layer/unit order, onto a single RenderNode keyed by the
// viewport's index so multiple viewports interleave deterministically
// (§4.9 step 2: push_work per viewport).
func (r *Renderer) RenderViewport(viewportIndex int, args WorldArgs) error {
	if r.config == nil {
		return fmt.Errorf("kiln: gfx: no render config loaded")
	}
	if viewportIndex < 0 || viewportIndex >= len(r.config.Viewports) {
		return fmt.Errorf("kiln: gfx: viewport index %d out of range", viewportIndex)
	}
	vp := r.config.Viewports[viewportIndex]
	pipe := r.config.Pipes[vp.PipeIndex]

	node, ok := r.vpNodes[viewportIndex]
	if !ok {
		node = r.Stream.AddNode(vp.Name, uint64(viewportIndex))
		r.vpNodes[viewportIndex] = node
	}
	instanceIdx := r.instanceOffset(vp.PipeIndex)
	var userKey uint16
	for _, layer := range pipe.Layers {
		for range layer.Seq {
			if err := r.instances[instanceIdx].Exec(node, userKey, args); err != nil {
				return err
			}
			instanceIdx++
			userKey++
		}
	}
	return nil
}

// instanceOffset returns the flat index into r.instances of the first
// generator belonging to the pipe at pipeIndex — instances are laid
// out in pipe/layer/unit order by LoadConfig.
func (r *Renderer) instanceOffset(pipeIndex int32) int {
	offset := 0
	for i := int32(0); i < pipeIndex; i++ {
		for _, layer := range r.config.Pipes[i].Layers {
			offset += len(layer.Seq)
		}
	}
	return offset
}

// EndFrame drains the command stream into commit order and resets
// every node for the next frame (§4.9 step 3: end_frame).
func (r *Renderer) EndFrame() []CmdHeader {
	cmds := r.Stream.Commit()
	r.Stream.Reset()
	return cmds
}
