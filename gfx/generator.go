package gfx

import (
	"fmt"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/kvs"
)

// CompileContext gives a GeneratorCompiler the resolved shared-resource
// indices it needs to encode cross-references as numeric ids rather
// than names (§4.7 #4).
type CompileContext struct {
	SharedByName map[string]int
}

// Resolve looks up a shared resource's compiled index by name.
func (c *CompileContext) Resolve(name string) (int32, bool) {
	idx, ok := c.SharedByName[name]
	if !ok {
		return 0, false
	}
	return int32(idx), true
}

// GeneratorCompiler turns one generator unit's KVS into a
// self-describing blob keyed by the generator's name hash (§4.7 #3).
type GeneratorCompiler interface {
	Compile(unit *kvs.Node, ctx *CompileContext) ([]byte, error)
}

// Generator is the runtime counterpart: it reads a previously compiled
// blob and turns per-frame arguments into commands pushed onto a
// RenderNode (§4.9 "Renderer": generator registry entries).
type Generator interface {
	// Init prepares any GPU-side state the generator needs, given its
	// compiled blob.
	Init(blob []byte) error
	// Exec pushes this generator's commands for one frame.
	Exec(node *RenderNode, userKey uint16, args any) error
	// Destroy releases whatever Init allocated.
	Destroy()
}

// GeneratorRegistry maps a generator name to its compiler and, at
// runtime, a constructor for fresh Generator instances. Unknown
// generator names abort compilation (§4.7 #3 "Unknown generator names
// abort compilation").
type GeneratorRegistry struct {
	compilers map[string]GeneratorCompiler
	runtimes  map[string]func() Generator
}

// NewGeneratorRegistry creates an empty registry.
func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{
		compilers: make(map[string]GeneratorCompiler),
		runtimes:  make(map[string]func() Generator),
	}
}

// Register installs both halves of a generator under name.
func (r *GeneratorRegistry) Register(name string, compiler GeneratorCompiler, newRuntime func() Generator) {
	r.compilers[name] = compiler
	r.runtimes[name] = newRuntime
}

// LookupCompiler returns the registered GeneratorCompiler for name.
func (r *GeneratorRegistry) LookupCompiler(name string) (GeneratorCompiler, bool) {
	gc, ok := r.compilers[name]
	return gc, ok
}

// NewRuntime instantiates a fresh Generator for the generator
// previously resolved by its name hash, used when a render config is
// loaded (§4.9).
func (r *GeneratorRegistry) NewRuntime(nameHash uint32) (Generator, error) {
	for name, ctor := range r.runtimes {
		if uint32(hash.Calc32(name)) == nameHash {
			return ctor(), nil
		}
	}
	return nil, fmt.Errorf("kiln: gfx: no generator registered for name hash %d", nameHash)
}

// RegisterBuiltins installs the three minimum generator compilers the
// spec names: clear, fullscreen_pass, world (§4.7).
func RegisterBuiltins(r *GeneratorRegistry) {
	r.Register("clear", clearCompiler{}, func() Generator { return &clearGenerator{} })
	r.Register("fullscreen_pass", fullscreenPassCompiler{}, func() Generator { return &fullscreenPassGenerator{} })
	r.Register("world", worldCompiler{}, func() Generator { return &worldGenerator{} })
}
