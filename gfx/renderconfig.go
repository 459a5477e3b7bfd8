package gfx

import (
	"fmt"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/kvs"
	"github.com/phanxgames/kiln/resource"
	"github.com/phanxgames/kiln/resource/compiler"
	"github.com/phanxgames/kiln/serial"
	"github.com/phanxgames/kiln/stream"
)

// RenderConfigFormatVersion guards the packed render-config blob
// produced by the render_config compiler (§4.7).
const RenderConfigFormatVersion uint32 = 1

// RenderConfigType is the registered type hash for `.render_config`
// sources.
var RenderConfigType = hash.Calc32("render_config")

// SharedResourceKind distinguishes the two shared-resource kinds the
// render graph can declare.
type SharedResourceKind uint8

const (
	KindRenderTarget SharedResourceKind = iota
	KindDepthStencil
)

// SharedResource is one entry of the `shared_resources` section.
type SharedResource struct {
	Name   string
	Kind   SharedResourceKind
	Format string
	Flags  uint32
}

// GeneratorUnit is one compiled generator invocation within a layer's
// sequence: a name, the 32-bit hash of its generator kind, and the
// self-describing blob its GeneratorCompiler produced.
type GeneratorUnit struct {
	Name           string
	GeneratorHash  uint32
	Blob           []byte
}

// Layer is a named sequence of generator units.
type Layer struct {
	Name string
	Seq  []GeneratorUnit
}

// Pipe is a named list of layers.
type Pipe struct {
	Name   string
	Layers []Layer
}

// Viewport indexes a pipe and a shared resource by resolved numeric id
// (names are resolved to indices at compile time, §4.7 #4).
type Viewport struct {
	Name       string
	PipeIndex  int32
	OutputIndex int32
}

// RenderConfig is the decoded form of a packed render-config blob.
type RenderConfig struct {
	SharedResources []SharedResource
	Pipes           []Pipe
	Viewports       []Viewport
}

// NewRenderConfigCompiler builds the render_config ResourceCompiler,
// wired against reg for generator-unit compilation (§4.6 "Render
// config", §4.7). It lives in gfx rather than resource/compiler since
// it depends on the generator registry, which is a gfx concern.
func NewRenderConfigCompiler(reg *GeneratorRegistry) compiler.ResourceCompiler {
	return compiler.ResourceCompiler{
		Type:        RenderConfigType,
		FormatVer:   RenderConfigFormatVersion,
		SourceGlobs: []string{"**/*.render_config"},
		CompileFn: func(cm *compiler.CompilerManager, pkg *compiler.PackageCompiler, meta *resource.Metadata, in stream.Reader, out stream.Writer) bool {
			src, err := readAllStream(in)
			if err != nil {
				return false
			}
			node, err := kvs.Parse(string(src))
			if err != nil {
				return false
			}
			cfg, err := compileRenderConfig(node, reg)
			if err != nil {
				return false
			}
			s := serial.NewWriter(out, serialEndian)
			encodeRenderConfig(s, &cfg)
			return true
		},
	}
}

func readAllStream(r stream.Reader) ([]byte, error) {
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		n, status := r.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if status.Fail {
			return nil, fmt.Errorf("kiln: gfx: I/O failure reading render config source")
		}
		if status.EOF {
			break
		}
	}
	return buf, nil
}

func compileRenderConfig(n *kvs.Node, reg *GeneratorRegistry) (RenderConfig, error) {
	var cfg RenderConfig
	sharedByName := make(map[string]int)

	if v, ok := n.FindByName("shared_resources"); ok {
		for _, item := range v.Array {
			if item.Kind != kvs.KindNode {
				return RenderConfig{}, fmt.Errorf("kiln: gfx: shared_resources entries must be objects")
			}
			sr, err := parseSharedResource(item.Node)
			if err != nil {
				return RenderConfig{}, err
			}
			sharedByName[sr.Name] = len(cfg.SharedResources)
			cfg.SharedResources = append(cfg.SharedResources, sr)
		}
	}

	ctx := &CompileContext{SharedByName: sharedByName}

	pipesByName := make(map[string]int)
	if v, ok := n.FindByName("pipes"); ok {
		for _, item := range v.Array {
			if item.Kind != kvs.KindNode {
				return RenderConfig{}, fmt.Errorf("kiln: gfx: pipes entries must be objects")
			}
			p, err := parsePipe(item.Node, reg, ctx)
			if err != nil {
				return RenderConfig{}, err
			}
			pipesByName[p.Name] = len(cfg.Pipes)
			cfg.Pipes = append(cfg.Pipes, p)
		}
	}

	if v, ok := n.FindByName("viewports"); ok {
		for _, item := range v.Array {
			if item.Kind != kvs.KindNode {
				return RenderConfig{}, fmt.Errorf("kiln: gfx: viewports entries must be objects")
			}
			vp, err := parseViewport(item.Node, pipesByName, sharedByName)
			if err != nil {
				return RenderConfig{}, err
			}
			cfg.Viewports = append(cfg.Viewports, vp)
		}
	}

	return cfg, nil
}

func parseSharedResource(n *kvs.Node) (SharedResource, error) {
	name, _ := n.FindByName("name")
	kindStr, _ := n.FindByName("kind")
	format, _ := n.FindByName("format")
	flags, _ := n.FindByName("flags")

	var kind SharedResourceKind
	switch kindStr.Str {
	case "render_target", "":
		kind = KindRenderTarget
	case "depth_stencil":
		kind = KindDepthStencil
	default:
		return SharedResource{}, fmt.Errorf("kiln: gfx: unknown shared resource kind %q", kindStr.Str)
	}
	return SharedResource{Name: name.Str, Kind: kind, Format: format.Str, Flags: uint32(flags.Int)}, nil
}

func parsePipe(n *kvs.Node, reg *GeneratorRegistry, ctx *CompileContext) (Pipe, error) {
	name, _ := n.FindByName("name")
	pipe := Pipe{Name: name.Str}
	layersV, ok := n.FindByName("layers")
	if !ok {
		return pipe, nil
	}
	for _, item := range layersV.Array {
		if item.Kind != kvs.KindNode {
			return Pipe{}, fmt.Errorf("kiln: gfx: pipe %q: layers entries must be objects", pipe.Name)
		}
		layer, err := parseLayer(item.Node, reg, ctx)
		if err != nil {
			return Pipe{}, err
		}
		pipe.Layers = append(pipe.Layers, layer)
	}
	return pipe, nil
}

func parseLayer(n *kvs.Node, reg *GeneratorRegistry, ctx *CompileContext) (Layer, error) {
	name, _ := n.FindByName("name")
	layer := Layer{Name: name.Str}
	seqV, ok := n.FindByName("seq")
	if !ok {
		return layer, nil
	}
	for _, item := range seqV.Array {
		if item.Kind != kvs.KindNode {
			return Layer{}, fmt.Errorf("kiln: gfx: layer %q: seq entries must be objects", layer.Name)
		}
		unitName, _ := item.Node.FindByName("name")
		generatorName, _ := item.Node.FindByName("generator")
		gc, ok := reg.LookupCompiler(generatorName.Str)
		if !ok {
			return Layer{}, fmt.Errorf("kiln: gfx: unknown generator %q", generatorName.Str)
		}
		blob, err := gc.Compile(item.Node, ctx)
		if err != nil {
			return Layer{}, fmt.Errorf("kiln: gfx: generator %q: %w", generatorName.Str, err)
		}
		layer.Seq = append(layer.Seq, GeneratorUnit{
			Name:          unitName.Str,
			GeneratorHash: uint32(hash.Calc32(generatorName.Str)),
			Blob:          blob,
		})
	}
	return layer, nil
}

func parseViewport(n *kvs.Node, pipesByName, sharedByName map[string]int) (Viewport, error) {
	name, _ := n.FindByName("name")
	pipeName, _ := n.FindByName("pipe")
	outputName, _ := n.FindByName("output")

	pipeIdx, ok := pipesByName[pipeName.Str]
	if !ok {
		return Viewport{}, fmt.Errorf("kiln: gfx: viewport %q: unknown pipe %q", name.Str, pipeName.Str)
	}
	outIdx, ok := sharedByName[outputName.Str]
	if !ok {
		return Viewport{}, fmt.Errorf("kiln: gfx: viewport %q: unknown output %q", name.Str, outputName.Str)
	}
	return Viewport{Name: name.Str, PipeIndex: int32(pipeIdx), OutputIndex: int32(outIdx)}, nil
}

// encodeRenderConfig writes cfg as the packed blob described by §4.7:
// a header with counts, then each section in turn.
func encodeRenderConfig(s *serial.Serializer, cfg *RenderConfig) {
	sharedCount := uint32(len(cfg.SharedResources))
	pipeCount := uint32(len(cfg.Pipes))
	viewportCount := uint32(len(cfg.Viewports))
	serial.RawValue(s, &sharedCount)
	serial.RawValue(s, &pipeCount)
	serial.RawValue(s, &viewportCount)

	for i := range cfg.SharedResources {
		sr := &cfg.SharedResources[i]
		serial.String[uint32](s, &sr.Name)
		kind := uint8(sr.Kind)
		serial.RawValue(s, &kind)
		sr.Kind = SharedResourceKind(kind)
		serial.String[uint32](s, &sr.Format)
		serial.RawValue(s, &sr.Flags)
	}

	for i := range cfg.Pipes {
		p := &cfg.Pipes[i]
		serial.String[uint32](s, &p.Name)
		layerCount := uint32(len(p.Layers))
		serial.RawValue(s, &layerCount)
		for j := range p.Layers {
			l := &p.Layers[j]
			serial.String[uint32](s, &l.Name)
			serial.Collection[uint32](s, &l.Seq, func(s *serial.Serializer, u *GeneratorUnit) {
				serial.String[uint32](s, &u.Name)
				serial.RawValue(s, &u.GeneratorHash)
				serial.Collection[uint32](s, &u.Blob, func(s *serial.Serializer, b *byte) {
					serial.RawValue(s, b)
				})
			})
		}
	}

	for i := range cfg.Viewports {
		vp := &cfg.Viewports[i]
		serial.String[uint32](s, &vp.Name)
		serial.RawValue(s, &vp.PipeIndex)
		serial.RawValue(s, &vp.OutputIndex)
	}
}

// DecodeRenderConfig reads back a packed blob written by
// encodeRenderConfig, for use by the runtime (§4.9).
func DecodeRenderConfig(r stream.Reader) (*RenderConfig, error) {
	s := serial.NewReader(r, serialEndian)
	var cfg RenderConfig
	var sharedCount, pipeCount, viewportCount uint32
	serial.RawValue(s, &sharedCount)
	serial.RawValue(s, &pipeCount)
	serial.RawValue(s, &viewportCount)

	cfg.SharedResources = make([]SharedResource, sharedCount)
	for i := range cfg.SharedResources {
		sr := &cfg.SharedResources[i]
		serial.String[uint32](s, &sr.Name)
		var kind uint8
		serial.RawValue(s, &kind)
		sr.Kind = SharedResourceKind(kind)
		serial.String[uint32](s, &sr.Format)
		serial.RawValue(s, &sr.Flags)
	}

	cfg.Pipes = make([]Pipe, pipeCount)
	for i := range cfg.Pipes {
		p := &cfg.Pipes[i]
		serial.String[uint32](s, &p.Name)
		var layerCount uint32
		serial.RawValue(s, &layerCount)
		p.Layers = make([]Layer, layerCount)
		for j := range p.Layers {
			l := &p.Layers[j]
			serial.String[uint32](s, &l.Name)
			serial.Collection[uint32](s, &l.Seq, func(s *serial.Serializer, u *GeneratorUnit) {
				serial.String[uint32](s, &u.Name)
				serial.RawValue(s, &u.GeneratorHash)
				serial.Collection[uint32](s, &u.Blob, func(s *serial.Serializer, b *byte) {
					serial.RawValue(s, b)
				})
			})
		}
	}

	cfg.Viewports = make([]Viewport, viewportCount)
	for i := range cfg.Viewports {
		vp := &cfg.Viewports[i]
		serial.String[uint32](s, &vp.Name)
		serial.RawValue(s, &vp.PipeIndex)
		serial.RawValue(s, &vp.OutputIndex)
	}

	return &cfg, nil
}
