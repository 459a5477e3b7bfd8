package gfx

import (
	"fmt"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/kvs"
	"github.com/phanxgames/kiln/serial"
	"github.com/phanxgames/kiln/stream"
)

// --- clear ---

// clearCompiler writes the named render-target's resolved index
// (§4.7 "clear — writes the named render-target index").
type clearCompiler struct{}

func (clearCompiler) Compile(unit *kvs.Node, ctx *CompileContext) ([]byte, error) {
	target, _ := unit.FindByName("target")
	idx, ok := ctx.Resolve(target.Str)
	if !ok {
		return nil, fmt.Errorf("kiln: gfx: clear: unknown target %q", target.Str)
	}
	w := stream.NewMemoryWriterStream()
	s := serial.NewWriter(w, serialEndian)
	serial.RawValue(s, &idx)
	return w.Bytes(), nil
}

type clearGenerator struct {
	targetIndex int32
}

func (g *clearGenerator) Init(blob []byte) error {
	r := stream.NewMemoryReader(blob)
	s := serial.NewReader(r, serialEndian)
	serial.RawValue(s, &g.targetIndex)
	return nil
}

func (g *clearGenerator) Exec(node *RenderNode, userKey uint16, args any) error {
	node.Push(userKey, CmdHeader{Op: OpClear, ClearTarget: uint16(g.targetIndex)})
	return nil
}

func (g *clearGenerator) Destroy() {}

// --- fullscreen_pass ---

// fullscreenPassCompiler writes (shader_name_hash, input_index,
// output_index), validating input != output unless the target is
// double-buffered (§4.7 "fullscreen_pass").
type fullscreenPassCompiler struct{}

func (fullscreenPassCompiler) Compile(unit *kvs.Node, ctx *CompileContext) ([]byte, error) {
	shaderName, _ := unit.FindByName("shader")
	inputName, _ := unit.FindByName("input")
	outputName, _ := unit.FindByName("output")
	doubleBuffered, _ := unit.FindByName("double_buffered")

	inputIdx, ok := ctx.Resolve(inputName.Str)
	if !ok {
		return nil, fmt.Errorf("kiln: gfx: fullscreen_pass: unknown input %q", inputName.Str)
	}
	outputIdx, ok := ctx.Resolve(outputName.Str)
	if !ok {
		return nil, fmt.Errorf("kiln: gfx: fullscreen_pass: unknown output %q", outputName.Str)
	}
	if inputIdx == outputIdx && !doubleBuffered.Bool {
		return nil, fmt.Errorf("kiln: gfx: fullscreen_pass: input and output both %q, but target is not double-buffered", inputName.Str)
	}

	shaderHash := uint32(hash.Calc32(shaderName.Str))
	w := stream.NewMemoryWriterStream()
	s := serial.NewWriter(w, serialEndian)
	serial.RawValue(s, &shaderHash)
	serial.RawValue(s, &inputIdx)
	serial.RawValue(s, &outputIdx)
	return w.Bytes(), nil
}

type fullscreenPassGenerator struct {
	shaderHash  uint32
	inputIndex  int32
	outputIndex int32
}

func (g *fullscreenPassGenerator) Init(blob []byte) error {
	r := stream.NewMemoryReader(blob)
	s := serial.NewReader(r, serialEndian)
	serial.RawValue(s, &g.shaderHash)
	serial.RawValue(s, &g.inputIndex)
	serial.RawValue(s, &g.outputIndex)
	return nil
}

func (g *fullscreenPassGenerator) Exec(node *RenderNode, userKey uint16, args any) error {
	node.Push(userKey, CmdHeader{
		Op:             OpFullscreenPass,
		ShaderNameHash: g.shaderHash,
		InputIndex:     uint16(g.inputIndex),
		OutputIndex:    uint16(g.outputIndex),
	})
	return nil
}

func (g *fullscreenPassGenerator) Destroy() {}

// --- world ---

// worldCompiler writes viewport parameters: camera binding slot and
// material selector (§4.7 "world").
type worldCompiler struct{}

func (worldCompiler) Compile(unit *kvs.Node, ctx *CompileContext) ([]byte, error) {
	cameraSlot, _ := unit.FindByName("camera_slot")
	material, _ := unit.FindByName("material")

	slot := uint32(cameraSlot.Int)
	materialHash := uint32(hash.Calc32(material.Str))
	w := stream.NewMemoryWriterStream()
	s := serial.NewWriter(w, serialEndian)
	serial.RawValue(s, &slot)
	serial.RawValue(s, &materialHash)
	return w.Bytes(), nil
}

type worldGenerator struct {
	cameraSlot   uint32
	materialHash uint32
}

func (g *worldGenerator) Init(blob []byte) error {
	r := stream.NewMemoryReader(blob)
	s := serial.NewReader(r, serialEndian)
	serial.RawValue(s, &g.cameraSlot)
	serial.RawValue(s, &g.materialHash)
	return nil
}

// WorldArgs are the per-frame arguments a world generator needs to
// push its render command (§4.9 step 2: push_work(CmdRenderWorld{...})).
type WorldArgs struct {
	WorldID  uint32
	CameraID uint32
	Viewport uint32
}

func (g *worldGenerator) Exec(node *RenderNode, userKey uint16, args any) error {
	wa, ok := args.(WorldArgs)
	if !ok {
		return fmt.Errorf("kiln: gfx: world generator requires WorldArgs")
	}
	node.Push(userKey, CmdHeader{
		Op:       OpRenderWorld,
		WorldID:  wa.WorldID,
		CameraID: wa.CameraID,
		Viewport: wa.Viewport,
	})
	return nil
}

func (g *worldGenerator) Destroy() {}
