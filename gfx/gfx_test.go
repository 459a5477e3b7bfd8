package gfx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phanxgames/kiln/kvs"
	"github.com/phanxgames/kiln/resource/compiler"
	"github.com/phanxgames/kiln/serial"
	"github.com/phanxgames/kiln/stream"
)

func TestCommandStreamOrdersByPassThenUserKeyStably(t *testing.T) {
	cs := NewCommandStream()
	nodeA := cs.AddNode("a", 1)
	nodeB := cs.AddNode("b", 0)

	nodeA.Push(1, CmdHeader{Op: OpClear, ClearTarget: 10})
	nodeA.Push(0, CmdHeader{Op: OpClear, ClearTarget: 11})
	nodeB.Push(0, CmdHeader{Op: OpClear, ClearTarget: 20})

	out := cs.Commit()
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}
	// nodeB has the lower pass key (0), so its command sorts first.
	if out[0].ClearTarget != 20 {
		t.Fatalf("out[0].ClearTarget = %d, want 20 (nodeB sorts before nodeA)", out[0].ClearTarget)
	}
	// within nodeA, user_key 0 sorts before user_key 1.
	if out[1].ClearTarget != 11 || out[2].ClearTarget != 10 {
		t.Fatalf("out = %+v, want [11, 10] for nodeA's two commands in user_key order", out)
	}
}

func TestCommandStreamResetReusesNodes(t *testing.T) {
	cs := NewCommandStream()
	node := cs.AddNode("only", 0)
	node.Push(0, CmdHeader{Op: OpClear, ClearTarget: 1})
	cs.Commit()
	cs.Reset()
	if len(node.cmds) != 0 || len(node.keys) != 0 {
		t.Fatal("Reset should clear the node's command and key lists")
	}
	node.Push(0, CmdHeader{Op: OpClear, ClearTarget: 2})
	out := cs.Commit()
	if len(out) != 1 || out[0].ClearTarget != 2 {
		t.Fatalf("out = %+v after reset+repush, want single ClearTarget=2", out)
	}
}

func renderConfigSource() string {
	return `
shared_resources = [
	{ name = scene kind = render_target format = rgba8 flags = 0 }
	{ name = backbuffer kind = render_target format = rgba8 flags = 0 }
]
pipes = [
	{
		name = main
		layers = [
			{
				name = base
				seq = [
					{ name = clear_scene generator = clear target = scene }
					{ name = blit generator = fullscreen_pass shader = blit_shader input = scene output = backbuffer }
				]
			}
		]
	}
]
viewports = [
	{ name = main_vp pipe = main output = backbuffer }
]
`
}

func TestRenderConfigCompileDecodeAndRender(t *testing.T) {
	reg := NewGeneratorRegistry()
	RegisterBuiltins(reg)

	node, err := kvs.Parse(renderConfigSource())
	require.NoError(t, err)
	cfg, err := compileRenderConfig(node, reg)
	require.NoError(t, err)
	require.Len(t, cfg.SharedResources, 2)
	require.Len(t, cfg.Pipes, 1)
	require.Len(t, cfg.Viewports, 1)

	w := stream.NewMemoryWriterStream()
	s := serial.NewWriter(w, serialEndian)
	encodeRenderConfig(s, &cfg)

	r := stream.NewMemoryReader(w.Bytes())
	decoded, err := DecodeRenderConfig(r)
	require.NoError(t, err)
	require.Len(t, decoded.Pipes, 1)
	require.Len(t, decoded.Pipes[0].Layers, 1)
	require.Len(t, decoded.Pipes[0].Layers[0].Seq, 2)
	require.Equal(t, int32(1), decoded.Viewports[0].OutputIndex, "backbuffer should be output index 1")

	renderer := NewRenderer()
	require.NoError(t, renderer.LoadConfig(decoded))
	require.NoError(t, renderer.RenderViewport(0, WorldArgs{}))
	cmds := renderer.EndFrame()
	require.Len(t, cmds, 2)
	require.Equal(t, OpClear, cmds[0].Op)
	require.Equal(t, OpFullscreenPass, cmds[1].Op)
}

func TestUnknownGeneratorAbortsCompile(t *testing.T) {
	reg := NewGeneratorRegistry()
	RegisterBuiltins(reg)
	src := `
shared_resources = []
pipes = [
	{ name = main layers = [ { name = l seq = [ { name = u generator = nonexistent } ] } ] }
]
viewports = []
`
	node, err := kvs.Parse(src)
	if err != nil {
		t.Fatalf("kvs.Parse: %v", err)
	}
	if _, err := compileRenderConfig(node, reg); err == nil {
		t.Fatal("expected compileRenderConfig to fail on an unknown generator name")
	}
}

func TestFullscreenPassRejectsSameInputOutputWithoutDoubleBuffer(t *testing.T) {
	c := fullscreenPassCompiler{}
	ctx := &CompileContext{SharedByName: map[string]int{"a": 0}}
	unit := kvs.NewEmptyNode()
	unit.Set("shader", kvs.NewString("s"))
	unit.Set("input", kvs.NewString("a"))
	unit.Set("output", kvs.NewString("a"))
	if _, err := c.Compile(unit, ctx); err == nil {
		t.Fatal("expected an error: same input/output without double_buffered")
	}

	unit.Set("double_buffered", kvs.NewBool(true))
	if _, err := c.Compile(unit, ctx); err != nil {
		t.Fatalf("expected success with double_buffered=true: %v", err)
	}
}

func TestShaderLibraryMergesPreludeClosureDepthFirst(t *testing.T) {
	lib := NewShaderLibrary()
	lib.AddPrelude("base", compiler.ShaderDef{VertexSource: "base-vert", FragmentSource: "base-frag"})
	lib.AddPrelude("lighting", compiler.ShaderDef{
		VertexSource: "lighting-vert", FragmentSource: "lighting-frag",
		Prelude: []string{"base"},
	})
	unit := compiler.ShaderDef{
		VertexSource: "unit-vert", FragmentSource: "unit-frag",
		Prelude: []string{"lighting"},
	}
	merged, err := lib.Merge(unit)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := "base-vert\nlighting-vert\nunit-vert"
	if merged.VertexSource != want {
		t.Fatalf("VertexSource = %q, want %q", merged.VertexSource, want)
	}
}

func TestShaderLibraryRejectsConflictingParamBlockIndices(t *testing.T) {
	lib := NewShaderLibrary()
	lib.AddPrelude("a", compiler.ShaderDef{ParamBlocks: []compiler.ParamBlock{{Name: "camera", Index: 0}}})
	lib.AddPrelude("b", compiler.ShaderDef{ParamBlocks: []compiler.ParamBlock{{Name: "camera", Index: 1}}})
	unit := compiler.ShaderDef{Prelude: []string{"a", "b"}}
	if _, err := lib.Merge(unit); err == nil {
		t.Fatal("expected a conflicting param-block index error")
	}
}

func TestShaderLibraryUnresolvedPreludeErrors(t *testing.T) {
	lib := NewShaderLibrary()
	unit := compiler.ShaderDef{Prelude: []string{"missing"}}
	if _, err := lib.Merge(unit); err == nil {
		t.Fatal("expected an unresolved prelude error")
	}
}

func TestShaderLibraryDrawParamsRenumbered(t *testing.T) {
	lib := NewShaderLibrary()
	unit := compiler.ShaderDef{
		ParamBlocks: []compiler.ParamBlock{{Name: "a", Index: 7}, {Name: "b", Index: 3}},
	}
	merged, err := lib.Merge(unit)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.DrawParams[0].Index != 0 || merged.DrawParams[1].Index != 1 {
		t.Fatalf("DrawParams = %+v, want renumbered 0,1", merged.DrawParams)
	}
}
