package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phanxgames/kiln/gfx"
	"github.com/phanxgames/kiln/resource/runtime"
	"github.com/phanxgames/kiln/stream"
)

const testRenderConfigSource = `
shared_resources = [
	{ name = backbuffer kind = render_target format = rgba8 flags = 0 }
]
pipes = [
	{
		name = main
		layers = [
			{ name = base seq = [ { name = clear_scene generator = clear target = backbuffer } ] }
		]
	}
]
viewports = [
	{ name = main_vp pipe = main output = backbuffer }
]
`

// mustCompileRenderConfig drives the public render_config ResourceCompiler
// entry point over in-memory streams, the same path the offline compiler
// uses, to produce a loadable *gfx.RenderConfig for Shell tests.
func mustCompileRenderConfig(t *testing.T) *gfx.RenderConfig {
	t.Helper()
	reg := gfx.NewGeneratorRegistry()
	gfx.RegisterBuiltins(reg)

	rc := gfx.NewRenderConfigCompiler(reg)
	in := stream.NewMemoryReader([]byte(testRenderConfigSource))
	out := stream.NewMemoryWriterStream()
	require.True(t, rc.CompileFn(nil, nil, nil, in, out), "render_config CompileFn failed")
	cfg, err := gfx.DecodeRenderConfig(stream.NewMemoryReader(out.Bytes()))
	require.NoError(t, err)
	return cfg
}

func newTestShell(t *testing.T) *Shell {
	t.Helper()
	renderer := gfx.NewRenderer()
	cfg := mustCompileRenderConfig(t)
	require.NoError(t, renderer.LoadConfig(cfg))
	shell := NewShell(runtime.NewManager(), renderer, nil, nil)
	shell.Viewports = []gfx.WorldArgs{{}}
	return shell
}

func TestShellTickRendersOneFramePerViewport(t *testing.T) {
	shell := newTestShell(t)
	var executed []gfx.CmdHeader
	shell.Executor = executorFunc(func(cmds []gfx.CmdHeader) { executed = cmds })

	require.NoError(t, shell.Tick(1.0/60))
	require.Len(t, executed, 1)
	require.Equal(t, gfx.OpClear, executed[0].Op)
}

func TestShellTickRunsUpdateFuncBeforeRender(t *testing.T) {
	shell := newTestShell(t)
	var order []string
	shell.UpdateFunc = func(dt float64) error {
		order = append(order, "update")
		return nil
	}
	shell.Executor = executorFunc(func(cmds []gfx.CmdHeader) { order = append(order, "render") })

	if err := shell.Tick(1.0 / 60); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(order) != 2 || order[0] != "update" || order[1] != "render" {
		t.Fatalf("order = %v, want [update render]", order)
	}
}

func TestShellTickPropagatesUpdateFuncError(t *testing.T) {
	shell := newTestShell(t)
	wantErr := fmt.Errorf("boom")
	shell.UpdateFunc = func(dt float64) error { return wantErr }

	if err := shell.Tick(1.0 / 60); err != wantErr {
		t.Fatalf("Tick error = %v, want %v", err, wantErr)
	}
}

func TestRenderFrameFailsWithoutLoadedConfig(t *testing.T) {
	shell := NewShell(runtime.NewManager(), gfx.NewRenderer(), nil, nil)
	if _, err := shell.RenderFrame(); err == nil {
		t.Fatal("expected an error when no render config is loaded")
	}
}

func TestTestRunnerSequencesWaitAndActions(t *testing.T) {
	shell := newTestShell(t)
	var fired []string
	steps := []TestStep{
		{Action: "wait", Frames: 2},
		{Action: "mark", Label: "a"},
		{Action: "mark", Label: "b"},
	}
	shell.SetTestRunner(NewTestRunner(steps, func(st TestStep) error {
		fired = append(fired, st.Label)
		return nil
	}))

	for i := 0; i < 4; i++ {
		if err := shell.Tick(1.0 / 60); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("fired = %v, want [a b]", fired)
	}
	if !shell.testRunner.Done() {
		t.Fatal("expected the runner to be done after its steps and waits elapse")
	}
}

func TestLoadTestScriptRejectsEmptyScript(t *testing.T) {
	if _, err := LoadTestScript([]byte(`{"steps":[]}`)); err == nil {
		t.Fatal("expected an error for a script with no steps")
	}
}

// executorFunc adapts a plain function to CommandExecutor.
type executorFunc func(cmds []gfx.CmdHeader)

func (f executorFunc) Execute(cmds []gfx.CmdHeader) { f(cmds) }
