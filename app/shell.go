package app

import (
	"fmt"

	"github.com/phanxgames/kiln/gfx"
	"github.com/phanxgames/kiln/resource/runtime"
)

// CommandExecutor interprets the CmdHeaders a frame produces. The
// render layer emits a command stream only; interpretation is
// delegated to a backend (spec §1 non-goal: "no GPU driver") — Shell
// never reaches into a CommandExecutor's internals.
type CommandExecutor interface {
	Execute(cmds []gfx.CmdHeader)
}

// Shell owns the pieces a running game needs each frame: the online
// resource manager, the renderer and its loaded render graph, a task
// manager for the render-submission unit, and an executor for the
// resulting command stream. It is the generalized form of the
// teacher's gameShell: same Update/Draw split, driven by resource and
// render-graph state instead of a scene tree.
type Shell struct {
	Resources *runtime.Manager
	Renderer  *gfx.Renderer
	Tasks     TaskManager
	Executor  CommandExecutor

	// UpdateFunc runs once per tick before the frame's render
	// submission, mirroring the teacher's SetUpdateFunc callback.
	UpdateFunc func(dt float64) error

	// Viewports holds the per-frame WorldArgs for each viewport in
	// render-graph declaration order; callers refresh this before
	// each tick (camera position, active world, etc).
	Viewports []gfx.WorldArgs

	testRunner *TestRunner
}

// SetTestRunner attaches a scripted TestRunner; its step runs once per
// tick, before UpdateFunc, mirroring the teacher's Scene.Update →
// testRunner.step ordering.
func (s *Shell) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// NewShell creates a shell wired to the given resource manager and
// renderer. Tasks defaults to a synchronous TaskManager if tasks is
// nil.
func NewShell(resources *runtime.Manager, renderer *gfx.Renderer, tasks TaskManager, executor CommandExecutor) *Shell {
	if tasks == nil {
		tasks = NewSyncTaskManager()
	}
	return &Shell{
		Resources: resources,
		Renderer:  renderer,
		Tasks:     tasks,
		Executor:  executor,
	}
}

// Tick advances game logic by dt via UpdateFunc, then renders one
// frame and hands the resulting command stream to Executor. This is
// the fixed-timestep step a host loop (ebiten or a headless test
// driver) calls once per tick.
func (s *Shell) Tick(dt float64) error {
	if s.testRunner != nil {
		if err := s.testRunner.step(); err != nil {
			return err
		}
	}
	if s.UpdateFunc != nil {
		if err := s.UpdateFunc(dt); err != nil {
			return err
		}
	}
	cmds, err := s.RenderFrame()
	if err != nil {
		return err
	}
	if s.Executor != nil {
		s.Executor.Execute(cmds)
	}
	return nil
}

// RenderFrame runs the three-step frame loop from spec §4.9:
// begin_frame hands the render submission to the task manager,
// push_work renders each configured viewport, and end_frame drains
// the command stream.
func (s *Shell) RenderFrame() ([]gfx.CmdHeader, error) {
	if s.Renderer.Config() == nil {
		return nil, fmt.Errorf("kiln: app: no render config loaded")
	}
	var renderErr error
	taskID := s.Tasks.Run(func() {
		for i, args := range s.Viewports {
			if err := s.Renderer.RenderViewport(i, args); err != nil {
				renderErr = err
				return
			}
		}
	})
	s.Tasks.Wait(taskID)
	if renderErr != nil {
		return nil, renderErr
	}
	return s.Renderer.EndFrame(), nil
}
