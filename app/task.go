// Package app implements the fixed-timestep frame loop and shell that
// drives a resource.Manager and a gfx.Renderer together (§4.9 "Frame
// loop"), the direct Go-native descendant of the teacher's willow.go
// Run/gameShell split — generalized from scene-graph updates to the
// resource-pipeline/render-graph pair this repo actually has.
package app

// TaskID is an opaque handle returned by TaskManager.Run, waited on
// via TaskManager.Wait.
type TaskID uint64

// TaskManager is the external collaborator the frame loop hands
// render-submission work to (spec §5: "external; callers hand it an
// (fn, ctx) and later wait for a task id"). Threads, mutexes, and task
// scheduling are out of scope (spec §1) — this interface is the only
// contact point the frame loop needs with whatever scheduler a host
// game provides.
type TaskManager interface {
	Run(fn func()) TaskID
	Wait(id TaskID)
}

// syncTaskManager runs fn inline and returns immediately — the
// default when a host hasn't wired a real scheduler. It still
// satisfies the "one task per frame's render submission" contract;
// it just never actually overlaps with anything.
type syncTaskManager struct {
	next TaskID
}

// NewSyncTaskManager creates a TaskManager that executes work
// synchronously on the calling goroutine.
func NewSyncTaskManager() TaskManager {
	return &syncTaskManager{}
}

func (s *syncTaskManager) Run(fn func()) TaskID {
	s.next++
	fn()
	return s.next
}

func (s *syncTaskManager) Wait(TaskID) {}
