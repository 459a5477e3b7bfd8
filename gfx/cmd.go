// Package gfx implements the render-config data model, the generator
// compiler/runtime registry, and the renderer's command stream (§4.7,
// §4.9): a declarative render graph compiled offline into a packed
// blob, and a runtime that turns that blob plus per-frame draw calls
// into a sorted stream of GPU commands.
package gfx

// Opcode identifies the kind of command a RenderNode carries.
type Opcode uint8

const (
	OpClear Opcode = iota
	OpFullscreenPass
	OpRenderBuffers
	OpRenderWorld
)

// CmdHeader is the fixed-size portion of every command copied into a
// RenderNode's arena — the payload a CmdKey's pointer ultimately
// resolves to.
type CmdHeader struct {
	Op      Opcode
	SortKey uint64 // pass_key<<48 | user_key, see RenderNode.Push

	// Clear
	ClearTarget uint16

	// FullscreenPass
	ShaderNameHash uint32
	InputIndex     uint16
	OutputIndex    uint16

	// RenderBuffers
	BufferShaderID  uint16
	DrawParamBlocks []uint16
	BufferBindings  []uint16

	// RenderWorld
	WorldID  uint32
	CameraID uint32
	Viewport uint32
}

// CmdKey pairs a composite sort key with the index of its payload in
// the owning RenderNode's command slice (§4.9 "Command encoding").
type CmdKey struct {
	SortKey uint64
	Index   int
}

// RenderNode is one logical pass: an arena of command payloads plus
// the key list addressing them. passKey is folded into every pushed
// command's sort key so that nodes interleave correctly once merged.
type RenderNode struct {
	Name    string
	passKey uint64
	cmds    []CmdHeader
	keys    []CmdKey
	sortBuf []CmdKey
}

// NewRenderNode creates a pass with the given stable ordering key.
func NewRenderNode(name string, passKey uint64) *RenderNode {
	return &RenderNode{Name: name, passKey: passKey}
}

// Push copies cmd's header into the node's arena and records its sort
// key as (pass_key<<48 | user_key), per §4.9.
func (n *RenderNode) Push(userKey uint16, cmd CmdHeader) {
	cmd.SortKey = n.passKey<<48 | uint64(userKey)
	idx := len(n.cmds)
	n.cmds = append(n.cmds, cmd)
	n.keys = append(n.keys, CmdKey{SortKey: cmd.SortKey, Index: idx})
}

// Reset clears the node for the next frame without releasing the
// underlying arena capacity.
func (n *RenderNode) Reset() {
	n.cmds = n.cmds[:0]
	n.keys = n.keys[:0]
}

// keyLessOrEqual orders by sort key, falling back to insertion index
// for stability — the tie-break spec §5 requires ("ties keep insertion
// order").
func keyLessOrEqual(a, b CmdKey, aIdx, bIdx int) bool {
	if a.SortKey != b.SortKey {
		return a.SortKey < b.SortKey
	}
	return aIdx <= bIdx
}

// mergeSortKeys sorts node's key list in place by (sort_key, insertion
// order), using node.sortBuf as scratch space. This is the teacher's
// render.go mergeSort/mergeRun adapted to CmdKey: bottom-up merge sort
// with an early already-sorted check and a reused scratch buffer.
func mergeSortKeys(node *RenderNode) {
	keys := node.keys
	n := len(keys)
	if n <= 1 {
		return
	}

	sorted := true
	for i := 1; i < n; i++ {
		if !keyLessOrEqual(keys[i-1], keys[i], i-1, i) {
			sorted = false
			break
		}
	}
	if sorted {
		return
	}

	if cap(node.sortBuf) < n {
		node.sortBuf = make([]CmdKey, n)
	}
	node.sortBuf = node.sortBuf[:n]

	a, b := keys, node.sortBuf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRunKeys(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(node.keys, node.sortBuf)
	}
}

func mergeRunKeys(src, dst []CmdKey, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if keyLessOrEqual(src[i], src[j], i, j) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// CommandStream holds every RenderNode for a frame and produces the
// single radix-merged ordering across all of them at commit time
// (§4.9 "Command encoding").
type CommandStream struct {
	Nodes []*RenderNode
}

// NewCommandStream creates an empty stream.
func NewCommandStream() *CommandStream { return &CommandStream{} }

// AddNode registers a pass and returns it for pushing commands into.
func (cs *CommandStream) AddNode(name string, passKey uint64) *RenderNode {
	n := NewRenderNode(name, passKey)
	cs.Nodes = append(cs.Nodes, n)
	return n
}

// Commit sorts every node's key list, then merges all nodes' sorted
// keys into one ordering by ascending sort key (ties keep per-node
// relative order, then node registration order).
func (cs *CommandStream) Commit() []CmdHeader {
	total := 0
	for _, n := range cs.Nodes {
		mergeSortKeys(n)
		total += len(n.keys)
	}
	out := make([]CmdHeader, 0, total)
	// k-way merge across nodes; node count is small (one per logical
	// pass), so a simple repeated-scan merge is clear and fast enough.
	cursors := make([]int, len(cs.Nodes))
	for {
		bestNode := -1
		var bestKey uint64
		for ni, n := range cs.Nodes {
			if cursors[ni] >= len(n.keys) {
				continue
			}
			k := n.keys[cursors[ni]].SortKey
			if bestNode == -1 || k < bestKey {
				bestNode = ni
				bestKey = k
			}
		}
		if bestNode == -1 {
			break
		}
		n := cs.Nodes[bestNode]
		idx := n.keys[cursors[bestNode]].Index
		out = append(out, n.cmds[idx])
		cursors[bestNode]++
	}
	return out
}

// Reset clears every node for reuse across frames.
func (cs *CommandStream) Reset() {
	for _, n := range cs.Nodes {
		n.Reset()
	}
}
