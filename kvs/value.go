// Package kvs implements the key-value store config tree used for
// resource metadata, render-config, and project properties files
// (§4.4): a text grammar with a recursive-descent parser and a
// pretty-printing writer, a binary codec for fast loading, and a
// node type supporting hashed, duplicate-tolerant child lookup.
package kvs

import "github.com/phanxgames/kiln/hash"

// Kind discriminates the tagged union a Value holds. Go has no native
// sum type, so Kind plus a single concrete field set (chosen per Kind)
// is the idiomatic realization — the same shape the teacher's willow.go
// uses for its own small enums (BlendMode, NodeType, EventType).
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDec
	KindString
	KindVec
	KindArray
	KindNode
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDec:
		return "dec"
	case KindString:
		return "string"
	case KindVec:
		return "vec"
	case KindArray:
		return "array"
	case KindNode:
		return "node"
	default:
		return "unknown"
	}
}

// Value is a single KVS value: exactly one of its typed fields is
// meaningful, selected by Kind.
type Value struct {
	Kind Kind

	Bool   bool
	Int    int64
	Dec    float64
	Str    string
	Vec    [4]float32
	VecLen int // 1..4, only meaningful when Kind == KindVec
	Array  []Value
	Node   *Node
}

func Null() Value              { return Value{Kind: KindNull} }
func NewBool(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func NewInt(v int64) Value     { return Value{Kind: KindInt, Int: v} }
func NewDec(v float64) Value   { return Value{Kind: KindDec, Dec: v} }
func NewString(v string) Value { return Value{Kind: KindString, Str: v} }
func NewArray(v []Value) Value { return Value{Kind: KindArray, Array: v} }
func NewNode(v *Node) Value    { return Value{Kind: KindNode, Node: v} }

// NewVec creates a vector value of 1 to 4 components. Panics if fewer
// than 1 or more than 4 components are given.
func NewVec(components ...float32) Value {
	if len(components) < 1 || len(components) > 4 {
		panic("kiln: kvs: vector must have 1 to 4 components")
	}
	v := Value{Kind: KindVec, VecLen: len(components)}
	copy(v.Vec[:], components)
	return v
}

// Field is one (name, value) pair in a Node, carrying the FNV-1a hash
// of its name for O(1)-ish comparison during lookup.
type Field struct {
	Name     string
	NameHash hash.Value32
	Value    Value
}

// Node is an ordered sequence of named fields — the root of every KVS
// document and the payload of every KindNode value. Duplicate names
// are permitted; Find returns the first match, per §4.4.
type Node struct {
	Fields []Field
}

// NewEmptyNode creates a Node with no fields.
func NewEmptyNode() *Node { return &Node{} }

// Set appends a new field, even if name already exists — KVS nodes are
// append-only from the writer's perspective; overwrite semantics are a
// caller concern.
func (n *Node) Set(name string, v Value) {
	n.Fields = append(n.Fields, Field{Name: name, NameHash: hash.Calc32(name), Value: v})
}

// Find returns the first field whose name hashes to nameHash, scanning
// linearly — KVS nodes are small in practice (§4.4).
func (n *Node) Find(nameHash hash.Value32) (Value, bool) {
	for _, f := range n.Fields {
		if f.NameHash == nameHash {
			return f.Value, true
		}
	}
	return Value{}, false
}

// FindByName is a convenience wrapper hashing name before calling Find.
func (n *Node) FindByName(name string) (Value, bool) {
	return n.Find(hash.Calc32(name))
}

// Len returns the number of fields.
func (n *Node) Len() int { return len(n.Fields) }
