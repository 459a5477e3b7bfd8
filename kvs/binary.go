package kvs

import (
	"encoding/binary"
	"fmt"

	"github.com/phanxgames/kiln/serial"
	"github.com/phanxgames/kiln/stream"
)

// BinaryVersion is the current KVS binary format version (§4.4). It
// is written as a u32 header guarding the whole stream.
const BinaryVersion uint32 = 1

// kvsEndian fixes the binary codec's wire byte order. The spec leaves
// this "writer's choice passed through" (§9 Open Question); kiln picks
// little-endian and documents it here rather than in the bytes
// themselves (SPEC_FULL.md Open Question resolution #3).
var kvsEndian = binary.LittleEndian

type binaryTag uint8

const (
	tagNull binaryTag = iota
	tagBool
	tagInt
	tagDec
	tagString
	tagVec
	tagArray
	tagNode
)

// EncodeBinary writes n to w, preceded by the version header.
func EncodeBinary(w stream.Writer, n *Node) {
	s := serial.NewWriter(w, kvsEndian)
	version := BinaryVersion
	s.Uint32(&version)
	encodeNode(s, n)
}

// DecodeBinary reads a KVS binary document from r, validating the
// version header. Returns an error if the version is unrecognized.
func DecodeBinary(r stream.Reader) (*Node, error) {
	s := serial.NewReader(r, kvsEndian)
	var version uint32
	s.Uint32(&version)
	if version != BinaryVersion {
		return nil, fmt.Errorf("kiln: kvs: unsupported binary version %d (want %d)", version, BinaryVersion)
	}
	return decodeNode(s), nil
}

func encodeNode(s *serial.Serializer, n *Node) {
	count := uint32(len(n.Fields))
	s.Uint32(&count)
	for i := range n.Fields {
		f := &n.Fields[i]
		name := f.Name
		serial.String[uint32](s, &name)
		encodeValue(s, &f.Value)
	}
}

func decodeNode(s *serial.Serializer) *Node {
	var count uint32
	s.Uint32(&count)
	n := &Node{Fields: make([]Field, 0, count)}
	for i := uint32(0); i < count; i++ {
		var name string
		serial.String[uint32](s, &name)
		v := decodeValue(s)
		n.Set(name, v)
	}
	return n
}

func encodeValue(s *serial.Serializer, v *Value) {
	tag := kindToTag(v.Kind)
	serial.Proxy(s, &tag, func(t binaryTag) uint8 { return uint8(t) }, func(raw uint8) binaryTag { return binaryTag(raw) })

	switch v.Kind {
	case KindNull:
		// no body
	case KindBool:
		s.Bool(&v.Bool)
	case KindInt:
		s.Int64(&v.Int)
	case KindDec:
		s.Float64(&v.Dec)
	case KindString:
		serial.String[uint32](s, &v.Str)
	case KindVec:
		n := uint8(v.VecLen)
		s.Uint8(&n)
		for i := 0; i < v.VecLen; i++ {
			s.Float32(&v.Vec[i])
		}
	case KindArray:
		count := uint32(len(v.Array))
		s.Uint32(&count)
		for i := range v.Array {
			encodeValue(s, &v.Array[i])
		}
	case KindNode:
		encodeNode(s, v.Node)
	}
}

func decodeValue(s *serial.Serializer) Value {
	var tag binaryTag
	serial.Proxy(s, &tag, func(t binaryTag) uint8 { return uint8(t) }, func(raw uint8) binaryTag { return binaryTag(raw) })

	switch tag {
	case tagNull:
		return Null()
	case tagBool:
		var b bool
		s.Bool(&b)
		return NewBool(b)
	case tagInt:
		var i int64
		s.Int64(&i)
		return NewInt(i)
	case tagDec:
		var f float64
		s.Float64(&f)
		return NewDec(f)
	case tagString:
		var str string
		serial.String[uint32](s, &str)
		return NewString(str)
	case tagVec:
		var n uint8
		s.Uint8(&n)
		v := Value{Kind: KindVec, VecLen: int(n)}
		for i := 0; i < int(n); i++ {
			s.Float32(&v.Vec[i])
		}
		return v
	case tagArray:
		var count uint32
		s.Uint32(&count)
		items := make([]Value, count)
		for i := range items {
			items[i] = decodeValue(s)
		}
		return NewArray(items)
	case tagNode:
		return NewNode(decodeNode(s))
	default:
		panic(fmt.Sprintf("kiln: kvs: unknown binary tag %d", tag))
	}
}

func kindToTag(k Kind) binaryTag {
	switch k {
	case KindNull:
		return tagNull
	case KindBool:
		return tagBool
	case KindInt:
		return tagInt
	case KindDec:
		return tagDec
	case KindString:
		return tagString
	case KindVec:
		return tagVec
	case KindArray:
		return tagArray
	case KindNode:
		return tagNode
	default:
		panic(fmt.Sprintf("kiln: kvs: unknown Kind %v", k))
	}
}
