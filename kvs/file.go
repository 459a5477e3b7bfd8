package kvs

import (
	"fmt"

	"github.com/phanxgames/kiln/stream"
)

// DecodeFile reads a KVS binary document from path.
func DecodeFile(path string) (*Node, error) {
	f, err := stream.OpenFile(path, stream.ReadBinary)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeBinary(f)
}

// EncodeFile writes n as a KVS binary document to path, truncating any
// existing file.
func EncodeFile(path string, n *Node) error {
	f, err := stream.OpenFile(path, stream.WriteBinaryTruncate)
	if err != nil {
		return err
	}
	defer f.Close()
	EncodeBinary(f, n)
	return nil
}

// DecodeTextFile reads and parses a KVS text document from path.
func DecodeTextFile(path string) (*Node, error) {
	f, err := stream.OpenFile(path, stream.ReadBinary)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		n, status := f.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if status.EOF || status.Fail {
			break
		}
	}
	return Parse(string(buf))
}

// EncodeTextFile renders n as KVS text to path, truncating any
// existing file.
func EncodeTextFile(path string, n *Node) error {
	f, err := stream.OpenFile(path, stream.WriteBinaryTruncate)
	if err != nil {
		return err
	}
	defer f.Close()
	status := f.Write([]byte(Write(n)))
	if !status.OK() {
		return fmt.Errorf("kiln: kvs: write failed: %v", status)
	}
	return nil
}
