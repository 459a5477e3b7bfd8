package kvs

import (
	"testing"

	"github.com/phanxgames/kiln/stream"
)

func TestParseBasicFields(t *testing.T) {
	text := `
name = hello
count = 42
ratio = 3.5
enabled = true
missing = null
`
	n, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, ok := n.FindByName("name")
	if !ok || v.Kind != KindString || v.Str != "hello" {
		t.Fatalf("name = %+v", v)
	}
	v, ok = n.FindByName("count")
	if !ok || v.Kind != KindInt || v.Int != 42 {
		t.Fatalf("count = %+v", v)
	}
	v, ok = n.FindByName("ratio")
	if !ok || v.Kind != KindDec || v.Dec != 3.5 {
		t.Fatalf("ratio = %+v", v)
	}
	v, ok = n.FindByName("enabled")
	if !ok || v.Kind != KindBool || v.Bool != true {
		t.Fatalf("enabled = %+v", v)
	}
	v, ok = n.FindByName("missing")
	if !ok || v.Kind != KindNull {
		t.Fatalf("missing = %+v", v)
	}
}

func TestParseVectorArrayObj(t *testing.T) {
	text := `
pos = (1 2 3)
tags = [ one two three ]
child = {
	x = 1
	y = 2
}
`
	n, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, _ := n.FindByName("pos")
	if v.Kind != KindVec || v.VecLen != 3 || v.Vec[0] != 1 || v.Vec[2] != 3 {
		t.Fatalf("pos = %+v", v)
	}
	v, _ = n.FindByName("tags")
	if v.Kind != KindArray || len(v.Array) != 3 || v.Array[1].Str != "two" {
		t.Fatalf("tags = %+v", v)
	}
	v, _ = n.FindByName("child")
	if v.Kind != KindNode || v.Node.Len() != 2 {
		t.Fatalf("child = %+v", v)
	}
	xv, _ := v.Node.FindByName("x")
	if xv.Int != 1 {
		t.Fatalf("child.x = %+v", xv)
	}
}

func TestParseQuotedAndTripleBacktickStrings(t *testing.T) {
	text := "label = \"has space\"\nbody = ```line one\nline two```\n"
	n, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, _ := n.FindByName("label")
	if v.Str != "has space" {
		t.Fatalf("label = %q", v.Str)
	}
	v, _ = n.FindByName("body")
	if v.Str != "line one\nline two" {
		t.Fatalf("body = %q", v.Str)
	}
}

func TestParseMissingAssignReportsLineColumn(t *testing.T) {
	_, err := Parse("name hello\n")
	if err == nil {
		t.Fatal("expected parse error")
	}
	pi, ok := err.(*ParserInfo)
	if !ok {
		t.Fatalf("error type = %T, want *ParserInfo", err)
	}
	if pi.Line != 1 {
		t.Fatalf("Line = %d, want 1", pi.Line)
	}
}

func TestDuplicateNamesReturnFirstMatch(t *testing.T) {
	text := "a = 1\na = 2\n"
	n, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, ok := n.FindByName("a")
	if !ok || v.Int != 1 {
		t.Fatalf("a = %+v, want first match (1)", v)
	}
	if n.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (both duplicates kept)", n.Len())
	}
}

func TestWriteEmptyCollectionsCompact(t *testing.T) {
	n := NewEmptyNode()
	n.Set("arr", NewArray(nil))
	n.Set("obj", NewNode(NewEmptyNode()))
	out := Write(n)
	if !containsLine(out, "arr = []") {
		t.Fatalf("output missing 'arr = []':\n%s", out)
	}
	if !containsLine(out, "obj = {}") {
		t.Fatalf("output missing 'obj = {}':\n%s", out)
	}
}

func containsLine(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestTextRoundTripPreservesStructure(t *testing.T) {
	original := `
name = widget
count = 7
ratio = 1.5
flag = true
pos = (1 2 3 4)
tags = [alpha beta]
nested = {
	inner = value
}
`
	n1, err := Parse(original)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rewritten := Write(n1)
	n2, err := Parse(rewritten)
	if err != nil {
		t.Fatalf("re-Parse: %v\n%s", err, rewritten)
	}
	assertNodesEqual(t, n1, n2)
}

func TestBinaryRoundTrip(t *testing.T) {
	n := NewEmptyNode()
	n.Set("name", NewString("widget"))
	n.Set("count", NewInt(-9))
	n.Set("ratio", NewDec(2.25))
	n.Set("flag", NewBool(true))
	n.Set("pos", NewVec(1, 2, 3))
	n.Set("tags", NewArray([]Value{NewString("a"), NewString("b")}))
	child := NewEmptyNode()
	child.Set("x", NewInt(5))
	n.Set("child", NewNode(child))

	w := stream.NewMemoryWriterStream()
	EncodeBinary(w, n)

	r := stream.NewMemoryReader(w.Bytes())
	got, err := DecodeBinary(r)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	assertNodesEqual(t, n, got)
}

func TestDecodeBinaryRejectsUnknownVersion(t *testing.T) {
	w := stream.NewMemoryWriterStream()
	n := NewEmptyNode()
	n.Set("a", NewInt(1))
	EncodeBinary(w, n)
	raw := w.Bytes()
	raw[0] = 99 // corrupt the version header's low byte
	r := stream.NewMemoryReader(raw)
	_, err := DecodeBinary(r)
	if err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestTextToBinaryToTextRoundTrip(t *testing.T) {
	original := "name = widget\ncount = 3\npos = (1 2)\n"
	n1, err := Parse(original)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	w := stream.NewMemoryWriterStream()
	EncodeBinary(w, n1)
	r := stream.NewMemoryReader(w.Bytes())
	n2, err := DecodeBinary(r)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	text2 := Write(n2)
	n3, err := Parse(text2)
	if err != nil {
		t.Fatalf("re-Parse: %v", err)
	}
	assertNodesEqual(t, n1, n3)
}

func assertNodesEqual(t *testing.T, a, b *Node) {
	t.Helper()
	if a.Len() != b.Len() {
		t.Fatalf("field count %d != %d", a.Len(), b.Len())
	}
	for i := range a.Fields {
		fa, fb := a.Fields[i], b.Fields[i]
		if fa.Name != fb.Name {
			t.Fatalf("field %d name %q != %q", i, fa.Name, fb.Name)
		}
		assertValuesEqual(t, fa.Value, fb.Value)
	}
}

func assertValuesEqual(t *testing.T, a, b Value) {
	t.Helper()
	if a.Kind != b.Kind {
		t.Fatalf("kind %v != %v", a.Kind, b.Kind)
	}
	switch a.Kind {
	case KindBool:
		if a.Bool != b.Bool {
			t.Fatalf("bool %v != %v", a.Bool, b.Bool)
		}
	case KindInt:
		if a.Int != b.Int {
			t.Fatalf("int %d != %d", a.Int, b.Int)
		}
	case KindDec:
		if a.Dec != b.Dec {
			t.Fatalf("dec %v != %v", a.Dec, b.Dec)
		}
	case KindString:
		if a.Str != b.Str {
			t.Fatalf("string %q != %q", a.Str, b.Str)
		}
	case KindVec:
		if a.VecLen != b.VecLen {
			t.Fatalf("vec len %d != %d", a.VecLen, b.VecLen)
		}
		for i := 0; i < a.VecLen; i++ {
			if a.Vec[i] != b.Vec[i] {
				t.Fatalf("vec[%d] %v != %v", i, a.Vec[i], b.Vec[i])
			}
		}
	case KindArray:
		if len(a.Array) != len(b.Array) {
			t.Fatalf("array len %d != %d", len(a.Array), len(b.Array))
		}
		for i := range a.Array {
			assertValuesEqual(t, a.Array[i], b.Array[i])
		}
	case KindNode:
		assertNodesEqual(t, a.Node, b.Node)
	}
}
