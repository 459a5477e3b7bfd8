package kvs

import (
	"strconv"
	"strings"
)

// Write renders n as KVS text: tab-indented, compact vector literals,
// the minimum quote level that still round-trips losslessly, and
// single-line `[]`/`{}` for empty collections (§4.4).
func Write(n *Node) string {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node, depth int) {
	for _, f := range n.Fields {
		writeIndent(sb, depth)
		sb.WriteString(quoteIfNeeded(f.Name))
		sb.WriteString(" = ")
		writeValue(sb, f.Value, depth)
		sb.WriteByte('\n')
	}
}

func writeIndent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteByte('\t')
	}
}

func writeValue(sb *strings.Builder, v Value, depth int) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case KindDec:
		sb.WriteString(strconv.FormatFloat(v.Dec, 'g', -1, 64))
	case KindString:
		sb.WriteString(quoteIfNeeded(v.Str))
	case KindVec:
		sb.WriteByte('(')
		for i := 0; i < v.VecLen; i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatFloat(float64(v.Vec[i]), 'g', -1, 32))
		}
		sb.WriteByte(')')
	case KindArray:
		if len(v.Array) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteByte('[')
		for i, item := range v.Array {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeValue(sb, item, depth)
		}
		sb.WriteByte(']')
	case KindNode:
		if v.Node == nil || len(v.Node.Fields) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{\n")
		writeNode(sb, v.Node, depth+1)
		writeIndent(sb, depth)
		sb.WriteByte('}')
	}
}

// quoteIfNeeded returns s as a bareword when it is safe to, or a
// minimally-quoted form otherwise: plain double-quoting unless s
// contains a newline, in which case triple-backtick quoting is used
// since a double-quoted string cannot represent one (§4.4).
func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	if strings.Contains(s, "\n") {
		return "```" + s + "```"
	}
	if needsQuote(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuote(s string) bool {
	r := []rune(s)
	if r[0] >= '0' && r[0] <= '9' {
		return true
	}
	if r[0] == '-' && len(r) > 1 && r[1] >= '0' && r[1] <= '9' {
		return true
	}
	switch s {
	case "null", "true", "false":
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return strings.ContainsAny(s, quoteForcingChars)
}
