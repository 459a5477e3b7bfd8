package compiler

import (
	"encoding/binary"
	"fmt"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/kvs"
	"github.com/phanxgames/kiln/resource"
	"github.com/phanxgames/kiln/serial"
	"github.com/phanxgames/kiln/stream"
)

// serialEndian is the wire endian for compiled blobs — little-endian
// throughout, matching the archive and KVS binary codecs.
var serialEndian = binary.LittleEndian

// TestResourceFormatVersion guards the single-record identity compiler
// used by integration tests (§4.6 "Test resource").
const TestResourceFormatVersion uint32 = 1

// TestResourceType is the registered type hash for `.test` sources.
var TestResourceType = hash.Calc32("test")

// NewTestResourceCompiler is an identity transform: it copies the
// source bytes to the compiled blob verbatim, guarded by
// TestResourceFormatVersion.
func NewTestResourceCompiler() ResourceCompiler {
	return ResourceCompiler{
		Type:        TestResourceType,
		FormatVer:   TestResourceFormatVersion,
		SourceGlobs: []string{"**/*.test"},
		CompileFn: func(cm *CompilerManager, pkg *PackageCompiler, meta *resource.Metadata, in stream.Reader, out stream.Writer) bool {
			buf := make([]byte, 4096)
			for {
				n, status := in.Read(buf)
				if n > 0 {
					if s := out.Write(buf[:n]); !s.OK() {
						return false
					}
				}
				if status.EOF || status.Fail {
					break
				}
			}
			return true
		},
	}
}

// ShaderPreludeType is the registered type hash for `.shader_prelude`
// sources.
var ShaderPreludeType = hash.Calc32("shader_prelude")

// ShaderType is the registered type hash for `.shader` sources.
var ShaderType = hash.Calc32("shader")

func readAll(r stream.Reader) ([]byte, error) {
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		n, status := r.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if status.Fail {
			return nil, fmt.Errorf("kiln: compiler: I/O failure reading source")
		}
		if status.EOF {
			break
		}
	}
	return buf, nil
}

// NewShaderPreludeCompiler reads a ShaderDef KVS document (sources,
// prelude[] dependency names, param-block declarations) and writes it
// as binary (§4.6 "Shader prelude").
func NewShaderPreludeCompiler() ResourceCompiler {
	return ResourceCompiler{
		Type:        ShaderPreludeType,
		FormatVer:   ShaderDefFormatVersion,
		SourceGlobs: []string{"**/*.shader_prelude"},
		CompileFn:   compileShaderDef(unitPrelude),
	}
}

// NewShaderCompiler is the same binary format as shader prelude, but
// marked UNIT (linkable) and validated against the package's other
// prelude entries for prelude[] resolution (§4.6 "Shader").
func NewShaderCompiler() ResourceCompiler {
	return ResourceCompiler{
		Type:        ShaderType,
		FormatVer:   ShaderDefFormatVersion,
		SourceGlobs: []string{"**/*.shader"},
		CompileFn:   compileShaderDef(unitLinkable),
	}
}

func compileShaderDef(unit shaderUnit) CompileFn {
	return func(cm *CompilerManager, pkg *PackageCompiler, meta *resource.Metadata, in stream.Reader, out stream.Writer) bool {
		src, err := readAll(in)
		if err != nil {
			return false
		}
		node, err := kvs.Parse(string(src))
		if err != nil {
			return false
		}
		def, err := parseShaderDefKVS(node)
		if err != nil {
			return false
		}
		def.Unit = unit

		if unit == unitLinkable {
			for _, name := range def.Prelude {
				nameHash := hash.Calc64(name)
				idx, ok := pkg.findByName(nameHash)
				if !ok || pkg.Manifest[idx].Type != ShaderPreludeType {
					return false
				}
			}
		}

		s := serial.NewWriter(out, serialEndian)
		EncodeShaderDef(s, &def)
		return true
	}
}
