package compiler

import (
	"path/filepath"

	"github.com/phanxgames/kiln/kvs"
)

// propertiesFileName is the per-package KVS properties file (§3):
// build-parity flag and last-output size.
const propertiesFileName = "properties"

// LoadProperties reads pkg's properties file if it exists, applying
// BuildParity to the in-memory PackageCompiler. A missing or unreadable
// file leaves the defaults set at construction (BuildParity true).
func LoadProperties(pkg *PackageCompiler) error {
	path := filepath.Join(pkg.Dir, propertiesFileName)
	n, err := kvs.DecodeTextFile(path)
	if err != nil {
		return nil // no properties file yet; defaults stand
	}
	if v, ok := n.FindByName("build_parity"); ok {
		pkg.BuildParity = v.Bool
	}
	return nil
}

// SaveProperties writes pkg's current dirty-flag state to its
// properties file.
func SaveProperties(pkg *PackageCompiler, lastOutputSize uint64) error {
	n := kvs.NewEmptyNode()
	n.Set("build_parity", kvs.NewBool(pkg.BuildParity))
	n.Set("last_output_size", kvs.NewInt(int64(lastOutputSize)))
	path := filepath.Join(pkg.Dir, propertiesFileName)
	if err := kvs.EncodeTextFile(path, n); err != nil {
		return err
	}
	pkg.PropertiesModified = false
	return nil
}

// projectPropertiesFileName is the project-level KVS file (§6)
// recording which packages exist and where.
const projectPropertiesFileName = "properties"

// RegisterPackageInProject appends name/path to the project properties
// file at projectDir/properties, creating the document if absent
// (§4.6 command 1: create).
func RegisterPackageInProject(projectDir, name string) error {
	path := filepath.Join(projectDir, projectPropertiesFileName)
	n, err := kvs.DecodeTextFile(path)
	if err != nil {
		n = kvs.NewEmptyNode()
	}
	idx := -1
	for i, f := range n.Fields {
		if f.Name == "packages" {
			idx = i
			break
		}
	}
	if idx == -1 {
		n.Set("packages", kvs.NewArray(nil))
		idx = len(n.Fields) - 1
	}
	n.Fields[idx].Value.Array = append(n.Fields[idx].Value.Array, kvs.NewString(name))
	return kvs.EncodeTextFile(path, n)
}
