// Package compiler implements the offline compiler pipeline (§4.6):
// a CompilerManager holding a registry of per-type ResourceCompilers
// and an ordered list of PackageCompilers, each owning one package's
// manifest and dirty-flag state machine.
package compiler

import (
	"fmt"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/resource"
	"github.com/phanxgames/kiln/stream"
)

// CompileFn transforms a source resource into its compiled blob form.
// It returns false on failure (a data error, not a panic — §7 tier 2).
type CompileFn func(cm *CompilerManager, pkg *PackageCompiler, meta *resource.Metadata, in stream.Reader, out stream.Writer) bool

// ResourceCompiler is one entry in the CompilerManager's type registry.
type ResourceCompiler struct {
	Type         hash.Value32
	FormatVer    uint32
	CompileFn    CompileFn
	SourceGlobs  []string // doublestar patterns identifying this type's source files during sync
}

// CompilerManager owns the type registry and the set of package
// compilers it operates on.
type CompilerManager struct {
	registry map[hash.Value32]ResourceCompiler
	packages map[string]*PackageCompiler
}

// NewCompilerManager creates an empty manager.
func NewCompilerManager() *CompilerManager {
	return &CompilerManager{
		registry: make(map[hash.Value32]ResourceCompiler),
		packages: make(map[string]*PackageCompiler),
	}
}

// Register installs rc under its type hash. Re-registering a type is
// an error — the registry is meant to be wired once at startup.
func (cm *CompilerManager) Register(rc ResourceCompiler) error {
	if _, exists := cm.registry[rc.Type]; exists {
		return fmt.Errorf("kiln: compiler: type %v already registered", rc.Type)
	}
	cm.registry[rc.Type] = rc
	return nil
}

// Lookup returns the compiler registered for typ.
func (cm *CompilerManager) Lookup(typ hash.Value32) (ResourceCompiler, bool) {
	rc, ok := cm.registry[typ]
	return rc, ok
}

// Packages returns every package compiler the manager knows about, in
// no particular order — callers needing a stable order should sort by
// Name.
func (cm *CompilerManager) Packages() []*PackageCompiler {
	out := make([]*PackageCompiler, 0, len(cm.packages))
	for _, pkg := range cm.packages {
		out = append(out, pkg)
	}
	return out
}

// Package returns the named package compiler, or false if unknown.
func (cm *CompilerManager) Package(name string) (*PackageCompiler, bool) {
	pkg, ok := cm.packages[name]
	return pkg, ok
}

// addPackage registers pkg under its name, overwriting any prior
// registration of the same name.
func (cm *CompilerManager) addPackage(pkg *PackageCompiler) {
	cm.packages[pkg.Name] = pkg
}
