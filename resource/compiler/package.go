package compiler

import (
	"os"
	"path/filepath"
	"time"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/resource"
)

// compilerMetadataEntry tracks, for one manifest slot, the source file
// it was compiled from and when.
type compilerMetadataEntry struct {
	SourcePath   string
	LastCompiled int64 // unix nanos; zero means never compiled
}

// PackageCompiler owns one on-disk package's offline build state: its
// manifest, the name→index lookup, and the dirty flags driving
// needs_build (§4.10).
type PackageCompiler struct {
	Name string
	Dir  string // package/<name>/ on disk

	Manifest []resource.Metadata
	byName   map[hash.Value64]int
	meta     map[uint32]compilerMetadataEntry

	PropertiesModified bool
	ManifestModified   bool
	BuildParity        bool

	nextID uint32
}

// NeedsBuild reports whether the package has unpacked changes (§4.10).
func (p *PackageCompiler) NeedsBuild() bool { return !p.BuildParity }

func newPackageCompiler(name, dir string) *PackageCompiler {
	return &PackageCompiler{
		Name:        name,
		Dir:         dir,
		byName:      make(map[hash.Value64]int),
		meta:        make(map[uint32]compilerMetadataEntry),
		BuildParity: true,
		nextID:      1,
	}
}

func (p *PackageCompiler) rebuildLookup() {
	p.byName = make(map[hash.Value64]int, len(p.Manifest))
	for i, m := range p.Manifest {
		if m.IsHole() {
			continue
		}
		if _, exists := p.byName[m.NameHash]; !exists {
			p.byName[m.NameHash] = i
		}
	}
}

// findByName returns the manifest index for nameHash, or false.
func (p *PackageCompiler) findByName(nameHash hash.Value64) (int, bool) {
	idx, ok := p.byName[nameHash]
	return idx, ok
}

// indexByID returns the manifest slice index owning id, or -1.
func (p *PackageCompiler) indexByID(id uint32) int {
	for i, m := range p.Manifest {
		if m.Id == id {
			return i
		}
	}
	return -1
}

// allocID returns a fresh monotonic id and advances the counter.
func (p *PackageCompiler) allocID() uint32 {
	id := p.nextID
	p.nextID++
	return id
}

// CreatePackage creates `<projectDir>/package/<name>/` with an empty
// manifest, registers it with cm, and returns the new PackageCompiler
// (§4.6 command 1: create).
func CreatePackage(cm *CompilerManager, projectDir, name string) (*PackageCompiler, error) {
	dir := filepath.Join(projectDir, "package", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(dir, ".compiled"), 0o755); err != nil {
		return nil, err
	}
	pkg := newPackageCompiler(name, dir)
	cm.addPackage(pkg)
	return pkg, nil
}

// compiledBlobPath is the project-local destination compile writes to,
// addressed by numeric id so renames don't disturb the build (§4.6 #3).
func (p *PackageCompiler) compiledBlobPath(id uint32) string {
	return filepath.Join(p.Dir, ".compiled", itoa(id))
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func fileModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
