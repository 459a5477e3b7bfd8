package compiler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/phanxgames/kiln/hash"
	"github.com/phanxgames/kiln/resource"
	"github.com/phanxgames/kiln/stream"
)

// SyncStatus is one line of sync's per-file report (§4.6 command 2).
type SyncStatus struct {
	Path   string
	Name   string
	Status byte // 'N' unchanged, 'D' deleted, 'A' added, 'I' ignored
}

// matchCompiler returns the first registered compiler whose SourceGlobs
// match rel, in map-iteration order — callers register disjoint
// extensions in practice, so ordering rarely matters.
func matchCompiler(cm *CompilerManager, rel string) (ResourceCompiler, bool) {
	for _, rc := range cm.registry {
		for _, pattern := range rc.SourceGlobs {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return rc, true
			}
		}
	}
	return ResourceCompiler{}, false
}

func resourceNameFromPath(rel string) string {
	base := filepath.Base(rel)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// Sync walks pkg's source tree, adding manifest entries for new source
// files and turning entries whose source vanished into holes (§4.6 #2).
func Sync(cm *CompilerManager, pkg *PackageCompiler) ([]SyncStatus, error) {
	var statuses []SyncStatus
	seen := make(map[string]bool)

	err := filepath.WalkDir(pkg.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ".compiled" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(pkg.Dir, path)
		if err != nil {
			return err
		}
		rc, ok := matchCompiler(cm, rel)
		if !ok {
			statuses = append(statuses, SyncStatus{Path: rel, Status: 'I'})
			return nil
		}
		seen[rel] = true
		name := resourceNameFromPath(rel)
		nameHash := hash.Calc64(name)
		if _, exists := pkg.findByName(nameHash); exists {
			statuses = append(statuses, SyncStatus{Path: rel, Name: name, Status: 'N'})
			return nil
		}
		id := pkg.allocID()
		pkg.Manifest = append(pkg.Manifest, resource.Metadata{
			Id:        id,
			NameHash:  nameHash,
			Type:      rc.Type,
			FormatVer: rc.FormatVer,
		})
		pkg.meta[id] = compilerMetadataEntry{SourcePath: rel}
		pkg.ManifestModified = true
		pkg.BuildParity = false
		statuses = append(statuses, SyncStatus{Path: rel, Name: name, Status: 'A'})
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range pkg.Manifest {
		m := &pkg.Manifest[i]
		if m.IsHole() {
			continue
		}
		entryMeta, ok := pkg.meta[m.Id]
		if !ok || seen[entryMeta.SourcePath] {
			continue
		}
		statuses = append(statuses, SyncStatus{Path: entryMeta.SourcePath, Status: 'D'})
		m.Type = hash.Value32(resource.NullID)
		pkg.ManifestModified = true
		pkg.BuildParity = false
	}
	pkg.rebuildLookup()
	return statuses, nil
}

// Compile recompiles every stale entry in ids (or every non-hole entry
// if ids is empty) whose source_mtime exceeds last_compiled, or every
// selected entry when force is set (§4.6 #3).
func Compile(cm *CompilerManager, pkg *PackageCompiler, force bool, ids ...uint32) error {
	targets := ids
	if len(targets) == 0 {
		for _, m := range pkg.Manifest {
			if !m.IsHole() {
				targets = append(targets, m.Id)
			}
		}
	}
	for _, id := range targets {
		idx := pkg.indexByID(id)
		if idx < 0 || pkg.Manifest[idx].IsHole() {
			continue
		}
		m := &pkg.Manifest[idx]
		entryMeta, ok := pkg.meta[id]
		if !ok || entryMeta.SourcePath == "" {
			return fmt.Errorf("kiln: compiler: package %s: entry %d has no source path", pkg.Name, id)
		}
		srcPath := filepath.Join(pkg.Dir, entryMeta.SourcePath)
		mtime, err := fileModTime(srcPath)
		if err != nil {
			return fmt.Errorf("kiln: compiler: package %s: stat %q: %w", pkg.Name, entryMeta.SourcePath, err)
		}
		if !force && !mtime.After(time.Unix(0, entryMeta.LastCompiled)) {
			continue
		}
		rc, ok := cm.Lookup(m.Type)
		if !ok {
			return fmt.Errorf("kiln: compiler: package %s: no compiler registered for type %v", pkg.Name, m.Type)
		}
		if err := compileOne(cm, pkg, m, rc, srcPath); err != nil {
			return err
		}
		entryMeta.LastCompiled = mtime.UnixNano()
		pkg.meta[id] = entryMeta
		pkg.ManifestModified = true
		pkg.BuildParity = false
	}
	return nil
}

func compileOne(cm *CompilerManager, pkg *PackageCompiler, m *resource.Metadata, rc ResourceCompiler, srcPath string) error {
	in, err := stream.OpenFile(srcPath, stream.ReadBinary)
	if err != nil {
		return err
	}
	defer in.Close()

	outPath := pkg.compiledBlobPath(m.Id)
	out, err := stream.OpenFile(outPath, stream.WriteBinaryTruncate)
	if err != nil {
		return err
	}
	defer out.Close()

	if !rc.CompileFn(cm, pkg, m, in, out) {
		return fmt.Errorf("kiln: compiler: package %s: compiling %q failed", pkg.Name, srcPath)
	}
	return nil
}

// Pack compiles every stale entry, then if the manifest has changed
// since the last archive (or force is set) writes <name>.package and
// sets BuildParity to true (§4.6 #4).
func Pack(cm *CompilerManager, pkg *PackageCompiler, force bool) error {
	if err := Compile(cm, pkg, force); err != nil {
		return err
	}
	if pkg.BuildParity && !force {
		return nil
	}

	blobs := make(map[uint32][]byte, len(pkg.Manifest))
	for _, m := range pkg.Manifest {
		if m.IsHole() {
			continue
		}
		data, err := os.ReadFile(pkg.compiledBlobPath(m.Id))
		if err != nil {
			return fmt.Errorf("kiln: compiler: package %s: reading compiled blob %d: %w", pkg.Name, m.Id, err)
		}
		blobs[m.Id] = data
	}

	outPath := filepath.Join(filepath.Dir(pkg.Dir), pkg.Name+".package")
	f, err := stream.OpenFile(outPath, stream.WriteBinaryTruncate)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := resource.WriteArchive(f, pkg.Manifest, blobs); err != nil {
		return err
	}
	pkg.BuildParity = true
	pkg.ManifestModified = false
	return nil
}

// ListEntry is one line of list's per-resource detail (§4.6 #5).
type ListEntry struct {
	Package  string
	Id       uint32
	Type     hash.Value32
	NameHash hash.Value64
	Compiled bool
}

// List reports every non-hole resource across pkgs.
func List(pkgs []*PackageCompiler) []ListEntry {
	var out []ListEntry
	for _, pkg := range pkgs {
		for _, m := range pkg.Manifest {
			if m.IsHole() {
				continue
			}
			entryMeta := pkg.meta[m.Id]
			out = append(out, ListEntry{
				Package:  pkg.Name,
				Id:       m.Id,
				Type:     m.Type,
				NameHash: m.NameHash,
				Compiled: entryMeta.LastCompiled != 0,
			})
		}
	}
	return out
}

// Compact rewrites pkg's manifest with holes removed and ids renumbered
// from 1, forcing a full recompile of every surviving entry (§4.6 #6).
func Compact(pkg *PackageCompiler) {
	newManifest := make([]resource.Metadata, 0, len(pkg.Manifest))
	newMeta := make(map[uint32]compilerMetadataEntry, len(pkg.meta))
	nextID := uint32(1)
	for _, m := range pkg.Manifest {
		if m.IsHole() {
			continue
		}
		oldID := m.Id
		m.Id = nextID
		if entryMeta, ok := pkg.meta[oldID]; ok {
			entryMeta.LastCompiled = 0
			newMeta[nextID] = entryMeta
		}
		newManifest = append(newManifest, m)
		nextID++
	}
	pkg.Manifest = newManifest
	pkg.meta = newMeta
	pkg.nextID = nextID
	pkg.rebuildLookup()
	pkg.ManifestModified = true
	pkg.BuildParity = false
}
