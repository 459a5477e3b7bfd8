// Command kiln-build is the offline resource pipeline's command-line
// front end: create/sync/compile/pack/list/compact over a project
// directory of packages (spec §4.6).
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/phanxgames/kiln/gfx"
	"github.com/phanxgames/kiln/resource/compiler"
)

func newCompilerManager() *compiler.CompilerManager {
	cm := compiler.NewCompilerManager()
	reg := gfx.NewGeneratorRegistry()
	gfx.RegisterBuiltins(reg)

	compilers := []compiler.ResourceCompiler{
		compiler.NewTestResourceCompiler(),
		compiler.NewShaderPreludeCompiler(),
		compiler.NewShaderCompiler(),
		compiler.NewTextureAtlasCompiler(),
		gfx.NewRenderConfigCompiler(reg),
	}
	for _, rc := range compilers {
		if err := cm.Register(rc); err != nil {
			panic(fmt.Sprintf("kiln-build: registering builtin compiler: %v", err))
		}
	}
	return cm
}

// openPackage opens (or creates) the named package under projectDir and
// re-syncs its manifest against the package's source globs. PackageCompiler
// keeps its manifest in memory only for the process that built it, so every
// subcommand resyncs on open to stay usable as a standalone CLI invocation.
func openPackage(cm *compiler.CompilerManager, projectDir, name string) (*compiler.PackageCompiler, error) {
	pkg, ok := cm.Package(name)
	if !ok {
		var err error
		pkg, err = compiler.CreatePackage(cm, projectDir, name)
		if err != nil {
			return nil, fmt.Errorf("open package %q: %w", name, err)
		}
	}
	if err := compiler.LoadProperties(pkg); err != nil {
		return nil, fmt.Errorf("open package %q: load properties: %w", name, err)
	}
	if _, err := compiler.Sync(cm, pkg); err != nil {
		return nil, fmt.Errorf("open package %q: sync: %w", name, err)
	}
	return pkg, nil
}

func main() {
	app := &cli.App{
		Name:  "kiln-build",
		Usage: "compile and pack resource packages for a kiln project",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "project-path",
				Aliases: []string{"p"},
				Usage:   "path to the project directory",
				Value:   ".",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "create a new package in the project",
				ArgsUsage: "<package-name>",
				Action:    createCommand,
			},
			{
				Name:      "sync",
				Usage:     "scan a package's source globs and report each file as unchanged (N), added (A), deleted (D) or ignored (I)",
				ArgsUsage: "<package-name>",
				Action:    syncCommand,
			},
			{
				Name:      "compile",
				Usage:     "compile a package's modified resources",
				ArgsUsage: "<package-name>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "recompile every resource, not just modified ones"},
				},
				Action: compileCommand,
			},
			{
				Name:      "pack",
				Usage:     "write a package's compiled resources to its archive",
				ArgsUsage: "<package-name>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "repack even if the package has build parity"},
				},
				Action: packCommand,
			},
			{
				Name:      "compact",
				Usage:     "drop holes from a package's manifest and renumber ids",
				ArgsUsage: "<package-name>",
				Action:    compactCommand,
			},
			{
				Name:      "list",
				Usage:     "list a package's manifest entries (all registered packages if no name given)",
				ArgsUsage: "[package-name]",
				Action:    listCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "kiln-build: %v\n", err)
		os.Exit(1)
	}
}

func requirePackageArg(c *cli.Context) (string, error) {
	name := c.Args().First()
	if name == "" {
		return "", fmt.Errorf("usage: kiln-build %s <package-name>", c.Command.Name)
	}
	return name, nil
}

func createCommand(c *cli.Context) error {
	name, err := requirePackageArg(c)
	if err != nil {
		return err
	}
	projectDir := c.String("project-path")
	cm := newCompilerManager()
	if _, err := compiler.CreatePackage(cm, projectDir, name); err != nil {
		return fmt.Errorf("create %q: %w", name, err)
	}
	if err := compiler.RegisterPackageInProject(projectDir, name); err != nil {
		return fmt.Errorf("create %q: register in project: %w", name, err)
	}
	fmt.Printf("created package %q\n", name)
	return nil
}

func syncCommand(c *cli.Context) error {
	name, err := requirePackageArg(c)
	if err != nil {
		return err
	}
	cm := newCompilerManager()
	// Not openPackage: its own Sync would leave nothing for this one
	// to report.
	pkg, ok := cm.Package(name)
	if !ok {
		pkg, err = compiler.CreatePackage(cm, c.String("project-path"), name)
		if err != nil {
			return fmt.Errorf("open package %q: %w", name, err)
		}
	}
	if err := compiler.LoadProperties(pkg); err != nil {
		return fmt.Errorf("open package %q: load properties: %w", name, err)
	}
	statuses, err := compiler.Sync(cm, pkg)
	if err != nil {
		return fmt.Errorf("sync %q: %w", name, err)
	}
	for _, st := range statuses {
		fmt.Printf("%c %s\n", st.Status, st.Name)
	}
	return nil
}

func compileCommand(c *cli.Context) error {
	name, err := requirePackageArg(c)
	if err != nil {
		return err
	}
	cm := newCompilerManager()
	pkg, err := openPackage(cm, c.String("project-path"), name)
	if err != nil {
		return err
	}
	if err := compiler.Compile(cm, pkg, c.Bool("force")); err != nil {
		return fmt.Errorf("compile %q: %w", name, err)
	}
	fmt.Printf("compiled package %q\n", name)
	return nil
}

func packCommand(c *cli.Context) error {
	name, err := requirePackageArg(c)
	if err != nil {
		return err
	}
	cm := newCompilerManager()
	pkg, err := openPackage(cm, c.String("project-path"), name)
	if err != nil {
		return err
	}
	if err := compiler.Compile(cm, pkg, false); err != nil {
		return fmt.Errorf("pack %q: compile: %w", name, err)
	}
	if err := compiler.Pack(cm, pkg, c.Bool("force")); err != nil {
		return fmt.Errorf("pack %q: %w", name, err)
	}
	fmt.Printf("packed package %q\n", name)
	return nil
}

func compactCommand(c *cli.Context) error {
	name, err := requirePackageArg(c)
	if err != nil {
		return err
	}
	cm := newCompilerManager()
	pkg, err := openPackage(cm, c.String("project-path"), name)
	if err != nil {
		return err
	}
	compiler.Compact(pkg)
	fmt.Printf("compacted package %q\n", name)
	return nil
}

func listCommand(c *cli.Context) error {
	cm := newCompilerManager()
	projectDir := c.String("project-path")

	var pkgs []*compiler.PackageCompiler
	if name := c.Args().First(); name != "" {
		pkg, err := openPackage(cm, projectDir, name)
		if err != nil {
			return err
		}
		pkgs = []*compiler.PackageCompiler{pkg}
	} else {
		pkgs = cm.Packages()
	}

	for _, entry := range compiler.List(pkgs) {
		fmt.Printf("%-16s id=%-6d name_hash=%#x type=%#x compiled=%t\n",
			entry.Package, entry.Id, uint64(entry.NameHash), uint32(entry.Type), entry.Compiled)
	}
	return nil
}
