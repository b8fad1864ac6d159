package gen

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/derivekit/derivekit/schema/decl"
)

// DefaultFilename is the name of the generated file written into each
// scanned package directory.
const DefaultFilename = "derive_gen.go"

// Source is one scanned package: its directory, package name, and the
// declarations carrying derive directives.
type Source struct {
	Dir     string
	Package string
	Decls   []*decl.TypeDecl
}

// Generator renders the derived code of every source package using Jennifer
// and streams one generated file per package to disk. Jennifer tracks the
// imports of the emitted code, so the output needs no goimports pass.
type Generator struct {
	sources  []Source
	workers  int
	filename string
	header   string
}

// NewGenerator creates a generator over the given source packages.
func NewGenerator(sources ...Source) *Generator {
	return &Generator{
		sources:  sources,
		workers:  runtime.GOMAXPROCS(0),
		filename: DefaultFilename,
		header:   "Code generated by derivekit. DO NOT EDIT.",
	}
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithFilename sets the name of the generated file in each package.
func (g *Generator) WithFilename(name string) *Generator {
	if name != "" {
		g.filename = name
	}
	return g
}

// WithHeader sets the header comment of every generated file.
func (g *Generator) WithHeader(header string) *Generator {
	if header != "" {
		g.header = header
	}
	return g
}

// Generate renders and writes all source packages, one file per package,
// in parallel. The first failing package aborts the remaining work.
func (g *Generator) Generate(ctx context.Context) error {
	errg, _ := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for _, src := range g.sources {
		errg.Go(func() error {
			return g.generatePackage(src)
		})
	}
	return errg.Wait()
}

func (g *Generator) generatePackage(src Source) error {
	f := jen.NewFile(src.Package)
	f.HeaderComment(g.header)
	n, err := BuildFile(f, src.Decls)
	if err != nil {
		return err
	}
	if n == 0 {
		// Nothing derived in this package; leave no file behind.
		return nil
	}
	return g.writeFile(f, filepath.Join(src.Dir, g.filename))
}

// writeFile streams the rendered file directly to disk.
func (g *Generator) writeFile(f *jen.File, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Render(out)
}

// BuildFile appends the derived code of every declaration to the file and
// reports how many declarations produced output. A declaration participates
// in a family iff the family's directive is attached somewhere on it.
func BuildFile(f *jen.File, decls []*decl.TypeDecl) (int, error) {
	n := 0
	for _, d := range decls {
		derived := false
		if usesConversions(d) {
			if err := GenerateConversions(f, d); err != nil {
				return n, err
			}
			derived = true
		}
		if hasAttr(d.Attrs, wrapperDirective) {
			if err := GenerateWrapper(f, d); err != nil {
				return n, err
			}
			derived = true
		}
		if hasAttr(d.Attrs, wrapperMutDirective) {
			if err := GenerateWrapperMut(f, d); err != nil {
				return n, err
			}
			derived = true
		}
		if derived {
			n++
		}
	}
	return n, nil
}

// usesConversions reports whether a `from` directive is attached anywhere on
// the declaration: the type itself, a variant, or a field.
func usesConversions(d *decl.TypeDecl) bool {
	if hasAttr(d.Attrs, fromDirective) {
		return true
	}
	for _, f := range d.Fields {
		if hasAttr(f.Attrs, fromDirective) {
			return true
		}
	}
	for _, v := range d.Variants {
		if hasAttr(v.Attrs, fromDirective) {
			return true
		}
		for _, f := range v.Fields {
			if hasAttr(f.Attrs, fromDirective) {
				return true
			}
		}
	}
	return false
}
