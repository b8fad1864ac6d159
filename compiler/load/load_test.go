package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derivekit/derivekit/schema/attr"
	"github.com/derivekit/derivekit/schema/decl"
)

// writeFixture materializes a throwaway module for the loader to scan.
func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["go.mod"] = "module example.com/fixture\n\ngo 1.24\n"
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoadStruct(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"model/model.go": `package model

import "net"

// Addr wraps a single IP address.
//derive:from
//derive:wrapper(Display)
type Addr struct {
	IP net.IP
}

// Packet is a framed payload.
type Packet struct {
	seq uint32
	//derive:from
	//derive:wrap
	payload []byte
}

//derive:wrapper_mut(AddAssign)
type Counter struct {
	n uint64
}

type ignored struct {
	v int
}
`,
	})

	pkgs, err := (&Config{Dir: dir}).Load("./...")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	pkg := pkgs[0]
	assert.Equal(t, "model", pkg.Name)
	assert.Equal(t, "example.com/fixture/model", pkg.PkgPath)
	assert.Equal(t, filepath.Join(dir, "model"), pkg.Dir)
	require.Len(t, pkg.Decls, 3)

	addr := pkg.Decls[0]
	assert.Equal(t, "Addr", addr.Name)
	assert.Equal(t, decl.Struct, addr.Kind)
	require.Len(t, addr.Attrs, 2)
	assert.Equal(t, "from", addr.Attrs[0].Name)
	assert.Equal(t, attr.FormBare, addr.Attrs[0].Form)
	assert.Equal(t, "wrapper", addr.Attrs[1].Name)
	require.Len(t, addr.Fields, 1)
	assert.Equal(t, "IP", addr.Fields[0].Name)
	assert.Equal(t, "net.IP", addr.Fields[0].Type.Text)
	assert.Equal(t, "net", addr.Fields[0].Type.PkgPath)

	packet := pkg.Decls[1]
	assert.Equal(t, "Packet", packet.Name)
	assert.Empty(t, packet.Attrs, "no type-level directives")
	require.Len(t, packet.Fields, 2)
	assert.Empty(t, packet.Fields[0].Attrs)
	require.Len(t, packet.Fields[1].Attrs, 2)
	assert.Equal(t, "from", packet.Fields[1].Attrs[0].Name)
	assert.Equal(t, "wrap", packet.Fields[1].Attrs[1].Name)

	counter := pkg.Decls[2]
	assert.Equal(t, "Counter", counter.Name)
	assert.Equal(t, "wrapper_mut", counter.Attrs[0].Name)
}

func TestLoadEnum(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"shape/shape.go": `package shape

//derive:enum
type Shape interface {
	isShape()
}

//derive:from
type Circle struct {
	R float64
}

func (Circle) isShape() {}

type Square struct {
	Side float64
}

func (*Square) isShape() {}

type Unrelated struct {
	X int
}
`,
	})

	pkgs, err := (&Config{Dir: dir}).Load("./...")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	require.Len(t, pkgs[0].Decls, 2)

	var enum *decl.TypeDecl
	for _, d := range pkgs[0].Decls {
		if d.Kind == decl.Enum {
			enum = d
		}
	}
	require.NotNil(t, enum)
	assert.Equal(t, "Shape", enum.Name)
	require.Len(t, enum.Variants, 2)
	assert.Equal(t, "Circle", enum.Variants[0].Name)
	assert.Equal(t, "from", enum.Variants[0].Attrs[0].Name)
	require.Len(t, enum.Variants[0].Fields, 1)
	assert.Equal(t, "R", enum.Variants[0].Fields[0].Name)
	assert.Equal(t, "Square", enum.Variants[1].Name)
	assert.Empty(t, enum.Variants[1].Attrs)
}

func TestLoadGenerics(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"box/box.go": `package box

//derive:wrapper
type Cell[T any] struct {
	v T
}
`,
	})

	pkgs, err := (&Config{Dir: dir}).Load("./...")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	d := pkgs[0].Decls[0]
	require.Len(t, d.TypeParams, 1)
	assert.Equal(t, "T", d.TypeParams[0].Name)
	assert.Equal(t, "any", d.TypeParams[0].Constraint)
}

func TestLoadErrors(t *testing.T) {
	t.Run("directive on a plain named type", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{
			"bad/bad.go": `package bad

//derive:wrapper
type Alias uint64
`,
		})
		_, err := (&Config{Dir: dir}).Load("./...")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "struct or interface")
	})

	t.Run("empty enum interface", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{
			"bad/bad.go": `package bad

//derive:enum
type Any interface{}
`,
		})
		_, err := (&Config{Dir: dir}).Load("./...")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one method")
	})

	t.Run("enum marker with arguments", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{
			"bad/bad.go": `package bad

//derive:enum(Shape)
type Any interface {
	isAny()
}
`,
		})
		_, err := (&Config{Dir: dir}).Load("./...")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "takes no arguments")
	})

	t.Run("malformed directive", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{
			"bad/bad.go": `package bad

//derive:from(a, !!)
type T struct {
	v int
}
`,
		})
		_, err := (&Config{Dir: dir}).Load("./...")
		require.Error(t, err)
	})

	t.Run("packages without directives are omitted", func(t *testing.T) {
		dir := writeFixture(t, map[string]string{
			"plain/plain.go": "package plain\n\ntype T struct{ v int }\n",
		})
		pkgs, err := (&Config{Dir: dir}).Load("./...")
		require.NoError(t, err)
		assert.Empty(t, pkgs)
	})
}
