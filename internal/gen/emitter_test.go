package gen

import (
	goparser "go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/tools/go/packages"
)

func newCachePackage() (*packages.Package, types.Type) {
	pkg := types.NewPackage("example.com/cachetest", "cachetest")

	var (
		stringT = types.Typ[types.String]
		anyT    = types.NewInterfaceType(nil, nil)
		errorT  = types.Universe.Lookup("error").Type()
	)

	get := types.NewFunc(token.NoPos, pkg, "Get", types.NewSignatureType(nil, nil, nil,
		types.NewTuple(types.NewParam(token.NoPos, pkg, "key", stringT)),
		types.NewTuple(
			types.NewParam(token.NoPos, pkg, "val", anyT),
			types.NewParam(token.NoPos, pkg, "err", errorT),
		),
		false,
	))
	set := types.NewFunc(token.NoPos, pkg, "Set", types.NewSignatureType(nil, nil, nil,
		types.NewTuple(
			types.NewParam(token.NoPos, pkg, "key", stringT),
			types.NewParam(token.NoPos, pkg, "val", anyT),
		),
		types.NewTuple(types.NewParam(token.NoPos, pkg, "err", errorT)),
		false,
	))
	purge := types.NewFunc(token.NoPos, pkg, "Purge", types.NewSignatureType(nil, nil, nil,
		types.NewTuple(types.NewParam(token.NoPos, pkg, "keys", types.NewSlice(stringT))),
		nil,
		true,
	))

	inter := types.NewInterfaceType([]*types.Func{get, set, purge}, nil)
	inter.Complete()

	named := types.NewNamed(types.NewTypeName(token.NoPos, pkg, "Cache", nil), inter, nil)

	return &packages.Package{
		Name:    "cachetest",
		PkgPath: "example.com/cachetest",
	}, named
}

func emitToString(t *testing.T, constructor string) string {
	a := assert.New(t)

	pkg, cache := newCachePackage()
	path := filepath.Join(t.TempDir(), "mockdouble_gen.go")

	e := newEmitter(pkg, path)

	err := e.addDouble("MockCache", constructor, []types.Type{cache})
	a.NoError(err)

	err = e.Emit()
	a.NoError(err)

	b, err := os.ReadFile(path)
	a.NoError(err)

	// the generated code must at least parse
	_, err = goparser.ParseFile(token.NewFileSet(), path, b, 0)
	a.NoError(err)

	return string(b)
}

func TestEmitter_Basic(t *testing.T) {
	a := assert.New(t)

	generated := emitToString(t, "")

	a.Contains(generated, "// Code generated by mockdouble. DO NOT EDIT.")
	a.Contains(generated, "package cachetest")
	a.Contains(generated, "type MockCache struct")
	a.Contains(generated, "_Get struct")
	a.Contains(generated, "CallCount int")
	a.Contains(generated, "func (recv *MockCache) Get(p0 string) (interface{}, error)")
	a.Contains(generated, "recv._Get.CallCount++")
	a.Contains(generated, "recv._Get.History = append(recv._Get.History, struct {")
	a.Contains(generated, "if recv._Get.Body != nil")
	a.Contains(generated, "return recv._Get.Results.R0, recv._Get.Results.R1")
	a.Contains(generated, "func (recv *MockCache) VerifyGetCalledWith(p0 string) bool")
	a.Contains(generated, "reflect.DeepEqual")

	// no constructor was requested
	a.NotContains(generated, "NewMockCache")
	a.NotContains(generated, "fallback")
}

func TestEmitter_VariadicAndZeroResults(t *testing.T) {
	a := assert.New(t)

	generated := emitToString(t, "")

	a.Contains(generated, "func (recv *MockCache) Purge(p0 ...string)")
	a.Contains(generated, "recv._Purge.Body(p0...)")
	a.Contains(generated, "func (recv *MockCache) VerifyPurgeCalledWith(p0 ...string) bool")

	// zero-result methods have no Results recorder
	a.NotContains(generated, "_Purge.Results")
}

func TestEmitter_WithConstructor(t *testing.T) {
	a := assert.New(t)

	generated := emitToString(t, "NewMockCache")

	a.Contains(generated, "func NewMockCache(fallbacks ...Cache) *MockCache")
	a.Contains(generated, "fallback Cache")
	a.Contains(generated, "if recv.fallback != nil")
	a.Contains(generated, "return recv.fallback.Get(p0)")
}

func TestEmitter_MethodsSortedByName(t *testing.T) {
	a := assert.New(t)

	generated := emitToString(t, "")

	a.Less(
		indexOf(t, generated, "_Get struct"),
		indexOf(t, generated, "_Purge struct"),
	)
	a.Less(
		indexOf(t, generated, "_Purge struct"),
		indexOf(t, generated, "_Set struct"),
	)
}

func indexOf(t *testing.T, s string, substr string) int {
	idx := strings.Index(s, substr)
	if idx == -1 {
		t.Fatalf("%q not found in generated code", substr)
	}
	return idx
}

func TestEmitter_FallbackRequiresSingleInterface(t *testing.T) {
	a := assert.New(t)

	pkg, cache := newCachePackage()

	e := newEmitter(pkg, filepath.Join(t.TempDir(), "mockdouble_gen.go"))

	err := e.addDouble("MockCache", "NewMockCache", []types.Type{cache, cache})
	a.Error(err)
	a.Contains(err.Error(), "fallback requires a single interface")
}

func TestEmitter_NonInterface(t *testing.T) {
	a := assert.New(t)

	pkg, _ := newCachePackage()

	e := newEmitter(pkg, filepath.Join(t.TempDir(), "mockdouble_gen.go"))

	err := e.addDouble("MockInt", "", []types.Type{types.Typ[types.Int]})
	a.Error(err)
	a.Contains(err.Error(), "non-interface:")
}

func TestEmitter_DuplicatedMethod(t *testing.T) {
	a := assert.New(t)

	pkg, _ := newCachePackage()

	other := types.NewInterfaceType([]*types.Func{
		types.NewFunc(token.NoPos, nil, "Close", types.NewSignatureType(nil, nil, nil, nil, nil, false)),
	}, nil)
	other.Complete()

	conflicting := types.NewInterfaceType([]*types.Func{
		types.NewFunc(token.NoPos, nil, "Close", types.NewSignatureType(nil, nil, nil, nil,
			types.NewTuple(types.NewParam(token.NoPos, nil, "", types.Universe.Lookup("error").Type())),
			false,
		)),
	}, nil)
	conflicting.Complete()

	e := newEmitter(pkg, filepath.Join(t.TempDir(), "mockdouble_gen.go"))

	err := e.addDouble("MockCloser", "", []types.Type{other, conflicting})
	a.Error(err)
	a.Contains(err.Error(), "duplicated method")
}

func TestEmitter_NoDoublesIsNoop(t *testing.T) {
	a := assert.New(t)

	pkg, _ := newCachePackage()
	path := filepath.Join(t.TempDir(), "mockdouble_gen.go")

	e := newEmitter(pkg, path)

	err := e.Emit()
	a.NoError(err)

	_, err = os.Stat(path)
	a.True(os.IsNotExist(err))
}
