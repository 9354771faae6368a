package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/types"
	"log"
	"os"
	"sort"

	"github.com/dave/jennifer/jen"
	"github.com/fatih/color"
	"golang.org/x/tools/go/packages"
)

// emitter renders the doubles bound to one destination file.
type emitter struct {
	pkg     *packages.Package
	path    string
	doubles []doubleInfo
}

func newEmitter(pkg *packages.Package, path string) *emitter {
	return &emitter{
		pkg:  pkg,
		path: path,
	}
}

type doubleInfo struct {
	name        string
	constructor string
	fallback    types.Type
	methods     []methodInfo
}

type methodInfo struct {
	name    string
	params  []paramInfo
	results []resultInfo
}

type paramInfo struct {
	fieldName string
	argName   string
	typ       types.Type
	variadic  bool
}

// sigType is the parameter's type in a signature ("...T" for the
// variadic tail, where typ itself is []T).
func (p paramInfo) sigType() *jen.Statement {
	if p.variadic {
		return jen.Op("...").Add(typeCode(p.typ.(*types.Slice).Elem()))
	}

	return typeCode(p.typ)
}

// forward is the argument expression when the call is handed on.
func (p paramInfo) forward() *jen.Statement {
	if p.variadic {
		return jen.Id(p.argName).Op("...")
	}

	return jen.Id(p.argName)
}

type resultInfo struct {
	fieldName string
	typ       types.Type
}

func newMethodInfo(fun *types.Func) methodInfo {
	sig := fun.Type().(*types.Signature)

	m := methodInfo{
		name: fun.Name(),
	}

	m.params = make([]paramInfo, 0, sig.Params().Len())
	for i := 0; i < sig.Params().Len(); i++ {
		m.params = append(m.params, paramInfo{
			fieldName: fmt.Sprintf("P%d", i),
			argName:   fmt.Sprintf("p%d", i),
			typ:       sig.Params().At(i).Type(),
			variadic:  i+1 == sig.Params().Len() && sig.Variadic(),
		})
	}

	m.results = make([]resultInfo, 0, sig.Results().Len())
	for i := 0; i < sig.Results().Len(); i++ {
		m.results = append(m.results, resultInfo{
			fieldName: fmt.Sprintf("R%d", i),
			typ:       sig.Results().At(i).Type(),
		})
	}

	return m
}

// addDouble registers a double implementing the union of the interfaces'
// method sets. A fallback constructor is only possible for a single
// interface, since the fallback field must satisfy every method.
func (e *emitter) addDouble(name string, constructor string, interfaces []types.Type) error {
	if constructor != "" && len(interfaces) != 1 {
		errorMessage := "fallback requires a single interface:"
		errorMessage += fmt.Sprintf("\n\tdouble %q: implements %d interfaces", name, len(interfaces))

		return errors.New(errorMessage)
	}

	d := doubleInfo{
		name:        name,
		constructor: constructor,
	}
	if constructor != "" {
		d.fallback = interfaces[0]
	}

	funs := map[string]*types.Func{}
	for _, t := range interfaces {
		inter, ok := t.Underlying().(*types.Interface)
		if !ok {
			errorMessage := "non-interface:"
			errorMessage += fmt.Sprintf("\n\tdouble %q: %v", name, t)

			return errors.New(errorMessage)
		}

		for i := 0; i < inter.NumMethods(); i++ {
			fun := inter.Method(i)
			if f, ok := funs[fun.Name()]; ok && fun.Type().(*types.Signature).String() != f.Type().(*types.Signature).String() {
				errorMessage := "duplicated method:"
				errorMessage += fmt.Sprintf("\n\tdouble %q: method %q", name, fun.Name())

				return errors.New(errorMessage)
			}

			funs[fun.Name()] = fun
		}
	}

	names := make([]string, 0, len(funs))
	for funName := range funs {
		names = append(names, funName)
	}
	sort.Strings(names)

	d.methods = make([]methodInfo, 0, len(names))
	for _, funName := range names {
		d.methods = append(d.methods, newMethodInfo(funs[funName]))
	}

	e.doubles = append(e.doubles, d)

	return nil
}

// Emit renders the registered doubles and writes the destination file.
// Emitting with no registered doubles is a no-op.
func (e *emitter) Emit() error {
	if len(e.doubles) == 0 {
		return nil
	}

	f := jen.NewFilePathName(e.pkg.PkgPath, e.pkg.Name)
	f.HeaderComment("Code generated by mockdouble. DO NOT EDIT.")

	for _, d := range e.doubles {
		e.emitDouble(f, d)
	}

	b := bytes.NewBuffer(nil)

	err := f.Render(b)
	if err != nil {
		return fmt.Errorf("cannot render generated code: %v", err)
	}

	err = os.WriteFile(e.path, b.Bytes(), 0o644)
	if err != nil {
		return fmt.Errorf("cannot write %s: %v", e.path, err)
	}

	log.Println("generated:", color.GreenString(e.path))

	return nil
}

func (e *emitter) emitDouble(f *jen.File, d doubleInfo) {
	f.Type().Id(d.name).StructFunc(func(g *jen.Group) {
		if d.constructor != "" {
			g.Id("fallback").Add(typeCode(d.fallback))
		}
		for _, m := range d.methods {
			m := m
			g.Id("_" + m.name).StructFunc(func(s *jen.Group) {
				s.Id("CallCount").Int()
				if len(m.params) > 0 {
					s.Id("History").Index().Add(historyStruct(m))
				}
				if len(m.results) > 0 {
					s.Id("Results").StructFunc(func(r *jen.Group) {
						for _, res := range m.results {
							r.Id(res.fieldName).Add(typeCode(res.typ))
						}
					})
				}
				s.Id("Body").Func().ParamsFunc(func(b *jen.Group) {
					for _, p := range m.params {
						b.Add(p.sigType())
					}
				}).Add(methodResults(m))
			})
		}
	})

	if d.constructor != "" {
		e.emitConstructor(f, d)
	}

	for _, m := range d.methods {
		e.emitMethod(f, d, m)
		if len(m.params) > 0 {
			e.emitVerify(f, d, m)
		}
	}
}

func (e *emitter) emitConstructor(f *jen.File, d doubleInfo) {
	f.Func().Id(d.constructor).
		Params(jen.Id("fallbacks").Op("...").Add(typeCode(d.fallback))).
		Op("*").Id(d.name).
		Block(
			jen.Id("m").Op(":=").Op("&").Id(d.name).Values(),
			jen.If(jen.Len(jen.Id("fallbacks")).Op(">").Lit(0)).Block(
				jen.Id("m").Dot("fallback").Op("=").Id("fallbacks").Index(jen.Lit(0)),
			),
			jen.Return(jen.Id("m")),
		)
}

func (e *emitter) emitMethod(f *jen.File, d doubleInfo, m methodInfo) {
	recorder := func() *jen.Statement {
		return jen.Id("recv").Dot("_" + m.name)
	}

	stmts := []jen.Code{
		recorder().Dot("CallCount").Op("++"),
	}

	if len(m.params) > 0 {
		stmts = append(stmts, recorder().Dot("History").Op("=").Append(
			recorder().Dot("History"),
			historyLiteral(m),
		))
	}

	bodyCall := recorder().Dot("Body").CallFunc(func(g *jen.Group) {
		for _, p := range m.params {
			g.Add(p.forward())
		}
	})
	if len(m.results) > 0 {
		stmts = append(stmts, jen.If(recorder().Dot("Body").Op("!=").Nil()).Block(
			jen.Return(bodyCall),
		))
	} else {
		stmts = append(stmts, jen.If(recorder().Dot("Body").Op("!=").Nil()).Block(
			bodyCall,
			jen.Return(),
		))
	}

	if d.constructor != "" {
		fallbackCall := jen.Id("recv").Dot("fallback").Dot(m.name).CallFunc(func(g *jen.Group) {
			for _, p := range m.params {
				g.Add(p.forward())
			}
		})
		if len(m.results) > 0 {
			stmts = append(stmts, jen.If(jen.Id("recv").Dot("fallback").Op("!=").Nil()).Block(
				jen.Return(fallbackCall),
			))
		} else {
			stmts = append(stmts, jen.If(jen.Id("recv").Dot("fallback").Op("!=").Nil()).Block(
				fallbackCall,
				jen.Return(),
			))
		}
	}

	if len(m.results) > 0 {
		rets := make([]jen.Code, 0, len(m.results))
		for _, r := range m.results {
			rets = append(rets, recorder().Dot("Results").Dot(r.fieldName))
		}
		stmts = append(stmts, jen.Return(rets...))
	}

	f.Func().Params(jen.Id("recv").Op("*").Id(d.name)).Id(m.name).
		ParamsFunc(func(g *jen.Group) {
			for _, p := range m.params {
				g.Id(p.argName).Add(p.sigType())
			}
		}).
		Add(methodResults(m)).
		Block(stmts...)
}

// emitVerify adds the call-match assertion helper: true iff some recorded
// invocation's arguments equal the given ones.
func (e *emitter) emitVerify(f *jen.File, d doubleInfo, m methodInfo) {
	f.Func().Params(jen.Id("recv").Op("*").Id(d.name)).Id("Verify" + m.name + "CalledWith").
		ParamsFunc(func(g *jen.Group) {
			for _, p := range m.params {
				g.Id(p.argName).Add(p.sigType())
			}
		}).
		Bool().
		Block(
			jen.For(jen.List(jen.Id("_"), jen.Id("call")).Op(":=").Range().Id("recv").Dot("_"+m.name).Dot("History")).Block(
				jen.If(jen.Qual("reflect", "DeepEqual").Call(jen.Id("call"), historyLiteral(m))).Block(
					jen.Return(jen.Lit(true)),
				),
			),
			jen.Return(jen.Lit(false)),
		)
}

// historyStruct is the anonymous struct type one recorded call is stored
// in: one PN field per parameter, in declaration order.
func historyStruct(m methodInfo) *jen.Statement {
	fields := make([]jen.Code, 0, len(m.params))
	for _, p := range m.params {
		fields = append(fields, jen.Id(p.fieldName).Add(typeCode(p.typ)))
	}

	return jen.Struct(fields...)
}

func historyLiteral(m methodInfo) *jen.Statement {
	return historyStruct(m).Values(jen.DictFunc(func(d jen.Dict) {
		for _, p := range m.params {
			d[jen.Id(p.fieldName)] = jen.Id(p.argName)
		}
	}))
}

func methodResults(m methodInfo) *jen.Statement {
	switch len(m.results) {
	case 0:
		return jen.Null()
	case 1:
		return typeCode(m.results[0].typ)
	default:
		codes := make([]jen.Code, 0, len(m.results))
		for _, r := range m.results {
			codes = append(codes, typeCode(r.typ))
		}

		return jen.Params(codes...)
	}
}
