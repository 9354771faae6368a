package gen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"path/filepath"
	"sort"
	"strconv"

	"golang.org/x/tools/go/packages"
)

// parser turns a package's marker functions into emitters, one per
// destination file.
type parser struct {
	pkg *packages.Package
}

func newParser(pkg *packages.Package) *parser {
	return &parser{
		pkg: pkg,
	}
}

func (p *parser) Parse() ([]*emitter, error) {
	emitters := map[string]*emitter{}
	for _, syntax := range p.pkg.Syntax {
		for _, decl := range syntax.Decls {
			fun, ok := decl.(*ast.FuncDecl)
			if !ok || fun.Body == nil {
				continue
			}

			calls, err := p.markerCalls(fun.Body.List)
			if err != nil {
				errorMessage := "invalid marker function:"
				errorMessage += fmt.Sprintf("\n\tdouble %q: %v", fun.Name.Name, err)

				return nil, errors.New(errorMessage)
			} else if len(calls) == 0 {
				continue
			}

			var (
				pkgDir      = filepath.Dir(p.pkg.Fset.File(decl.Pos()).Name())
				destination = defaultDestination
				name        = fun.Name.Name
				constructor string
				interfaces  []types.Type
			)

			for _, call := range calls {
				sel, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					continue
				}

				obj := p.pkg.TypesInfo.ObjectOf(sel.Sel)
				switch obj.Name() {
				case "Implement":
					for _, arg := range call.Args {
						t := p.pkg.TypesInfo.TypeOf(arg)

						_, ok := t.Underlying().(*types.Interface)
						if !ok {
							errorMessage := "non-interface:"
							errorMessage += fmt.Sprintf("\n\tdouble %q: %v", fun.Name.Name, t)

							return nil, errors.New(errorMessage)
						}

						named, ok := t.(*types.Named)
						if ok {
							interfaces = append(interfaces, named)
						} else {
							interfaces = append(interfaces, t.Underlying())
						}
					}
				case "SetDestination":
					val, err := p.stringArg(call)
					if err != nil {
						errorMessage := "cannot set destination:"
						errorMessage += fmt.Sprintf("\n\tdouble %q: %v", fun.Name.Name, err)

						return nil, errors.New(errorMessage)
					} else if val == "" {
						errorMessage := "cannot set destination:"
						errorMessage += fmt.Sprintf("\n\tdouble %q: destination should not be an empty string", fun.Name.Name)

						return nil, errors.New(errorMessage)
					} else if filepath.Ext(val) != ".go" {
						errorMessage := "cannot set destination:"
						errorMessage += fmt.Sprintf("\n\tdouble %q: %q is not a go file", fun.Name.Name, val)

						return nil, errors.New(errorMessage)
					}

					destination = val
				case "WithFallback":
					constructor = "New" + name
				default:
					errorMessage := "unknown marker call:"
					errorMessage += fmt.Sprintf("\n\tdouble %q: mocktools.%s", fun.Name.Name, obj.Name())

					return nil, errors.New(errorMessage)
				}
			}

			path := filepath.Join(pkgDir, destination)
			if emitters[path] == nil {
				emitters[path] = newEmitter(p.pkg, path)
			}

			err = emitters[path].addDouble(name, constructor, interfaces)
			if err != nil {
				return nil, err
			}
		}
	}

	out := make([]*emitter, 0, len(emitters))
	for _, e := range emitters {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].path < out[j].path
	})

	return out, nil
}

// stringArg constant-folds a marker call's single string argument.
func (p *parser) stringArg(call *ast.CallExpr) (string, error) {
	arg := call.Args[0]

	res, err := types.Eval(p.pkg.Fset, p.pkg.Types, arg.Pos(), types.ExprString(arg))
	if err != nil {
		return "", err
	}
	if res.Value == nil {
		return "", fmt.Errorf("%s is not a constant string", types.ExprString(arg))
	}

	return strconv.Unquote(res.Value.ExactString())
}

// markerCalls extracts the marker-package calls from a function body. A
// function containing marker calls may contain nothing else.
func (p *parser) markerCalls(stmts []ast.Stmt) ([]*ast.CallExpr, error) {
	var (
		calls   []*ast.CallExpr
		invalid bool
	)
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *ast.ExprStmt:
			call, ok := stmt.X.(*ast.CallExpr)
			if !ok {
				invalid = true
				continue
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				invalid = true
				continue
			}

			obj := p.pkg.TypesInfo.ObjectOf(sel.Sel)
			if obj != nil && obj.Pkg() != nil && obj.Pkg().Path() == markerPath {
				calls = append(calls, call)
			} else {
				invalid = true
			}
		case *ast.EmptyStmt, *ast.ReturnStmt:
		default:
			invalid = true
		}
	}

	if len(calls) == 0 {
		return nil, nil
	} else if invalid {
		return nil, errors.New("marker function should consist of marker calls only")
	}

	return calls, nil
}
