package gen

import (
	"go/types"

	"github.com/dave/jennifer/jen"
)

// typeCode renders a type-checker type as jennifer code. Named types are
// emitted as qualified references; jennifer resolves the import and drops
// the qualifier inside the type's own package.
func typeCode(t types.Type) *jen.Statement {
	switch t := t.(type) {
	case *types.Basic:
		if t.Kind() == types.UnsafePointer {
			return jen.Qual("unsafe", "Pointer")
		}

		return jen.Id(t.Name())
	case *types.Pointer:
		return jen.Op("*").Add(typeCode(t.Elem()))
	case *types.Slice:
		return jen.Index().Add(typeCode(t.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(typeCode(t.Elem()))
	case *types.Map:
		return jen.Map(typeCode(t.Key())).Add(typeCode(t.Elem()))
	case *types.Chan:
		switch t.Dir() {
		case types.RecvOnly:
			return jen.Op("<-").Chan().Add(typeCode(t.Elem()))
		case types.SendOnly:
			return jen.Chan().Op("<-").Add(typeCode(t.Elem()))
		default:
			return jen.Chan().Add(typeCode(t.Elem()))
		}
	case *types.Named:
		o := t.Obj()
		if o.Pkg() == nil {
			return jen.Id(o.Name())
		}

		return jen.Qual(o.Pkg().Path(), o.Name())
	case *types.Signature:
		return jen.Func().
			Params(tupleCodes(t.Params(), t.Variadic())...).
			Add(resultCodes(t.Results()))
	case *types.Struct:
		fields := make([]jen.Code, 0, t.NumFields())
		for i := 0; i < t.NumFields(); i++ {
			f := t.Field(i)
			if f.Anonymous() {
				fields = append(fields, typeCode(f.Type()))
			} else {
				fields = append(fields, jen.Id(f.Name()).Add(typeCode(f.Type())))
			}
		}

		return jen.Struct(fields...)
	case *types.Interface:
		methods := make([]jen.Code, 0, t.NumMethods())
		for i := 0; i < t.NumMethods(); i++ {
			method := t.Method(i)
			sig := method.Type().(*types.Signature)

			methods = append(methods, jen.Id(method.Name()).
				Params(tupleCodes(sig.Params(), sig.Variadic())...).
				Add(resultCodes(sig.Results())))
		}

		return jen.Interface(methods...)
	default:
		return jen.Id(t.String())
	}
}

func tupleCodes(t *types.Tuple, variadic bool) []jen.Code {
	codes := make([]jen.Code, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if variadic && i+1 == t.Len() {
			elem := t.At(i).Type().(*types.Slice).Elem()
			codes = append(codes, jen.Op("...").Add(typeCode(elem)))
			continue
		}

		codes = append(codes, typeCode(t.At(i).Type()))
	}

	return codes
}

func resultCodes(t *types.Tuple) *jen.Statement {
	switch t.Len() {
	case 0:
		return jen.Null()
	case 1:
		return typeCode(t.At(0).Type())
	default:
		codes := make([]jen.Code, 0, t.Len())
		for i := 0; i < t.Len(); i++ {
			codes = append(codes, typeCode(t.At(i).Type()))
		}

		return jen.Params(codes...)
	}
}
