package codegen

import (
	"fmt"
	"go/types"

	"github.com/dave/jennifer/jen"
)

// typeCode renders t as a jennifer type expression. It fails for types that
// cannot be named from another package.
func typeCode(t types.Type) (*jen.Statement, error) {
	switch tt := t.(type) {
	case *types.Alias:
		return typeCode(types.Unalias(tt))
	case *types.Basic:
		return basicCode(tt)
	case *types.Named:
		return namedCode(tt)
	case *types.Pointer:
		return wrap(tt.Elem(), func(e *jen.Statement) *jen.Statement { return jen.Op("*").Add(e) })
	case *types.Slice:
		return wrap(tt.Elem(), func(e *jen.Statement) *jen.Statement { return jen.Index().Add(e) })
	case *types.Array:
		return wrap(tt.Elem(), func(e *jen.Statement) *jen.Statement { return jen.Index(jen.Lit(int(tt.Len()))).Add(e) })
	case *types.Map:
		key, err := typeCode(tt.Key())
		if err != nil {
			return nil, err
		}

		return wrap(tt.Elem(), func(e *jen.Statement) *jen.Statement { return jen.Map(key).Add(e) })
	case *types.Chan:
		return wrap(tt.Elem(), func(e *jen.Statement) *jen.Statement {
			switch tt.Dir() {
			case types.SendOnly:
				return jen.Chan().Op("<-").Add(e)
			case types.RecvOnly:
				return jen.Op("<-").Chan().Add(e)
			default:
				return jen.Chan().Add(e)
			}
		})
	case *types.Signature:
		return signatureCode(tt)
	case *types.Interface:
		if tt.Empty() {
			return jen.Any(), nil
		}

		return nil, fmt.Errorf("unnamed interface %s", tt)
	case *types.Struct:
		if tt.NumFields() == 0 {
			return jen.Struct(), nil
		}

		return nil, fmt.Errorf("unnamed struct %s", tt)
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}

func wrap(elem types.Type, fn func(*jen.Statement) *jen.Statement) (*jen.Statement, error) {
	e, err := typeCode(elem)
	if err != nil {
		return nil, err
	}

	return fn(e), nil
}

func basicCode(b *types.Basic) (*jen.Statement, error) {
	switch {
	case b.Kind() == types.UnsafePointer:
		return jen.Qual("unsafe", "Pointer"), nil
	case b.Info()&types.IsUntyped != 0, b.Kind() == types.Invalid:
		return nil, fmt.Errorf("invalid type %s", b)
	default:
		return jen.Id(b.Name()), nil
	}
}

func namedCode(n *types.Named) (*jen.Statement, error) {
	obj := n.Obj()
	if obj.Pkg() == nil {
		return jen.Id(obj.Name()), nil
	}

	if !obj.Exported() {
		return nil, fmt.Errorf("unexported type %s", n)
	}

	code := jen.Qual(obj.Pkg().Path(), obj.Name())
	if n.TypeArgs().Len() == 0 {
		return code, nil
	}

	args := make([]jen.Code, n.TypeArgs().Len())

	for i := range n.TypeArgs().Len() {
		a, err := typeCode(n.TypeArgs().At(i))
		if err != nil {
			return nil, err
		}

		args[i] = a
	}

	return code.Types(args...), nil
}

func signatureCode(sig *types.Signature) (*jen.Statement, error) {
	params := make([]jen.Code, sig.Params().Len())

	for i := range sig.Params().Len() {
		t := sig.Params().At(i).Type()

		if sig.Variadic() && i == sig.Params().Len()-1 {
			e, err := typeCode(t.(*types.Slice).Elem())
			if err != nil {
				return nil, err
			}

			params[i] = jen.Op("...").Add(e)

			continue
		}

		p, err := typeCode(t)
		if err != nil {
			return nil, err
		}

		params[i] = p
	}

	results := make([]jen.Code, sig.Results().Len())

	for i := range sig.Results().Len() {
		r, err := typeCode(sig.Results().At(i).Type())
		if err != nil {
			return nil, err
		}

		results[i] = r
	}

	fn := jen.Func().Params(params...)

	switch len(results) {
	case 0:
		return fn, nil
	case 1:
		return fn.Add(results[0]), nil
	default:
		return fn.Params(results...), nil
	}
}
