package types

import "strings"

// Function is a concrete (non-generic, non-overloaded) callable signature.
type Function struct {
	Params     []Type
	Optional   []bool // parallel to Params
	Rest       bool   // last Params entry is a rest parameter
	Return     Type
	IsAsync    bool
	IsGenerator bool
}

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + f.Return.String()
}
func (f *Function) TypeKind() string { return "Function" }
func (f *Function) Equals(o Type) bool {
	of, ok := o.(*Function)
	if !ok || len(of.Params) != len(f.Params) || f.Rest != of.Rest {
		return false
	}
	if !f.Return.Equals(of.Return) {
		return false
	}
	for i, p := range f.Params {
		if !p.Equals(of.Params[i]) {
			return false
		}
	}
	return true
}

// OverloadedFunction is a function with multiple call signatures; overload
// resolution (picking the matching Signature for a call site) is an
// out-of-scope concern of the type checker — this lattice just holds the
// candidate list.
type OverloadedFunction struct {
	Signatures []*Function
}

func (o *OverloadedFunction) String() string {
	parts := make([]string, len(o.Signatures))
	for i, s := range o.Signatures {
		parts[i] = s.String()
	}
	return strings.Join(parts, " & ")
}
func (o *OverloadedFunction) TypeKind() string { return "OverloadedFunction" }
func (o *OverloadedFunction) Equals(other Type) bool {
	oo, ok := other.(*OverloadedFunction)
	if !ok || len(oo.Signatures) != len(o.Signatures) {
		return false
	}
	for i, s := range o.Signatures {
		if !s.Equals(oo.Signatures[i]) {
			return false
		}
	}
	return true
}

// GenericFunction is a function declaration with type parameters, e.g.
// `function identity<T>(x: T): T`.
type GenericFunction struct {
	TypeParams []string
	Base       *Function
}

func (g *GenericFunction) String() string {
	return "<" + strings.Join(g.TypeParams, ", ") + ">" + g.Base.String()
}
func (g *GenericFunction) TypeKind() string { return "GenericFunction" }
func (g *GenericFunction) Equals(o Type) bool {
	og, ok := o.(*GenericFunction)
	return ok && len(og.TypeParams) == len(g.TypeParams) && g.Base.Equals(og.Base)
}

// GenericClass is a class declaration with type parameters, not yet
// instantiated with concrete arguments.
type GenericClass struct {
	TypeParams []string
	Base       *MutableClass
}

func (g *GenericClass) String() string {
	return g.Base.Name + "<" + strings.Join(g.TypeParams, ", ") + ">"
}
func (g *GenericClass) TypeKind() string { return "GenericClass" }
func (g *GenericClass) Equals(o Type) bool {
	og, ok := o.(*GenericClass)
	return ok && og.Base.Name == g.Base.Name
}

// GenericInterface is an interface declaration with type parameters.
type GenericInterface struct {
	TypeParams []string
	Base       *Interface
}

func (g *GenericInterface) String() string {
	return g.Base.Name + "<" + strings.Join(g.TypeParams, ", ") + ">"
}
func (g *GenericInterface) TypeKind() string { return "GenericInterface" }
func (g *GenericInterface) Equals(o Type) bool {
	og, ok := o.(*GenericInterface)
	return ok && og.Base.Name == g.Base.Name
}

// InstantiatedGeneric is the result of applying concrete type Arguments to
// a GenericFunction/GenericClass/GenericInterface (the "inherited generic
// instantiation" dispatch needs, per spec §4.5 rule 6, to cast the receiver
// to the constructed type).
type InstantiatedGeneric struct {
	Generic   Type // the GenericFunction/GenericClass/GenericInterface
	Arguments []Type
}

func (i *InstantiatedGeneric) String() string {
	parts := make([]string, len(i.Arguments))
	for idx, a := range i.Arguments {
		parts[idx] = a.String()
	}
	return i.Generic.String() + "<" + strings.Join(parts, ", ") + ">"
}
func (i *InstantiatedGeneric) TypeKind() string { return "InstantiatedGeneric" }
func (i *InstantiatedGeneric) Equals(o Type) bool {
	oi, ok := o.(*InstantiatedGeneric)
	if !ok || !i.Generic.Equals(oi.Generic) || len(i.Arguments) != len(oi.Arguments) {
		return false
	}
	for idx, a := range i.Arguments {
		if !a.Equals(oi.Arguments[idx]) {
			return false
		}
	}
	return true
}
