package types

import "fmt"

// classIdentity is the one piece of state shared between a MutableClass and
// the Class it eventually freezes into, so that a method signature written
// against the MutableClass during collection (a self-reference, e.g. a
// `clone(): Self` return type) still compares equal to the frozen Class
// afterward — see spec.md §3's "identity is preserved across freeze".
type classIdentity struct {
	name   string
	frozen bool
}

// MutableClass is the builder used while a class's signature is being
// collected: methods and fields may still be added. Per the Design Notes
// (§9 "mutable record with a freeze step") it is modeled as an explicit
// two-state representation — MutableClass (Building) and Class (Frozen) —
// rather than a single type with a runtime-checked "is frozen" flag guarding
// every mutation.
type MutableClass struct {
	identity *classIdentity

	Name          string
	Super         Type // *Class of the superclass, or nil
	Implements    []*Interface
	Methods       map[string]*Function
	StaticMethods map[string]*Function
	Fields        map[string]Type
	StaticFields  map[string]Type
	Abstract      bool
}

// NewMutableClass starts collecting a new class named name.
func NewMutableClass(name string) *MutableClass {
	return &MutableClass{
		identity:      &classIdentity{name: name},
		Name:          name,
		Methods:       map[string]*Function{},
		StaticMethods: map[string]*Function{},
		Fields:        map[string]Type{},
		StaticFields:  map[string]Type{},
	}
}

// String/TypeKind/Equals let a MutableClass stand in as a Type for
// self-referential signatures collected before Freeze is called; Equals
// compares by identity, which Freeze preserves.
func (m *MutableClass) String() string   { return m.Name }
func (m *MutableClass) TypeKind() string { return "MutableClass" }
func (m *MutableClass) Equals(o Type) bool {
	return sameClassIdentity(m.identity, o)
}

// Freeze finalizes the class, producing the immutable Class that all
// further type-lattice operations (subtype checks, dispatch) observe.
// Freezing the same MutableClass twice is a builder-usage bug, not a
// recoverable condition, so it panics rather than returning an error —
// per the Design Notes' "transition is one-way, guarded by a setter that
// panics on second freeze".
func (m *MutableClass) Freeze() *Class {
	if m.identity.frozen {
		panic(fmt.Sprintf("types: class %q already frozen", m.Name))
	}
	m.identity.frozen = true
	return &Class{mutable: m}
}

// Class is the immutable, finalized form of a class. It carries no state of
// its own beyond a reference to the (now-frozen) MutableClass that built it,
// so that self-referential signatures captured during collection keep
// pointing at live data.
type Class struct {
	mutable *MutableClass
}

func (c *Class) String() string   { return c.mutable.Name }
func (c *Class) TypeKind() string { return "Class" }
func (c *Class) Equals(o Type) bool {
	return sameClassIdentity(c.mutable.identity, o)
}

func sameClassIdentity(id *classIdentity, o Type) bool {
	switch v := o.(type) {
	case *Class:
		return v.mutable.identity == id
	case *MutableClass:
		return v.identity == id
	default:
		return false
	}
}

// Name returns the class's declared name.
func (c *Class) Name() string { return c.mutable.Name }

// Super returns the superclass type, or nil for a root class.
func (c *Class) Super() Type { return c.mutable.Super }

// Method looks up a method in this class, then its superclass chain.
func (c *Class) Method(name string) (*Function, bool) {
	if fn, ok := c.mutable.Methods[name]; ok {
		return fn, true
	}
	if super, ok := c.mutable.Super.(*Class); ok {
		return super.Method(name)
	}
	return nil, false
}

// StaticMethod looks up a static method, without walking the super chain —
// DWScript-style class statics are not spec'd here as inherited, and TS
// static members likewise belong to one class identity.
func (c *Class) StaticMethod(name string) (*Function, bool) {
	fn, ok := c.mutable.StaticMethods[name]
	return fn, ok
}

// Field looks up an instance field, walking the superclass chain.
func (c *Class) Field(name string) (Type, bool) {
	if ty, ok := c.mutable.Fields[name]; ok {
		return ty, true
	}
	if super, ok := c.mutable.Super.(*Class); ok {
		return super.Field(name)
	}
	return nil, false
}

// IsSubclassOf reports whether c is other or descends from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	cur := Type(c)
	for {
		cls, ok := cur.(*Class)
		if !ok {
			return false
		}
		if cls.mutable.identity == other.mutable.identity {
			return true
		}
		cur = cls.mutable.Super
		if cur == nil {
			return false
		}
	}
}

// Instance is the type of a value produced by `new C()` for a given Class —
// the receiver type direct-virtual-dispatch (C8 rule 6) matches against.
type Instance struct {
	Class *Class
}

func (i *Instance) String() string   { return i.Class.Name() }
func (i *Instance) TypeKind() string { return "Instance" }
func (i *Instance) Equals(o Type) bool {
	oi, ok := o.(*Instance)
	return ok && i.Class.Equals(oi.Class)
}

// Enum is a closed set of named members.
type Enum struct {
	Name    string
	Members []string
}

func (e *Enum) String() string   { return e.Name }
func (e *Enum) TypeKind() string { return "Enum" }
func (e *Enum) Equals(o Type) bool {
	oe, ok := o.(*Enum)
	return ok && oe.Name == e.Name
}

// Namespace is a compile-time-only grouping of named members (types,
// values, nested namespaces); it never appears at runtime.
type Namespace struct {
	Name    string
	Members map[string]Type
}

func (n *Namespace) String() string   { return n.Name }
func (n *Namespace) TypeKind() string { return "Namespace" }
func (n *Namespace) Equals(o Type) bool {
	on, ok := o.(*Namespace)
	return ok && on.Name == n.Name
}

// ExternalType stands for a type declared in an ambient `.d.ts`-style
// declaration this core does not itself analyze; it is assignable to/from
// Any and otherwise opaque.
type ExternalType struct {
	Name string
}

func (e *ExternalType) String() string   { return e.Name }
func (e *ExternalType) TypeKind() string { return "ExternalType" }
func (e *ExternalType) Equals(o Type) bool {
	oe, ok := o.(*ExternalType)
	return ok && oe.Name == e.Name
}
