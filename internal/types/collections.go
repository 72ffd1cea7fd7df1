package types

import "strings"

// Array is `T[]` / `Array<T>`.
type Array struct{ Elem Type }

func (a *Array) String() string   { return a.Elem.String() + "[]" }
func (a *Array) TypeKind() string { return "Array" }
func (a *Array) Equals(o Type) bool {
	oa, ok := o.(*Array)
	return ok && a.Elem.Equals(oa.Elem)
}

// Tuple is a fixed-length, heterogeneously-typed array (`[number, string]`).
type Tuple struct{ Elems []Type }

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (t *Tuple) TypeKind() string { return "Tuple" }
func (t *Tuple) Equals(o Type) bool {
	ot, ok := o.(*Tuple)
	if !ok || len(ot.Elems) != len(t.Elems) {
		return false
	}
	for i, e := range t.Elems {
		if !e.Equals(ot.Elems[i]) {
			return false
		}
	}
	return true
}

// Map is `Map<K, V>`.
type Map struct {
	Key   Type
	Value Type
}

func (m *Map) String() string   { return "Map<" + m.Key.String() + ", " + m.Value.String() + ">" }
func (m *Map) TypeKind() string { return "Map" }
func (m *Map) Equals(o Type) bool {
	om, ok := o.(*Map)
	return ok && m.Key.Equals(om.Key) && m.Value.Equals(om.Value)
}

// Set is `Set<T>`.
type Set struct{ Elem Type }

func (s *Set) String() string   { return "Set<" + s.Elem.String() + ">" }
func (s *Set) TypeKind() string { return "Set" }
func (s *Set) Equals(o Type) bool {
	os, ok := o.(*Set)
	return ok && s.Elem.Equals(os.Elem)
}

// WeakMap is `WeakMap<K, V>`.
type WeakMap struct {
	Key   Type
	Value Type
}

func (w *WeakMap) String() string { return "WeakMap<" + w.Key.String() + ", " + w.Value.String() + ">" }
func (w *WeakMap) TypeKind() string { return "WeakMap" }
func (w *WeakMap) Equals(o Type) bool {
	ow, ok := o.(*WeakMap)
	return ok && w.Key.Equals(ow.Key) && w.Value.Equals(ow.Value)
}

// WeakSet is `WeakSet<T>`.
type WeakSet struct{ Elem Type }

func (w *WeakSet) String() string   { return "WeakSet<" + w.Elem.String() + ">" }
func (w *WeakSet) TypeKind() string { return "WeakSet" }
func (w *WeakSet) Equals(o Type) bool {
	ow, ok := o.(*WeakSet)
	return ok && w.Elem.Equals(ow.Elem)
}

// Iterator is `Iterator<T>`.
type Iterator struct{ Elem Type }

func (i *Iterator) String() string   { return "Iterator<" + i.Elem.String() + ">" }
func (i *Iterator) TypeKind() string { return "Iterator" }
func (i *Iterator) Equals(o Type) bool {
	oi, ok := o.(*Iterator)
	return ok && i.Elem.Equals(oi.Elem)
}

// Promise is `Promise<T>` — the return type of every async function stub
// (spec §6 ABI).
type Promise struct{ Elem Type }

func (p *Promise) String() string   { return "Promise<" + p.Elem.String() + ">" }
func (p *Promise) TypeKind() string { return "Promise" }
func (p *Promise) Equals(o Type) bool {
	op, ok := o.(*Promise)
	return ok && p.Elem.Equals(op.Elem)
}

// Generator is `Generator<T>`.
type Generator struct{ Yield Type }

func (g *Generator) String() string   { return "Generator<" + g.Yield.String() + ">" }
func (g *Generator) TypeKind() string { return "Generator" }
func (g *Generator) Equals(o Type) bool {
	og, ok := o.(*Generator)
	return ok && g.Yield.Equals(og.Yield)
}

// AsyncGenerator is `AsyncGenerator<T>` — the return type of an async
// generator function's stub.
type AsyncGenerator struct{ Yield Type }

func (g *AsyncGenerator) String() string   { return "AsyncGenerator<" + g.Yield.String() + ">" }
func (g *AsyncGenerator) TypeKind() string { return "AsyncGenerator" }
func (g *AsyncGenerator) Equals(o Type) bool {
	og, ok := o.(*AsyncGenerator)
	return ok && g.Yield.Equals(og.Yield)
}

// Module is the type of an imported module namespace object.
type Module struct {
	Name    string
	Exports map[string]Type
}

func (m *Module) String() string   { return "module \"" + m.Name + "\"" }
func (m *Module) TypeKind() string { return "Module" }
func (m *Module) Equals(o Type) bool {
	om, ok := o.(*Module)
	return ok && om.Name == m.Name
}
