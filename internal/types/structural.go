package types

import (
	"sort"
	"strings"
)

// Record is an anonymous structural object type (`{ a: number; b: string }`).
// Fields is keyed by member name; Optional marks members written `a?: T`.
type Record struct {
	Fields   map[string]Type
	Optional map[string]bool
}

// NewRecord builds a Record with empty optional-marker maps pre-allocated.
func NewRecord() *Record {
	return &Record{Fields: map[string]Type{}, Optional: map[string]bool{}}
}

func (r *Record) sortedNames() []string {
	names := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r *Record) String() string {
	names := r.sortedNames()
	parts := make([]string, len(names))
	for i, n := range names {
		opt := ""
		if r.Optional[n] {
			opt = "?"
		}
		parts[i] = n + opt + ": " + r.Fields[n].String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (r *Record) TypeKind() string { return "Record" }

func (r *Record) Equals(o Type) bool {
	or, ok := o.(*Record)
	if !ok || len(or.Fields) != len(r.Fields) {
		return false
	}
	for name, ty := range r.Fields {
		oty, ok := or.Fields[name]
		if !ok || !ty.Equals(oty) || r.Optional[name] != or.Optional[name] {
			return false
		}
	}
	return true
}

// Interface is a named structural contract. Unlike Record it carries an
// identity (Name) that participates in declaration merging upstream (out of
// scope here). Equals compares two interfaces by Name; IsSubtype checks a
// Record against an interface structurally, through AllMembers.
type Interface struct {
	Name    string
	Members map[string]Type
	Extends []*Interface
}

func (i *Interface) String() string { return i.Name }
func (i *Interface) TypeKind() string { return "Interface" }
func (i *Interface) Equals(o Type) bool {
	oi, ok := o.(*Interface)
	return ok && oi.Name == i.Name
}

// AllMembers flattens Members across the Extends chain, with the interface's
// own members taking priority over an inherited one of the same name.
func (i *Interface) AllMembers() map[string]Type {
	out := map[string]Type{}
	for _, base := range i.Extends {
		for k, v := range base.AllMembers() {
			out[k] = v
		}
	}
	for k, v := range i.Members {
		out[k] = v
	}
	return out
}
