package async

import (
	"fmt"

	"github.com/sharpts-lang/core/internal/ast"
	"github.com/sharpts-lang/core/internal/types"
)

// FieldKind distinguishes the role a state-machine record field plays, so
// the emitter (C5) can tell a hoisted user variable apart from plumbing the
// driver itself reads (builder, state, awaiters).
type FieldKind int

const (
	FieldState FieldKind = iota
	FieldBuilder
	FieldThis
	FieldSelfBoxed
	FieldAwaiter
	FieldVariable
)

// Field is one member of the synthesized state-machine record.
type Field struct {
	Name string
	Kind FieldKind
	Type types.Type
}

// StateMachine is the record shape C4 builds from a C3 Analysis: the fixed
// plumbing fields (state/builder/this/self_boxed), one awaiter field per
// suspension, and one field per hoisted variable — plus the accessors spec
// §4.2 names.
type StateMachine struct {
	analysis *Analysis

	stateField      *Field
	builderField    *Field
	thisField       *Field // nil when the function has no `this`
	selfBoxedField  *Field
	awaiterFields   []*Field // indexed by suspension state number
	variableFields  map[string]*Field
	variableOrder   []string // deterministic field emission order
	returnType      types.Type
}

// NewStateMachine builds the record shape for an async/generator function
// whose body was already analyzed by Analyze. hasThis marks whether the
// function can reference `this` (a method, not a bare function
// declaration); returnType is the stub's return type (Promise<T>,
// Generator<T> or AsyncGenerator<T>), kept for ReturnType — the builder
// and awaiter fields are typed Any.
func NewStateMachine(analysis *Analysis, params []*ast.Param, hasThis bool, returnType types.Type) *StateMachine {
	sm := &StateMachine{
		analysis:       analysis,
		stateField:     &Field{Name: "state", Kind: FieldState, Type: types.Number},
		builderField:   &Field{Name: "builder", Kind: FieldBuilder, Type: types.Any},
		selfBoxedField: &Field{Name: "self_boxed", Kind: FieldSelfBoxed, Type: types.Any},
		variableFields: map[string]*Field{},
		returnType:     returnType,
	}

	if hasThis {
		sm.thisField = &Field{Name: "this_field", Kind: FieldThis, Type: types.Any}
	}

	sm.awaiterFields = make([]*Field, analysis.SuspensionCount)
	for i := range sm.awaiterFields {
		sm.awaiterFields[i] = &Field{Name: fmt.Sprintf("awaiter_%d", i), Kind: FieldAwaiter, Type: types.Any}
	}

	// Deterministic order: parameters first (in declared order), then the
	// remaining hoisted locals in a stable order derived from the analysis
	// map by sorting names — the map itself has no iteration order
	// guarantee, so this keeps field layout identical across recompiles of
	// the same AST (spec §8 determinism).
	seen := map[string]bool{}
	for _, p := range params {
		if analysis.IsHoisted(p.Name.Name) && !seen[p.Name.Name] {
			sm.addVariableField(p.Name.Name, p.Type)
			seen[p.Name.Name] = true
		}
	}
	for _, name := range sortedHoistedNames(analysis) {
		if !seen[name] {
			sm.addVariableField(name, types.Any)
			seen[name] = true
		}
	}

	return sm
}

func sortedHoistedNames(a *Analysis) []string {
	names := make([]string, 0, len(a.Hoisted))
	for name := range a.Hoisted {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

func (sm *StateMachine) addVariableField(name string, ty types.Type) {
	if ty == nil {
		ty = types.Any
	}
	field := &Field{Name: "local_" + name, Kind: FieldVariable, Type: ty}
	sm.variableFields[name] = field
	sm.variableOrder = append(sm.variableOrder, name)
}

// VariableField is spec §4.2's `variable_field(name) → field | none`.
func (sm *StateMachine) VariableField(name string) (*Field, bool) {
	f, ok := sm.variableFields[name]
	return f, ok
}

// AwaiterField is spec §4.2's `awaiter_field(state) → field`.
func (sm *StateMachine) AwaiterField(state int) (*Field, bool) {
	if state < 0 || state >= len(sm.awaiterFields) {
		return nil, false
	}
	return sm.awaiterFields[state], true
}

// StateField is spec §4.2's `state_field`.
func (sm *StateMachine) StateField() *Field { return sm.stateField }

// BuilderField is spec §4.2's `builder_field`.
func (sm *StateMachine) BuilderField() *Field { return sm.builderField }

// ThisField is spec §4.2's `this_field`; returns nil, false when the
// function has no receiver.
func (sm *StateMachine) ThisField() (*Field, bool) {
	if sm.thisField == nil {
		return nil, false
	}
	return sm.thisField, true
}

// SelfBoxedField is spec §4.2's `self_boxed_field` — the field shared with
// any nested async arrow the function creates (spec §5).
func (sm *StateMachine) SelfBoxedField() *Field { return sm.selfBoxedField }

// Fields returns every field in the record, in the deterministic layout
// order: state, builder, this (if any), self_boxed, one awaiter field per
// suspension, then one variable field per hoisted name.
func (sm *StateMachine) Fields() []*Field {
	fields := []*Field{sm.stateField, sm.builderField}
	if sm.thisField != nil {
		fields = append(fields, sm.thisField)
	}
	fields = append(fields, sm.selfBoxedField)
	fields = append(fields, sm.awaiterFields...)
	for _, name := range sm.variableOrder {
		fields = append(fields, sm.variableFields[name])
	}
	return fields
}

// ReturnType is the function's declared element type (the `T` in
// `Promise<T>`/`Generator<T>`).
func (sm *StateMachine) ReturnType() types.Type { return sm.returnType }

// StubEntryPoint describes the externally callable wrapper spec §4.2/§6
// reserves: allocate the record, copy parameters into hoisted slots, store
// `this` if applicable, set state := -1, and hand the record to the driver
// via Start.
type StubEntryPoint struct {
	Machine *StateMachine
}

// NewStub reserves the stub entry point for a built StateMachine.
func NewStub(sm *StateMachine) *StubEntryPoint {
	return &StubEntryPoint{Machine: sm}
}
