// This file is part of pl0 - https://github.com/dcrane/pl0
//
// Copyright 2026 Danny Crane
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package symtab implements the scope arena and symbol table described in
// §3 and §4.4: a tree of scopes, each mapping names to Symbols, searched by
// walking parent links to the root.
//
// The arena is the shared-mutable-state strategy DESIGN.md settled on for
// the two-phase Procedure address problem: semantic analysis defines a
// Procedure symbol with a placeholder Addr, and codegen later reaches back
// into the same Arena to patch it in place, mutating the one struct both
// the definition and every use point to.
package symtab

// Kind is the category of a Symbol (§3).
type Kind int

const (
	ConstantKind Kind = iota
	VariableKind
	ProcedureKind
)

// Symbol is one name binding. Only the fields relevant to Kind are
// meaningful: ConstValue for ConstantKind, Level+Offset for VariableKind,
// Level+Addr for ProcedureKind.
type Symbol struct {
	Name  string
	Kind  Kind
	Level int

	ConstValue int64 // ConstantKind
	Offset     int64 // VariableKind: stack slot, >=3 for locals, <0 for params
	Addr       int   // ProcedureKind: entry address; -1 until codegen resolves it
}

// Scope is one lexical scope: a name table plus a link to its parent.
type Scope struct {
	id      int
	parent  int // -1 for the root
	hasPar  bool
	symbols map[string]*Symbol
	order   []string // definition order, for Symbols()
}

// Arena owns every Scope created during one compilation. Scope 0 is always
// the root.
type Arena struct {
	scopes []*Scope
}

// NewArena creates an Arena with scope 0 already present as the root.
func NewArena() *Arena {
	a := &Arena{}
	a.NewScope(-1)
	return a
}

// NewScope creates a new scope whose parent is parentID (use -1 only for
// the root, which NewArena already creates) and returns its id.
func (a *Arena) NewScope(parentID int) int {
	id := len(a.scopes)
	s := &Scope{id: id, parent: parentID, hasPar: parentID >= 0, symbols: make(map[string]*Symbol)}
	a.scopes = append(a.scopes, s)
	return id
}

// Parent returns the parent scope id and whether one exists (false only for
// the root).
func (a *Arena) Parent(scopeID int) (int, bool) {
	s := a.scopes[scopeID]
	return s.parent, s.hasPar
}

// Define adds sym to scopeID under sym.Name. It reports false without
// modifying the scope if a symbol of that name is already defined there
// (redefinition is the caller's to report, per §4.4 point 1).
func (a *Arena) Define(scopeID int, sym *Symbol) bool {
	s := a.scopes[scopeID]
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	s.order = append(s.order, sym.Name)
	return true
}

// Lookup resolves name starting at scopeID and walking parent links to the
// root, returning the first match (§3 invariant: every well-typed reference
// resolves to exactly one reachable symbol).
func (a *Arena) Lookup(scopeID int, name string) (*Symbol, bool) {
	for {
		s := a.scopes[scopeID]
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
		if !s.hasPar {
			return nil, false
		}
		scopeID = s.parent
	}
}

// LookupLocal resolves name only within scopeID, without walking to parent
// scopes. Used by semantic analysis to detect redefinitions.
func (a *Arena) LookupLocal(scopeID int, name string) (*Symbol, bool) {
	sym, ok := a.scopes[scopeID].symbols[name]
	return sym, ok
}

// Symbols returns every symbol defined directly in scopeID, in definition
// order. It is structured data for a driver/UI to format (§1, §9).
func (a *Arena) Symbols(scopeID int) []Symbol {
	s := a.scopes[scopeID]
	out := make([]Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.symbols[name])
	}
	return out
}
