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

// Package semantic implements the symbol-table build and name/kind
// resolution pass described in §4.4: it walks the parsed AST top-down,
// creating one symtab.Scope per Block, defining constants, variables and
// procedures, and resolving every identifier reference to the symbol it
// names.
//
// Procedures in a block are defined before any of their bodies (including
// each other's) are analyzed, so sibling procedures may call one another
// and a procedure may call itself — the same "define the name, patch the
// address later" split codegen performs for entry addresses, pushed one
// phase earlier here to cover body-level forward reference as well.
package semantic

import (
	"github.com/dcrane/pl0/internal/ast"
	"github.com/dcrane/pl0/internal/diag"
	"github.com/dcrane/pl0/internal/symtab"
	"github.com/dcrane/pl0/internal/token"
)

// Analyze builds a symtab.Arena for prog and resolves every reference in
// it, populating each Block's ScopeID. Codegen must not run if the
// returned diag.List is non-empty (§7).
func Analyze(prog *ast.Program) (*symtab.Arena, diag.List) {
	a := symtab.NewArena()
	an := &analyzer{arena: a}
	an.block(prog.Block, 0, 0)
	return a, an.errs
}

type analyzer struct {
	arena *symtab.Arena
	errs  diag.List
}

func (an *analyzer) errorf(kind diag.Kind, line int, format string, args ...interface{}) {
	an.errs.Add(kind, token.Position{Line: line}, format, args...)
}

// block analyzes b within scopeID at the given lexical level, defining its
// own declarations before descending into nested procedure bodies and its
// own statement.
func (an *analyzer) block(b *ast.Block, scopeID, level int) {
	b.ScopeID = scopeID

	for _, c := range b.Consts {
		if _, exists := an.arena.LookupLocal(scopeID, c.Name); exists {
			an.errorf(diag.Redefinition, 0, "constant %q redeclared", c.Name)
			continue
		}
		an.arena.Define(scopeID, &symtab.Symbol{
			Name: c.Name, Kind: symtab.ConstantKind, Level: level, ConstValue: c.Value,
		})
	}

	for i, name := range b.Vars {
		if _, exists := an.arena.LookupLocal(scopeID, name); exists {
			an.errorf(diag.Redefinition, 0, "variable %q redeclared", name)
			continue
		}
		an.arena.Define(scopeID, &symtab.Symbol{
			Name: name, Kind: symtab.VariableKind, Level: level, Offset: int64(3 + i),
		})
	}

	// Define every procedure name in this block before analyzing any body,
	// so siblings and self-calls resolve regardless of declaration order.
	for _, proc := range b.Procs {
		if _, exists := an.arena.LookupLocal(scopeID, proc.Name); exists {
			an.errorf(diag.Redefinition, 0, "procedure %q redeclared", proc.Name)
			continue
		}
		an.arena.Define(scopeID, &symtab.Symbol{
			Name: proc.Name, Kind: symtab.ProcedureKind, Level: level, Addr: -1,
		})
	}

	for _, proc := range b.Procs {
		procScope := an.arena.NewScope(scopeID)
		n := len(proc.Params)
		for i, name := range proc.Params {
			if _, exists := an.arena.LookupLocal(procScope, name); exists {
				an.errorf(diag.Redefinition, 0, "parameter %q redeclared", name)
				continue
			}
			an.arena.Define(procScope, &symtab.Symbol{
				Name: name, Kind: symtab.VariableKind, Level: level + 1, Offset: int64(-(n - i)),
			})
		}
		an.block(proc.Block, procScope, level+1)
	}

	an.statement(b.Stmt, scopeID)
}

func (an *analyzer) statement(s ast.Stmt, scopeID int) {
	switch s := s.(type) {
	case *ast.Assign:
		sym, ok := an.arena.Lookup(scopeID, s.Name)
		if !ok {
			an.errorf(diag.Undefined, s.Line, "undefined identifier %q", s.Name)
		} else if sym.Kind != symtab.VariableKind {
			an.errorf(diag.KindMismatch, s.Line, "cannot assign to %q, it is not a variable", s.Name)
		}
		an.expr(s.Expr, scopeID, s.Line)
	case *ast.Call:
		sym, ok := an.arena.Lookup(scopeID, s.Name)
		if !ok {
			an.errorf(diag.Undefined, s.Line, "undefined identifier %q", s.Name)
		} else if sym.Kind != symtab.ProcedureKind {
			an.errorf(diag.KindMismatch, s.Line, "cannot call %q, it is not a procedure", s.Name)
		}
		for _, arg := range s.Args {
			an.expr(arg, scopeID, s.Line)
		}
	case *ast.Compound:
		for _, sub := range s.Stmts {
			an.statement(sub, scopeID)
		}
	case *ast.If:
		an.cond(s.Cond, scopeID, s.Line)
		an.statement(s.Then, scopeID)
		if s.Else != nil {
			an.statement(s.Else, scopeID)
		}
	case *ast.While:
		an.cond(s.Cond, scopeID, s.Line)
		an.statement(s.Body, scopeID)
	case *ast.Read:
		for _, name := range s.Names {
			sym, ok := an.arena.Lookup(scopeID, name)
			if !ok {
				an.errorf(diag.Undefined, s.Line, "undefined identifier %q", name)
			} else if sym.Kind != symtab.VariableKind {
				an.errorf(diag.KindMismatch, s.Line, "cannot read into %q, it is not a variable", name)
			}
		}
	case *ast.Write:
		for _, e := range s.Exprs {
			an.expr(e, scopeID, s.Line)
		}
	case *ast.Empty:
		// nothing to resolve
	}
}

func (an *analyzer) cond(c ast.Cond, scopeID, line int) {
	switch c := c.(type) {
	case *ast.Odd:
		an.expr(c.Expr, scopeID, line)
	case *ast.Compare:
		an.expr(c.Left, scopeID, line)
		an.expr(c.Right, scopeID, line)
	}
}

func (an *analyzer) expr(e ast.Expr, scopeID, line int) {
	switch e := e.(type) {
	case *ast.Binary:
		an.expr(e.Left, scopeID, line)
		an.expr(e.Right, scopeID, line)
	case *ast.Unary:
		an.expr(e.Expr, scopeID, line)
	case *ast.IntLit:
		// nothing to resolve
	case *ast.Ident:
		sym, ok := an.arena.Lookup(scopeID, e.Name)
		if !ok {
			an.errorf(diag.Undefined, line, "undefined identifier %q", e.Name)
		} else if sym.Kind == symtab.ProcedureKind {
			an.errorf(diag.KindMismatch, line, "cannot use procedure %q as a value", e.Name)
		}
	}
}
