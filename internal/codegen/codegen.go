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

// Package codegen lowers a semantically analyzed AST into p-code (§4.5,
// §4.6). It follows the classic block shape this family of compilers uses:
// a leading JMP past any nested procedure bodies, each procedure's own code
// emitted in turn with its entry address patched into its symtab.Symbol,
// then an INT reserving this block's frame, the block's statement, and a
// closing OPR 0 (return).
//
// Procedure call targets are backpatched like forward-referenced labels in
// a classic two-pass assembler: a CAL instruction is
// emitted with a placeholder address and the (instruction index, target
// symbol) pair is recorded; every placeholder is patched from the
// symbol's now-final Addr once the whole program has been walked, which
// is what lets sibling procedures and self-recursive calls resolve
// regardless of declaration order.
package codegen

import (
	"github.com/dcrane/pl0/internal/ast"
	"github.com/dcrane/pl0/internal/symtab"
	"github.com/dcrane/pl0/vm"
)

type callPatch struct {
	idx int
	sym *symtab.Symbol
}

type generator struct {
	arena *symtab.Arena
	code  []vm.Instruction
	calls []callPatch
}

// Generate lowers prog to p-code using the symbol bindings in arena, which
// must already have been produced by a successful semantic analysis pass
// over the same AST (§7: codegen must not run over a program with
// outstanding diagnostics).
func Generate(prog *ast.Program, arena *symtab.Arena) []vm.Instruction {
	g := &generator{arena: arena}
	g.block(prog.Block, prog.Block.ScopeID, 0)
	for _, cp := range g.calls {
		g.code[cp.idx].A = vm.Cell(cp.sym.Addr)
	}
	return g.code
}

func (g *generator) emit(op vm.Opcode, l uint8, a vm.Cell) int {
	idx := len(g.code)
	g.code = append(g.code, vm.Instruction{Op: op, L: l, A: a})
	return idx
}

func (g *generator) block(b *ast.Block, scopeID, level int) {
	jmpIdx := g.emit(vm.JMP, 0, 0)

	for _, proc := range b.Procs {
		sym, ok := g.arena.LookupLocal(scopeID, proc.Name)
		if !ok {
			// Semantic analysis already reported this as a redefinition;
			// codegen only runs on diagnostic-free programs, so this
			// branch is unreachable in practice but left defensive.
			continue
		}
		sym.Addr = len(g.code)
		g.block(proc.Block, proc.Block.ScopeID, level+1)
	}

	g.code[jmpIdx].A = vm.Cell(len(g.code))

	g.emit(vm.INT, 0, vm.Cell(3+len(b.Vars)))
	g.stmt(b.Stmt, scopeID, level)
	g.emit(vm.OPR, 0, vm.OprRet)
}

func (g *generator) levelDiff(level int, sym *symtab.Symbol) uint8 {
	return uint8(level - sym.Level)
}

func (g *generator) stmt(s ast.Stmt, scopeID, level int) {
	switch s := s.(type) {
	case *ast.Assign:
		g.expr(s.Expr, scopeID, level)
		sym, _ := g.arena.Lookup(scopeID, s.Name)
		g.emit(vm.STO, g.levelDiff(level, sym), vm.Cell(sym.Offset))
	case *ast.Call:
		for _, arg := range s.Args {
			g.expr(arg, scopeID, level)
		}
		sym, _ := g.arena.Lookup(scopeID, s.Name)
		idx := g.emit(vm.CAL, g.levelDiff(level, sym), 0)
		g.calls = append(g.calls, callPatch{idx: idx, sym: sym})
		if n := len(s.Args); n > 0 {
			// RET restores T to its pre-CAL value, which still includes
			// the pushed arguments; pop them here (§4.5).
			g.emit(vm.INT, 0, vm.Cell(-n))
		}
	case *ast.Compound:
		for _, sub := range s.Stmts {
			g.stmt(sub, scopeID, level)
		}
	case *ast.If:
		g.cond(s.Cond, scopeID, level)
		jpcIdx := g.emit(vm.JPC, 0, 0)
		g.stmt(s.Then, scopeID, level)
		if s.Else == nil {
			g.code[jpcIdx].A = vm.Cell(len(g.code))
			return
		}
		jmpIdx := g.emit(vm.JMP, 0, 0)
		g.code[jpcIdx].A = vm.Cell(len(g.code))
		g.stmt(s.Else, scopeID, level)
		g.code[jmpIdx].A = vm.Cell(len(g.code))
	case *ast.While:
		top := len(g.code)
		g.cond(s.Cond, scopeID, level)
		jpcIdx := g.emit(vm.JPC, 0, 0)
		g.stmt(s.Body, scopeID, level)
		g.emit(vm.JMP, 0, vm.Cell(top))
		g.code[jpcIdx].A = vm.Cell(len(g.code))
	case *ast.Read:
		for _, name := range s.Names {
			sym, _ := g.arena.Lookup(scopeID, name)
			g.emit(vm.RED, g.levelDiff(level, sym), vm.Cell(sym.Offset))
		}
	case *ast.Write:
		for _, e := range s.Exprs {
			g.expr(e, scopeID, level)
			g.emit(vm.WRT, 0, 0)
		}
	case *ast.Empty:
		// emits nothing
	}
}

func (g *generator) cond(c ast.Cond, scopeID, level int) {
	switch c := c.(type) {
	case *ast.Odd:
		g.expr(c.Expr, scopeID, level)
		g.emit(vm.OPR, 0, vm.OprOdd)
	case *ast.Compare:
		g.expr(c.Left, scopeID, level)
		g.expr(c.Right, scopeID, level)
		g.emit(vm.OPR, 0, relOpCode(c.Op))
	}
}

func relOpCode(op ast.RelOp) vm.Cell {
	switch op {
	case ast.EQ:
		return vm.OprEql
	case ast.NEQ:
		return vm.OprNeq
	case ast.LSS:
		return vm.OprLss
	case ast.LEQ:
		return vm.OprLeq
	case ast.GTR:
		return vm.OprGtr
	case ast.GEQ:
		return vm.OprGeq
	default:
		return vm.OprEql
	}
}

func (g *generator) expr(e ast.Expr, scopeID, level int) {
	switch e := e.(type) {
	case *ast.IntLit:
		g.emit(vm.LIT, 0, vm.Cell(e.Value))
	case *ast.Ident:
		sym, _ := g.arena.Lookup(scopeID, e.Name)
		if sym.Kind == symtab.ConstantKind {
			g.emit(vm.LIT, 0, vm.Cell(sym.ConstValue))
			return
		}
		g.emit(vm.LOD, g.levelDiff(level, sym), vm.Cell(sym.Offset))
	case *ast.Unary:
		g.expr(e.Expr, scopeID, level)
		g.emit(vm.OPR, 0, vm.OprNeg)
	case *ast.Binary:
		g.expr(e.Left, scopeID, level)
		g.expr(e.Right, scopeID, level)
		g.emit(vm.OPR, 0, binOpCode(e.Op))
	}
}

func binOpCode(op ast.BinOp) vm.Cell {
	switch op {
	case ast.Add:
		return vm.OprAdd
	case ast.Sub:
		return vm.OprSub
	case ast.Mul:
		return vm.OprMul
	case ast.Div:
		return vm.OprDiv
	default:
		return vm.OprAdd
	}
}
