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

// Package optimizer rewrites a parsed AST into an equivalent, smaller one
// before codegen (§4.3). Every pass is a pure AST-to-AST transform with no
// knowledge of symbols or addresses, so the optimizer can run (or be
// skipped) independently of semantic analysis and codegen.
//
// Passes run to a fixed point per block: constant folding and condition
// folding can expose new dead branches, which in turn expose more foldable
// expressions, so Optimize repeats the pass sequence until a round changes
// nothing. Optimize(Optimize(p)) == Optimize(p) for any p, since a
// fixed point is by definition unchanged by another round.
package optimizer

import "github.com/dcrane/pl0/internal/ast"

// Optimize rewrites prog in place and also returns it, applying the pass
// sequence to a fixed point.
func Optimize(prog *ast.Program) *ast.Program {
	for {
		_, changed := optimizeBlock(prog.Block)
		if !changed {
			break
		}
	}
	return prog
}

func optimizeBlock(b *ast.Block) (*ast.Block, bool) {
	changed := false
	for _, proc := range b.Procs {
		_, c := optimizeBlock(proc.Block)
		changed = changed || c
	}
	var stmtChanged bool
	b.Stmt, stmtChanged = optimizeStmt(b.Stmt)
	changed = changed || stmtChanged
	return b, changed
}

func optimizeStmt(s ast.Stmt) (ast.Stmt, bool) {
	changed := false
	switch s := s.(type) {
	case *ast.Assign:
		var c bool
		s.Expr, c = foldExpr(s.Expr)
		changed = changed || c
		return s, changed
	case *ast.Call:
		for i, arg := range s.Args {
			var c bool
			s.Args[i], c = foldExpr(arg)
			changed = changed || c
		}
		return s, changed
	case *ast.Compound:
		return optimizeCompound(s)
	case *ast.If:
		var condChanged bool
		s.Cond, condChanged = foldCond(s.Cond)
		changed = changed || condChanged
		if lit, ok := constCond(s.Cond); ok {
			if lit {
				rewritten, _ := optimizeStmt(s.Then)
				return rewritten, true
			}
			if s.Else != nil {
				rewritten, _ := optimizeStmt(s.Else)
				return rewritten, true
			}
			return &ast.Empty{}, true
		}
		var thenChanged, elseChanged bool
		s.Then, thenChanged = optimizeStmt(s.Then)
		if s.Else != nil {
			s.Else, elseChanged = optimizeStmt(s.Else)
		}
		return s, changed || thenChanged || elseChanged
	case *ast.While:
		var condChanged bool
		s.Cond, condChanged = foldCond(s.Cond)
		changed = changed || condChanged
		if lit, ok := constCond(s.Cond); ok && !lit {
			// "while false do ..." never runs (§4.3 dead-branch elimination).
			return &ast.Empty{}, true
		}
		rewritten, hoistChanged := hoistInvariants(s)
		return rewritten, changed || hoistChanged
	case *ast.Read, *ast.Empty:
		return s, false
	case *ast.Write:
		for i, e := range s.Exprs {
			var c bool
			s.Exprs[i], c = foldExpr(e)
			changed = changed || c
		}
		return s, changed
	default:
		return s, false
	}
}

// cseEntry records a cached expression alongside the variable currently
// holding its value.
type cseEntry struct {
	expr ast.Expr
	name string
}

// optimizeCompound recursively optimizes each child statement, drops
// resulting Empty statements, and performs straight-line common
// subexpression elimination across sibling assignments (§4.3): an
// assignment's right-hand side that is structurally identical to an earlier
// still-valid assignment's right-hand side in the same compound is replaced
// with a reference to that earlier assignment's variable, provided no
// intervening statement could have changed any operand or that variable. An
// entry is cached only for a non-trivial expression that does not reference
// the variable it would be cached under, and any cached expression that
// references, or is held in, a freshly assigned variable is evicted
// immediately.
func optimizeCompound(c *ast.Compound) (ast.Stmt, bool) {
	changed := false
	var kept []ast.Stmt
	seen := map[string]cseEntry{} // stringified expr -> (expr, variable holding it)
	invalidate := func() { seen = map[string]cseEntry{} }

	for _, s := range c.Stmts {
		rewritten, c2 := optimizeStmt(s)
		changed = changed || c2
		if _, ok := rewritten.(*ast.Empty); ok {
			changed = true
			continue
		}
		if assign, ok := rewritten.(*ast.Assign); ok {
			key := exprKey(assign.Expr)
			if entry, ok := seen[key]; ok && entry.name != assign.Name {
				assign.Expr = &ast.Ident{Name: entry.name}
				changed = true
			}
			// Any earlier CSE entry whose expression references assign.Name, or
			// whose value was held in assign.Name, is now stale.
			selfRef := map[string]bool{assign.Name: true}
			for k, entry := range seen {
				if entry.name == assign.Name || dependsOnAny(entry.expr, selfRef) {
					delete(seen, k)
				}
			}
			// Insert only a non-trivial expression that does not itself
			// reference the variable it is being cached under (§4.3 step 3):
			// "x := x+1" must never be cached as (x+1)↦x.
			if !isTrivial(assign.Expr) && !dependsOnAny(assign.Expr, selfRef) {
				seen[key] = cseEntry{expr: assign.Expr, name: assign.Name}
			}
		} else {
			// Calls, reads, control flow: assume any variable may change.
			invalidate()
		}
		kept = append(kept, rewritten)
	}
	if len(kept) == 0 {
		return &ast.Empty{}, true
	}
	if len(kept) == 1 {
		return kept[0], true
	}
	c.Stmts = kept
	return c, changed
}

// isTrivial reports whether e is a bare literal or identifier, too cheap to
// be worth caching for CSE.
func isTrivial(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntLit, *ast.Ident:
		return true
	default:
		return false
	}
}

// hoistInvariants moves every top-level assignment out of a while body when
// its right-hand side depends on no variable modified anywhere inside the
// body (§4.3 loop-invariant code motion). Since optimizeStmt returns a plain
// ast.Stmt, a while whose body yields a hoisted assignment is itself
// replaced by a synthetic Compound holding the hoisted assignments (in
// original order) followed by the (possibly shrunk) while — this is the
// "new compound statement placed immediately before the loop" the spec
// describes; every caller of optimizeStmt already treats its result as an
// opaque ast.Stmt, so the substitution is transparent to them.
func hoistInvariants(w *ast.While) (ast.Stmt, bool) {
	body, bodyChanged := optimizeStmt(w.Body)
	w.Body = body

	modified := map[string]bool{}
	collectModified(body, modified)

	stmts := asStmtList(body)
	var hoisted, kept []ast.Stmt
	for _, s := range stmts {
		if a, ok := s.(*ast.Assign); ok && !dependsOnAny(a.Expr, modified) {
			hoisted = append(hoisted, a)
			continue
		}
		kept = append(kept, s)
	}
	if len(hoisted) == 0 {
		return w, bodyChanged
	}

	w.Body = stmtListToStmt(kept)
	out := append(append([]ast.Stmt{}, hoisted...), w)
	return &ast.Compound{Stmts: out}, true
}

// collectModified records every variable name assigned or read into,
// anywhere within s, recursing through compounds, conditionals and nested
// loops (§4.3: "assignments, reads, nested loops").
func collectModified(s ast.Stmt, out map[string]bool) {
	switch s := s.(type) {
	case *ast.Assign:
		out[s.Name] = true
	case *ast.Read:
		for _, name := range s.Names {
			out[name] = true
		}
	case *ast.Compound:
		for _, sub := range s.Stmts {
			collectModified(sub, out)
		}
	case *ast.If:
		collectModified(s.Then, out)
		if s.Else != nil {
			collectModified(s.Else, out)
		}
	case *ast.While:
		collectModified(s.Body, out)
	}
}

// dependsOnAny reports whether e references any identifier named in names.
func dependsOnAny(e ast.Expr, names map[string]bool) bool {
	switch e := e.(type) {
	case *ast.Ident:
		return names[e.Name]
	case *ast.Unary:
		return dependsOnAny(e.Expr, names)
	case *ast.Binary:
		return dependsOnAny(e.Left, names) || dependsOnAny(e.Right, names)
	default:
		return false
	}
}

// asStmtList flattens s to its top-level statement sequence: a Compound's
// Stmts, or a single-element list for anything else.
func asStmtList(s ast.Stmt) []ast.Stmt {
	if c, ok := s.(*ast.Compound); ok {
		return c.Stmts
	}
	return []ast.Stmt{s}
}

// stmtListToStmt is the inverse of asStmtList: it collapses a statement
// sequence back down to Empty, a bare statement, or a Compound.
func stmtListToStmt(stmts []ast.Stmt) ast.Stmt {
	switch len(stmts) {
	case 0:
		return &ast.Empty{}
	case 1:
		return stmts[0]
	default:
		return &ast.Compound{Stmts: stmts}
	}
}

func foldCond(c ast.Cond) (ast.Cond, bool) {
	changed := false
	switch c := c.(type) {
	case *ast.Odd:
		var ec bool
		c.Expr, ec = foldExpr(c.Expr)
		changed = changed || ec
		return c, changed
	case *ast.Compare:
		var lc, rc bool
		c.Left, lc = foldExpr(c.Left)
		c.Right, rc = foldExpr(c.Right)
		changed = changed || lc || rc
		return c, changed
	}
	return c, false
}

// constCond reports whether c has been folded down to a statically known
// boolean, and what it is.
func constCond(c ast.Cond) (value bool, ok bool) {
	switch c := c.(type) {
	case *ast.Odd:
		lit, isLit := c.Expr.(*ast.IntLit)
		if !isLit {
			return false, false
		}
		return lit.Value%2 != 0, true
	case *ast.Compare:
		l, lok := c.Left.(*ast.IntLit)
		r, rok := c.Right.(*ast.IntLit)
		if !lok || !rok {
			return false, false
		}
		switch c.Op {
		case ast.EQ:
			return l.Value == r.Value, true
		case ast.NEQ:
			return l.Value != r.Value, true
		case ast.LSS:
			return l.Value < r.Value, true
		case ast.LEQ:
			return l.Value <= r.Value, true
		case ast.GTR:
			return l.Value > r.Value, true
		case ast.GEQ:
			return l.Value >= r.Value, true
		}
	}
	return false, false
}

// foldExpr constant-folds arithmetic on integer literals and applies the
// algebraic identities x+0, 0+x, x-0, x*1, 1*x, x*0, 0*x, x/1 (§4.3). It
// never folds division by a literal zero; that is left for the VM to fault
// on at run time, matching the teacher's "errors surface at the point of
// use" stance.
func foldExpr(e ast.Expr) (ast.Expr, bool) {
	switch e := e.(type) {
	case *ast.Unary:
		inner, changed := foldExpr(e.Expr)
		e.Expr = inner
		if lit, ok := inner.(*ast.IntLit); ok {
			return &ast.IntLit{Value: -lit.Value}, true
		}
		return e, changed
	case *ast.Binary:
		left, lc := foldExpr(e.Left)
		right, rc := foldExpr(e.Right)
		e.Left, e.Right = left, right
		changed := lc || rc

		if lLit, lok := left.(*ast.IntLit); lok {
			if rLit, rok := right.(*ast.IntLit); rok {
				if folded, ok := foldConstBinary(e.Op, lLit.Value, rLit.Value); ok {
					return &ast.IntLit{Value: folded}, true
				}
			}
		}
		if rLit, rok := right.(*ast.IntLit); rok {
			switch {
			case e.Op == ast.Add && rLit.Value == 0:
				return left, true
			case e.Op == ast.Sub && rLit.Value == 0:
				return left, true
			case e.Op == ast.Mul && rLit.Value == 1:
				return left, true
			case e.Op == ast.Mul && rLit.Value == 0:
				return &ast.IntLit{Value: 0}, true
			case e.Op == ast.Div && rLit.Value == 1:
				return left, true
			}
		}
		if lLit, lok := left.(*ast.IntLit); lok {
			switch {
			case e.Op == ast.Add && lLit.Value == 0:
				return right, true
			case e.Op == ast.Mul && lLit.Value == 1:
				return right, true
			case e.Op == ast.Mul && lLit.Value == 0:
				return &ast.IntLit{Value: 0}, true
			}
		}
		return e, changed
	default:
		return e, false
	}
}

func foldConstBinary(op ast.BinOp, l, r int64) (int64, bool) {
	switch op {
	case ast.Add:
		return l + r, true
	case ast.Sub:
		return l - r, true
	case ast.Mul:
		return l * r, true
	case ast.Div:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	}
	return 0, false
}

// exprKey renders e as a canonical string for CSE comparison. Two
// structurally identical expressions always produce the same key.
func exprKey(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.IntLit:
		return "#" + itoa(e.Value)
	case *ast.Ident:
		return "@" + e.Name
	case *ast.Unary:
		return "(-" + exprKey(e.Expr) + ")"
	case *ast.Binary:
		return "(" + exprKey(e.Left) + opSymbol(e.Op) + exprKey(e.Right) + ")"
	default:
		return "?"
	}
}

func opSymbol(op ast.BinOp) string {
	switch op {
	case ast.Add:
		return "+"
	case ast.Sub:
		return "-"
	case ast.Mul:
		return "*"
	case ast.Div:
		return "/"
	default:
		return "?"
	}
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
