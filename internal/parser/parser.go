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

// Package parser implements the PL/0 recursive-descent parser with
// synchronized error recovery (§4.2).
package parser

import (
	"fmt"

	"github.com/dcrane/pl0/internal/ast"
	"github.com/dcrane/pl0/internal/diag"
	"github.com/dcrane/pl0/internal/lexer"
	"github.com/dcrane/pl0/internal/token"
)

// Parser holds single-token-lookahead parsing state over a Lexer.
type Parser struct {
	lex  *lexer.Lexer
	tok  token.Token
	errs diag.List
}

// New creates a Parser over src.
func New(src string) *Parser {
	p := &Parser{lex: lexer.New(src)}
	p.next()
	return p
}

// Parse parses a complete program, returning a best-effort AST and every
// diagnostic accumulated along the way. The AST must not be code-generated
// if the diagnostic list is non-empty (§4.2, §7).
func Parse(src string) (*ast.Program, diag.List) {
	p := New(src)
	return p.parseProgram(), p.errs
}

func (p *Parser) next() {
	p.tok = p.lex.Next()
	if p.tok.Kind == token.Unknown {
		p.errs.Add(diag.Lexical, p.tok.Position, "%s", lexicalMessage(p.tok))
	}
}

// lexicalMessage classifies an Unknown token's text into the §4.1 lexical
// failure it most likely represents: an out-of-range integer literal, a
// truncated two-character operator, or a genuinely unrecognized character.
func lexicalMessage(t token.Token) string {
	switch {
	case t.Text == ":":
		return "malformed operator: bare ':' is not a valid token (did you mean ':='?)"
	case t.Text != "" && isAllDigits(t.Text):
		return fmt.Sprintf("integer literal %q is out of range for a 64-bit signed value", t.Text)
	default:
		return fmt.Sprintf("unexpected character %q", t.Text)
	}
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs.Add(diag.Parse, p.tok.Position, format, args...)
}

// expect consumes the current token if it has the given kind, reporting a
// diagnostic and leaving the token unconsumed otherwise.
func (p *Parser) expect(kind token.Kind) bool {
	if p.tok.Kind == kind {
		p.next()
		return true
	}
	p.errorf("expected %s, found %s", kind, describe(p.tok))
	return false
}

func describe(t token.Token) string {
	if t.Text != "" {
		return t.Text
	}
	return t.Kind.String()
}

func isStatementStart(k token.Kind) bool {
	switch k {
	case token.Ident, token.Call, token.Begin, token.If, token.While, token.Read, token.Write:
		return true
	default:
		return false
	}
}

func isSyncToken(k token.Kind) bool {
	return k == token.Semicolon || k == token.End || k == token.Else || isStatementStart(k)
}

// recover skips tokens up to the nearest synchronization point: ";", "end",
// "else", or any statement-start keyword (§4.2).
func (p *Parser) recover() {
	for p.tok.Kind != token.EOF && !isSyncToken(p.tok.Kind) {
		p.next()
	}
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	p.expect(token.Program)
	if p.tok.Kind == token.Ident {
		prog.Name = p.tok.Name
		p.next()
	} else {
		p.errorf("expected program name, found %s", describe(p.tok))
	}
	p.expect(token.Semicolon)
	prog.Block = p.parseBlock()
	p.expect(token.Dot)
	// Tokens after the trailing "." are ignored (§6).
	return prog
}

func (p *Parser) parseBlock() *ast.Block {
	b := &ast.Block{}
	if p.tok.Kind == token.Const {
		p.parseConsts(b)
	}
	if p.tok.Kind == token.Var {
		p.parseVars(b)
	}
	for p.tok.Kind == token.Procedure {
		b.Procs = append(b.Procs, p.parseProcDecl())
	}
	b.Stmt = p.parseStatement()
	return b
}

func (p *Parser) parseConsts(b *ast.Block) {
	p.next() // consume "const"
	for {
		name := ""
		if p.tok.Kind == token.Ident {
			name = p.tok.Name
			p.next()
		} else {
			p.errorf("expected constant name, found %s", describe(p.tok))
			p.recover()
			return
		}
		if p.tok.Kind != token.Eq && p.tok.Kind != token.Assign {
			p.errorf("expected = or := , found %s", describe(p.tok))
			p.recover()
			return
		}
		p.next()
		value := int64(0)
		if p.tok.Kind == token.Int {
			value = p.tok.Value
			p.next()
		} else {
			p.errorf("expected integer literal, found %s", describe(p.tok))
			p.recover()
			return
		}
		b.Consts = append(b.Consts, ast.ConstDecl{Name: name, Value: value})
		if p.tok.Kind != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.Semicolon)
}

func (p *Parser) parseVars(b *ast.Block) {
	p.next() // consume "var"
	for {
		if p.tok.Kind != token.Ident {
			p.errorf("expected variable name, found %s", describe(p.tok))
			p.recover()
			return
		}
		b.Vars = append(b.Vars, p.tok.Name)
		p.next()
		if p.tok.Kind != token.Comma {
			break
		}
		p.next()
	}
	p.expect(token.Semicolon)
}

func (p *Parser) parseProcDecl() *ast.ProcDecl {
	p.next() // consume "procedure"
	decl := &ast.ProcDecl{}
	if p.tok.Kind == token.Ident {
		decl.Name = p.tok.Name
		p.next()
	} else {
		p.errorf("expected procedure name, found %s", describe(p.tok))
	}
	if p.tok.Kind == token.LParen {
		p.next()
		if p.tok.Kind != token.RParen {
			decl.Params = p.parseIdentList()
		}
		p.expect(token.RParen)
	}
	p.expect(token.Semicolon)
	decl.Block = p.parseBlock()
	p.expect(token.Semicolon)
	return decl
}

func (p *Parser) parseIdentList() []string {
	var names []string
	for {
		if p.tok.Kind != token.Ident {
			p.errorf("expected identifier, found %s", describe(p.tok))
			return names
		}
		names = append(names, p.tok.Name)
		p.next()
		if p.tok.Kind != token.Comma {
			return names
		}
		p.next()
	}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.tok.Kind {
	case token.Ident:
		return p.parseAssign()
	case token.Call:
		return p.parseCall()
	case token.Begin:
		return p.parseCompound()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.Read:
		return p.parseRead()
	case token.Write:
		return p.parseWrite()
	default:
		return &ast.Empty{}
	}
}

func (p *Parser) parseAssign() ast.Stmt {
	line := p.tok.Position.Line
	name := p.tok.Name
	p.next()
	if !p.expect(token.Assign) {
		p.recover()
		return &ast.Assign{Name: name, Expr: &ast.IntLit{}, Line: line}
	}
	expr := p.parseExpr()
	return &ast.Assign{Name: name, Expr: expr, Line: line}
}

func (p *Parser) parseCall() ast.Stmt {
	line := p.tok.Position.Line
	p.next() // consume "call"
	name := ""
	if p.tok.Kind == token.Ident {
		name = p.tok.Name
		p.next()
	} else {
		p.errorf("expected procedure name, found %s", describe(p.tok))
	}
	var args []ast.Expr
	if p.tok.Kind == token.LParen {
		p.next()
		if p.tok.Kind != token.RParen {
			args = p.parseExprList()
		}
		p.expect(token.RParen)
	}
	return &ast.Call{Name: name, Args: args, Line: line}
}

func (p *Parser) parseCompound() ast.Stmt {
	p.next() // consume "begin"
	stmts := []ast.Stmt{p.parseStatement()}
	for p.tok.Kind == token.Semicolon {
		p.next()
		stmts = append(stmts, p.parseStatement())
	}
	if !p.expect(token.End) {
		p.recover()
	}
	return &ast.Compound{Stmts: stmts}
}

func (p *Parser) parseIf() ast.Stmt {
	line := p.tok.Position.Line
	p.next() // consume "if"
	cond := p.parseCond()
	p.expect(token.Then)
	then := p.parseStatement()
	var els ast.Stmt
	if p.tok.Kind == token.Else {
		p.next()
		els = p.parseStatement()
	}
	return &ast.If{Cond: cond, Then: then, Else: els, Line: line}
}

func (p *Parser) parseWhile() ast.Stmt {
	line := p.tok.Position.Line
	p.next() // consume "while"
	cond := p.parseCond()
	p.expect(token.Do)
	body := p.parseStatement()
	return &ast.While{Cond: cond, Body: body, Line: line}
}

func (p *Parser) parseRead() ast.Stmt {
	line := p.tok.Position.Line
	p.next() // consume "read"
	var names []string
	if p.tok.Kind == token.LParen {
		p.next()
		names = p.parseIdentList()
		p.expect(token.RParen)
	} else if p.tok.Kind == token.Ident {
		names = []string{p.tok.Name}
		p.next()
	} else {
		p.errorf("expected identifier or ( after read, found %s", describe(p.tok))
	}
	return &ast.Read{Names: names, Line: line}
}

func (p *Parser) parseWrite() ast.Stmt {
	line := p.tok.Position.Line
	p.next() // consume "write"
	var exprs []ast.Expr
	if p.tok.Kind == token.LParen {
		p.next()
		exprs = p.parseExprList()
		p.expect(token.RParen)
	} else {
		exprs = []ast.Expr{p.parseExpr()}
	}
	return &ast.Write{Exprs: exprs, Line: line}
}

func (p *Parser) parseExprList() []ast.Expr {
	exprs := []ast.Expr{p.parseExpr()}
	for p.tok.Kind == token.Comma {
		p.next()
		exprs = append(exprs, p.parseExpr())
	}
	return exprs
}

func (p *Parser) parseCond() ast.Cond {
	if p.tok.Kind == token.Odd {
		p.next()
		return &ast.Odd{Expr: p.parseExpr()}
	}
	left := p.parseExpr()
	op, ok := p.parseRelOp()
	if !ok {
		p.errorf("expected a relational operator, found %s", describe(p.tok))
	}
	right := p.parseExpr()
	return &ast.Compare{Op: op, Left: left, Right: right}
}

func (p *Parser) parseRelOp() (ast.RelOp, bool) {
	var op ast.RelOp
	switch p.tok.Kind {
	case token.Eq:
		op = ast.EQ
	case token.Neq:
		op = ast.NEQ
	case token.Lss:
		op = ast.LSS
	case token.Leq:
		op = ast.LEQ
	case token.Gtr:
		op = ast.GTR
	case token.Geq:
		op = ast.GEQ
	default:
		return ast.EQ, false
	}
	p.next()
	return op, true
}

func (p *Parser) parseExpr() ast.Expr {
	negate := false
	switch p.tok.Kind {
	case token.Plus:
		p.next()
	case token.Minus:
		negate = true
		p.next()
	}
	var left ast.Expr = p.parseTerm()
	if negate {
		left = &ast.Unary{Op: ast.Neg, Expr: left}
	}
	for p.tok.Kind == token.Plus || p.tok.Kind == token.Minus {
		op := ast.Add
		if p.tok.Kind == token.Minus {
			op = ast.Sub
		}
		p.next()
		right := p.parseTerm()
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for p.tok.Kind == token.Star || p.tok.Kind == token.Slash {
		op := ast.Mul
		if p.tok.Kind == token.Slash {
			op = ast.Div
		}
		p.next()
		right := p.parseFactor()
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseFactor() ast.Expr {
	switch p.tok.Kind {
	case token.Ident:
		name := p.tok.Name
		p.next()
		return &ast.Ident{Name: name}
	case token.Int:
		v := p.tok.Value
		p.next()
		return &ast.IntLit{Value: v}
	case token.LParen:
		p.next()
		e := p.parseExpr()
		p.expect(token.RParen)
		return e
	default:
		p.errorf("expected identifier, number or (, found %s", describe(p.tok))
		if p.tok.Kind != token.EOF && !isSyncToken(p.tok.Kind) {
			p.next()
		}
		return &ast.IntLit{}
	}
}
