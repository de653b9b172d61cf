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

// Package token defines the lexical tokens produced by the PL/0 lexer.
package token

import "fmt"

// Kind identifies the category of a Token.
type Kind int

// Token kinds.
const (
	Unknown Kind = iota
	EOF

	Ident
	Int

	// Keywords.
	Program
	Const
	Var
	Procedure
	Begin
	End
	If
	Then
	Else
	While
	Do
	Call
	Read
	Write
	Odd

	// Operators.
	Plus
	Minus
	Star
	Slash
	Eq
	Neq
	Lss
	Leq
	Gtr
	Geq
	Assign

	// Delimiters.
	Comma
	Semicolon
	Dot
	LParen
	RParen
)

var names = map[Kind]string{
	Unknown:   "unknown",
	EOF:       "eof",
	Ident:     "identifier",
	Int:       "integer",
	Program:   "program",
	Const:     "const",
	Var:       "var",
	Procedure: "procedure",
	Begin:     "begin",
	End:       "end",
	If:        "if",
	Then:      "then",
	Else:      "else",
	While:     "while",
	Do:        "do",
	Call:      "call",
	Read:      "read",
	Write:     "write",
	Odd:       "odd",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Eq:        "=",
	Neq:       "#",
	Lss:       "<",
	Leq:       "<=",
	Gtr:       ">",
	Geq:       ">=",
	Assign:    ":=",
	Comma:     ",",
	Semicolon: ";",
	Dot:       ".",
	LParen:    "(",
	RParen:    ")",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps the fixed, case-sensitive keyword spelling to its Kind,
// following the same name-table-plus-reverse-lookup idiom this codebase's
// vm.OpcodeByName uses for instruction mnemonics.
var keywords = map[string]Kind{
	"program":   Program,
	"const":     Const,
	"var":       Var,
	"procedure": Procedure,
	"begin":     Begin,
	"end":       End,
	"if":        If,
	"then":      Then,
	"else":      Else,
	"while":     While,
	"do":        Do,
	"call":      Call,
	"read":      Read,
	"write":     Write,
	"odd":       Odd,
}

// LookupIdent returns the Keyword Kind for name, or Ident if name is not a
// reserved word. Matching is case-sensitive (§4.2).
func LookupIdent(name string) Kind {
	if k, ok := keywords[name]; ok {
		return k
	}
	return Ident
}

// Position is the 1-based line and column of a token's first character.
type Position struct {
	Line, Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical token, carrying its source position and, for
// Ident/Int, its payload.
type Token struct {
	Kind     Kind
	Name     string // set when Kind == Ident
	Value    int64  // set when Kind == Int
	Text     string // the literal source text, for diagnostics
	Position Position
}

func (t Token) String() string {
	switch t.Kind {
	case Ident:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Name)
	case Int:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Value)
	default:
		return t.Kind.String()
	}
}
