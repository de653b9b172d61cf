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

// Package diag defines the accumulating diagnostic/error types shared by the
// lexer, parser and semantic analyzer (§7).
package diag

import (
	"fmt"
	"strings"

	"github.com/dcrane/pl0/internal/token"
)

// Kind distinguishes the categories of compile-time error in §7.
type Kind int

const (
	Lexical Kind = iota
	Parse
	Redefinition
	Undefined
	KindMismatch
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical error"
	case Parse:
		return "parse error"
	case Redefinition:
		return "redefinition error"
	case Undefined:
		return "undefined identifier"
	case KindMismatch:
		return "kind mismatch"
	default:
		return "error"
	}
}

// Diagnostic is one accumulated compile-time error, carrying a position
// where available.
type Diagnostic struct {
	Kind     Kind
	Position token.Position
	Message  string
}

func (d Diagnostic) Error() string {
	if (d.Position == token.Position{}) {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Position, d.Kind, d.Message)
}

// List is an ordered collection of Diagnostics, in detection order. A List
// implements error so it can be returned or wrapped like any other error;
// its Error() joins every entry on its own line.
type List []Diagnostic

func (l List) Error() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

// Add appends a new Diagnostic to l.
func (l *List) Add(kind Kind, pos token.Position, format string, args ...interface{}) {
	*l = append(*l, Diagnostic{Kind: kind, Position: pos, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic has been recorded.
func (l List) HasErrors() bool { return len(l) > 0 }
