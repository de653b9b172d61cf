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

// Package pl0 is the top-level facade wiring the lexer, parser, optimizer,
// semantic analyzer and code generator into one Compile entry point (§2,
// §7). A driver that only needs "source text in, p-code out" should use
// this package rather than reaching into internal/ directly.
package pl0

import (
	"github.com/dcrane/pl0/internal/ast"
	"github.com/dcrane/pl0/internal/codegen"
	"github.com/dcrane/pl0/internal/diag"
	"github.com/dcrane/pl0/internal/optimizer"
	"github.com/dcrane/pl0/internal/parser"
	"github.com/dcrane/pl0/internal/semantic"
	"github.com/dcrane/pl0/internal/symtab"
	"github.com/dcrane/pl0/vm"
)

// Options configures a Compile call.
type Options struct {
	// SkipOptimizer disables the optimizer pass, emitting code directly
	// from the semantically analyzed AST. Useful for comparing optimized
	// and unoptimized output, or for isolating a codegen bug from an
	// optimizer one.
	SkipOptimizer bool
}

// Result is everything a Compile call produced: the generated code (nil if
// compilation failed), every diagnostic accumulated across all stages, and
// the symbol arena (nil if parsing failed before semantic analysis could
// run) for a driver that wants a symbol dump (§1, §9).
type Result struct {
	Code  []vm.Instruction
	Diags diag.List
	Arena *symtab.Arena
	AST   *ast.Program
}

// Compile runs the full pipeline: lex+parse, optionally optimize, analyze,
// and generate code. Codegen is skipped if any stage before it reported a
// diagnostic (§7); Result.Code is nil in that case.
func Compile(src string, opts Options) Result {
	prog, perrs := parser.Parse(src)
	result := Result{Diags: perrs, AST: prog}
	if perrs.HasErrors() {
		return result
	}

	if !opts.SkipOptimizer {
		prog = optimizer.Optimize(prog)
	}

	arena, serrs := semantic.Analyze(prog)
	result.Diags = append(result.Diags, serrs...)
	result.Arena = arena
	if serrs.HasErrors() {
		return result
	}

	result.Code = codegen.Generate(prog, arena)
	return result
}
