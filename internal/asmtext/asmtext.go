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

// Package asmtext implements the plain-text assembly codec (§6): one
// instruction per line as "MNEMONIC L A", blank lines ignored. It is the
// round-trip surface `pl0 asm`/`pl0 disasm` operate on, grounded on this
// codebase's own assembler/disassembler pair, generalized from a
// line-oriented hand parser to a text/scanner-driven one since the p-code
// line format (three whitespace-separated fields, no labels) is exactly
// the kind of simple tokenization text/scanner is built for.
package asmtext

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"

	"github.com/dcrane/pl0/vm"
)

// Disassemble renders code as assembly text, one "MNEMONIC L A" line per
// instruction.
func Disassemble(code []vm.Instruction) string {
	var b strings.Builder
	for _, instr := range code {
		fmt.Fprintf(&b, "%s %d %d\n", instr.Op.String(), instr.L, instr.A)
	}
	return b.String()
}

// Assemble parses src back into instructions. Blank lines and any
// whitespace between fields are insignificant; an unrecognized mnemonic or
// a malformed operand is reported with its source line number.
func Assemble(src string) ([]vm.Instruction, error) {
	var sc scanner.Scanner
	sc.Init(strings.NewReader(src))
	sc.Mode = scanner.ScanIdents | scanner.ScanInts
	sc.Error = func(*scanner.Scanner, string) {} // surfaced via our own token checks instead

	var code []vm.Instruction
	for {
		tok := sc.Scan()
		if tok == scanner.EOF {
			break
		}
		if tok != scanner.Ident {
			return nil, errors.Errorf("line %d: expected a mnemonic, found %q", sc.Line, sc.TokenText())
		}
		name := strings.ToUpper(sc.TokenText())
		op, ok := vm.OpcodeByName(name)
		if !ok {
			return nil, errors.Errorf("line %d: unknown mnemonic %q", sc.Line, sc.TokenText())
		}

		l, err := scanOperand(&sc)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: level operand", sc.Line)
		}
		if l < 0 || l > 255 {
			return nil, errors.Errorf("line %d: level %d out of range", sc.Line, l)
		}

		a, err := scanOperand(&sc)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: address operand", sc.Line)
		}

		code = append(code, vm.Instruction{Op: op, L: uint8(l), A: vm.Cell(a)})
	}
	return code, nil
}

// scanOperand reads one signed integer, which text/scanner tokenizes as an
// optional leading '-' followed by a separate Int token.
func scanOperand(sc *scanner.Scanner) (int64, error) {
	tok := sc.Scan()
	neg := false
	if tok == '-' {
		neg = true
		tok = sc.Scan()
	}
	if tok != scanner.Int {
		return 0, errors.Errorf("expected an integer, found %q", sc.TokenText())
	}
	v, err := strconv.ParseInt(sc.TokenText(), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid integer literal")
	}
	if neg {
		v = -v
	}
	return v, nil
}
