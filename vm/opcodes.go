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

package vm

// Opcode identifies a p-code instruction.
type Opcode uint8

// The PL/0 p-code instruction set (§4.6 of the reference spec).
const (
	LIT Opcode = iota // push literal A
	OPR               // operate; A selects the operation (see Opr* constants)
	LOD               // push stack[base(L)+A]
	STO               // pop into stack[base(L)+A]
	CAL               // call procedure at A, L levels up
	INT               // adjust T by A (reserve/release stack slots)
	JMP               // unconditional jump to A
	JPC               // pop; jump to A if the popped value is zero
	RED               // pop one integer from the input queue into stack[base(L)+A]
	WRT               // pop and append as a decimal output line
)

var opcodeNames = [...]string{
	LIT: "LIT",
	OPR: "OPR",
	LOD: "LOD",
	STO: "STO",
	CAL: "CAL",
	INT: "INT",
	JMP: "JMP",
	JPC: "JPC",
	RED: "RED",
	WRT: "WRT",
}

// opcodeIndex maps a mnemonic back to its Opcode, mirroring the
// name-table-plus-reverse-lookup idiom used throughout this codebase's
// assembly codec.
var opcodeIndex = make(map[string]Opcode, len(opcodeNames))

func init() {
	for op, name := range opcodeNames {
		opcodeIndex[name] = Opcode(op)
	}
}

// String returns the upper-case mnemonic for op, or "???" for an out of
// range value.
func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "???"
}

// OpcodeByName looks up an Opcode by its upper-case mnemonic.
func OpcodeByName(name string) (Opcode, bool) {
	op, ok := opcodeIndex[name]
	return op, ok
}

// OPR sub-operation codes, carried in an OPR instruction's A field.
const (
	OprRet Cell = 0
	OprNeg Cell = 1
	OprAdd Cell = 2
	OprSub Cell = 3
	OprMul Cell = 4
	OprDiv Cell = 5
	OprOdd Cell = 6
	OprEql Cell = 8
	OprNeq Cell = 9
	OprLss Cell = 10
	OprGeq Cell = 11
	OprGtr Cell = 12
	OprLeq Cell = 13
)
