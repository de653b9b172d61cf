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

import "github.com/pkg/errors"

// Step executes a single instruction and increments the instruction
// counter. It is a no-op that returns nil if the VM is not Running.
func (i *Instance) Step() error {
	if i.status != Running {
		return nil
	}
	if i.P < 0 || i.P >= len(i.code) {
		return i.fault(errors.Errorf("program counter out of range: %d", i.P))
	}
	instr := i.code[i.P]
	i.I = instr
	i.P++

	var err error
	switch instr.Op {
	case LIT:
		err = i.push(instr.A)
	case LOD:
		err = i.exec1(instr, func(idx int) error {
			return i.push(i.stack[idx])
		})
	case STO:
		err = i.execStore(instr)
	case CAL:
		err = i.execCall(instr)
	case INT:
		i.T += int(instr.A)
	case JMP:
		i.P = int(instr.A)
	case JPC:
		err = i.execJpc(instr)
	case RED:
		err = i.execRed(instr)
	case WRT:
		err = i.execWrt()
	case OPR:
		err = i.execOpr(instr)
	default:
		err = i.fault(errors.Errorf("illegal opcode %d", instr.Op))
	}
	if err != nil {
		return err
	}
	i.steps++
	return nil
}

// exec1 resolves the (L, A) operand of instr and invokes fn with the
// resulting absolute stack address.
func (i *Instance) exec1(instr Instruction, fn func(idx int) error) error {
	idx, err := i.addr(instr.L, instr.A)
	if err != nil {
		return err
	}
	return fn(idx)
}

func (i *Instance) execStore(instr Instruction) error {
	idx, err := i.addr(instr.L, instr.A)
	if err != nil {
		return err
	}
	v, err := i.pop()
	if err != nil {
		return err
	}
	i.stack[idx] = v
	return nil
}

// execCall implements the static-link calling convention (§4.6): the new
// frame's static link, dynamic link and return address are written at the
// current T without advancing it; the callee's own INT reserves its locals.
func (i *Instance) execCall(instr Instruction) error {
	base := i.base(instr.L)
	for k, v := range [3]Cell{Cell(base), Cell(i.B), Cell(i.P)} {
		if i.T+k >= len(i.stack) {
			return i.fault(errors.New("stack overflow"))
		}
		i.stack[i.T+k] = v
	}
	i.B = i.T
	i.P = int(instr.A)
	return nil
}

func (i *Instance) execJpc(instr Instruction) error {
	v, err := i.pop()
	if err != nil {
		return err
	}
	if v == 0 {
		i.P = int(instr.A)
	}
	return nil
}

func (i *Instance) execWrt() error {
	v, err := i.pop()
	if err != nil {
		return err
	}
	line := formatCell(v)
	i.output = append(i.output, line)
	if i.sink != nil {
		if err := i.sink.WriteLine(line); err != nil {
			return i.fault(errors.Wrap(err, "output sink write failed"))
		}
	}
	return nil
}

// execRed implements RED's cooperative suspension: with no pending input the
// VM re-decrements P so the same instruction re-executes once input arrives.
func (i *Instance) execRed(instr Instruction) error {
	idx, err := i.addr(instr.L, instr.A)
	if err != nil {
		return err
	}
	if len(i.input) == 0 {
		i.P--
		i.status = WaitingForInput
		return nil
	}
	v := i.input[0]
	i.input = i.input[1:]
	i.stack[idx] = v
	return nil
}
