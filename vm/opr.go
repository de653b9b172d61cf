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

// execOpr dispatches an OPR instruction's sub-operation, carried in A
// (§4.6 OPR sub-semantics).
func (i *Instance) execOpr(instr Instruction) error {
	switch instr.A {
	case OprRet:
		return i.execRet()
	case OprNeg:
		if i.T < 1 {
			return i.fault(errors.New("stack underflow"))
		}
		i.stack[i.T-1] = -i.stack[i.T-1]
		return nil
	case OprAdd:
		return i.binary(func(lhs, rhs Cell) Cell { return lhs + rhs })
	case OprSub:
		return i.binary(func(lhs, rhs Cell) Cell { return lhs - rhs })
	case OprMul:
		return i.binary(func(lhs, rhs Cell) Cell { return lhs * rhs })
	case OprDiv:
		return i.divide()
	case OprOdd:
		if i.T < 1 {
			return i.fault(errors.New("stack underflow"))
		}
		i.stack[i.T-1] = i.stack[i.T-1] % 2
		return nil
	case OprEql:
		return i.compare(func(lhs, rhs Cell) bool { return lhs == rhs })
	case OprNeq:
		return i.compare(func(lhs, rhs Cell) bool { return lhs != rhs })
	case OprLss:
		return i.compare(func(lhs, rhs Cell) bool { return lhs < rhs })
	case OprGeq:
		return i.compare(func(lhs, rhs Cell) bool { return lhs >= rhs })
	case OprGtr:
		return i.compare(func(lhs, rhs Cell) bool { return lhs > rhs })
	case OprLeq:
		return i.compare(func(lhs, rhs Cell) bool { return lhs <= rhs })
	default:
		return i.fault(errors.Errorf("illegal OPR sub-operation %d", instr.A))
	}
}

// execRet pops the current frame: T is reset to B, P and B are restored from
// the frame's return-address and dynamic-link slots. A restored P of 0 (the
// outermost frame's sentinel return address) halts the machine.
func (i *Instance) execRet() error {
	if i.B+2 >= len(i.stack) || i.B < 0 {
		return i.fault(errors.New("corrupt activation record"))
	}
	i.T = i.B
	retAddr := i.stack[i.T+2]
	i.B = int(i.stack[i.T+1])
	i.P = int(retAddr)
	if i.P == 0 {
		i.status = Halted
	}
	return nil
}

func (i *Instance) binary(op func(lhs, rhs Cell) Cell) error {
	if i.T < 2 {
		return i.fault(errors.New("stack underflow"))
	}
	rhs := i.stack[i.T-1]
	i.stack[i.T-2] = op(i.stack[i.T-2], rhs)
	i.T--
	return nil
}

func (i *Instance) compare(cmp func(lhs, rhs Cell) bool) error {
	if i.T < 2 {
		return i.fault(errors.New("stack underflow"))
	}
	rhs := i.stack[i.T-1]
	lhs := i.stack[i.T-2]
	i.stack[i.T-2] = boolCell(cmp(lhs, rhs))
	i.T--
	return nil
}

func (i *Instance) divide() error {
	if i.T < 2 {
		return i.fault(errors.New("stack underflow"))
	}
	rhs := i.stack[i.T-1]
	if rhs == 0 {
		return i.fault(errors.New("division by zero"))
	}
	i.stack[i.T-2] /= rhs
	i.T--
	return nil
}

func boolCell(b bool) Cell {
	if b {
		return 1
	}
	return 0
}
