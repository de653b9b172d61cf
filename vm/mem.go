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

// base returns the address obtained by following L static-link hops from B
// (§4.6). L == 0 returns B itself.
func (i *Instance) base(l uint8) int {
	b := i.B
	for ; l > 0; l-- {
		b = int(i.stack[b])
	}
	return b
}

// push writes v at the top of the data stack and advances T. It transitions
// the VM to StatusError on overflow instead of panicking (§5).
func (i *Instance) push(v Cell) error {
	if i.T >= len(i.stack) {
		return i.fault(errors.New("stack overflow"))
	}
	i.stack[i.T] = v
	i.T++
	return nil
}

// pop decrements T and returns the value that was on top. It transitions the
// VM to StatusError on underflow instead of panicking (§5).
func (i *Instance) pop() (Cell, error) {
	if i.T <= 0 {
		return 0, i.fault(errors.New("stack underflow"))
	}
	i.T--
	return i.stack[i.T], nil
}

// addr resolves an (L, A) operand pair to an absolute stack index, bounds
// checked against the live stack.
func (i *Instance) addr(l uint8, a Cell) (int, error) {
	idx := i.base(l) + int(a)
	if idx < 0 || idx >= len(i.stack) {
		return 0, i.fault(errors.Errorf("address out of range: %d", idx))
	}
	return idx, nil
}
