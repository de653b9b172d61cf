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

// Package vm implements the PL/0 p-code virtual machine.
//
// The VM executes a flat Instruction vector against a stack of 64-bit signed
// integers. Activation records are lexically scoped: every active frame
// carries a static link (base of the lexically enclosing frame), a dynamic
// link (base of the caller's frame) and a return address, at offsets 0, 1
// and 2 from the frame's base register B. Non-local variable and procedure
// references are resolved at compile time to a (level-difference, offset)
// pair; the VM walks L static-link hops from B to find the frame that owns
// the address.
//
// Execution never blocks. A RED with no pending input transitions the VM to
// WaitingForInput and returns control to the caller, which is expected to
// push input values and resume by calling Step or Run again. This lets a
// batch driver, a test, or an interactive front-end share the same engine.
package vm
