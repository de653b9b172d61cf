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

import (
	"io"

	"github.com/pkg/errors"
)

// Cell is the machine word: PL/0 values are 64-bit signed integers (§3).
type Cell = int64

// Instruction is one p-code record: an opcode, a static-level difference L,
// and a signed argument/address A.
type Instruction struct {
	Op Opcode
	L  uint8
	A  Cell
}

// Status is the execution status of a VM instance (§3).
type Status int

const (
	// Running means Step/Run may continue executing instructions.
	Running Status = iota
	// Halted means the outermost procedure's RET has fired; execution is
	// over and successful.
	Halted
	// WaitingForInput means a RED found no pending input; the caller must
	// supply some via PushInput before resuming.
	WaitingForInput
	// StatusError means a runtime fault occurred; see Instance.Err.
	StatusError
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case WaitingForInput:
		return "waiting-for-input"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

const defaultStackCapacity = 1024

// Option configures an Instance at construction time.
type Option func(*Instance)

// WithStackCapacity sets the number of data-stack slots available to the
// VM. The default is 1024, which is sufficient for the reference suite.
func WithStackCapacity(n int) Option {
	return func(i *Instance) { i.stack = make([]Cell, n) }
}

// WithInput seeds the pending-input FIFO with the given values, in order.
func WithInput(values ...Cell) Option {
	return func(i *Instance) { i.input = append(i.input, values...) }
}

// WithOutputSink mirrors every WRT-produced line to w, in addition to the
// lines being recorded on the Instance and retrievable via Output. A nil w
// disables mirroring (the default).
func WithOutputSink(w io.Writer) Option {
	return func(i *Instance) { i.sink = newLineSink(w) }
}

// Instance is a single, independent VM execution context.
type Instance struct {
	code  []Instruction
	stack []Cell
	P, B, T int

	I Instruction // last-fetched instruction

	status Status
	err    error

	output []string
	input  []Cell
	sink   lineSink

	steps int64
}

// New creates a VM instance ready to execute code from instruction 0. code
// is retained and must not be mutated afterwards.
func New(code []Instruction, opts ...Option) *Instance {
	i := &Instance{
		code:   code,
		status: Running,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.stack == nil {
		i.stack = make([]Cell, defaultStackCapacity)
	}
	return i
}

// Status returns the current execution status.
func (i *Instance) Status() Status { return i.status }

// Err returns the error that caused StatusError, or nil.
func (i *Instance) Err() error { return i.err }

// StepCount returns the number of instructions executed so far.
func (i *Instance) StepCount() int64 { return i.steps }

// Output returns the lines written so far, in emission order.
func (i *Instance) Output() []string { return i.output }

// Registers returns the P, B and T registers.
func (i *Instance) Registers() (p, b, t int) { return i.P, i.B, i.T }

// Stack returns the live portion of the data stack, stack[0:T].
func (i *Instance) Stack() []Cell {
	return i.stack[:i.T]
}

// PushInput appends values to the pending-input FIFO and, if the VM was
// blocked on RED, resumes it.
func (i *Instance) PushInput(values ...Cell) {
	i.input = append(i.input, values...)
	if i.status == WaitingForInput {
		i.status = Running
	}
}

// Snapshot is a point-in-time, structured view of VM state, suitable for a
// driver or test to render or compare without reaching into Instance
// internals.
type Snapshot struct {
	P, B, T  int
	Status   Status
	Steps    int64
	Stack    []Cell
	Output   []string
	LastInst Instruction
}

// Snapshot captures the current VM state.
func (i *Instance) Snapshot() Snapshot {
	stack := make([]Cell, i.T)
	copy(stack, i.stack[:i.T])
	output := make([]string, len(i.output))
	copy(output, i.output)
	return Snapshot{
		P: i.P, B: i.B, T: i.T,
		Status:   i.status,
		Steps:    i.steps,
		Stack:    stack,
		Output:   output,
		LastInst: i.I,
	}
}

// Run executes instructions until the status stops being Running. It
// returns the error that caused StatusError, or nil on Halted/WaitingForInput.
func (i *Instance) Run() error {
	for i.status == Running {
		if err := i.Step(); err != nil {
			return err
		}
	}
	if i.status == StatusError {
		return i.err
	}
	return nil
}

// fault transitions the VM to StatusError with a wrapped message naming the
// faulting instruction.
func (i *Instance) fault(err error) error {
	i.status = StatusError
	i.err = errors.Wrapf(err, "runtime error at P=%d", i.P)
	return i.err
}
