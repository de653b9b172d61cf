package codegen

import (
	"testing"

	"github.com/dcrane/pl0/internal/parser"
	"github.com/dcrane/pl0/internal/semantic"
	"github.com/dcrane/pl0/vm"
)

func compile(t *testing.T, src string) []vm.Instruction {
	t.Helper()
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	arena, serrs := semantic.Analyze(prog)
	if serrs.HasErrors() {
		t.Fatalf("semantic errors: %v", serrs)
	}
	return Generate(prog, arena)
}

func run(t *testing.T, code []vm.Instruction, input ...vm.Cell) *vm.Instance {
	t.Helper()
	inst := vm.New(code, vm.WithInput(input...))
	if err := inst.Run(); err != nil {
		t.Fatalf("vm run error: %v", err)
	}
	if inst.Status() != vm.Halted {
		t.Fatalf("status = %v, want Halted", inst.Status())
	}
	return inst
}

func TestArithmeticExpression(t *testing.T) {
	code := compile(t, `program p; begin write(2+3*4) end.`)
	inst := run(t, code)
	if got := inst.Output(); len(got) != 1 || got[0] != "14" {
		t.Fatalf("output = %v, want [14]", got)
	}
}

func TestVariablesAndAssignment(t *testing.T) {
	code := compile(t, `program p; var x, y; begin x := 10; y := x*x; write y end.`)
	inst := run(t, code)
	if got := inst.Output(); len(got) != 1 || got[0] != "100" {
		t.Fatalf("output = %v, want [100]", got)
	}
}

func TestConstantIsInlinedAsLiteral(t *testing.T) {
	code := compile(t, `program p; const c = 42; begin write c end.`)
	inst := run(t, code)
	if got := inst.Output(); len(got) != 1 || got[0] != "42" {
		t.Fatalf("output = %v, want [42]", got)
	}
}

func TestIfThenElse(t *testing.T) {
	code := compile(t, `program p; var x; begin x := 5; if x > 3 then write 1 else write 0 end.`)
	inst := run(t, code)
	if got := inst.Output(); len(got) != 1 || got[0] != "1" {
		t.Fatalf("output = %v, want [1]", got)
	}
}

func TestWhileLoopCountsDown(t *testing.T) {
	code := compile(t, `program p; var x; begin x := 3; while x > 0 do begin write x; x := x-1 end end.`)
	inst := run(t, code)
	want := []string{"3", "2", "1"}
	got := inst.Output()
	if len(got) != len(want) {
		t.Fatalf("output = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output = %v, want %v", got, want)
		}
	}
}

func TestReadThenWrite(t *testing.T) {
	code := compile(t, `program p; var x; begin read x; write x+1 end.`)
	inst := vm.New(code)
	if err := inst.Run(); err != nil {
		t.Fatalf("vm run error: %v", err)
	}
	if inst.Status() != vm.WaitingForInput {
		t.Fatalf("status = %v, want WaitingForInput", inst.Status())
	}
	inst.PushInput(41)
	if err := inst.Run(); err != nil {
		t.Fatalf("vm run error: %v", err)
	}
	if inst.Status() != vm.Halted {
		t.Fatalf("status = %v, want Halted", inst.Status())
	}
	if got := inst.Output(); len(got) != 1 || got[0] != "42" {
		t.Fatalf("output = %v, want [42]", got)
	}
}

func TestProcedureCallWithParameters(t *testing.T) {
	code := compile(t, `program p; var z; procedure mul(a, b); begin z := a*b end; begin call mul(6, 7); write z end.`)
	inst := run(t, code)
	if got := inst.Output(); len(got) != 1 || got[0] != "42" {
		t.Fatalf("output = %v, want [42]", got)
	}
}

func TestRecursiveProcedure(t *testing.T) {
	// Computes 5! via a recursive procedure storing (n, acc) in globals.
	src := `program p;
		var n, acc;
		procedure fact;
			begin
				if n <= 1 then acc := acc
				else begin acc := acc*n; n := n-1; call fact end
			end;
		begin n := 5; acc := 1; call fact; write acc end.`
	code := compile(t, src)
	inst := run(t, code)
	if got := inst.Output(); len(got) != 1 || got[0] != "120" {
		t.Fatalf("output = %v, want [120]", got)
	}
}

func TestSiblingProceduresCallEachOtherAcrossLevels(t *testing.T) {
	src := `program p;
		var x;
		procedure a;
			begin call b end;
		procedure b;
			begin x := 99 end;
		begin call a; write x end.`
	code := compile(t, src)
	inst := run(t, code)
	if got := inst.Output(); len(got) != 1 || got[0] != "99" {
		t.Fatalf("output = %v, want [99]", got)
	}
}

func TestNestedProcedureAccessesOuterVariable(t *testing.T) {
	src := `program p;
		var total;
		procedure outer;
			var x;
			procedure inner;
				begin total := total + x end;
			begin x := 7; call inner end;
		begin total := 0; call outer; write total end.`
	code := compile(t, src)
	inst := run(t, code)
	if got := inst.Output(); len(got) != 1 || got[0] != "7" {
		t.Fatalf("output = %v, want [7]", got)
	}
}

func TestOddPredicate(t *testing.T) {
	code := compile(t, `program p; var x; begin x := 7; if odd x then write 1 else write 0 end.`)
	inst := run(t, code)
	if got := inst.Output(); len(got) != 1 || got[0] != "1" {
		t.Fatalf("output = %v, want [1]", got)
	}
}

func TestRecursiveProcedureWithParameterProducesCorrectFactorial(t *testing.T) {
	src := `program p;
		var n, f;
		procedure fact(k);
			begin if k = 0 then f := 1 else begin call fact(k-1); f := f*k end end;
		begin read(n); write(n); call fact(n); write(f) end.`
	code := compile(t, src)
	inst := vm.New(code, vm.WithInput(5))
	if err := inst.Run(); err != nil {
		t.Fatalf("vm run error: %v", err)
	}
	if inst.Status() != vm.Halted {
		t.Fatalf("status = %v, want Halted (err=%v)", inst.Status(), inst.Err())
	}
	want := []string{"5", "120"}
	got := inst.Output()
	if len(got) != len(want) {
		t.Fatalf("output = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output = %v, want %v", got, want)
		}
	}
}

// TestSequentialCallsWithArgumentsDoNotLeakStackSlots guards against a
// codegen that forgets the §4.5 "emit INT 0 -argCount after return" step: a
// missing pop leaves one dead slot behind every call, and a loop issuing
// many sequential (non-nested) calls would grow the stack without bound.
// Recursive call chains don't expose this, since the outermost RET always
// resets T to B regardless of any debris left by interior returns.
func TestSequentialCallsWithArgumentsDoNotLeakStackSlots(t *testing.T) {
	src := `program p;
		var i;
		procedure noop(a);
			begin end;
		begin i := 0; while i < 50 do begin call noop(i); i := i+1 end end.`
	code := compile(t, src)
	inst := vm.New(code, vm.WithStackCapacity(20))
	if err := inst.Run(); err != nil {
		t.Fatalf("vm run error (likely a leaked argument slot overflowing the stack): %v", err)
	}
	if inst.Status() != vm.Halted {
		t.Fatalf("status = %v, want Halted (err=%v)", inst.Status(), inst.Err())
	}
}

func TestDivisionByZeroFaults(t *testing.T) {
	code := compile(t, `program p; var x; begin x := 1/0 end.`)
	inst := vm.New(code)
	err := inst.Run()
	if err == nil {
		t.Fatal("expected a division-by-zero fault")
	}
	if inst.Status() != vm.StatusError {
		t.Fatalf("status = %v, want StatusError", inst.Status())
	}
}
