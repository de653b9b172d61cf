package semantic

import (
	"testing"

	"github.com/dcrane/pl0/internal/parser"
	"github.com/dcrane/pl0/internal/symtab"
)

func TestDefinesConstsVarsAndProcs(t *testing.T) {
	src := `program p; const c = 70; var x, y; procedure inc; begin x := x+1 end; begin x := c; call inc; write x end.`
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	arena, errs := Analyze(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected semantic errors: %v", errs)
	}
	root := prog.Block.ScopeID
	cSym, ok := arena.Lookup(root, "c")
	if !ok || cSym.Kind != symtab.ConstantKind || cSym.ConstValue != 70 {
		t.Fatalf("c = %+v, ok=%v", cSym, ok)
	}
	xSym, ok := arena.Lookup(root, "x")
	if !ok || xSym.Kind != symtab.VariableKind || xSym.Offset != 3 {
		t.Fatalf("x = %+v, ok=%v", xSym, ok)
	}
	ySym, ok := arena.Lookup(root, "y")
	if !ok || ySym.Offset != 4 {
		t.Fatalf("y = %+v, ok=%v", ySym, ok)
	}
	incSym, ok := arena.Lookup(root, "inc")
	if !ok || incSym.Kind != symtab.ProcedureKind || incSym.Addr != -1 {
		t.Fatalf("inc = %+v, ok=%v", incSym, ok)
	}
}

func TestParameterOffsetsCountDownToMinusOne(t *testing.T) {
	src := `program p; var x, y, z; procedure mul(a, b); begin z := a*b end; begin call mul(x, y) end.`
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	arena, errs := Analyze(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected semantic errors: %v", errs)
	}
	procScope := prog.Block.Procs[0].Block.ScopeID
	aSym, _ := arena.Lookup(procScope, "a")
	bSym, _ := arena.Lookup(procScope, "b")
	if aSym.Offset != -2 || bSym.Offset != -1 {
		t.Fatalf("a.Offset=%d b.Offset=%d, want -2, -1", aSym.Offset, bSym.Offset)
	}
}

func TestSiblingProceduresCanCallEachOther(t *testing.T) {
	src := `program p; var x; procedure a; begin call b end; procedure b; begin x := 1 end; begin call a end.`
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	_, errs := Analyze(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected semantic errors: %v", errs)
	}
}

func TestRedefinitionIsReported(t *testing.T) {
	src := `program p; var x, x; begin x := 1 end.`
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	_, errs := Analyze(prog)
	if !errs.HasErrors() {
		t.Fatal("expected a redefinition error")
	}
}

func TestUndefinedIdentifierIsReported(t *testing.T) {
	src := `program p; begin x := 1 end.`
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	_, errs := Analyze(prog)
	if !errs.HasErrors() {
		t.Fatal("expected an undefined-identifier error")
	}
}

func TestAssigningToConstantIsKindMismatch(t *testing.T) {
	src := `program p; const c = 1; begin c := 2 end.`
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	_, errs := Analyze(prog)
	if !errs.HasErrors() {
		t.Fatal("expected a kind-mismatch error")
	}
}

func TestCallingAVariableIsKindMismatch(t *testing.T) {
	src := `program p; var x; begin call x end.`
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	_, errs := Analyze(prog)
	if !errs.HasErrors() {
		t.Fatal("expected a kind-mismatch error")
	}
}

func TestUsingAProcedureAsAValueIsKindMismatch(t *testing.T) {
	src := `program p; var x; procedure inc; begin x := x+1 end; begin x := inc end.`
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	_, errs := Analyze(prog)
	if !errs.HasErrors() {
		t.Fatal("expected a kind-mismatch error")
	}
}

func TestUndefinedIdentifierDiagnosticIsLineTagged(t *testing.T) {
	src := "program p;\nbegin\n  x := 1\nend."
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	_, errs := Analyze(prog)
	if !errs.HasErrors() {
		t.Fatal("expected an undefined-identifier error")
	}
	if errs[0].Position.Line != 3 {
		t.Fatalf("errs[0].Position.Line = %d, want 3", errs[0].Position.Line)
	}
}

func TestNestedBlockLookupReachesOuterScope(t *testing.T) {
	src := `program p; var x; procedure inc; begin x := x+1 end; begin call inc end.`
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		t.Fatalf("parse errors: %v", perrs)
	}
	arena, errs := Analyze(prog)
	if errs.HasErrors() {
		t.Fatalf("unexpected semantic errors: %v", errs)
	}
	procScope := prog.Block.Procs[0].Block.ScopeID
	sym, ok := arena.Lookup(procScope, "x")
	if !ok || sym.Level != 0 {
		t.Fatalf("x = %+v, ok=%v, want level 0 reachable from nested scope", sym, ok)
	}
}
