package asmtext

import (
	"testing"

	"github.com/dcrane/pl0/vm"
)

func TestDisassembleFormatsOneInstructionPerLine(t *testing.T) {
	code := []vm.Instruction{
		{Op: vm.LIT, L: 0, A: 14},
		{Op: vm.OPR, L: 0, A: vm.OprRet},
	}
	got := Disassemble(code)
	want := "LIT 0 14\nOPR 0 0\n"
	if got != want {
		t.Fatalf("Disassemble = %q, want %q", got, want)
	}
}

func TestAssembleParsesMnemonicsCaseInsensitively(t *testing.T) {
	code, err := Assemble("lit 0 5\nWRT 0 0\n")
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if len(code) != 2 || code[0].Op != vm.LIT || code[0].A != 5 {
		t.Fatalf("code = %+v", code)
	}
}

func TestAssembleHandlesNegativeOperands(t *testing.T) {
	code, err := Assemble("STO 1 -2\n")
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if len(code) != 1 || code[0].A != -2 {
		t.Fatalf("code = %+v", code)
	}
}

func TestAssembleIgnoresBlankLines(t *testing.T) {
	code, err := Assemble("LIT 0 1\n\n\nWRT 0 0\n\n")
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if len(code) != 2 {
		t.Fatalf("code = %+v, want 2 instructions", code)
	}
}

func TestAssembleRejectsUnknownMnemonic(t *testing.T) {
	_, err := Assemble("FOO 0 0\n")
	if err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
}

func TestAssembleRejectsMalformedOperand(t *testing.T) {
	_, err := Assemble("LIT 0 x\n")
	if err == nil {
		t.Fatal("expected an error for a non-integer operand")
	}
}

func TestRoundTripIsByteStable(t *testing.T) {
	code := []vm.Instruction{
		{Op: vm.JMP, L: 0, A: 3},
		{Op: vm.INT, L: 0, A: 4},
		{Op: vm.LOD, L: 1, A: -2},
		{Op: vm.CAL, L: 2, A: 7},
		{Op: vm.OPR, L: 0, A: vm.OprAdd},
	}
	text := Disassemble(code)
	back, err := Assemble(text)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if len(back) != len(code) {
		t.Fatalf("round trip length mismatch: %d vs %d", len(back), len(code))
	}
	for i := range code {
		if back[i] != code[i] {
			t.Fatalf("instruction %d: got %+v, want %+v", i, back[i], code[i])
		}
	}
	if Disassemble(back) != text {
		t.Fatalf("re-disassembly not byte stable")
	}
}
