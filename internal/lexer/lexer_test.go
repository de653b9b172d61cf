package lexer

import (
	"testing"

	"github.com/dcrane/pl0/internal/token"
)

func kinds(src string) []token.Kind {
	l := New(src)
	var out []token.Kind
	for {
		tok := l.Next()
		out = append(out, tok.Kind)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	got := kinds("program const varname")
	want := []token.Kind{token.Program, token.Const, token.Ident, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTwoCharOperators(t *testing.T) {
	got := kinds(":= <= >= <> < = #")
	want := []token.Kind{
		token.Assign, token.Leq, token.Geq, token.Neq,
		token.Lss, token.Eq, token.Neq, token.EOF,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind[%d] = %v, want %v (%v)", i, got[i], want[i], got)
		}
	}
}

func TestBareColonIsUnknown(t *testing.T) {
	l := New(": x")
	tok := l.Next()
	if tok.Kind != token.Unknown || tok.Text != ":" {
		t.Fatalf("tok = %+v, want Unknown(:)", tok)
	}
}

func TestIntegerLiteral(t *testing.T) {
	l := New("42 7")
	tok := l.Next()
	if tok.Kind != token.Int || tok.Value != 42 {
		t.Fatalf("tok = %+v, want Int(42)", tok)
	}
}

func TestIntegerOverflowYieldsUnknown(t *testing.T) {
	l := New("99999999999999999999999999")
	tok := l.Next()
	if tok.Kind != token.Unknown {
		t.Fatalf("tok.Kind = %v, want Unknown", tok.Kind)
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := New("")
	for i := 0; i < 3; i++ {
		if tok := l.Next(); tok.Kind != token.EOF {
			t.Fatalf("call %d: kind = %v, want EOF", i, tok.Kind)
		}
	}
}

func TestLineColumnTracking(t *testing.T) {
	l := New("a\nbb")
	first := l.Next()
	if first.Position.Line != 1 {
		t.Fatalf("first.Line = %d, want 1", first.Position.Line)
	}
	second := l.Next()
	if second.Position.Line != 2 {
		t.Fatalf("second.Line = %d, want 2", second.Position.Line)
	}
}

func TestCaseSensitiveKeywords(t *testing.T) {
	l := New("BEGIN")
	tok := l.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("kind = %v, want Ident (keywords are case-sensitive)", tok.Kind)
	}
}
