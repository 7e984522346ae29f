package lexer

import (
	"testing"

	"srchash/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.c", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("Peek = %q, want %q", got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() {
		t.Fatal("expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("Peek/Bump must return 0 at EOF")
	}
}

func TestPeekAt(t *testing.T) {
	cursor := NewCursor(createFile("abc"))
	cursor.Bump()
	if got := cursor.PeekAt(1); got != 'c' {
		t.Fatalf("PeekAt(1) = %q", got)
	}
	if got := cursor.PeekAt(2); got != 0 {
		t.Fatalf("PeekAt past end = %q", got)
	}
}

func TestLineEnd(t *testing.T) {
	cursor := NewCursor(createFile("ab\ncd"))
	if got := cursor.LineEnd(); got != 2 {
		t.Fatalf("LineEnd = %d, want 2", got)
	}
	cursor.Off = 3
	if got := cursor.LineEnd(); got != 5 {
		t.Fatalf("LineEnd on last line = %d, want 5", got)
	}
	if cursor.Off != 3 {
		t.Fatal("LineEnd must not move the cursor")
	}
}

func TestSpanFrom(t *testing.T) {
	cursor := NewCursor(createFile("α\nβ"))
	mark := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	span := cursor.SpanFrom(mark)
	if span.Start != 0 || span.End != 2 {
		t.Fatalf("span = %v, want 0..2", span)
	}
}

// TestEatMarkReset проверяет Eat, Mark и Reset
func TestEatMarkReset(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	if !cursor.Eat('a') || !cursor.Eat('\n') {
		t.Fatal("expected Eat to consume matching bytes")
	}
	mark := cursor.Mark()
	if cursor.Eat('x') {
		t.Fatal("Eat must fail on mismatch")
	}
	if !cursor.Eat('b') || !cursor.EOF() {
		t.Fatal("expected EOF after last byte")
	}
	if cursor.Eat('b') {
		t.Fatal("Eat must fail at EOF")
	}
	cursor.Reset(mark)
	if cursor.Peek() != 'b' {
		t.Fatalf("Peek after Reset = %q", cursor.Peek())
	}
}
