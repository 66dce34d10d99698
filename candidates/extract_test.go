package candidates

import (
	"testing"
)

func TestExtractProgram(t *testing.T) {

	t.Run("language tag", func(t *testing.T) {
		program, ok := ExtractProgram("here you go:\n```dafny\nmethod Foo() {}\n```\n")
		if !ok {
			t.Fatal("not extracted")
		}
		if program != "method Foo() {}" {
			t.Fatalf("got %q", program)
		}
	})

	t.Run("no tag", func(t *testing.T) {
		program, ok := ExtractProgram("```\nx := 1\n```")
		if !ok {
			t.Fatal("not extracted")
		}
		if program != "x := 1" {
			t.Fatalf("got %q", program)
		}
	})

	t.Run("no block", func(t *testing.T) {
		_, ok := ExtractProgram("I could not produce a program.")
		if ok {
			t.Fatal("should not extract")
		}
	})

	t.Run("unclosed block", func(t *testing.T) {
		_, ok := ExtractProgram("```dafny\nmethod Foo() {}")
		if ok {
			t.Fatal("should not extract")
		}
	})

	t.Run("multiple blocks take first", func(t *testing.T) {
		program, ok := ExtractProgram("```dafny\nfirst\n```\ntext\n```dafny\nsecond\n```")
		if !ok {
			t.Fatal("not extracted")
		}
		if program != "first" {
			t.Fatalf("got %q", program)
		}
	})

	t.Run("multi-line program", func(t *testing.T) {
		program, ok := ExtractProgram("```dafny\nmethod Foo()\n{\n}\n```")
		if !ok {
			t.Fatal("not extracted")
		}
		if program != "method Foo()\n{\n}" {
			t.Fatalf("got %q", program)
		}
	})

}
