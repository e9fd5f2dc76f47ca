package token

import (
	"errors"
	"io"
	"testing"
)

// TestSliceCursor 测试切片游标与计数
func TestSliceCursor(t *testing.T) {
	c := Count(NewSliceCursor(
		Token{Kind: ArrayStart},
		Token{Kind: Number, Text: "1"},
		Token{Kind: ArrayEnd},
	))
	toks, err := Collect(c)
	if err != nil || len(toks) != 3 {
		t.Fatalf("Collect = %v, %v", toks, err)
	}
	if c.N() != 3 {
		t.Errorf("N = %d, want 3", c.N())
	}
	if _, err := c.Next(); err != io.EOF {
		t.Errorf("Next after end = %v, want io.EOF", err)
	}
}

// TestKind 测试类型判定
func TestKind(t *testing.T) {
	for _, k := range []Kind{String, Number, True, False, Null} {
		if !k.IsScalar() {
			t.Errorf("%s should be scalar", k)
		}
	}
	for _, k := range []Kind{ObjectStart, ArrayEnd, Name, Invalid} {
		if k.IsScalar() {
			t.Errorf("%s should not be scalar", k)
		}
	}
	if ObjectStart.Closer() != ObjectEnd || ArrayStart.Closer() != ArrayEnd || Name.Closer() != Invalid {
		t.Error("Closer mismatch")
	}
}

// TestSyntaxError 测试语法错误匹配
func TestSyntaxError(t *testing.T) {
	err := Errorf(12, "bad %s", "thing")
	if !errors.Is(err, ErrMalformed) {
		t.Error("SyntaxError should match ErrMalformed")
	}
	if err.Offset != 12 || err.Error() == "" {
		t.Errorf("err = %+v", err)
	}
}
