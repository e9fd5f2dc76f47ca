package token

import (
	"errors"
	"fmt"
)

// ErrMalformed 输入不符合 JSON 语法（词法或结构）
var ErrMalformed = errors.New("vjson: malformed input")

// SyntaxError 带字节偏移的语法错误，匹配 ErrMalformed
type SyntaxError struct {
	Msg    string
	Offset int64
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("vjson: %s at offset %d", e.Msg, e.Offset)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrMalformed }

// Errorf 构造 SyntaxError
func Errorf(off int64, format string, args ...any) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Offset: off}
}
