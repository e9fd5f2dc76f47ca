// Package token 定义 Reader 消费的词法 token 契约
//
// 分词器只负责把文本切分为 token；嵌套与语法校验由 reader 完成。
package token

import "io"

// Kind token 类型
type Kind uint8

const (
	Invalid     Kind = iota
	ObjectStart      // {
	ObjectEnd        // }
	ArrayStart       // [
	ArrayEnd         // ]
	Name             // 对象成员名（字符串后紧跟 ':'）
	String           // 字符串字面量
	Number           // 数字字面量（Text 为原始文本）
	True             // true
	False            // false
	Null             // null
)

// String 返回类型名称
func (k Kind) String() string {
	switch k {
	case ObjectStart:
		return "'{'"
	case ObjectEnd:
		return "'}'"
	case ArrayStart:
		return "'['"
	case ArrayEnd:
		return "']'"
	case Name:
		return "name"
	case String:
		return "string"
	case Number:
		return "number"
	case True:
		return "true"
	case False:
		return "false"
	case Null:
		return "null"
	default:
		return "invalid"
	}
}

// IsScalar 是否为标量字面量
func (k Kind) IsScalar() bool {
	return k >= String && k <= Null
}

// Closer 返回起始 token 对应的结束 token，非起始 token 返回 Invalid
func (k Kind) Closer() Kind {
	switch k {
	case ObjectStart:
		return ObjectEnd
	case ArrayStart:
		return ArrayEnd
	default:
		return Invalid
	}
}

// Token 词法 token
//
// Name/String: Text 为已解转义的内容；Number: Text 为原始字面量。
type Token struct {
	Text   string
	Offset int64 // token 在输入中的字节偏移（诊断用）
	Kind   Kind
}

// Cursor 拉取式 token 游标，输入结束时返回 io.EOF
type Cursor interface {
	Next() (Token, error)
}

// ─── 辅助游标 ───

// SliceCursor 在预先给定的 token 序列上迭代
type SliceCursor struct {
	toks []Token
	pos  int
}

// NewSliceCursor 创建切片游标
func NewSliceCursor(toks ...Token) *SliceCursor {
	return &SliceCursor{toks: toks}
}

// Next 返回下一个 token
func (c *SliceCursor) Next() (Token, error) {
	if c.pos >= len(c.toks) {
		return Token{}, io.EOF
	}
	t := c.toks[c.pos]
	c.pos++
	return t, nil
}

// Remaining 未消费的 token 数
func (c *SliceCursor) Remaining() int { return len(c.toks) - c.pos }

// Counting 统计已拉取 token 数的游标包装
type Counting struct {
	Cursor
	n int
}

// Count 包装游标
func Count(c Cursor) *Counting { return &Counting{Cursor: c} }

// Next 拉取并计数
func (c *Counting) Next() (Token, error) {
	t, err := c.Cursor.Next()
	if err == nil {
		c.n++
	}
	return t, err
}

// N 已成功拉取的 token 数
func (c *Counting) N() int { return c.n }

// Collect 读尽游标（测试与调试用）
func Collect(c Cursor) ([]Token, error) {
	var out []Token
	for {
		t, err := c.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
}
