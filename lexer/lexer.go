// Package lexer 把 JSON 文本切分为 token.Token 流
//
// Lexer 实现 token.Cursor，负责字面量、逗号与冒号的词法校验；
// 嵌套配对与成员位置由 reader 校验。顶层允许以空白分隔的多个值（NDJSON）。
//
//	lx := lexer.New(`{"name":"Mr Robot"}`, nil)
//	v, err := reader.New(lx, nil).Read(model.NewBuilder(nil))
package lexer

import (
	"io"

	"github.com/uniyakcom/vjson/internal/intern"
	"github.com/uniyakcom/vjson/internal/source"
	"github.com/uniyakcom/vjson/token"
)

// DefaultMaxStringLength 单个字符串最大长度
const DefaultMaxStringLength = 1 << 24 // 16MB

// Config 分词器配置
type Config struct {
	// InternNames 成员名驻留 LRU 容量，0 关闭驻留
	InternNames int
	// MaxStringLength 单个字符串最大长度，0 使用 DefaultMaxStringLength
	MaxStringLength int
	// MaxInput Open 解压后的最大输入字节数，0 不限
	MaxInput int64
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	c := &Config{}
	c.defaults()
	return c
}

func (c *Config) defaults() {
	if c.MaxStringLength <= 0 {
		c.MaxStringLength = DefaultMaxStringLength
	}
}

// Lexer JSON 分词器（非并发安全）
type Lexer struct {
	s     string
	i     int
	depth int
	err   error // 首个错误，之后 Next 持续返回

	afterValue bool // 上一个 token 是完整的值
	afterComma bool // 刚消费 ','

	names  *intern.Interner
	maxStr int
}

// New 在字符串上创建分词器，cfg 为 nil 时使用默认配置
func New(s string, cfg *Config) *Lexer {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.defaults()
	l := &Lexer{s: s, maxStr: c.MaxStringLength}
	if c.InternNames > 0 {
		if in, err := intern.New(c.InternNames); err == nil {
			l.names = in
		}
	}
	return l
}

// NewBytes 在字节切片的副本上创建分词器
func NewBytes(b []byte, cfg *Config) *Lexer {
	return New(string(b), cfg)
}

// Open 读尽 r 并创建分词器，gzip / zstd / lz4 输入自动解压
func Open(r io.Reader, cfg *Config) (*Lexer, error) {
	var max int64
	if cfg != nil {
		max = cfg.MaxInput
	}
	b, _, err := source.ReadAll(r, max)
	if err != nil {
		return nil, err
	}
	return NewBytes(b, cfg), nil
}

// Offset 下一个 token 的扫描起点
func (l *Lexer) Offset() int64 { return int64(l.i) }

// Depth 当前未闭合的容器数
func (l *Lexer) Depth() int { return l.depth }

// Next 返回下一个 token，输入结束返回 io.EOF
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}
	t, err := l.next()
	if err != nil && err != io.EOF {
		l.err = err
	}
	return t, err
}

func (l *Lexer) next() (token.Token, error) {
	s := l.s
	i := skipWS(s, l.i)
	if l.afterValue && l.depth > 0 && i < len(s) && s[i] == ',' {
		l.afterValue = false
		l.afterComma = true
		i = skipWS(s, i+1)
	}
	l.i = i
	if i >= len(s) {
		if l.depth > 0 {
			return token.Token{}, token.Errorf(int64(i), "unexpected end of input")
		}
		return token.Token{}, io.EOF
	}

	c := s[i]
	off := int64(i)
	if l.afterValue && l.depth > 0 && c != '}' && c != ']' {
		return token.Token{}, token.Errorf(off, "expected ',' or closer, got %q", c)
	}

	switch c {
	case '{':
		return l.open(token.ObjectStart, off), nil
	case '[':
		return l.open(token.ArrayStart, off), nil
	case '}':
		return l.close(token.ObjectEnd, off)
	case ']':
		return l.close(token.ArrayEnd, off)
	case '"':
		return l.str(off)
	case 't':
		return l.literal("true", token.True, off)
	case 'f':
		return l.literal("false", token.False, off)
	case 'n':
		return l.literal("null", token.Null, off)
	default:
		if c == '-' || (c >= '0' && c <= '9') {
			end, err := scanNumber(s, i)
			if err != nil {
				return token.Token{}, err
			}
			return l.scalar(token.Number, s[i:end], off, end)
		}
		return token.Token{}, token.Errorf(off, "unexpected character %q", c)
	}
}

func (l *Lexer) open(k token.Kind, off int64) token.Token {
	l.depth++
	l.i = int(off) + 1
	l.afterValue = false
	l.afterComma = false
	return token.Token{Kind: k, Offset: off}
}

func (l *Lexer) close(k token.Kind, off int64) (token.Token, error) {
	if l.afterComma {
		return token.Token{}, token.Errorf(off, "trailing comma before %s", k)
	}
	if l.depth == 0 {
		return token.Token{}, token.Errorf(off, "unexpected %s", k)
	}
	l.depth--
	l.i = int(off) + 1
	l.afterValue = true
	return token.Token{Kind: k, Offset: off}, nil
}

// str 字符串后紧跟 ':' 时为成员名
func (l *Lexer) str(off int64) (token.Token, error) {
	text, end, err := scanString(l.s, int(off))
	if err != nil {
		return token.Token{}, err
	}
	if len(text) > l.maxStr {
		return token.Token{}, token.Errorf(off, "string too long (%d > %d)", len(text), l.maxStr)
	}
	if j := skipWS(l.s, end); j < len(l.s) && l.s[j] == ':' {
		if l.names != nil {
			text = l.names.Intern(text)
		}
		l.i = j + 1
		l.afterValue = false
		l.afterComma = false
		return token.Token{Kind: token.Name, Text: text, Offset: off}, nil
	}
	return l.scalar(token.String, text, off, end)
}

func (l *Lexer) literal(lit string, k token.Kind, off int64) (token.Token, error) {
	i := int(off)
	if len(l.s)-i < len(lit) || l.s[i:i+len(lit)] != lit {
		return token.Token{}, token.Errorf(off, "invalid literal, want %s", lit)
	}
	return l.scalar(k, "", off, i+len(lit))
}

func (l *Lexer) scalar(k token.Kind, text string, off int64, end int) (token.Token, error) {
	if end < len(l.s) && !isDelim(l.s[end]) && k != token.String {
		return token.Token{}, token.Errorf(int64(end), "invalid character %q after %s", l.s[end], k)
	}
	l.i = end
	l.afterValue = true
	l.afterComma = false
	return token.Token{Kind: k, Text: text, Offset: off}, nil
}
