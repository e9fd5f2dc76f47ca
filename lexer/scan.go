package lexer

import (
	"unicode/utf8"

	"github.com/uniyakcom/vjson/token"
)

// ─── 扫描原语（索引模式: 接受 (s, i) 返回新位置） ───

// skipWS 跳过空白
func skipWS(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// isDelim 标量之后允许紧跟的字符
func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ',', ']', '}':
		return true
	}
	return false
}

// scanString 解析引号字符串，返回内容（不含引号）与结束位置
//
// 无转义时直接返回输入切片（零拷贝）；遇到 '\\' 转入 unquote 重新解析。
// 8 字节批量扫描: > '\\' (0x5C) 覆盖 a-z、UTF-8 高字节、{、}，
// 仅 '"'、'\\'、控制字符 (<0x20) 需要逐字节处理。
func scanString(s string, i int) (string, int, error) {
	start := i + 1 // s[i] == '"'
	i = start
	n := len(s)
	for n-i >= 8 {
		if s[i] > '\\' && s[i+1] > '\\' && s[i+2] > '\\' && s[i+3] > '\\' &&
			s[i+4] > '\\' && s[i+5] > '\\' && s[i+6] > '\\' && s[i+7] > '\\' {
			i += 8
			continue
		}
		break
	}
	for i < n {
		c := s[i]
		if c > '\\' {
			i++
			continue
		}
		switch {
		case c == '"':
			return s[start:i], i + 1, nil
		case c == '\\':
			return unquote(s, start-1)
		case c < 0x20:
			return "", i, token.Errorf(int64(i), "invalid control character 0x%02x in string", c)
		}
		i++
	}
	return "", n, token.Errorf(int64(start-1), "unterminated string")
}

// unquote 慢速路径: 解析含转义字符的字符串（s[i] == '"'）
//
// 栈上 [64]byte 缓冲避免小字符串堆分配。
func unquote(s string, i int) (string, int, error) {
	open := i
	i++
	n := len(s)
	var stk [64]byte
	var buf []byte
	if n-i <= len(stk) {
		buf = stk[:0]
	} else {
		buf = make([]byte, 0, n-i)
	}
	for i < n {
		c := s[i]
		if c == '"' {
			return string(buf), i + 1, nil
		}
		if c < 0x20 {
			return "", i, token.Errorf(int64(i), "invalid control character 0x%02x in string", c)
		}
		if c != '\\' {
			buf = append(buf, c)
			i++
			continue
		}
		i++
		if i >= n {
			break
		}
		switch s[i] {
		case '"', '\\', '/':
			buf = append(buf, s[i])
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'u':
			r, sz, msg := hexRune(s[i+1:])
			if msg != "" {
				return "", i, token.Errorf(int64(i-1), "%s", msg)
			}
			buf = utf8.AppendRune(buf, r)
			i += sz
		default:
			return "", i, token.Errorf(int64(i-1), "invalid escape character %q", s[i])
		}
		i++
	}
	return "", n, token.Errorf(int64(open), "unterminated string")
}

// hexRune 解析 \uXXXX 的 XXXX 部分（含 surrogate pair），失败时 msg 非空
func hexRune(s string) (r rune, size int, msg string) {
	if len(s) < 4 {
		return 0, 0, "truncated unicode escape"
	}
	r1 := hexDig(s[:4])
	if r1 < 0 {
		return 0, 0, "invalid unicode escape \\u" + s[:4]
	}
	if r1 < 0xD800 || r1 > 0xDFFF {
		return r1, 4, ""
	}
	if r1 > 0xDBFF {
		return 0, 0, "invalid high surrogate \\u" + s[:4]
	}
	if len(s) < 10 || s[4] != '\\' || s[5] != 'u' {
		return 0, 0, "missing low surrogate after \\u" + s[:4]
	}
	r2 := hexDig(s[6:10])
	if r2 < 0xDC00 || r2 > 0xDFFF {
		return 0, 0, "invalid low surrogate \\u" + s[6:10]
	}
	return 0x10000 + (r1-0xD800)*0x400 + (r2 - 0xDC00), 10, ""
}

// hexDig 解析 4 位十六进制数，非法返回 -1
func hexDig(s string) rune {
	var r rune
	for i := 0; i < 4; i++ {
		c := s[i]
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r |= rune(c - 'A' + 10)
		default:
			return -1
		}
	}
	return r
}

// scanNumber 校验 JSON 数字字面量，返回结束位置
func scanNumber(s string, i int) (int, error) {
	n := len(s)
	start := i
	if i < n && s[i] == '-' {
		i++
	}
	if i >= n {
		return i, token.Errorf(int64(start), "unexpected end of number")
	}
	switch {
	case s[i] == '0':
		i++
	case s[i] >= '1' && s[i] <= '9':
		i++
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	default:
		return i, token.Errorf(int64(i), "invalid number character %q", s[i])
	}
	if i < n && s[i] == '.' {
		i++
		if i >= n || s[i] < '0' || s[i] > '9' {
			return i, token.Errorf(int64(i), "invalid number: missing digit after '.'")
		}
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= n || s[i] < '0' || s[i] > '9' {
			return i, token.Errorf(int64(i), "invalid number: missing digit in exponent")
		}
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return i, nil
}
