// Package escape 提供 JSON 字符串引号与转义
//
// value.String、printer 与 lexer 共用同一份转义规则，保证打印结果可以被重新解析。
package escape

import "unicode/utf8"

var hexDigit = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// NeedsEscape 是否存在需要转义的字节（'"'、'\\'、控制字符、非法 UTF-8）
func NeedsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == '"' || c == '\\' {
			return true
		}
		if c >= utf8.RuneSelf {
			return !utf8.ValidString(s[i:])
		}
	}
	return false
}

// AppendQuoted 追加带引号和转义的 JSON 字符串
//
// 快速路径: 先扫描是否需要转义（大部分字符串不需要），无需转义直接整段追加。
// 非法 UTF-8 字节替换为 �。
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	if !NeedsEscape(s) {
		dst = append(dst, s...)
		return append(dst, '"')
	}

	// 慢速路径: 逐字符转义
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				dst = append(dst, `�`...)
			} else {
				dst = append(dst, s[i:i+size]...)
			}
			i += size
			continue
		}
		switch {
		case c == '"':
			dst = append(dst, '\\', '"')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c == '\b':
			dst = append(dst, '\\', 'b')
		case c == '\f':
			dst = append(dst, '\\', 'f')
		case c < 0x20:
			// 控制字符: \u00XX
			dst = append(dst, '\\', 'u', '0', '0', hexDigit[c>>4], hexDigit[c&0xF])
		default:
			dst = append(dst, c)
		}
		i++
	}
	return append(dst, '"')
}

// Quote 返回带引号和转义的 JSON 字符串
func Quote(s string) string {
	return string(AppendQuoted(make([]byte, 0, len(s)+2), s))
}
