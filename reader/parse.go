package reader

import (
	"errors"
	"io"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/lexer"
	"github.com/uniyakcom/vjson/token"
)

// ParseString 解析恰好包含一个 JSON 值的文本
//
// 空输入与尾随内容均为语法错误。root 声明 Pull 时返回元素序列，
// 尾随内容在序列耗尽后作为最后一个错误产出。
func ParseString(s string, root core.ArrayVisitor, cfg *Config) (any, error) {
	return parseOne(lexer.New(s, lexerConfig(cfg)), root, cfg)
}

// ParseBytes 同 ParseString
func ParseBytes(b []byte, root core.ArrayVisitor, cfg *Config) (any, error) {
	return parseOne(lexer.NewBytes(b, lexerConfig(cfg)), root, cfg)
}

// ParseReader 读尽 rd 后解析，gzip / zstd / lz4 输入自动解压
func ParseReader(rd io.Reader, root core.ArrayVisitor, cfg *Config) (any, error) {
	lx, err := lexer.Open(rd, lexerConfig(cfg))
	if err != nil {
		return nil, err
	}
	return parseOne(lx, root, cfg)
}

func lexerConfig(cfg *Config) *lexer.Config {
	if cfg == nil {
		return nil
	}
	return cfg.Lexer
}

func parseOne(c token.Cursor, root core.ArrayVisitor, cfg *Config) (any, error) {
	r := New(c, cfg)
	res, err := r.Read(root)
	if errors.Is(err, io.EOF) {
		return nil, token.Errorf(0, "empty input")
	}
	if err != nil {
		return nil, err
	}
	if seq, ok := res.(core.Seq); ok && core.ModeOf(root) == core.Pull {
		// 序列耗尽后再检查尾随内容
		return core.Once(func(yield func(any, error) bool) {
			for v, err := range seq {
				if !yield(v, err) || err != nil {
					return
				}
			}
			if err := trailing(c); err != nil {
				yield(nil, err)
			}
		}), nil
	}
	if err := trailing(c); err != nil {
		return nil, err
	}
	return res, nil
}

func trailing(c token.Cursor) error {
	t, err := c.Next()
	if err == nil {
		return token.Errorf(t.Offset, "unexpected trailing %s", t.Kind)
	}
	if !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
