// Package source 按魔数识别并解压输入流
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format 输入压缩格式
type Format uint8

const (
	Plain Format = iota
	Gzip
	Zstd
	LZ4
)

func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "plain"
	}
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ErrTooLarge 解压后的输入超过上限
var ErrTooLarge = errors.New("source: input too large")

// Sniff 根据前缀判断格式
func Sniff(prefix []byte) Format {
	switch {
	case bytes.HasPrefix(prefix, magicGzip):
		return Gzip
	case bytes.HasPrefix(prefix, magicZstd):
		return Zstd
	case bytes.HasPrefix(prefix, magicLZ4):
		return LZ4
	default:
		return Plain
	}
}

// Open 返回解压后的读取器；未压缩输入原样透传
func Open(r io.Reader) (io.ReadCloser, Format, error) {
	br := bufio.NewReader(r)
	// Peek 在输入不足 4 字节时返回 EOF，已读出的前缀仍可用
	prefix, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, Plain, fmt.Errorf("source: sniff: %w", err)
	}
	f := Sniff(prefix)
	switch f {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, f, fmt.Errorf("source: gzip: %w", err)
		}
		return zr, f, nil
	case Zstd:
		dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, f, fmt.Errorf("source: zstd: %w", err)
		}
		return dec.IOReadCloser(), f, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(br)), f, nil
	default:
		return io.NopCloser(br), f, nil
	}
}

// ReadAll 解压并读尽 r，max > 0 时限制解压后大小
func ReadAll(r io.Reader, max int64) ([]byte, Format, error) {
	rc, f, err := Open(r)
	if err != nil {
		return nil, f, err
	}
	defer rc.Close()

	var src io.Reader = rc
	if max > 0 {
		src = io.LimitReader(rc, max+1)
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, f, fmt.Errorf("source: read %s: %w", f, err)
	}
	if max > 0 && int64(len(b)) > max {
		return nil, f, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, max)
	}
	return b, f, nil
}
