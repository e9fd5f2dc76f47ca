package batch_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/uniyakcom/vjson/batch"
	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/model"
	"github.com/uniyakcom/vjson/printer"
	"github.com/uniyakcom/vjson/reader"
	"github.com/uniyakcom/vjson/shape"
	"github.com/uniyakcom/vjson/value"
)

func docs(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = fmt.Appendf(nil, `{"id":%d,"tags":["t%d"]}`, i, i)
	}
	return out
}

// TestParse 测试结果与输入一一对应
func TestParse(t *testing.T) {
	p, err := batch.New(&batch.Config{Workers: 4})
	require.NoError(t, err)
	defer p.Close()

	in := docs(100)
	out, err := p.Parse(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i, r := range out {
		o := r.(*model.Object)
		require.True(t, o.Frozen())
		v, _ := o.Value("id")
		if n, _ := v.Int(); int(n) != i {
			t.Errorf("out[%d].id = %d", i, n)
		}
	}

	var total int64
	for _, d := range in {
		total += int64(len(d))
	}
	st := p.Stats()
	require.Equal(t, batch.Stats{Docs: 100, Bytes: total}, st)
}

// TestParseIsolatedTables 测试每个文档使用独立的 Shape 表
func TestParseIsolatedTables(t *testing.T) {
	out, err := batch.Parse(context.Background(), docs(2), nil)
	require.NoError(t, err)
	a, b := out[0].(*model.Object), out[1].(*model.Object)
	require.NotSame(t, a.Table(), b.Table())
	require.False(t, a.Shape() == b.Shape())
}

// TestParseFirstError 测试首个失败返回并被记录
func TestParseFirstError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	p, err := batch.New(&batch.Config{Workers: 1, Logger: logger})
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Parse(context.Background(), [][]byte{[]byte(`{"ok":1}`), []byte(`{"bad":}`)})
	require.ErrorIs(t, err, reader.ErrMalformed)
	require.ErrorContains(t, err, "document 1")
	require.Equal(t, int64(1), p.Stats().Failed)
	require.Contains(t, buf.String(), `"msg":"batch document failed","doc":1`)
}

// TestParseCanceled 测试已取消的 context 不再解析
func TestParseCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := batch.New(nil)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Parse(ctx, docs(10))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, batch.Stats{}, p.Stats())
}

// TestParsePanic 测试访问者 panic 转为 PanicError
func TestParsePanic(t *testing.T) {
	cfg := &batch.Config{
		Logger: slog.New(slog.DiscardHandler),
		Visitor: func(*shape.Table) core.ArrayVisitor {
			return &core.ArrayFuncs{Value: func(value.Value) error { panic("visitor exploded") }}
		},
	}
	_, err := batch.Parse(context.Background(), [][]byte{[]byte(`1`)}, cfg)
	var pe *batch.PanicError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "visitor exploded", pe.Value)
	require.Equal(t, 0, pe.Doc)
}

// TestParseCustomVisitor 测试自定义根访问者
func TestParseCustomVisitor(t *testing.T) {
	cfg := &batch.Config{
		Visitor: func(*shape.Table) core.ArrayVisitor { return printer.New() },
	}
	out, err := batch.Parse(context.Background(), [][]byte{[]byte(`{"a":[1]}`), []byte(`[]`)}, cfg)
	require.NoError(t, err)
	require.Equal(t, []any{`{ "a": [ 1 ] }`, `[]`}, out)
}

// TestParseConcurrentCalls 测试同一 Parser 并发 Parse
func TestParseConcurrentCalls(t *testing.T) {
	p, err := batch.New(&batch.Config{Workers: 8})
	require.NoError(t, err)
	defer p.Close()

	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			out, err := p.Parse(context.Background(), docs(50))
			if err != nil {
				return err
			}
			if len(out) != 50 {
				return errors.New("short result")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int64(400), p.Stats().Docs)
}

// TestParseEmpty 测试空输入
func TestParseEmpty(t *testing.T) {
	out, err := batch.Parse(context.Background(), nil, batch.DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, out)
}

func BenchmarkBatchParse(b *testing.B) {
	p, err := batch.New(nil)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()
	in := docs(256)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := p.Parse(context.Background(), in); err != nil {
			b.Fatal(err)
		}
	}
}
