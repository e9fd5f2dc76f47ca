// Package batch 并发解析多个独立 JSON 文档
//
// 每个文档在 ants 协程池的一个任务里解析，使用各自独立的 shape.Table，
// 因此文档之间不共享任何可变状态。首个失败取消其余未开始的文档。
//
//	p, err := batch.New(nil)
//	defer p.Close()
//	results, err := p.Parse(ctx, docs)
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/internal/counter"
	"github.com/uniyakcom/vjson/model"
	"github.com/uniyakcom/vjson/reader"
	"github.com/uniyakcom/vjson/shape"
)

// Config 批量解析配置
type Config struct {
	// Workers 并发解析数，0 使用 GOMAXPROCS
	Workers int
	// Reader 每个文档的读取配置
	Reader *reader.Config
	// Logger 失败文档的日志，nil 使用 slog.Default()
	Logger *slog.Logger
	// Visitor 为每个文档创建根访问者，nil 时物化为 model 树
	Visitor func(t *shape.Table) core.ArrayVisitor
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	c := &Config{}
	c.defaults()
	return c
}

func (c *Config) defaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Visitor == nil {
		c.Visitor = model.NewBuilder
	}
}

// Stats 累计统计
type Stats struct {
	Docs   int64 // 成功解析的文档数
	Failed int64 // 失败的文档数
	Bytes  int64 // 成功解析的输入字节数
}

// PanicError 访问者 panic 被恢复后的错误
type PanicError struct {
	Value any
	Doc   int
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("batch: document %d panic: %v", e.Doc, e.Value)
}

// Parser 复用协程池的批量解析器，可并发调用 Parse
type Parser struct {
	cfg    Config
	pool   *ants.Pool
	docs   *counter.Counter
	failed *counter.Counter
	bytes  *counter.Counter
}

// New 创建批量解析器，cfg 为 nil 时使用默认配置
func New(cfg *Config) (*Parser, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.defaults()
	pool, err := ants.NewPool(c.Workers)
	if err != nil {
		return nil, fmt.Errorf("batch: worker pool: %w", err)
	}
	return &Parser{
		cfg:    c,
		pool:   pool,
		docs:   counter.New(),
		failed: counter.New(),
		bytes:  counter.New(),
	}, nil
}

// Close 等待运行中的任务并释放协程池
func (p *Parser) Close() { p.pool.Release() }

// Stats 返回累计统计
func (p *Parser) Stats() Stats {
	return Stats{Docs: p.docs.Load(), Failed: p.failed.Load(), Bytes: p.bytes.Load()}
}

// Parse 解析 docs，结果与输入一一对应
//
// 任一文档失败时返回首个错误，未开始的文档不再解析。
func (p *Parser) Parse(ctx context.Context, docs [][]byte) ([]any, error) {
	out := make([]any, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		errc := make(chan error, 1)
		task := func() { errc <- p.parseOne(gctx, i, doc, &out[i]) }
		if err := p.pool.Submit(task); err != nil {
			errc <- fmt.Errorf("batch: submit document %d: %w", i, err)
		}
		g.Go(func() error { return <-errc })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) parseOne(ctx context.Context, i int, doc []byte, dst *any) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Doc: i}
		}
		if err != nil {
			p.failed.Inc()
			p.cfg.Logger.Warn("batch document failed", "doc", i, "bytes", len(doc), "error", err)
		}
	}()
	root := p.cfg.Visitor(shape.NewTable())
	res, err := reader.ParseBytes(doc, root, p.cfg.Reader)
	if err != nil {
		return fmt.Errorf("batch: document %d: %w", i, err)
	}
	*dst = res
	p.docs.Inc()
	p.bytes.Add(int64(len(doc)))
	return nil
}

// Parse 以一次性解析器解析 docs
func Parse(ctx context.Context, docs [][]byte, cfg *Config) ([]any, error) {
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse(ctx, docs)
}
