// Package reader 把 token 流驱动为访问者事件
//
// 顶层被视为一个虚拟数组: 标量交给根访问者的 VisitValue 且该值即结果；
// 对象/数组交给 VisitObject/VisitArray 返回的嵌套访问者，其 End 结果即结果；
// 嵌套访问者为 nil 时整个子树被跳过，结果为 nil。
//
// 三种分派方式:
//   - Push: 逐个成员/元素回调（默认）
//   - Pull: 根访问者声明 Pull 时 Read/ReadArray 返回顶层数组元素的惰性
//     序列 core.Seq，与 Reader.Pull 相同；嵌套访问者的 Pull 声明按 Push 处理
//   - PullInside: 数组访问者是 core.Aggregator 时，整个数组作为一个序列
//     交给 Aggregate；聚合器提前停止后剩余元素被跳过
//
// Seq 模式下标量元素直接产出，不经过 VisitValue。
package reader

import (
	"errors"
	"io"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/lexer"
	"github.com/uniyakcom/vjson/token"
	"github.com/uniyakcom/vjson/value"
)

// DefaultMaxDepth 嵌套最大深度（防栈溢出攻击）
const DefaultMaxDepth = 512

// ErrMalformed 输入不符合 JSON 语法
var ErrMalformed = token.ErrMalformed

// SyntaxError 带字节偏移的语法错误，匹配 ErrMalformed
type SyntaxError = token.SyntaxError

// Config 读取器配置
type Config struct {
	// MaxDepth 最大嵌套深度，0 使用 DefaultMaxDepth
	MaxDepth int
	// Lexer ParseString/ParseBytes/ParseReader 使用的分词器配置
	Lexer *lexer.Config
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	c := &Config{}
	c.defaults()
	return c
}

func (c *Config) defaults() {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
}

// Reader 访问者驱动（单 goroutine 使用）
type Reader struct {
	c        token.Cursor
	maxDepth int
	depth    int
	stack    []skipFrame // skip 的显式栈（复用）
	off      int64       // 最近 token 的偏移
}

// New 在游标上创建读取器，cfg 为 nil 时使用默认配置
func New(c token.Cursor, cfg *Config) *Reader {
	var conf Config
	if cfg != nil {
		conf = *cfg
	}
	conf.defaults()
	return &Reader{c: c, maxDepth: conf.MaxDepth}
}

// Offset 最近读取的 token 的字节偏移
func (r *Reader) Offset() int64 { return r.off }

// ─── 游标 ───

// next 读取下一个 token；容器内部的 EOF 转为语法错误
func (r *Reader) next() (token.Token, error) {
	t, err := r.c.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return t, token.Errorf(r.off, "unexpected end of input")
		}
		return t, err
	}
	r.off = t.Offset
	return t, nil
}

func (r *Reader) enter(t token.Token) error {
	if r.depth >= r.maxDepth {
		return token.Errorf(t.Offset, "max depth %d exceeded", r.maxDepth)
	}
	r.depth++
	return nil
}

func (r *Reader) leave() { r.depth-- }

// ─── 顶层 ───

// Read 读取恰好一个顶层值
//
// 输入已无更多值时返回 io.EOF。root 声明 Pull 时顶层必须是数组，
// 结果为其元素的 core.Seq。
func (r *Reader) Read(root core.ArrayVisitor) (any, error) {
	if root == nil {
		return nil, core.ErrNilArgument
	}
	t, err := r.c.Next()
	if err != nil {
		return nil, err
	}
	r.off = t.Offset
	if core.ModeOf(root) == core.Pull {
		return r.pullRoot(root, t)
	}
	res, _, err := r.element(root, t, true)
	return res, err
}

// ReadObject 读取一个顶层对象
func (r *Reader) ReadObject(ov core.ObjectVisitor) (any, error) {
	if ov == nil {
		return nil, core.ErrNilArgument
	}
	t, err := r.first(token.ObjectStart)
	if err != nil {
		return nil, err
	}
	return r.object(ov, t)
}

// ReadArray 读取一个顶层数组
func (r *Reader) ReadArray(av core.ArrayVisitor) (any, error) {
	if av == nil {
		return nil, core.ErrNilArgument
	}
	t, err := r.first(token.ArrayStart)
	if err != nil {
		return nil, err
	}
	if core.ModeOf(av) == core.Pull {
		return r.pullRoot(av, t)
	}
	return r.array(av, t)
}

func (r *Reader) first(want token.Kind) (token.Token, error) {
	t, err := r.c.Next()
	if err != nil {
		return t, err
	}
	r.off = t.Offset
	if t.Kind != want {
		return t, token.Errorf(t.Offset, "expected %s, got %s", want, t.Kind)
	}
	return t, nil
}

// Pull 把顶层数组的元素暴露为惰性序列（Pull 模式）
//
// 复合元素经 av 的嵌套访问者产出其 End 结果，被跳过的复合元素不产出。
// 消费方提前停止时游标停留在数组内部。
func (r *Reader) Pull(av core.ArrayVisitor) core.Seq {
	return core.Once(func(yield func(any, error) bool) {
		if av == nil {
			yield(nil, core.ErrNilArgument)
			return
		}
		t, err := r.first(token.ArrayStart)
		if err != nil {
			yield(nil, err)
			return
		}
		if err := r.enter(t); err != nil {
			yield(nil, err)
			return
		}
		r.elements(av, yield)
	})
}

// pullRoot 进入顶层数组 t 并返回其元素序列
func (r *Reader) pullRoot(av core.ArrayVisitor, t token.Token) (any, error) {
	if t.Kind != token.ArrayStart {
		return nil, token.Errorf(t.Offset, "pull root expects %s, got %s", token.ArrayStart, t.Kind)
	}
	if err := r.enter(t); err != nil {
		return nil, err
	}
	return core.Once(func(yield func(any, error) bool) {
		r.elements(av, yield)
	}), nil
}

// ─── 元素 ───

// element 分派一个值 token；ok 为 false 表示复合元素被跳过
//
// push 为 true 时标量交给 VisitValue。
func (r *Reader) element(av core.ArrayVisitor, t token.Token, push bool) (res any, ok bool, err error) {
	switch {
	case t.Kind.IsScalar():
		v, err := scalar(t)
		if err != nil {
			return nil, false, err
		}
		if push {
			if err := av.VisitValue(v); err != nil {
				return nil, false, err
			}
		}
		return v, true, nil
	case t.Kind == token.ObjectStart:
		nested, err := av.VisitObject()
		if err != nil {
			return nil, false, err
		}
		if nested == nil {
			return nil, false, r.skip(t)
		}
		res, err := r.object(nested, t)
		return res, err == nil, err
	case t.Kind == token.ArrayStart:
		nested, err := av.VisitArray()
		if err != nil {
			return nil, false, err
		}
		if nested == nil {
			return nil, false, r.skip(t)
		}
		res, err := r.array(nested, t)
		return res, err == nil, err
	default:
		return nil, false, token.Errorf(t.Offset, "expected value, got %s", t.Kind)
	}
}

// object 读取对象成员直到 '}'（t 为 '{'）
func (r *Reader) object(ov core.ObjectVisitor, t token.Token) (any, error) {
	if err := r.enter(t); err != nil {
		return nil, err
	}
	for {
		t, err := r.next()
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case token.ObjectEnd:
			r.leave()
			return ov.EndObject()
		case token.Name:
		default:
			return nil, token.Errorf(t.Offset, "expected name or '}', got %s", t.Kind)
		}
		if err := r.member(ov, t.Text); err != nil {
			return nil, err
		}
	}
}

func (r *Reader) member(ov core.ObjectVisitor, name string) error {
	t, err := r.next()
	if err != nil {
		return err
	}
	switch {
	case t.Kind.IsScalar():
		v, err := scalar(t)
		if err != nil {
			return err
		}
		return ov.VisitMemberValue(name, v)
	case t.Kind == token.ObjectStart:
		nested, err := ov.VisitMemberObject(name)
		if err != nil {
			return err
		}
		if nested == nil {
			return r.skip(t)
		}
		_, err = r.object(nested, t)
		return err
	case t.Kind == token.ArrayStart:
		nested, err := ov.VisitMemberArray(name)
		if err != nil {
			return err
		}
		if nested == nil {
			return r.skip(t)
		}
		_, err = r.array(nested, t)
		return err
	default:
		return token.Errorf(t.Offset, "expected value for %q, got %s", name, t.Kind)
	}
}

// array 读取数组元素直到 ']'（t 为 '['）
func (r *Reader) array(av core.ArrayVisitor, t token.Token) (any, error) {
	if err := r.enter(t); err != nil {
		return nil, err
	}
	if agg, ok := core.AsAggregator(av); ok {
		return r.aggregate(agg)
	}
	for {
		t, err := r.next()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.ArrayEnd {
			r.leave()
			return av.EndArray()
		}
		if _, _, err := r.element(av, t, true); err != nil {
			return nil, err
		}
	}
}

// elements 依次产出数组元素直到 ']'，返回是否已消费闭合符
func (r *Reader) elements(av core.ArrayVisitor, yield func(any, error) bool) (closed bool, err error) {
	for {
		t, err := r.next()
		if err != nil {
			yield(nil, err)
			return false, err
		}
		if t.Kind == token.ArrayEnd {
			r.leave()
			return true, nil
		}
		res, ok, err := r.element(av, t, false)
		if err != nil {
			yield(nil, err)
			return false, err
		}
		if ok && !yield(res, nil) {
			return false, nil
		}
	}
}

// aggregate PullInside: 数组作为一个序列交给 Aggregate，之后平衡剩余输入
func (r *Reader) aggregate(agg core.Aggregator) (any, error) {
	var (
		started bool
		closed  bool
		failed  error
	)
	seq := core.Once(func(yield func(any, error) bool) {
		started = true
		closed, failed = r.elements(agg, yield)
	})
	res, err := agg.Aggregate(seq)
	if failed != nil {
		return nil, failed
	}
	if err != nil {
		return nil, err
	}
	if !started || !closed {
		// 聚合器未读或提前停止：跳过剩余元素及 ']'
		r.leave()
		if err := r.skipRest(token.ArrayEnd); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ─── 跳过 ───

// skipFrame 跳过栈的一层
type skipFrame struct {
	closer token.Kind // ObjectEnd 或 ArrayEnd
	named  bool       // 对象层: 已读 Name，等待成员值
}

// skip 丢弃以 t 开始的复合值（显式栈，不递归）
//
// 被跳过的子树与被访问的子树执行相同的语法校验。
func (r *Reader) skip(t token.Token) error {
	return r.skipRest(t.Kind.Closer())
}

// skipRest 丢弃 token 直到与 closer 配对的闭合符（含）
func (r *Reader) skipRest(closer token.Kind) error {
	stack := append(r.stack[:0], skipFrame{closer: closer})
	defer func() { r.stack = stack[:0] }()
	for len(stack) > 0 {
		t, err := r.next()
		if err != nil {
			return err
		}
		top := &stack[len(stack)-1]

		// 对象层等待 Name 或 '}'
		if top.closer == token.ObjectEnd && !top.named {
			switch t.Kind {
			case token.Name:
				top.named = true
			case token.ObjectEnd:
				stack = stack[:len(stack)-1]
			default:
				return token.Errorf(t.Offset, "expected name or '}', got %s", t.Kind)
			}
			continue
		}

		// 值位置: 数组元素或成员值
		if top.closer == token.ArrayEnd && t.Kind == token.ArrayEnd {
			stack = stack[:len(stack)-1]
			continue
		}
		top.named = false
		switch {
		case t.Kind.IsScalar():
			if _, err := scalar(t); err != nil {
				return err
			}
		case t.Kind == token.ObjectStart || t.Kind == token.ArrayStart:
			if r.depth+len(stack) >= r.maxDepth {
				return token.Errorf(t.Offset, "max depth %d exceeded", r.maxDepth)
			}
			stack = append(stack, skipFrame{closer: t.Kind.Closer()})
		default:
			return token.Errorf(t.Offset, "expected value, got %s", t.Kind)
		}
	}
	return nil
}

// ─── 标量 ───

func scalar(t token.Token) (value.Value, error) {
	switch t.Kind {
	case token.String:
		return value.String(t.Text), nil
	case token.Number:
		v, err := number(t.Text)
		if err != nil {
			return value.Value{}, token.Errorf(t.Offset, "%v %q", err, t.Text)
		}
		return v, nil
	case token.True:
		return value.Bool(true), nil
	case token.False:
		return value.Bool(false), nil
	default:
		return value.Null(), nil
	}
}
