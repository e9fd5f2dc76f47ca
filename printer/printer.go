// Package printer 把访问者事件渲染为 JSON 文本
//
// New 返回带空格的可读格式 { "name": value, ... } / [ value, ... ]，
// 空容器为 {} / []；NewStream 返回基于 jsoniter 的紧凑流式写入器。
// 字符串完整转义。
package printer

import (
	"sync"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/internal/escape"
	"github.com/uniyakcom/vjson/value"
)

// ObjectSource 可向对象访问者重放自身的节点（如 *model.Object）
type ObjectSource interface {
	Accept(core.ObjectVisitor) (any, error)
}

// ArraySource 可向数组访问者重放自身的节点（如 *model.Array）
type ArraySource interface {
	Accept(core.ArrayVisitor) (any, error)
}

// ─── Pool ───

type buffer struct {
	b []byte
}

var bufPool = sync.Pool{
	New: func() any { return &buffer{b: make([]byte, 0, 256)} },
}

func acquire() *buffer {
	w := bufPool.Get().(*buffer)
	w.b = w.b[:0]
	return w
}

func release(w *buffer) {
	// 保留小 buffer，释放大 buffer
	if cap(w.b) > 1<<16 {
		w.b = make([]byte, 0, 256)
	}
	bufPool.Put(w)
}

// ─── 入口 ───

// New 返回打印根访问者
//
// 顶层对象/数组的结果为 string；顶层标量由驱动方原样返回，用 Value.String 打印。
func New() core.ArrayVisitor { return root{} }

type root struct{}

func (root) VisitValue(value.Value) error { return nil }

func (root) VisitObject() (core.ObjectVisitor, error) { return newObject(acquire(), true), nil }

func (root) VisitArray() (core.ArrayVisitor, error) { return newArray(acquire(), true), nil }

func (root) EndArray() (any, error) { return nil, nil }

// PrintObject 打印对象节点
func PrintObject(src ObjectSource) (string, error) {
	if src == nil {
		return "", core.ErrNilArgument
	}
	r, err := src.Accept(newObject(acquire(), true))
	if err != nil {
		return "", err
	}
	return r.(string), nil
}

// PrintArray 打印数组节点
func PrintArray(src ArraySource) (string, error) {
	if src == nil {
		return "", core.ErrNilArgument
	}
	r, err := src.Accept(newArray(acquire(), true))
	if err != nil {
		return "", err
	}
	return r.(string), nil
}

// Print 打印对象节点、数组节点或标量
//
// 其他 Go 值经 value.Of 转换，string 按 JSON 字符串加引号输出。
func Print(node any) (string, error) {
	switch n := node.(type) {
	case ObjectSource:
		return PrintObject(n)
	case ArraySource:
		return PrintArray(n)
	case value.Value:
		return n.String(), nil
	case nil:
		return "", core.ErrNilArgument
	default:
		return value.Of(node).String(), nil
	}
}

// ─── 对象 ───

// objectPrinter 嵌套打印器与父级共享 buffer，只有 owner 在结束时产出 string
type objectPrinter struct {
	w     *buffer
	n     int
	owner bool
}

func newObject(w *buffer, owner bool) *objectPrinter {
	w.b = append(w.b, '{')
	return &objectPrinter{w: w, owner: owner}
}

func (p *objectPrinter) member(name string) {
	if p.n == 0 {
		p.w.b = append(p.w.b, ' ')
	} else {
		p.w.b = append(p.w.b, ", "...)
	}
	p.n++
	p.w.b = escape.AppendQuoted(p.w.b, name)
	p.w.b = append(p.w.b, ": "...)
}

func (p *objectPrinter) VisitMemberValue(name string, v value.Value) error {
	p.member(name)
	p.w.b = v.AppendText(p.w.b)
	return nil
}

func (p *objectPrinter) VisitMemberObject(name string) (core.ObjectVisitor, error) {
	p.member(name)
	return newObject(p.w, false), nil
}

func (p *objectPrinter) VisitMemberArray(name string) (core.ArrayVisitor, error) {
	p.member(name)
	return newArray(p.w, false), nil
}

func (p *objectPrinter) EndObject() (any, error) {
	if p.n == 0 {
		p.w.b = append(p.w.b, '}')
	} else {
		p.w.b = append(p.w.b, " }"...)
	}
	return finish(p.w, p.owner), nil
}

// ─── 数组 ───

type arrayPrinter struct {
	w     *buffer
	n     int
	owner bool
}

func newArray(w *buffer, owner bool) *arrayPrinter {
	w.b = append(w.b, '[')
	return &arrayPrinter{w: w, owner: owner}
}

func (p *arrayPrinter) elem() {
	if p.n == 0 {
		p.w.b = append(p.w.b, ' ')
	} else {
		p.w.b = append(p.w.b, ", "...)
	}
	p.n++
}

func (p *arrayPrinter) VisitValue(v value.Value) error {
	p.elem()
	p.w.b = v.AppendText(p.w.b)
	return nil
}

func (p *arrayPrinter) VisitObject() (core.ObjectVisitor, error) {
	p.elem()
	return newObject(p.w, false), nil
}

func (p *arrayPrinter) VisitArray() (core.ArrayVisitor, error) {
	p.elem()
	return newArray(p.w, false), nil
}

func (p *arrayPrinter) EndArray() (any, error) {
	if p.n == 0 {
		p.w.b = append(p.w.b, ']')
	} else {
		p.w.b = append(p.w.b, " ]"...)
	}
	return finish(p.w, p.owner), nil
}

// finish owner 产出 string 并归还 buffer；嵌套打印器结果为 nil
func finish(w *buffer, owner bool) any {
	if !owner {
		return nil
	}
	s := string(w.b)
	release(w)
	return s
}
