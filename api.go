// Package vjson 统一API入口
//
// 基于 Shape 共享的 JSON 对象模型与访问者协议:
//   - value: 紧凑不可变标量
//   - shape: 同结构对象共享的字段布局
//   - model: Object / Array，构建期独占、冻结后可并发读
//   - reader / printer / decorate: 访问者驱动的解析、打印与装饰
package vjson

import (
	"fmt"
	"io"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/model"
	"github.com/uniyakcom/vjson/printer"
	"github.com/uniyakcom/vjson/reader"
	"github.com/uniyakcom/vjson/shape"
	"github.com/uniyakcom/vjson/token"
	"github.com/uniyakcom/vjson/value"
)

// Value 导出标量类型
type Value = value.Value

// Object 导出对象类型
type Object = model.Object

// Array 导出数组类型
type Array = model.Array

// Elem 导出元素类型
type Elem = model.Elem

// Table 导出 Shape 表
type Table = shape.Table

// Shape 导出 Shape
type Shape = shape.Shape

// ObjectVisitor 导出对象访问者
type ObjectVisitor = core.ObjectVisitor

// ArrayVisitor 导出数组访问者
type ArrayVisitor = core.ArrayVisitor

// Aggregator 导出 Pull-inside 聚合器
type Aggregator = core.Aggregator

// Seq 导出惰性结果序列
type Seq = core.Seq

// Mode 导出分派方式
type Mode = core.Mode

// SyntaxError 导出语法错误
type SyntaxError = token.SyntaxError

// 错误哨兵
var (
	ErrKindMismatch = value.ErrKindMismatch
	ErrFrozen       = model.ErrFrozen
	ErrIndex        = model.ErrIndex
	ErrCycle        = model.ErrCycle
	ErrFrozenShape  = shape.ErrFrozenShape
	ErrForeignShape = shape.ErrForeignShape
	ErrMalformed    = reader.ErrMalformed
	ErrNilArgument  = core.ErrNilArgument
)

// ═══════════════════════════════════════════════════════════════════
// 第零层：Parse() 物化为冻结的模型
// ═══════════════════════════════════════════════════════════════════

// Parse 解析文本为冻结的元素
//
// 用法:
//
//	e, _ := vjson.Parse(`{"name":"Mr Robot","seasons":4}`)
//	obj, _ := e.Object()
//	v, _ := obj.Value("seasons") // 4
func Parse(s string) (Elem, error) { return ParseIn(nil, s) }

// ParseBytes 解析字节为冻结的元素
func ParseBytes(b []byte) (Elem, error) {
	res, err := reader.ParseBytes(b, model.NewBuilder(nil), nil)
	if err != nil {
		return Elem{}, err
	}
	return toElem(res)
}

// ParseReader 读尽 r 并解析，gzip / zstd / lz4 输入自动解压
func ParseReader(r io.Reader) (Elem, error) {
	res, err := reader.ParseReader(r, model.NewBuilder(nil), nil)
	if err != nil {
		return Elem{}, err
	}
	return toElem(res)
}

// ParseIn 在 t 上解析，多次解析同 schema 文档时共享 Shape（t 为 nil 时新建）
//
// t 的写入不是并发安全的，同一 Table 上的解析需串行。
func ParseIn(t *Table, s string) (Elem, error) {
	res, err := reader.ParseString(s, model.NewBuilder(t), nil)
	if err != nil {
		return Elem{}, err
	}
	return toElem(res)
}

func toElem(res any) (Elem, error) {
	switch r := res.(type) {
	case *model.Object:
		return model.ObjectElem(r), nil
	case *model.Array:
		return model.ArrayElem(r), nil
	case value.Value:
		return model.ValueElem(r), nil
	default:
		return Elem{}, fmt.Errorf("vjson: unexpected parse result %T", res)
	}
}

// ═══════════════════════════════════════════════════════════════════
// 第一层：Read() / Pull() 访问者驱动
// ═══════════════════════════════════════════════════════════════════

// Read 以 root 为根读取 s 中的一个 JSON 值，返回根的结果
func Read(s string, root ArrayVisitor) (any, error) {
	return reader.ParseString(s, root, nil)
}

// Pull 把游标上顶层数组的元素暴露为惰性序列
func Pull(c token.Cursor, av ArrayVisitor) Seq {
	return reader.New(c, nil).Pull(av)
}

// ═══════════════════════════════════════════════════════════════════
// 第二层：Print() / Compact() 输出
// ═══════════════════════════════════════════════════════════════════

// Print 以 { "name": value, ... } 格式打印元素、节点或标量
func Print(node any) (string, error) {
	if e, ok := node.(Elem); ok {
		switch e.Kind() {
		case model.ElemObject:
			o, _ := e.Object()
			return printer.PrintObject(o)
		case model.ElemArray:
			a, _ := e.Array()
			return printer.PrintArray(a)
		default:
			v, _ := e.Value()
			return v.String(), nil
		}
	}
	return printer.Print(node)
}

// Compact 以紧凑格式把元素写入 w
func Compact(w io.Writer, e Elem) error {
	switch e.Kind() {
	case model.ElemObject:
		o, _ := e.Object()
		return printer.WriteObject(w, o)
	case model.ElemArray:
		a, _ := e.Array()
		return printer.WriteArray(w, a)
	default:
		v, _ := e.Value()
		_, err := io.WriteString(w, v.String())
		return err
	}
}

// ═══════════════════════════════════════════════════════════════════
// 第三层：手工构建
// ═══════════════════════════════════════════════════════════════════

// NewTable 创建 Shape 表
func NewTable() *Table { return shape.NewTable() }

// NewObject 在 t 上创建空对象（t 为 nil 时使用私有表）
func NewObject(t *Table) *Object { return model.NewObject(t) }

// NewArray 创建空数组
func NewArray() *Array { return model.NewArray() }
