package model

import (
	"fmt"
	"iter"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/printer"
	"github.com/uniyakcom/vjson/shape"
	"github.com/uniyakcom/vjson/value"
)

// Object 有序 name→元素 容器
//
// 不变式: len(slots) == shape.Len()，slots[i] 对应 shape.Name(i)。
// 重复字段名覆盖原槽位（后写为准），不增长。
type Object struct {
	table *shape.Table
	shape *shape.Shape
	slots []Elem
}

// NewObject 在 t 的规范空 Shape 上创建空对象，t 为 nil 时使用私有 Table
func NewObject(t *shape.Table) *Object {
	if t == nil {
		t = shape.NewTable()
	}
	return &Object{table: t, shape: t.Empty()}
}

// Shape 返回当前 Shape
func (o *Object) Shape() *shape.Shape { return o.shape }

// Table 返回所属 Shape 表
func (o *Object) Table() *shape.Table { return o.table }

// Len 字段数
func (o *Object) Len() int { return len(o.slots) }

// Frozen 是否已冻结
func (o *Object) Frozen() bool { return o.shape.Frozen() }

// Name 返回第 i 个字段名（Shape 插入顺序）
func (o *Object) Name(i int) string { return o.shape.Name(i) }

// At 返回第 i 个槽位
func (o *Object) At(i int) Elem { return o.slots[i] }

// ─── 写入 ───

// Set 写入标量字段
func (o *Object) Set(name string, v value.Value) error {
	return o.put(name, ValueElem(v))
}

// SetObject 写入对象字段
func (o *Object) SetObject(name string, child *Object) error {
	if child == nil {
		return fmt.Errorf("%w: object member %q", core.ErrNilArgument, name)
	}
	return o.put(name, ObjectElem(child))
}

// SetArray 写入数组字段
func (o *Object) SetArray(name string, child *Array) error {
	if child == nil {
		return fmt.Errorf("%w: array member %q", core.ErrNilArgument, name)
	}
	return o.put(name, ArrayElem(child))
}

// SetElem 写入任意元素
func (o *Object) SetElem(name string, e Elem) error {
	return o.put(name, e)
}

func (o *Object) put(name string, e Elem) error {
	if o.shape.Frozen() {
		return fmt.Errorf("%w: set %q on frozen object", ErrFrozen, name)
	}
	if e.reaches(o, nil) {
		return fmt.Errorf("%w: object member %q contains its parent", ErrCycle, name)
	}
	if i, ok := o.shape.SlotOf(name); ok {
		o.slots[i] = e
		return nil
	}
	next, err := o.table.Transition(o.shape, name)
	if err != nil {
		return err
	}
	if len(o.slots) == cap(o.slots) {
		grown := make([]Elem, len(o.slots), nextCap(cap(o.slots)))
		copy(grown, o.slots)
		o.slots = grown
	}
	o.slots = append(o.slots, e)
	o.shape = next
	return nil
}

// ─── 读取 ───

// Get 按字段名取元素
func (o *Object) Get(name string) (Elem, bool) {
	i, ok := o.shape.SlotOf(name)
	if !ok {
		return Elem{}, false
	}
	return o.slots[i], true
}

// Value 按字段名取标量
func (o *Object) Value(name string) (value.Value, bool) {
	e, ok := o.Get(name)
	if !ok {
		return value.Value{}, false
	}
	return e.Value()
}

// All 按 Shape 顺序迭代字段
func (o *Object) All() iter.Seq2[string, Elem] {
	return func(yield func(string, Elem) bool) {
		for i, e := range o.slots {
			if !yield(o.shape.Name(i), e) {
				return
			}
		}
	}
}

// ─── 冻结 ───

// Freeze 冻结对象及其嵌套元素（幂等），返回 o
func (o *Object) Freeze() *Object {
	if o.shape.Frozen() {
		return o
	}
	for _, e := range o.slots {
		e.freeze()
	}
	f, err := o.table.Freeze(o.shape)
	if err != nil {
		// o.shape 总是来自 o.table
		panic(err)
	}
	o.shape = f
	return o
}

// ─── 访问者 ───

// Accept 按 Shape 插入顺序向 ov 重放字段，最后调用 EndObject
func (o *Object) Accept(ov core.ObjectVisitor) (any, error) {
	if ov == nil {
		return nil, core.ErrNilArgument
	}
	for i, e := range o.slots {
		if err := acceptMember(ov, o.shape.Name(i), e); err != nil {
			return nil, err
		}
	}
	return ov.EndObject()
}

func acceptMember(ov core.ObjectVisitor, name string, e Elem) error {
	switch {
	case e.obj != nil:
		nested, err := ov.VisitMemberObject(name)
		if err != nil || nested == nil {
			return err
		}
		_, err = e.obj.Accept(nested)
		return err
	case e.arr != nil:
		nested, err := ov.VisitMemberArray(name)
		if err != nil || nested == nil {
			return err
		}
		_, err = e.arr.Accept(nested)
		return err
	default:
		return ov.VisitMemberValue(name, e.val)
	}
}

// ─── 比较与转换 ───

// Equal 结构相等
//
// 快速路径: Shape 相同（或互为冻结副本）时只按槽位逐一比较，不比较字段名。
// 否则按字段名比较（顺序无关）。
func (o *Object) Equal(other *Object) bool {
	if o == other {
		return true
	}
	if o == nil || other == nil || len(o.slots) != len(other.slots) {
		return false
	}
	if o.shape.SameLayout(other.shape) {
		for i := range o.slots {
			if !o.slots[i].Equal(other.slots[i]) {
				return false
			}
		}
		return true
	}
	for i, e := range o.slots {
		oe, ok := other.Get(o.shape.Name(i))
		if !ok || !e.Equal(oe) {
			return false
		}
	}
	return true
}

// AsGeneric 转换为 map[string]any
func (o *Object) AsGeneric() map[string]any {
	m := make(map[string]any, len(o.slots))
	for i, e := range o.slots {
		m[o.shape.Name(i)] = e.AsGeneric()
	}
	return m
}

// String 以 { "name": value, ... } 格式打印
func (o *Object) String() string {
	s, err := printer.PrintObject(o)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}
