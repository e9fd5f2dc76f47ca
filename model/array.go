package model

import (
	"fmt"
	"iter"
	"math"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/printer"
	"github.com/uniyakcom/vjson/value"
)

// frozenBit size 的符号位记录冻结状态
const frozenBit int64 = math.MinInt64

// Array 可增长、最终冻结的有序元素序列
//
// size 的符号位编码冻结状态，所有读取都经过 length() 屏蔽该位。
type Array struct {
	elems []Elem // 底层缓冲，len(elems) 即容量
	size  int64
}

// NewArray 创建空数组
func NewArray() *Array { return &Array{} }

// length 已用元素数（屏蔽冻结位）
func (a *Array) length() int { return int(a.size &^ frozenBit) }

// Len 元素数
func (a *Array) Len() int { return a.length() }

// Frozen 是否已冻结
func (a *Array) Frozen() bool { return a.size&frozenBit != 0 }

// ─── 写入 ───

// Append 追加标量
func (a *Array) Append(v value.Value) error { return a.push(ValueElem(v)) }

// AppendObject 追加对象
func (a *Array) AppendObject(o *Object) error {
	if o == nil {
		return fmt.Errorf("%w: array element object", core.ErrNilArgument)
	}
	return a.push(ObjectElem(o))
}

// AppendArray 追加数组
func (a *Array) AppendArray(child *Array) error {
	if child == nil {
		return fmt.Errorf("%w: array element array", core.ErrNilArgument)
	}
	return a.push(ArrayElem(child))
}

// AppendElem 追加任意元素
func (a *Array) AppendElem(e Elem) error { return a.push(e) }

func (a *Array) push(e Elem) error {
	if a.Frozen() {
		return fmt.Errorf("%w: append to frozen array", ErrFrozen)
	}
	if e.reaches(nil, a) {
		return fmt.Errorf("%w: array element contains its parent", ErrCycle)
	}
	n := a.length()
	if n == len(a.elems) {
		grown := make([]Elem, nextCap(len(a.elems)))
		copy(grown, a.elems[:n])
		a.elems = grown
	}
	a.elems[n] = e
	a.size++
	return nil
}

// ─── 读取 ───

// Get 返回下标 i 的元素
func (a *Array) Get(i int) (Elem, error) {
	if i < 0 || i >= a.length() {
		return Elem{}, fmt.Errorf("%w: %d (len %d)", ErrIndex, i, a.length())
	}
	return a.elems[i], nil
}

// Value 返回下标 i 的标量
func (a *Array) Value(i int) (value.Value, error) {
	e, err := a.Get(i)
	if err != nil {
		return value.Value{}, err
	}
	v, ok := e.Value()
	if !ok {
		return value.Value{}, fmt.Errorf("%w: element %d is %s", value.ErrKindMismatch, i, e.Kind())
	}
	return v, nil
}

// All 按插入顺序迭代
func (a *Array) All() iter.Seq2[int, Elem] {
	return func(yield func(int, Elem) bool) {
		n := a.length()
		for i := 0; i < n; i++ {
			if !yield(i, a.elems[i]) {
				return
			}
		}
	}
}

// ─── 冻结 ───

// Freeze 冻结数组及其嵌套元素（幂等），返回 a
//
// 冻结时收缩底层缓冲到实际长度。
func (a *Array) Freeze() *Array {
	if a.Frozen() {
		return a
	}
	n := a.length()
	for _, e := range a.elems[:n] {
		e.freeze()
	}
	if n < len(a.elems) {
		a.elems = append([]Elem(nil), a.elems[:n]...)
	}
	a.size |= frozenBit
	return a
}

// ─── 访问者 ───

// Accept 按插入顺序向 av 重放元素，最后调用 EndArray
//
// av 声明 PullInside 时，全部元素作为一个 Seq 交给 Aggregate，
// 其返回值即结果，EndArray 不再调用。
func (a *Array) Accept(av core.ArrayVisitor) (any, error) {
	if av == nil {
		return nil, core.ErrNilArgument
	}
	if agg, ok := core.AsAggregator(av); ok {
		return agg.Aggregate(core.Once(a.replay(av)))
	}
	n := a.length()
	for _, e := range a.elems[:n] {
		if err := acceptElem(av, e); err != nil {
			return nil, err
		}
	}
	return av.EndArray()
}

func acceptElem(av core.ArrayVisitor, e Elem) error {
	switch {
	case e.obj != nil:
		nested, err := av.VisitObject()
		if err != nil || nested == nil {
			return err
		}
		_, err = e.obj.Accept(nested)
		return err
	case e.arr != nil:
		nested, err := av.VisitArray()
		if err != nil || nested == nil {
			return err
		}
		_, err = e.arr.Accept(nested)
		return err
	default:
		return av.VisitValue(e.val)
	}
}

// replay 把元素重放为 Seq，复合元素的结果由 av 提供的嵌套访问者产生
func (a *Array) replay(av core.ArrayVisitor) core.Seq {
	return func(yield func(any, error) bool) {
		for i := 0; i < a.length(); i++ {
			e := a.elems[i]
			var (
				r   any
				err error
			)
			switch {
			case e.obj != nil:
				var nested core.ObjectVisitor
				if nested, err = av.VisitObject(); err == nil {
					if nested == nil {
						continue
					}
					r, err = e.obj.Accept(nested)
				}
			case e.arr != nil:
				var nested core.ArrayVisitor
				if nested, err = av.VisitArray(); err == nil {
					if nested == nil {
						continue
					}
					r, err = e.arr.Accept(nested)
				}
			default:
				r = e.val
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// ─── 比较与转换 ───

// Equal 逐元素结构相等
func (a *Array) Equal(other *Array) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil || a.length() != other.length() {
		return false
	}
	for i := 0; i < a.length(); i++ {
		if !a.elems[i].Equal(other.elems[i]) {
			return false
		}
	}
	return true
}

// AsGeneric 转换为 []any
func (a *Array) AsGeneric() []any {
	out := make([]any, a.length())
	for i := range out {
		out[i] = a.elems[i].AsGeneric()
	}
	return out
}

// String 以 [ value, ... ] 格式打印
func (a *Array) String() string {
	s, err := printer.PrintArray(a)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}
