// Package model 提供基于 Shape 的 JSON 对象与数组
//
// Object 是 (Shape, 槽位数组) 对，同 schema 对象共享 Shape；Array 是可增长、
// 最终冻结的元素序列。二者构造期间由单一所有者独占，Freeze 之后不可变，
// 可被多个 goroutine 无锁并发读取。
package model

import (
	"errors"

	"github.com/uniyakcom/vjson/value"
)

var (
	// ErrFrozen 修改已冻结的 Object/Array
	ErrFrozen = errors.New("vjson: frozen")
	// ErrIndex 数组下标越界
	ErrIndex = errors.New("vjson: index out of range")
	// ErrCycle 把容器插入其自身的子树
	ErrCycle = errors.New("vjson: cycle")
)

// ElemKind 元素类别
type ElemKind uint8

const (
	ElemValue  ElemKind = iota // 标量
	ElemObject                 // 嵌套对象
	ElemArray                  // 嵌套数组
)

// String 返回类别名称
func (k ElemKind) String() string {
	switch k {
	case ElemObject:
		return "object"
	case ElemArray:
		return "array"
	default:
		return "value"
	}
}

// Elem 对象槽位或数组元素（非装箱记录）
//
// 标量直接内联在 val 中，数字/布尔不产生堆分配。
type Elem struct {
	obj *Object
	arr *Array
	val value.Value
}

// ValueElem 标量元素
func ValueElem(v value.Value) Elem { return Elem{val: v} }

// ObjectElem 对象元素
func ObjectElem(o *Object) Elem { return Elem{obj: o} }

// ArrayElem 数组元素
func ArrayElem(a *Array) Elem { return Elem{arr: a} }

// Kind 元素类别
func (e Elem) Kind() ElemKind {
	switch {
	case e.obj != nil:
		return ElemObject
	case e.arr != nil:
		return ElemArray
	default:
		return ElemValue
	}
}

// Value 返回标量；复合元素 ok 为 false
func (e Elem) Value() (value.Value, bool) {
	if e.obj != nil || e.arr != nil {
		return value.Value{}, false
	}
	return e.val, true
}

// Object 返回嵌套对象
func (e Elem) Object() (*Object, bool) { return e.obj, e.obj != nil }

// Array 返回嵌套数组
func (e Elem) Array() (*Array, bool) { return e.arr, e.arr != nil }

// Equal 结构相等
func (e Elem) Equal(o Elem) bool {
	switch e.Kind() {
	case ElemObject:
		return o.obj != nil && e.obj.Equal(o.obj)
	case ElemArray:
		return o.arr != nil && e.arr.Equal(o.arr)
	default:
		return o.obj == nil && o.arr == nil && e.val.Equal(o.val)
	}
}

// AsGeneric 转换为 map[string]any / []any / 标量的通用表示
func (e Elem) AsGeneric() any {
	switch {
	case e.obj != nil:
		return e.obj.AsGeneric()
	case e.arr != nil:
		return e.arr.AsGeneric()
	default:
		return e.val.AsGeneric()
	}
}

// reaches 报告 e 的子树是否包含 obj 或 arr
//
// 冻结是深度的，已冻结子树不可能包含未冻结的容器。
func (e Elem) reaches(obj *Object, arr *Array) bool {
	switch {
	case e.obj != nil:
		if e.obj == obj {
			return true
		}
		if e.obj.Frozen() {
			return false
		}
		for _, c := range e.obj.slots {
			if c.reaches(obj, arr) {
				return true
			}
		}
	case e.arr != nil:
		if e.arr == arr {
			return true
		}
		if e.arr.Frozen() {
			return false
		}
		for _, c := range e.arr.elems[:e.arr.length()] {
			if c.reaches(obj, arr) {
				return true
			}
		}
	}
	return false
}

func (e Elem) freeze() {
	switch {
	case e.obj != nil:
		e.obj.Freeze()
	case e.arr != nil:
		e.arr.Freeze()
	}
}

// nextCap 按 1.5 倍扩容，下限 8
func nextCap(c int) int {
	c += c / 2
	if c < 8 {
		c = 8
	}
	return c
}
