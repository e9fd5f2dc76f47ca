package model

import (
	"fmt"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/decorate"
	"github.com/uniyakcom/vjson/shape"
	"github.com/uniyakcom/vjson/value"
)

// ─── 构建访问者 ───
//
// 构建器把访问者事件物化为 Object/Array。嵌套节点的结果经
// decorate.PostObject/PostArray 拼接进父级，节点结束时冻结。
// 同一棵树上的所有对象共享一个 shape.Table。

// NewBuilder 返回物化任意顶层值的根数组访问者
//
// 顶层为对象/数组时结果为冻结的 *Object / *Array；标量由驱动方直接返回。
// t 为 nil 时使用新建的 Table。
func NewBuilder(t *shape.Table) core.ArrayVisitor {
	if t == nil {
		t = shape.NewTable()
	}
	return &rootBuilder{table: t}
}

type rootBuilder struct {
	table *shape.Table
}

func (b *rootBuilder) VisitValue(value.Value) error { return nil }

func (b *rootBuilder) VisitObject() (core.ObjectVisitor, error) {
	return NewObjectBuilder(b.table), nil
}

func (b *rootBuilder) VisitArray() (core.ArrayVisitor, error) {
	return NewArrayBuilder(b.table), nil
}

func (b *rootBuilder) EndArray() (any, error) { return nil, nil }

// ObjectBuilder 构建一个 Object
type ObjectBuilder struct {
	obj *Object
}

// NewObjectBuilder 在 t 上构建对象
func NewObjectBuilder(t *shape.Table) *ObjectBuilder {
	return &ObjectBuilder{obj: NewObject(t)}
}

func (b *ObjectBuilder) VisitMemberValue(name string, v value.Value) error {
	return b.obj.Set(name, v)
}

func (b *ObjectBuilder) VisitMemberObject(name string) (core.ObjectVisitor, error) {
	return decorate.PostObject(NewObjectBuilder(b.obj.table), func(r any) error {
		child, err := asObject(r)
		if err != nil {
			return err
		}
		return b.obj.SetObject(name, child)
	}), nil
}

func (b *ObjectBuilder) VisitMemberArray(name string) (core.ArrayVisitor, error) {
	return decorate.PostArray(NewArrayBuilder(b.obj.table), func(r any) error {
		child, err := asArray(r)
		if err != nil {
			return err
		}
		return b.obj.SetArray(name, child)
	}), nil
}

// EndObject 冻结并返回 *Object
func (b *ObjectBuilder) EndObject() (any, error) { return b.obj.Freeze(), nil }

// ArrayBuilder 构建一个 Array
type ArrayBuilder struct {
	table *shape.Table
	arr   *Array
}

// NewArrayBuilder 构建数组，元素对象使用 t
func NewArrayBuilder(t *shape.Table) *ArrayBuilder {
	if t == nil {
		t = shape.NewTable()
	}
	return &ArrayBuilder{table: t, arr: NewArray()}
}

func (b *ArrayBuilder) VisitValue(v value.Value) error { return b.arr.Append(v) }

func (b *ArrayBuilder) VisitObject() (core.ObjectVisitor, error) {
	return decorate.PostObject(NewObjectBuilder(b.table), func(r any) error {
		child, err := asObject(r)
		if err != nil {
			return err
		}
		return b.arr.AppendObject(child)
	}), nil
}

func (b *ArrayBuilder) VisitArray() (core.ArrayVisitor, error) {
	return decorate.PostArray(NewArrayBuilder(b.table), func(r any) error {
		child, err := asArray(r)
		if err != nil {
			return err
		}
		return b.arr.AppendArray(child)
	}), nil
}

// EndArray 冻结并返回 *Array
func (b *ArrayBuilder) EndArray() (any, error) { return b.arr.Freeze(), nil }

func asObject(r any) (*Object, error) {
	o, ok := r.(*Object)
	if !ok || o == nil {
		return nil, fmt.Errorf("vjson: nested result is %T, want *model.Object", r)
	}
	return o, nil
}

func asArray(r any) (*Array, error) {
	a, ok := r.(*Array)
	if !ok || a == nil {
		return nil, fmt.Errorf("vjson: nested result is %T, want *model.Array", r)
	}
	return a, nil
}
