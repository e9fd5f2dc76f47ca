package core

import "github.com/uniyakcom/vjson/value"

// ObjectFuncs 以函数字段实现 ObjectVisitor，nil 字段的行为:
//   - Value 为 nil 时忽略标量
//   - Object/Array 为 nil 时跳过子树
//   - End 为 nil 时结果为 nil
type ObjectFuncs struct {
	Value  func(name string, v value.Value) error
	Object func(name string) (ObjectVisitor, error)
	Array  func(name string) (ArrayVisitor, error)
	End    func() (any, error)
}

// VisitMemberValue 调用 Value
func (f *ObjectFuncs) VisitMemberValue(name string, v value.Value) error {
	if f.Value == nil {
		return nil
	}
	return f.Value(name, v)
}

// VisitMemberObject 调用 Object，nil 时跳过子树
func (f *ObjectFuncs) VisitMemberObject(name string) (ObjectVisitor, error) {
	if f.Object == nil {
		return nil, nil
	}
	return f.Object(name)
}

// VisitMemberArray 调用 Array，nil 时跳过子树
func (f *ObjectFuncs) VisitMemberArray(name string) (ArrayVisitor, error) {
	if f.Array == nil {
		return nil, nil
	}
	return f.Array(name)
}

// EndObject 调用 End
func (f *ObjectFuncs) EndObject() (any, error) {
	if f.End == nil {
		return nil, nil
	}
	return f.End()
}

// ArrayFuncs 以函数字段实现 ArrayVisitor，nil 字段语义同 ObjectFuncs
//
// Reduce 非 nil 时声明 PullInside，由 Aggregate 调用。
type ArrayFuncs struct {
	Value  func(v value.Value) error
	Object func() (ObjectVisitor, error)
	Array  func() (ArrayVisitor, error)
	End    func() (any, error)
	Reduce func(elems Seq) (any, error)
}

// VisitValue 调用 Value
func (f *ArrayFuncs) VisitValue(v value.Value) error {
	if f.Value == nil {
		return nil
	}
	return f.Value(v)
}

// VisitObject 调用 Object，nil 时跳过子树
func (f *ArrayFuncs) VisitObject() (ObjectVisitor, error) {
	if f.Object == nil {
		return nil, nil
	}
	return f.Object()
}

// VisitArray 调用 Array，nil 时跳过子树
func (f *ArrayFuncs) VisitArray() (ArrayVisitor, error) {
	if f.Array == nil {
		return nil, nil
	}
	return f.Array()
}

// EndArray 调用 End
func (f *ArrayFuncs) EndArray() (any, error) {
	if f.End == nil {
		return nil, nil
	}
	return f.End()
}

// Mode 有 Reduce 时为 PullInside
func (f *ArrayFuncs) Mode() Mode {
	if f.Reduce != nil {
		return PullInside
	}
	return Push
}

// Aggregate 调用 Reduce
//
// ArrayFuncs 总是实现 Aggregator，Mode 决定驱动方是否使用它。
func (f *ArrayFuncs) Aggregate(elems Seq) (any, error) {
	if f.Reduce == nil {
		return nil, nil
	}
	return f.Reduce(elems)
}

// NopObject 接收并丢弃标量、跳过所有子树的对象访问者
func NopObject() ObjectVisitor { return &ObjectFuncs{} }

// NopArray 接收并丢弃标量、跳过所有子树的数组访问者
func NopArray() ArrayVisitor { return &ArrayFuncs{} }
