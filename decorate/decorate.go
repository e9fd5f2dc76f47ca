// Package decorate 提供在访问者协议之上透明组合的装饰器
//
// 装饰器包装一个访问者并返回同类型访问者，可任意嵌套:
//
//	ov = decorate.RenameDeep(decorate.Filter(ov, keep), strings.ToLower)
//
// 包装 nil 访问者得到 nil，跳过语义保持不变。数组装饰器保留被包装者的
// 分派方式：被包装者是 PullInside 聚合器时，包装结果也是。
package decorate

import (
	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/value"
)

// ─── 对象包装基础 ───

// objectWrap 成员名映射 + 嵌套访问者变换
//
// name 返回 false 时丢弃该成员（复合成员被跳过）。
type objectWrap struct {
	inner core.ObjectVisitor
	name  func(string) (string, bool)
	obj   func(core.ObjectVisitor) core.ObjectVisitor
	arr   func(core.ArrayVisitor) core.ArrayVisitor
}

func (w *objectWrap) mapName(name string) (string, bool) {
	if w.name == nil {
		return name, true
	}
	return w.name(name)
}

func (w *objectWrap) VisitMemberValue(name string, v value.Value) error {
	n, ok := w.mapName(name)
	if !ok {
		return nil
	}
	return w.inner.VisitMemberValue(n, v)
}

func (w *objectWrap) VisitMemberObject(name string) (core.ObjectVisitor, error) {
	n, ok := w.mapName(name)
	if !ok {
		return nil, nil
	}
	nested, err := w.inner.VisitMemberObject(n)
	if err != nil || nested == nil {
		return nil, err
	}
	if w.obj != nil {
		return w.obj(nested), nil
	}
	return nested, nil
}

func (w *objectWrap) VisitMemberArray(name string) (core.ArrayVisitor, error) {
	n, ok := w.mapName(name)
	if !ok {
		return nil, nil
	}
	nested, err := w.inner.VisitMemberArray(n)
	if err != nil || nested == nil {
		return nil, err
	}
	if w.arr != nil {
		return w.arr(nested), nil
	}
	return nested, nil
}

func (w *objectWrap) EndObject() (any, error) { return w.inner.EndObject() }

// ─── 数组包装基础 ───

// arrayWrap 嵌套访问者变换，标量原样转发
type arrayWrap struct {
	inner core.ArrayVisitor
	obj   func(core.ObjectVisitor) core.ObjectVisitor
	arr   func(core.ArrayVisitor) core.ArrayVisitor
}

func (w *arrayWrap) VisitValue(v value.Value) error { return w.inner.VisitValue(v) }

func (w *arrayWrap) VisitObject() (core.ObjectVisitor, error) {
	nested, err := w.inner.VisitObject()
	if err != nil || nested == nil {
		return nil, err
	}
	if w.obj != nil {
		return w.obj(nested), nil
	}
	return nested, nil
}

func (w *arrayWrap) VisitArray() (core.ArrayVisitor, error) {
	nested, err := w.inner.VisitArray()
	if err != nil || nested == nil {
		return nil, err
	}
	if w.arr != nil {
		return w.arr(nested), nil
	}
	return nested, nil
}

func (w *arrayWrap) EndArray() (any, error) { return w.inner.EndArray() }

// aggWrap 被包装者为聚合器时的 arrayWrap
//
// 驱动方经由包装者的 VisitObject/VisitArray 产出复合元素，变换照常生效。
type aggWrap struct {
	arrayWrap
	agg core.Aggregator
}

func (w *aggWrap) Mode() core.Mode { return core.PullInside }

func (w *aggWrap) Aggregate(elems core.Seq) (any, error) { return w.agg.Aggregate(elems) }

// wrapArray 按被包装者的分派方式返回 arrayWrap 或 aggWrap
func wrapArray(w *arrayWrap) core.ArrayVisitor {
	if agg, ok := core.AsAggregator(w.inner); ok {
		return &aggWrap{arrayWrap: *w, agg: agg}
	}
	return w
}
