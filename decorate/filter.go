package decorate

import (
	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/value"
)

func keeper(pred func(string) bool) func(string) (string, bool) {
	return func(name string) (string, bool) { return name, pred(name) }
}

// Filter 丢弃 pred 返回 false 的成员，被丢弃的复合成员整体跳过
func Filter(ov core.ObjectVisitor, pred func(name string) bool) core.ObjectVisitor {
	if ov == nil {
		return nil
	}
	if pred == nil {
		return ov
	}
	return &objectWrap{inner: ov, name: keeper(pred)}
}

// FilterDeep 在 ov 及其全部后代对象上应用 pred
func FilterDeep(ov core.ObjectVisitor, pred func(name string) bool) core.ObjectVisitor {
	if ov == nil {
		return nil
	}
	if pred == nil {
		return ov
	}
	return &objectWrap{
		inner: ov,
		name:  keeper(pred),
		obj:   func(n core.ObjectVisitor) core.ObjectVisitor { return FilterDeep(n, pred) },
		arr:   func(n core.ArrayVisitor) core.ArrayVisitor { return FilterDeepArray(n, pred) },
	}
}

// FilterDeepArray 在 av 的后代对象上应用 pred
func FilterDeepArray(av core.ArrayVisitor, pred func(name string) bool) core.ArrayVisitor {
	if av == nil {
		return nil
	}
	if pred == nil {
		return av
	}
	return wrapArray(&arrayWrap{
		inner: av,
		obj:   func(n core.ObjectVisitor) core.ObjectVisitor { return FilterDeep(n, pred) },
		arr:   func(n core.ArrayVisitor) core.ArrayVisitor { return FilterDeepArray(n, pred) },
	})
}

// ─── 路径投影 ───

// Project 只保留路径匹配 paths 中某个模式的成员
//
// 路径为成员名以 '.' 连接；数组不占路径段，其元素对象沿用数组的路径。
// 命中模式终点的成员整体保留；中间路径上的标量成员被丢弃，
// 中间路径上数组的标量元素保留。
//
//	decorate.Project(ov, decorate.NewPathTrie("user.name", "meta.**"))
func Project(ov core.ObjectVisitor, paths *PathTrie) core.ObjectVisitor {
	if ov == nil {
		return nil
	}
	if paths == nil {
		return ov
	}
	return &projectObject{inner: ov, at: []*node{paths.root}}
}

// ProjectArray 以 av 为根应用 Project
func ProjectArray(av core.ArrayVisitor, paths *PathTrie) core.ArrayVisitor {
	if av == nil {
		return nil
	}
	if paths == nil {
		return av
	}
	return projectArr(av, []*node{paths.root})
}

type projectObject struct {
	inner core.ObjectVisitor
	at    []*node // 当前路径上仍然存活的 trie 节点
}

func (p *projectObject) VisitMemberValue(name string, v value.Value) error {
	if _, whole := step(p.at, name); whole {
		return p.inner.VisitMemberValue(name, v)
	}
	return nil
}

func (p *projectObject) VisitMemberObject(name string) (core.ObjectVisitor, error) {
	next, whole := step(p.at, name)
	if !whole && len(next) == 0 {
		return nil, nil
	}
	nested, err := p.inner.VisitMemberObject(name)
	if err != nil || nested == nil || whole {
		return nested, err
	}
	return &projectObject{inner: nested, at: next}, nil
}

func (p *projectObject) VisitMemberArray(name string) (core.ArrayVisitor, error) {
	next, whole := step(p.at, name)
	if !whole && len(next) == 0 {
		return nil, nil
	}
	nested, err := p.inner.VisitMemberArray(name)
	if err != nil || nested == nil || whole {
		return nested, err
	}
	return projectArr(nested, next), nil
}

func (p *projectObject) EndObject() (any, error) { return p.inner.EndObject() }

func projectArr(av core.ArrayVisitor, at []*node) core.ArrayVisitor {
	return wrapArray(&arrayWrap{
		inner: av,
		obj:   func(n core.ObjectVisitor) core.ObjectVisitor { return &projectObject{inner: n, at: at} },
		arr:   func(n core.ArrayVisitor) core.ArrayVisitor { return projectArr(n, at) },
	})
}
