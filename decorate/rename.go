package decorate

import "github.com/uniyakcom/vjson/core"

func renamer(fn func(string) string) func(string) (string, bool) {
	return func(name string) (string, bool) { return fn(name), true }
}

// Rename 仅重命名 ov 自身的成员，嵌套访问者原样返回
func Rename(ov core.ObjectVisitor, fn func(string) string) core.ObjectVisitor {
	if ov == nil {
		return nil
	}
	if fn == nil {
		return ov
	}
	return &objectWrap{inner: ov, name: renamer(fn)}
}

// RenameDeep 重命名 ov 及其全部后代对象的成员（含数组内的对象）
func RenameDeep(ov core.ObjectVisitor, fn func(string) string) core.ObjectVisitor {
	if ov == nil {
		return nil
	}
	if fn == nil {
		return ov
	}
	return &objectWrap{
		inner: ov,
		name:  renamer(fn),
		obj:   func(n core.ObjectVisitor) core.ObjectVisitor { return RenameDeep(n, fn) },
		arr:   func(n core.ArrayVisitor) core.ArrayVisitor { return RenameDeepArray(n, fn) },
	}
}

// RenameDeepArray 重命名 av 后代对象的成员
func RenameDeepArray(av core.ArrayVisitor, fn func(string) string) core.ArrayVisitor {
	if av == nil {
		return nil
	}
	if fn == nil {
		return av
	}
	return wrapArray(&arrayWrap{
		inner: av,
		obj:   func(n core.ObjectVisitor) core.ObjectVisitor { return RenameDeep(n, fn) },
		arr:   func(n core.ArrayVisitor) core.ArrayVisitor { return RenameDeepArray(n, fn) },
	})
}
