package model

import (
	"fmt"
	"maps"
	"slices"

	"github.com/uniyakcom/vjson/shape"
	"github.com/uniyakcom/vjson/value"
)

// FromGeneric 把 map[string]any / []any / 标量树转换为冻结的元素
//
// map 的成员按名称排序插入，使同 key 集合的对象共享 Shape。
// 不可表示为 JSON 标量的值成为 Opaque。
func FromGeneric(t *shape.Table, v any) (Elem, error) {
	if t == nil {
		t = shape.NewTable()
	}
	e, err := fromGeneric(t, v, 0)
	if err != nil {
		return Elem{}, err
	}
	e.freeze()
	return e, nil
}

const maxGenericDepth = 512

func fromGeneric(t *shape.Table, v any, depth int) (Elem, error) {
	if depth > maxGenericDepth {
		return Elem{}, fmt.Errorf("vjson: generic value nested deeper than %d", maxGenericDepth)
	}
	switch x := v.(type) {
	case map[string]any:
		o := NewObject(t)
		for _, k := range slices.Sorted(maps.Keys(x)) {
			e, err := fromGeneric(t, x[k], depth+1)
			if err != nil {
				return Elem{}, err
			}
			if err := o.SetElem(k, e); err != nil {
				return Elem{}, err
			}
		}
		return ObjectElem(o), nil
	case []any:
		a := NewArray()
		for _, item := range x {
			e, err := fromGeneric(t, item, depth+1)
			if err != nil {
				return Elem{}, err
			}
			if err := a.AppendElem(e); err != nil {
				return Elem{}, err
			}
		}
		return ArrayElem(a), nil
	case *Object:
		if x == nil {
			return ValueElem(value.Null()), nil
		}
		return ObjectElem(x), nil
	case *Array:
		if x == nil {
			return ValueElem(value.Null()), nil
		}
		return ArrayElem(x), nil
	case Elem:
		return x, nil
	default:
		return ValueElem(value.Of(v)), nil
	}
}
