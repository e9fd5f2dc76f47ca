// Package shape 提供对象字段布局的结构共享表
//
// Shape 描述 name→slot 分配。以相同顺序插入相同字段名的对象，
// 从同一个 Table 的空 Shape 出发，总是得到同一个 *Shape 实例，
// 因此同 schema 对象的结构比较退化为一次指针比较加槽位数组比较。
//
// Table 是以整数 ID 索引的 arena：转换缓存以 (父 ID, 字段名) 为键，
// 冻结副本同样按 ID 记忆。*Shape 本身不可变，构造完成后可并发读取，
// Table 的写入（Transition/Freeze）要求单写者，每个构造根使用独立 Table。
package shape

import (
	"errors"
	"fmt"
	"slices"
)

// ID Shape 在所属 Table 中的索引
type ID uint32

// EmptyID 每个 Table 的规范空 Shape
const EmptyID ID = 0

// linearMax 字段数不超过此值时线性扫描，不建 map
const linearMax = 8

var (
	// ErrFrozenShape 在冻结 Shape 上继续扩展
	ErrFrozenShape = errors.New("vjson: shape is frozen")
	// ErrForeignShape Shape 不属于该 Table
	ErrForeignShape = errors.New("vjson: shape belongs to another table")
)

// Shape 不可变的字段布局
type Shape struct {
	table  *Table
	slots  map[string]int // 字段数 > linearMax 时才构建
	base   *Shape         // 冻结 Shape 指向其未冻结原型；未冻结时指向自身
	names  []string
	id     ID
	frozen bool
}

// ID 返回在所属 Table 中的索引
func (s *Shape) ID() ID { return s.id }

// Len 字段数
func (s *Shape) Len() int { return len(s.names) }

// Name 返回槽位 i 的字段名
func (s *Shape) Name(i int) string { return s.names[i] }

// Names 返回有序字段名副本
func (s *Shape) Names() []string { return slices.Clone(s.names) }

// Frozen 是否为冻结 Shape
func (s *Shape) Frozen() bool { return s.frozen }

// Base 返回未冻结原型（未冻结 Shape 返回自身）
func (s *Shape) Base() *Shape { return s.base }

// SameLayout 两个 Shape 是否描述同一布局（相同或互为冻结副本）
func (s *Shape) SameLayout(o *Shape) bool {
	return s == o || (s != nil && o != nil && s.base == o.base)
}

// SlotOf 返回字段名对应的槽位
func (s *Shape) SlotOf(name string) (int, bool) {
	if s.slots != nil {
		i, ok := s.slots[name]
		return i, ok
	}
	for i, n := range s.names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

func (s *Shape) String() string {
	if s.frozen {
		return fmt.Sprintf("shape#%d%v(frozen)", s.id, s.names)
	}
	return fmt.Sprintf("shape#%d%v", s.id, s.names)
}

// edge 转换缓存键
type edge struct {
	name   string
	parent ID
}

// noFrozen frozen 表中尚未冻结的占位
const noFrozen = ^ID(0)

// Table Shape arena
type Table struct {
	shapes []*Shape
	frozen []ID // 按 ID 记忆冻结副本
	edges  map[edge]ID
	hits   uint64
}

// NewTable 创建只含规范空 Shape 的 Table
func NewTable() *Table {
	t := &Table{edges: make(map[edge]ID)}
	t.add(nil, false, nil)
	return t
}

func (t *Table) add(names []string, frozen bool, base *Shape) *Shape {
	s := &Shape{
		table:  t,
		names:  names,
		id:     ID(len(t.shapes)),
		frozen: frozen,
	}
	if base == nil {
		base = s
	}
	s.base = base
	if len(names) > linearMax {
		if frozen {
			s.slots = base.slots // 冻结副本共享同一映射
		} else {
			s.slots = make(map[string]int, len(names))
			for i, n := range names {
				s.slots[n] = i
			}
		}
	}
	t.shapes = append(t.shapes, s)
	t.frozen = append(t.frozen, noFrozen)
	return s
}

// Empty 返回规范空 Shape
func (t *Table) Empty() *Shape { return t.shapes[EmptyID] }

// Len 已驻留的 Shape 数量（含冻结副本）
func (t *Table) Len() int { return len(t.shapes) }

// Hits 转换缓存命中次数
func (t *Table) Hits() uint64 { return t.hits }

// Lookup 按 ID 取 Shape
func (t *Table) Lookup(id ID) (*Shape, bool) {
	if int(id) >= len(t.shapes) {
		return nil, false
	}
	return t.shapes[id], true
}

// Owns Shape 是否属于该 Table
func (t *Table) Owns(s *Shape) bool {
	return s != nil && s.table == t
}

// SlotOf 返回 name 在 s 中的槽位
func (t *Table) SlotOf(s *Shape, name string) (int, bool) {
	return s.SlotOf(name)
}

// Transition 返回在 s 之后追加 name 的 Shape
//
// 结果按 (s, name) 记忆：同一起点、同一字段名总是返回同一实例。
// name 已存在时返回 s 本身（重复插入覆盖槽位，不增长）。
func (t *Table) Transition(s *Shape, name string) (*Shape, error) {
	if !t.Owns(s) {
		return nil, ErrForeignShape
	}
	if s.frozen {
		return nil, ErrFrozenShape
	}
	if _, ok := s.SlotOf(name); ok {
		return s, nil
	}
	k := edge{parent: s.id, name: name}
	if id, ok := t.edges[k]; ok {
		t.hits++
		return t.shapes[id], nil
	}
	names := make([]string, len(s.names)+1)
	copy(names, s.names)
	names[len(s.names)] = name
	next := t.add(names, false, nil)
	t.edges[k] = next.id
	return next, nil
}

// Freeze 返回 s 的冻结副本（每个 Shape 只创建一次；冻结 Shape 返回自身）
func (t *Table) Freeze(s *Shape) (*Shape, error) {
	if !t.Owns(s) {
		return nil, ErrForeignShape
	}
	if s.frozen {
		return s, nil
	}
	if id := t.frozen[s.id]; id != noFrozen {
		return t.shapes[id], nil
	}
	f := t.add(s.names, true, s)
	t.frozen[s.id] = f.id
	return f, nil
}

// Path 从空 Shape 依次转换 names，返回终点 Shape
func (t *Table) Path(names ...string) (*Shape, error) {
	s := t.Empty()
	for _, n := range names {
		var err error
		if s, err = t.Transition(s, n); err != nil {
			return nil, err
		}
	}
	return s, nil
}
