// Package query 在 token 流上按路径惰性查找值
//
// 不构建 DOM：路径以外的子树全部被跳过，命中后立即停止读取。
//
// 路径段: 对象成员名或数组下标（十进制）
//
//	query.Get(lexer.New(`{"user":{"tags":["a","b"]}}`, nil), "user", "tags", "1") → "b"
package query

import (
	"errors"
	"strconv"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/model"
	"github.com/uniyakcom/vjson/reader"
	"github.com/uniyakcom/vjson/shape"
	"github.com/uniyakcom/vjson/token"
	"github.com/uniyakcom/vjson/value"
)

// errFound 命中后终止遍历
var errFound = errors.New("query: found")

// Get 查找路径上的标量；路径不存在或终点为复合值时 ok 为 false
func Get(c token.Cursor, path ...string) (v value.Value, ok bool, err error) {
	e, ok, err := lookup(c, nil, path)
	if err != nil || !ok {
		return value.Value{}, false, err
	}
	v, ok = e.Value()
	return v, ok, nil
}

// GetElem 查找路径上的任意值，复合值在 t 上物化（t 为 nil 时新建）
func GetElem(c token.Cursor, t *shape.Table, path ...string) (model.Elem, bool, error) {
	if t == nil {
		t = shape.NewTable()
	}
	return lookup(c, t, path)
}

// lookup t 为 nil 时不物化复合终点
func lookup(c token.Cursor, t *shape.Table, path []string) (model.Elem, bool, error) {
	if c == nil {
		return model.Elem{}, false, core.ErrNilArgument
	}
	q := &query{path: path, table: t}
	res, err := reader.New(c, nil).Read(&arrayStep{q: q, depth: -1})
	switch {
	case errors.Is(err, errFound):
		return q.found, true, nil
	case err != nil:
		return model.Elem{}, false, err
	}
	if len(path) == 0 {
		if v, ok := res.(value.Value); ok {
			return model.ValueElem(v), true, nil
		}
		if q.hit {
			return q.found, true, nil
		}
	}
	return model.Elem{}, false, nil
}

type query struct {
	path  []string
	table *shape.Table
	found model.Elem
	hit   bool
}

// objectEnd / arrayEnd 复合终点：t 非 nil 时物化后以 errFound 终止，否则跳过
func (q *query) objectEnd() (core.ObjectVisitor, error) {
	if q.table == nil {
		return nil, nil
	}
	b := model.NewObjectBuilder(q.table)
	return &endObject{ObjectBuilder: b, q: q}, nil
}

func (q *query) arrayEnd() (core.ArrayVisitor, error) {
	if q.table == nil {
		return nil, nil
	}
	b := model.NewArrayBuilder(q.table)
	return &endArray{ArrayBuilder: b, q: q}, nil
}

type endObject struct {
	*model.ObjectBuilder
	q *query
}

func (e *endObject) EndObject() (any, error) {
	r, _ := e.ObjectBuilder.EndObject()
	e.q.found, e.q.hit = model.ObjectElem(r.(*model.Object)), true
	return nil, errFound
}

type endArray struct {
	*model.ArrayBuilder
	q *query
}

func (e *endArray) EndArray() (any, error) {
	r, _ := e.ArrayBuilder.EndArray()
	e.q.found, e.q.hit = model.ArrayElem(r.(*model.Array)), true
	return nil, errFound
}

// ─── 路径步进 ───

// objectStep 位于 path[depth] 所在的对象
type objectStep struct {
	q     *query
	depth int
}

func (s *objectStep) match(name string) (last, ok bool) {
	if name != s.q.path[s.depth] {
		return false, false
	}
	return s.depth == len(s.q.path)-1, true
}

func (s *objectStep) VisitMemberValue(name string, v value.Value) error {
	if last, ok := s.match(name); ok && last {
		s.q.found = model.ValueElem(v)
		return errFound
	}
	return nil
}

func (s *objectStep) VisitMemberObject(name string) (core.ObjectVisitor, error) {
	last, ok := s.match(name)
	switch {
	case !ok:
		return nil, nil
	case last:
		return s.q.objectEnd()
	default:
		return &objectStep{q: s.q, depth: s.depth + 1}, nil
	}
}

func (s *objectStep) VisitMemberArray(name string) (core.ArrayVisitor, error) {
	last, ok := s.match(name)
	switch {
	case !ok:
		return nil, nil
	case last:
		return s.q.arrayEnd()
	default:
		return &arrayStep{q: s.q, depth: s.depth + 1, want: -1}, nil
	}
}

func (s *objectStep) EndObject() (any, error) { return nil, nil }

// arrayStep 位于 path[depth] 所在的数组；depth 为 -1 时是顶层虚拟数组
type arrayStep struct {
	q     *query
	depth int
	want  int // path[depth] 的下标，-1 表示尚未解析
	i     int
}

// next 当前元素是否为目标下标，并推进计数
func (s *arrayStep) next() (last, ok bool) {
	i := s.i
	s.i++
	if s.depth < 0 {
		// 顶层: 唯一的值即路径起点
		return len(s.q.path) == 0, true
	}
	if s.want < 0 {
		n, err := strconv.Atoi(s.q.path[s.depth])
		if err != nil || n < 0 {
			return false, false
		}
		s.want = n
	}
	return s.depth == len(s.q.path)-1, i == s.want
}

func (s *arrayStep) VisitValue(v value.Value) error {
	if last, ok := s.next(); ok && last {
		s.q.found = model.ValueElem(v)
		return errFound
	}
	return nil
}

func (s *arrayStep) VisitObject() (core.ObjectVisitor, error) {
	last, ok := s.next()
	switch {
	case !ok:
		return nil, nil
	case last:
		return s.q.objectEnd()
	case s.depth+1 >= len(s.q.path):
		return nil, nil
	default:
		return &objectStep{q: s.q, depth: s.depth + 1}, nil
	}
}

func (s *arrayStep) VisitArray() (core.ArrayVisitor, error) {
	last, ok := s.next()
	switch {
	case !ok:
		return nil, nil
	case last:
		return s.q.arrayEnd()
	case s.depth+1 >= len(s.q.path):
		return nil, nil
	default:
		return &arrayStep{q: s.q, depth: s.depth + 1, want: -1}, nil
	}
}

func (s *arrayStep) EndArray() (any, error) { return nil, nil }
