package model_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/model"
	"github.com/uniyakcom/vjson/reader"
	"github.com/uniyakcom/vjson/shape"
	"github.com/uniyakcom/vjson/value"
)

// TestShapeSharingExample 同顺序插入同名字段的对象引用同一个 Shape
func TestShapeSharingExample(t *testing.T) {
	tab := shape.NewTable()
	a := model.NewObject(tab)
	b := model.NewObject(tab)
	require.NoError(t, a.Set("x", value.Int(1)))
	require.NoError(t, a.Set("y", value.Int(2)))
	require.NoError(t, b.Set("x", value.Int(5)))
	require.NoError(t, b.Set("y", value.Int(6)))

	if a.Shape() != b.Shape() {
		t.Fatalf("shapes differ: %v vs %v", a.Shape(), b.Shape())
	}
	if tab.Len() != 3 {
		t.Errorf("table len = %d, want 3 (empty, x, x.y)", tab.Len())
	}

	a.Freeze()
	b.Freeze()
	if a.Shape() != b.Shape() {
		t.Error("frozen shapes should be shared too")
	}
	if !a.Shape().Frozen() || a.Shape().Base() == a.Shape() {
		t.Error("frozen shape should point at its unfrozen base")
	}
}

// TestObjectDifferentOrder 不同插入顺序得到不同 Shape，但结构相等
func TestObjectDifferentOrder(t *testing.T) {
	tab := shape.NewTable()
	a := model.NewObject(tab)
	b := model.NewObject(tab)
	require.NoError(t, a.Set("x", value.Int(1)))
	require.NoError(t, a.Set("y", value.Int(2)))
	require.NoError(t, b.Set("y", value.Int(2)))
	require.NoError(t, b.Set("x", value.Int(1)))

	if a.Shape() == b.Shape() {
		t.Error("different insertion order should not share a shape")
	}
	if !a.Equal(b) {
		t.Error("objects with the same members should be equal")
	}
	require.NoError(t, b.Set("x", value.Int(9)))
	if a.Equal(b) {
		t.Error("objects with different values should not be equal")
	}
}

// TestObjectDuplicateName 重复字段名覆盖槽位
func TestObjectDuplicateName(t *testing.T) {
	o := model.NewObject(nil)
	require.NoError(t, o.Set("k", value.Int(1)))
	s := o.Shape()
	require.NoError(t, o.Set("k", value.String("two")))
	if o.Len() != 1 || o.Shape() != s {
		t.Fatalf("len = %d, shape changed = %v", o.Len(), o.Shape() != s)
	}
	v, ok := o.Value("k")
	if !ok {
		t.Fatal("k missing")
	}
	if got, _ := v.StringValue(); got != "two" {
		t.Errorf("k = %q, want two", got)
	}
}

// TestObjectFreeze 冻结幂等且冻结后写入失败
func TestObjectFreeze(t *testing.T) {
	o := model.NewObject(nil)
	child := model.NewArray()
	require.NoError(t, child.Append(value.Int(1)))
	require.NoError(t, o.SetArray("items", child))

	f1 := o.Freeze()
	s := o.Shape()
	f2 := o.Freeze()
	if f1 != f2 || o.Shape() != s {
		t.Error("Freeze should be idempotent")
	}
	if !child.Frozen() {
		t.Error("nested array should be frozen")
	}

	err := o.Set("x", value.Null())
	if !errors.Is(err, model.ErrFrozen) {
		t.Errorf("Set after freeze = %v, want ErrFrozen", err)
	}
	if err := child.Append(value.Int(2)); !errors.Is(err, model.ErrFrozen) {
		t.Errorf("Append on nested frozen = %v, want ErrFrozen", err)
	}
}

// TestObjectNilArgument nil 复合参数在状态变更前失败
func TestObjectNilArgument(t *testing.T) {
	o := model.NewObject(nil)
	if err := o.SetObject("x", nil); !errors.Is(err, core.ErrNilArgument) {
		t.Errorf("SetObject(nil) = %v", err)
	}
	if err := o.SetArray("x", nil); !errors.Is(err, core.ErrNilArgument) {
		t.Errorf("SetArray(nil) = %v", err)
	}
	if o.Len() != 0 {
		t.Errorf("len = %d, want 0", o.Len())
	}
	if _, err := o.Accept(nil); !errors.Is(err, core.ErrNilArgument) {
		t.Errorf("Accept(nil) = %v", err)
	}
}

// TestCycleRejected 测试容器不能插入其自身的子树
func TestCycleRejected(t *testing.T) {
	o := model.NewObject(nil)
	require.ErrorIs(t, o.SetObject("self", o), model.ErrCycle)
	require.Equal(t, 0, o.Len())

	a := model.NewArray()
	require.ErrorIs(t, a.AppendArray(a), model.ErrCycle)

	// 间接环: o → arr → inner，再把 o 放进 inner
	inner := model.NewObject(nil)
	arr := model.NewArray()
	require.NoError(t, arr.AppendObject(inner))
	require.NoError(t, o.SetArray("list", arr))
	require.ErrorIs(t, inner.SetObject("up", o), model.ErrCycle)
	require.ErrorIs(t, arr.AppendElem(model.ObjectElem(o)), model.ErrCycle)

	// 同一子节点可出现多次
	leaf := model.NewArray()
	require.NoError(t, o.SetArray("x", leaf))
	require.NoError(t, o.SetArray("y", leaf))

	o.Freeze()
	require.Equal(t, `{ "list": [ {} ], "x": [], "y": [] }`, o.String())
	require.NotZero(t, o.Hash())
}

// TestArrayJoleneExample 冻结后 Get(1) 与追加失败
func TestArrayJoleneExample(t *testing.T) {
	a := model.NewArray()
	for _, s := range []string{"Jolene", "Joleene", "Joleeeene"} {
		require.NoError(t, a.Append(value.String(s)))
	}
	a.Freeze()

	v, err := a.Value(1)
	require.NoError(t, err)
	if s, _ := v.StringValue(); s != "Joleene" {
		t.Errorf("get(1) = %q, want Joleene", s)
	}
	if err := a.Append(value.String("Dolly")); !errors.Is(err, model.ErrFrozen) {
		t.Errorf("append after freeze = %v, want ErrFrozen", err)
	}
	if a.Len() != 3 {
		t.Errorf("len = %d, want 3", a.Len())
	}
	if got := a.String(); got != `[ "Jolene", "Joleene", "Joleeeene" ]` {
		t.Errorf("String = %s", got)
	}
}

// TestArrayGrowthAndBounds 扩容保持顺序，越界返回 ErrIndex
func TestArrayGrowthAndBounds(t *testing.T) {
	a := model.NewArray()
	for i := range 100 {
		require.NoError(t, a.Append(value.Int(int32(i))))
	}
	for i, e := range a.All() {
		v, _ := e.Value()
		if n, _ := v.Int(); int(n) != i {
			t.Fatalf("elem %d = %d", i, n)
		}
	}
	if _, err := a.Get(100); !errors.Is(err, model.ErrIndex) {
		t.Errorf("Get(100) = %v, want ErrIndex", err)
	}
	if _, err := a.Get(-1); !errors.Is(err, model.ErrIndex) {
		t.Errorf("Get(-1) = %v, want ErrIndex", err)
	}

	a.Freeze()
	a.Freeze()
	if a.Len() != 100 || !a.Frozen() {
		t.Errorf("len = %d frozen = %v", a.Len(), a.Frozen())
	}
}

// TestArrayValueMismatch 复合元素的 Value 为类型不匹配
func TestArrayValueMismatch(t *testing.T) {
	a := model.NewArray()
	require.NoError(t, a.AppendObject(model.NewObject(nil)))
	if _, err := a.Value(0); !errors.Is(err, value.ErrKindMismatch) {
		t.Errorf("Value(0) = %v, want ErrKindMismatch", err)
	}
}

// TestBuilderFromReader 构建器物化解析结果并冻结全部节点
func TestBuilderFromReader(t *testing.T) {
	tab := shape.NewTable()
	res, err := reader.ParseString(
		`[{"x":1,"y":2},{"x":5,"y":6},{"nested":{"deep":[true,null]}}]`,
		model.NewBuilder(tab), nil)
	require.NoError(t, err)

	arr, ok := res.(*model.Array)
	require.True(t, ok, "result %T", res)
	require.True(t, arr.Frozen())
	require.Equal(t, 3, arr.Len())

	e0, _ := arr.Get(0)
	e1, _ := arr.Get(1)
	o0, _ := e0.Object()
	o1, _ := e1.Object()
	if o0.Shape() != o1.Shape() {
		t.Error("sibling objects with the same schema should share a shape")
	}
	if !o0.Frozen() {
		t.Error("nested object should be frozen")
	}
	if got := arr.String(); got != `[ { "x": 1, "y": 2 }, { "x": 5, "y": 6 }, { "nested": { "deep": [ true, null ] } } ]` {
		t.Errorf("String = %s", got)
	}
}

// TestAcceptReplay Accept 按 Shape 顺序重放并把结构复制到新构建器
func TestAcceptReplay(t *testing.T) {
	res, err := reader.ParseString(`{"b":1,"a":[1,{"c":"d"}],"e":{}}`, model.NewBuilder(nil), nil)
	require.NoError(t, err)
	src := res.(*model.Object)

	var names []string
	_, err = src.Accept(&core.ObjectFuncs{
		Value:  func(name string, _ value.Value) error { names = append(names, name); return nil },
		Object: func(name string) (core.ObjectVisitor, error) { names = append(names, name); return nil, nil },
		Array:  func(name string) (core.ArrayVisitor, error) { names = append(names, name); return nil, nil },
	})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "e"}, names)

	cp, err := src.Accept(model.NewObjectBuilder(shape.NewTable()))
	require.NoError(t, err)
	if !src.Equal(cp.(*model.Object)) {
		t.Error("replayed copy should equal the source")
	}
}

// TestArrayAcceptPullInside 聚合器从冻结数组取第一个元素后停止
func TestArrayAcceptPullInside(t *testing.T) {
	a := model.NewArray()
	for i := range 10 {
		o := model.NewObject(nil)
		require.NoError(t, o.Set("i", value.Int(int32(i))))
		require.NoError(t, a.AppendObject(o))
	}
	a.Freeze()

	visited := 0
	r, err := a.Accept(&core.ArrayFuncs{
		Object: func() (core.ObjectVisitor, error) {
			visited++
			return model.NewObjectBuilder(nil), nil
		},
		Reduce: func(elems core.Seq) (any, error) {
			first, ok, err := core.First(elems)
			if err != nil || !ok {
				return nil, err
			}
			return first, nil
		},
	})
	require.NoError(t, err)
	if visited != 1 {
		t.Errorf("visited = %d, want 1", visited)
	}
	v, _ := r.(*model.Object).Value("i")
	if n, _ := v.Int(); n != 0 {
		t.Errorf("first i = %d, want 0", n)
	}
}

// TestConcurrentFrozenReads 冻结后的树可被多个 goroutine 无锁读取
func TestConcurrentFrozenReads(t *testing.T) {
	res, err := reader.ParseString(
		`{"name":"Mr Robot","children":["Elliot","Darlene"],"meta":{"seasons":4}}`,
		model.NewBuilder(nil), nil)
	require.NoError(t, err)
	o := res.(*model.Object)
	want := o.String()

	var g errgroup.Group
	for range 16 {
		g.Go(func() error {
			for range 100 {
				if o.String() != want {
					return errors.New("print mismatch")
				}
				e, ok := o.Get("children")
				if !ok {
					return errors.New("children missing")
				}
				arr, _ := e.Array()
				if _, err := arr.Value(1); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

type show struct {
	Name     string
	Children []string
	Meta     struct {
		Seasons int
	}
}

// TestGenericBinding AsGeneric 足以让外部绑定器填充静态类型
func TestGenericBinding(t *testing.T) {
	res, err := reader.ParseString(
		`{"name":"Mr Robot","children":["Elliot","Darlene"],"meta":{"seasons":4}}`,
		model.NewBuilder(nil), nil)
	require.NoError(t, err)

	var s show
	require.NoError(t, mapstructure.Decode(res.(*model.Object).AsGeneric(), &s))
	require.Equal(t, "Mr Robot", s.Name)
	require.Equal(t, []string{"Elliot", "Darlene"}, s.Children)
	require.Equal(t, 4, s.Meta.Seasons)
}

// TestFromGeneric 通用树转换为冻结模型，同 key 集合共享 Shape
func TestFromGeneric(t *testing.T) {
	tab := shape.NewTable()
	e, err := model.FromGeneric(tab, []any{
		map[string]any{"b": 1, "a": "x"},
		map[string]any{"a": "y", "b": 2},
		nil,
	})
	require.NoError(t, err)
	arr, ok := e.Array()
	require.True(t, ok)
	require.True(t, arr.Frozen())

	e0, _ := arr.Get(0)
	e1, _ := arr.Get(1)
	o0, _ := e0.Object()
	o1, _ := e1.Object()
	require.Same(t, o0.Shape(), o1.Shape())
	require.Equal(t, `{ "a": "x", "b": 1 }`, o0.String())
}

// TestObjectConcurrentBuildsSeparateTables 独立 Table 上的并发构建互不干扰
func TestObjectConcurrentBuildsSeparateTables(t *testing.T) {
	var wg sync.WaitGroup
	shapes := make([]*shape.Shape, 8)
	for i := range shapes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := model.NewObject(shape.NewTable())
			_ = o.Set("a", value.Int(int32(i)))
			_ = o.Set("b", value.Int(int32(i)))
			shapes[i] = o.Freeze().Shape()
		}()
	}
	wg.Wait()
	for i, s := range shapes {
		if s.Len() != 2 || !s.Frozen() {
			t.Errorf("shape %d = %v", i, s)
		}
	}
}

// TestHashConsistentWithEqual 结构相等的树哈希相同
func TestHashConsistentWithEqual(t *testing.T) {
	parse := func(s string) model.Elem {
		t.Helper()
		res, err := reader.ParseString(s, model.NewBuilder(nil), nil)
		require.NoError(t, err)
		switch x := res.(type) {
		case *model.Object:
			return model.ObjectElem(x)
		case *model.Array:
			return model.ArrayElem(x)
		}
		return model.ValueElem(res.(value.Value))
	}

	a := parse(`{"x":1,"y":[true,"s"],"z":{}}`)
	b := parse(`{"z":{},"y":[true,"s"],"x":1}`)
	require.True(t, a.Equal(b))
	require.Equal(t, a.Hash(), b.Hash())

	c := parse(`{"x":1,"y":["s",true],"z":{}}`)
	require.False(t, a.Equal(c))
	require.NotEqual(t, a.Hash(), c.Hash())

	require.NotEqual(t, parse(`{}`).Hash(), parse(`[]`).Hash())
	require.NotEqual(t, parse(`{"a":1}`).Hash(), parse(`{"b":1}`).Hash())
}
