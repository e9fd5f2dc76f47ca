package query_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/lexer"
	"github.com/uniyakcom/vjson/query"
	"github.com/uniyakcom/vjson/reader"
	"github.com/uniyakcom/vjson/token"
)

const doc = `{
	"user": {"name": "Mr Robot", "tags": ["a", "b"], "meta": {"seasons": 4}},
	"list": [[1, 2], {"x": "y"}, null]
}`

// TestGet 测试标量查找
func TestGet(t *testing.T) {
	tests := []struct {
		path []string
		want string
		ok   bool
	}{
		{[]string{"user", "name"}, `"Mr Robot"`, true},
		{[]string{"user", "tags", "1"}, `"b"`, true},
		{[]string{"user", "meta", "seasons"}, `4`, true},
		{[]string{"list", "0", "1"}, `2`, true},
		{[]string{"list", "1", "x"}, `"y"`, true},
		{[]string{"list", "2"}, `null`, true},
		{[]string{"user", "missing"}, ``, false},
		{[]string{"user", "tags", "5"}, ``, false},
		{[]string{"user", "tags", "x"}, ``, false},
		{[]string{"user", "name", "deeper"}, ``, false},
		{[]string{"user", "meta"}, ``, false}, // 复合终点
	}
	for _, tt := range tests {
		v, ok, err := query.Get(lexer.New(doc, nil), tt.path...)
		require.NoError(t, err)
		if ok != tt.ok {
			t.Errorf("Get(%v) ok = %v, want %v", tt.path, ok, tt.ok)
			continue
		}
		if ok && v.String() != tt.want {
			t.Errorf("Get(%v) = %s, want %s", tt.path, v, tt.want)
		}
	}
}

// TestGetElem 测试复合终点物化
func TestGetElem(t *testing.T) {
	e, ok, err := query.GetElem(lexer.New(doc, nil), nil, "user", "meta")
	require.NoError(t, err)
	require.True(t, ok)
	o, isObj := e.Object()
	require.True(t, isObj)
	require.True(t, o.Frozen())
	require.Equal(t, `{ "seasons": 4 }`, o.String())

	e, ok, err = query.GetElem(lexer.New(doc, nil), nil, "list", "0")
	require.NoError(t, err)
	require.True(t, ok)
	a, _ := e.Array()
	require.Equal(t, `[ 1, 2 ]`, a.String())

	e, ok, err = query.GetElem(lexer.New(`{"a":1}`, nil), nil)
	require.NoError(t, err)
	require.True(t, ok)
	o, _ = e.Object()
	require.Equal(t, `{ "a": 1 }`, o.String())
}

// TestGetTopLevel 测试顶层数组下标与顶层标量
func TestGetTopLevel(t *testing.T) {
	v, ok, err := query.Get(lexer.New(`[10,20,30]`, nil), "1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "20", v.String())

	v, ok, err = query.Get(lexer.New(`42`, nil))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "42", v.String())

	_, ok, err = query.Get(lexer.New(`42`, nil), "a")
	require.NoError(t, err)
	require.False(t, ok)
}

// TestGetStopsEarly 测试命中后不再读取
func TestGetStopsEarly(t *testing.T) {
	big := `{"a":1,"b":[` + strings.Repeat(`{"x":[1,2,3]},`, 1000) + `0]}`
	c := token.Count(lexer.New(big, nil))
	v, ok, err := query.Get(c, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v.String())
	// { a 1
	require.Equal(t, 3, c.N())
}

// TestGetErrors 测试语法错误与 nil 游标
func TestGetErrors(t *testing.T) {
	_, _, err := query.Get(lexer.New(`{"a":[1,}`, nil), "b")
	require.ErrorIs(t, err, reader.ErrMalformed)

	_, _, err = query.Get(nil, "a")
	require.ErrorIs(t, err, core.ErrNilArgument)
}
