package core

import (
	"errors"
	"testing"

	"github.com/uniyakcom/vjson/value"
)

func ints(n int) Seq {
	return func(yield func(any, error) bool) {
		for i := range n {
			if !yield(i, nil) {
				return
			}
		}
	}
}

// TestModeOf 测试分派方式判定
func TestModeOf(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want Mode
	}{
		{"plain", NopArray(), Push},
		{"reduce", &ArrayFuncs{Reduce: func(Seq) (any, error) { return nil, nil }}, PullInside},
		{"object", NopObject(), Push},
		{"no aggregator", pullOnly{}, Push},
		{"pull", pullMode{}, Pull},
	}
	for _, tt := range tests {
		if got := ModeOf(tt.v); got != tt.want {
			t.Errorf("%s: ModeOf = %v, want %v", tt.name, got, tt.want)
		}
	}
	if _, ok := AsAggregator(NopArray()); ok {
		t.Error("push visitor should not be an aggregator")
	}
}

type pullOnly struct{}

func (pullOnly) Mode() Mode { return PullInside }

type pullMode struct{}

func (pullMode) Mode() Mode { return Pull }

// TestOnce 测试单次迭代
func TestOnce(t *testing.T) {
	seq := Once(ints(3))
	got, err := Collect(seq)
	if err != nil || len(got) != 3 {
		t.Fatalf("Collect = %v, %v", got, err)
	}
	_, err = Collect(seq)
	if !errors.Is(err, ErrSeqConsumed) {
		t.Errorf("second Collect = %v, want ErrSeqConsumed", err)
	}
}

// TestFirstFind 测试提前停止
func TestFirstFind(t *testing.T) {
	pulled := 0
	seq := func(yield func(any, error) bool) {
		for i := range 1000 {
			pulled++
			if !yield(i, nil) {
				return
			}
		}
	}
	r, ok, err := First(seq)
	if err != nil || !ok || r != 0 || pulled != 1 {
		t.Errorf("First = %v %v %v, pulled %d", r, ok, err, pulled)
	}

	pulled = 0
	r, ok, _ = Find(seq, func(v any) bool { return v.(int) == 5 })
	if !ok || r != 5 || pulled != 6 {
		t.Errorf("Find = %v %v, pulled %d", r, ok, pulled)
	}

	_, ok, _ = First(ints(0))
	if ok {
		t.Error("First on empty seq should report !ok")
	}
}

// TestFuncsNilFields 测试 nil 字段默认行为
func TestFuncsNilFields(t *testing.T) {
	o := NopObject()
	if err := o.VisitMemberValue("a", value.Int(1)); err != nil {
		t.Error(err)
	}
	if n, err := o.VisitMemberObject("a"); n != nil || err != nil {
		t.Errorf("VisitMemberObject = %v, %v", n, err)
	}
	if r, err := o.EndObject(); r != nil || err != nil {
		t.Errorf("EndObject = %v, %v", r, err)
	}
	a := &ArrayFuncs{End: func() (any, error) { return "done", nil }}
	if r, _ := a.EndArray(); r != "done" {
		t.Errorf("EndArray = %v", r)
	}
	if r, err := a.Aggregate(ints(3)); r != nil || err != nil {
		t.Errorf("Aggregate without Reduce = %v, %v", r, err)
	}
}
