package decorate

import "github.com/uniyakcom/vjson/core"

// PostObject 在 ov 的结束结果上执行 fn，结果原样向上返回
//
// 嵌套结果通过 fn 拼接进父级：
//
//	child := decorate.PostObject(builder, func(r any) error {
//		return parent.SetObject(name, r.(*model.Object))
//	})
//
// fn 返回的错误终止遍历。
func PostObject(ov core.ObjectVisitor, fn func(result any) error) core.ObjectVisitor {
	if ov == nil {
		return nil
	}
	if fn == nil {
		return ov
	}
	return &postObject{ObjectVisitor: ov, fn: fn}
}

type postObject struct {
	core.ObjectVisitor
	fn func(any) error
}

func (p *postObject) EndObject() (any, error) {
	r, err := p.ObjectVisitor.EndObject()
	if err != nil {
		return nil, err
	}
	if err := p.fn(r); err != nil {
		return nil, err
	}
	return r, nil
}

// PostArray 在 av 的结束结果（或聚合结果）上执行 fn
func PostArray(av core.ArrayVisitor, fn func(result any) error) core.ArrayVisitor {
	if av == nil {
		return nil
	}
	if fn == nil {
		return av
	}
	p := &postArray{ArrayVisitor: av, fn: fn}
	if agg, ok := core.AsAggregator(av); ok {
		return &postAgg{postArray: p, agg: agg}
	}
	return p
}

type postArray struct {
	core.ArrayVisitor
	fn func(any) error
}

func (p *postArray) EndArray() (any, error) {
	return p.after(p.ArrayVisitor.EndArray())
}

func (p *postArray) after(r any, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if err := p.fn(r); err != nil {
		return nil, err
	}
	return r, nil
}

type postAgg struct {
	*postArray
	agg core.Aggregator
}

func (p *postAgg) Mode() core.Mode { return core.PullInside }

func (p *postAgg) Aggregate(elems core.Seq) (any, error) {
	return p.after(p.agg.Aggregate(elems))
}
