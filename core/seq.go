package core

import "errors"

// ErrSeqConsumed Seq 被第二次迭代
var ErrSeqConsumed = errors.New("vjson: sequence already consumed")

// Once 把 seq 限制为单次迭代，再次迭代时产出 ErrSeqConsumed
func Once(seq Seq) Seq {
	used := false
	return func(yield func(any, error) bool) {
		if used {
			yield(nil, ErrSeqConsumed)
			return
		}
		used = true
		seq(yield)
	}
}

// First 返回 seq 的第一个结果；序列为空时 ok 为 false
func First(seq Seq) (r any, ok bool, err error) {
	for r, err := range seq {
		if err != nil {
			return nil, false, err
		}
		return r, true, nil
	}
	return nil, false, nil
}

// Find 返回第一个满足 pred 的结果，之后不再推进序列
func Find(seq Seq, pred func(any) bool) (r any, ok bool, err error) {
	for r, err := range seq {
		if err != nil {
			return nil, false, err
		}
		if pred(r) {
			return r, true, nil
		}
	}
	return nil, false, nil
}

// Collect 读尽 seq
func Collect(seq Seq) ([]any, error) {
	var out []any
	for r, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}
