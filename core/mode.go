package core

// Mode 访问者声明的分派方式
type Mode uint8

const (
	// Push 驱动方逐个成员/元素立即回调（默认）
	Push Mode = iota
	// Pull 驱动方把产出结果暴露为惰性序列，由消费方决定推进节奏
	Pull
	// PullInside 整个数组作为一个惰性序列交给一次 Aggregate 调用
	PullInside
)

// String 返回模式名称
func (m Mode) String() string {
	switch m {
	case Push:
		return "push"
	case Pull:
		return "pull"
	case PullInside:
		return "pull-inside"
	default:
		return "unknown"
	}
}

// Moder 声明分派方式的访问者
type Moder interface {
	Mode() Mode
}

// ModeOf 读取访问者声明的分派方式，未声明为 Push
//
// 声明 PullInside 但未实现 Aggregator 的数组访问者按 Push 处理。
func ModeOf(v any) Mode {
	m, ok := v.(Moder)
	if !ok {
		return Push
	}
	mode := m.Mode()
	if mode == PullInside {
		if _, ok := v.(Aggregator); !ok {
			return Push
		}
	}
	return mode
}

// AsAggregator 访问者声明 PullInside 且实现 Aggregator 时返回它
func AsAggregator(av ArrayVisitor) (Aggregator, bool) {
	if ModeOf(av) != PullInside {
		return nil, false
	}
	agg, ok := av.(Aggregator)
	return agg, ok
}
