// Package core 提供访问者协议核心接口定义
//
// 协议由两组互相递归的能力组成:
//   - ObjectVisitor: 按成员名接收标量、返回嵌套访问者以下降到子对象/子数组
//   - ArrayVisitor: 对称地按位置接收元素
//
// 返回 nil 嵌套访问者表示"跳过该子树"（decline），驱动方必须丢弃对应的
// 平衡 token 而不构建任何内容；跳过从不是错误。每个访问者实例只服务于
// 一个子树，不得在兄弟节点之间复用。End* 的返回值即该节点的结果，
// 顶层结果返回给驱动方的调用者，嵌套结果通过 decorate.PostObject/PostArray
// 拼接进父级。
package core

import (
	"errors"
	"iter"

	"github.com/uniyakcom/vjson/value"
)

// ErrNilArgument 必需参数为 nil（在任何状态变更前检查）
var ErrNilArgument = errors.New("vjson: nil argument")

// ObjectVisitor 对象访问者
type ObjectVisitor interface {
	// VisitMemberValue 接收标量成员
	VisitMemberValue(name string, v value.Value) error

	// VisitMemberObject 下降到对象成员，返回 nil 跳过
	VisitMemberObject(name string) (ObjectVisitor, error)

	// VisitMemberArray 下降到数组成员，返回 nil 跳过
	VisitMemberArray(name string) (ArrayVisitor, error)

	// EndObject 对象结束，返回节点结果
	EndObject() (any, error)
}

// ArrayVisitor 数组访问者
type ArrayVisitor interface {
	// VisitValue 接收标量元素
	VisitValue(v value.Value) error

	// VisitObject 下降到对象元素，返回 nil 跳过
	VisitObject() (ObjectVisitor, error)

	// VisitArray 下降到数组元素，返回 nil 跳过
	VisitArray() (ArrayVisitor, error)

	// EndArray 数组结束，返回节点结果
	EndArray() (any, error)
}

// Seq 惰性、单次、不可重启的结果序列
//
// 标量元素产出 value.Value；复合元素产出嵌套访问者 End* 的结果；
// 被跳过的复合元素不产出。输入错误以 (nil, err) 产出后序列终止。
type Seq = iter.Seq2[any, error]

// Aggregator Pull-inside 数组访问者
//
// 整个数组作为一个 Seq 交给唯一一次 Aggregate 调用；复合元素仍通过
// VisitObject/VisitArray 取得嵌套访问者。Aggregate 可以提前停止迭代，
// 驱动方负责跳过剩余元素使输入保持平衡。Aggregate 的返回值取代 EndArray。
type Aggregator interface {
	ArrayVisitor
	Aggregate(elems Seq) (any, error)
}
