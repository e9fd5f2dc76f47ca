// Package value 提供不可变 JSON 标量值（带类型标签的联合体）
//
// 布局: kind 判别式 + 64 位载荷（整数位模式或 float64 位模式），
// 仅 String / BigInt / Opaque 使用额外的 ref 引用。
// 类型访问器与 kind 不匹配时返回 ErrKindMismatch。
package value

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/uniyakcom/vjson/internal/escape"
)

// Kind 值类型判别式
type Kind uint8

const (
	KindNull   Kind = iota // null
	KindBool               // true / false
	KindInt                // 32 位整数
	KindLong               // 64 位整数
	KindDouble             // float64
	KindString             // 字符串
	KindBigInt             // 超出 int64 的整数字面量
	KindOpaque             // 外部提供的不透明值
)

// String 返回类型名称
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBigInt:
		return "bigint"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// ErrKindMismatch 访问器与值类型不匹配
var ErrKindMismatch = errors.New("vjson: kind mismatch")

// KindError 描述一次类型不匹配的访问
type KindError struct {
	Want Kind
	Got  Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("vjson: kind mismatch: want %s, got %s", e.Want, e.Got)
}

// Is 支持 errors.Is(err, ErrKindMismatch)
func (e *KindError) Is(target error) bool { return target == ErrKindMismatch }

// Value JSON 标量值
//
// 零值为 null。Value 按值传递，构造后不可变。
type Value struct {
	ref  any    // KindString: string；KindBigInt: *big.Int；KindOpaque: 任意值
	bits uint64 // 整数/布尔位模式或 float64 位模式
	kind Kind
}

// ─── 构造 ───

// Null 返回 null 值
func Null() Value { return Value{} }

// Bool 构造布尔值
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, bits: 1}
	}
	return Value{kind: KindBool}
}

// Int 构造 32 位整数值
func Int(n int32) Value { return Value{kind: KindInt, bits: uint64(int64(n))} }

// Long 构造 64 位整数值
func Long(n int64) Value { return Value{kind: KindLong, bits: uint64(n)} }

// Double 构造浮点值
func Double(f float64) Value { return Value{kind: KindDouble, bits: math.Float64bits(f)} }

// String 构造字符串值
func String(s string) Value { return Value{kind: KindString, ref: s} }

// BigInt 构造大整数值，b 为 nil 时返回 null
//
// b 会被复制，调用方之后修改 b 不影响值。
func BigInt(b *big.Int) Value {
	if b == nil {
		return Value{}
	}
	return Value{kind: KindBigInt, ref: new(big.Int).Set(b)}
}

// Opaque 包装外部不透明值，v 为 nil 时返回 null
func Opaque(v any) Value {
	if v == nil {
		return Value{}
	}
	return Value{kind: KindOpaque, ref: v}
}

// Of 将常见 Go 值转换为 Value，无法识别的类型作为 Opaque
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case int32:
		return Int(x)
	case int:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return Int(int32(x))
		}
		return Long(int64(x))
	case int64:
		return Long(x)
	case float64:
		return Double(x)
	case float32:
		return Double(float64(x))
	case string:
		return String(x)
	case *big.Int:
		return BigInt(x)
	default:
		return Opaque(v)
	}
}

// ─── 访问 ───

// Kind 返回值类型
func (v Value) Kind() Kind { return v.kind }

// IsNull 是否为 null
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumber 是否为数字（Int/Long/Double/BigInt）
func (v Value) IsNumber() bool {
	switch v.kind {
	case KindInt, KindLong, KindDouble, KindBigInt:
		return true
	}
	return false
}

func (v Value) mismatch(want Kind) error {
	return &KindError{Want: want, Got: v.kind}
}

// Bool 返回布尔值
func (v Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.bits != 0, nil
}

// Int 返回 32 位整数
func (v Value) Int() (int32, error) {
	if v.kind != KindInt {
		return 0, v.mismatch(KindInt)
	}
	return int32(int64(v.bits)), nil
}

// Long 返回 64 位整数
func (v Value) Long() (int64, error) {
	if v.kind != KindLong {
		return 0, v.mismatch(KindLong)
	}
	return int64(v.bits), nil
}

// Double 返回浮点值
func (v Value) Double() (float64, error) {
	if v.kind != KindDouble {
		return 0, v.mismatch(KindDouble)
	}
	return math.Float64frombits(v.bits), nil
}

// StringValue 返回字符串内容
func (v Value) StringValue() (string, error) {
	if v.kind != KindString {
		return "", v.mismatch(KindString)
	}
	return v.ref.(string), nil
}

// BigInt 返回大整数副本
func (v Value) BigInt() (*big.Int, error) {
	if v.kind != KindBigInt {
		return nil, v.mismatch(KindBigInt)
	}
	return new(big.Int).Set(v.ref.(*big.Int)), nil
}

// Opaque 返回不透明值
func (v Value) Opaque() (any, error) {
	if v.kind != KindOpaque {
		return nil, v.mismatch(KindOpaque)
	}
	return v.ref, nil
}

// AsGeneric 转换为最接近的通用 Go 表示（装箱）
//
//	null → nil, bool → bool, int → int32, long → int64, double → float64,
//	string → string, bigint → *big.Int, opaque → 原值
func (v Value) AsGeneric() any {
	switch v.kind {
	case KindBool:
		return v.bits != 0
	case KindInt:
		return int32(int64(v.bits))
	case KindLong:
		return int64(v.bits)
	case KindDouble:
		return math.Float64frombits(v.bits)
	case KindString:
		return v.ref.(string)
	case KindBigInt:
		return new(big.Int).Set(v.ref.(*big.Int))
	case KindOpaque:
		return v.ref
	default:
		return nil
	}
}

// ─── 文本 ───

// String 返回 JSON 字面量形式
//
// 数字使用 strconv 原生格式；double 总是带小数点或指数，重新解析后仍为 double。
// 字符串完整转义。Opaque 以 fmt 格式化后作为字符串输出。
func (v Value) String() string {
	return string(v.AppendText(nil))
}

// AppendText 将 JSON 字面量追加到 dst
func (v Value) AppendText(dst []byte) []byte {
	switch v.kind {
	case KindNull:
		return append(dst, "null"...)
	case KindBool:
		if v.bits != 0 {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case KindInt, KindLong:
		return strconv.AppendInt(dst, int64(v.bits), 10)
	case KindDouble:
		return appendDouble(dst, math.Float64frombits(v.bits))
	case KindString:
		return escape.AppendQuoted(dst, v.ref.(string))
	case KindBigInt:
		return v.ref.(*big.Int).Append(dst, 10)
	case KindOpaque:
		return escape.AppendQuoted(dst, fmt.Sprint(v.ref))
	default:
		return dst
	}
}

// appendDouble 格式化 float64，整数值补 ".0"
func appendDouble(dst []byte, f float64) []byte {
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'g', -1, 64)
	for _, c := range dst[start:] {
		switch c {
		case '.', 'e', 'N', 'I': // 小数、指数、NaN、Inf
			return dst
		}
	}
	return append(dst, '.', '0')
}

// ─── 比较与哈希 ───

// Equal 同类型且载荷相同时相等
//
// double 按位比较（NaN 与自身相等，+0 与 -0 不等），字符串按内容比较。
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.ref.(string) == o.ref.(string)
	case KindBigInt:
		return v.ref.(*big.Int).Cmp(o.ref.(*big.Int)) == 0
	case KindOpaque:
		return reflect.DeepEqual(v.ref, o.ref)
	default:
		return v.bits == o.bits
	}
}

// Hash 返回与 Equal 一致的 64 位哈希
func (v Value) Hash() uint64 {
	d := xxhash.New()
	v.HashTo(d)
	return d.Sum64()
}

// HashTo 将值写入哈希摘要（供复合结构组合哈希）
func (v Value) HashTo(d *xxhash.Digest) {
	var hdr [9]byte
	hdr[0] = byte(v.kind)
	switch v.kind {
	case KindString:
		_, _ = d.Write(hdr[:1])
		_, _ = d.WriteString(v.ref.(string))
	case KindBigInt:
		_, _ = d.Write(hdr[:1])
		_, _ = d.WriteString(v.ref.(*big.Int).String())
	case KindOpaque:
		_, _ = d.Write(hdr[:1])
		_, _ = d.WriteString(fmt.Sprintf("%T:%v", v.ref, v.ref))
	default:
		binary.LittleEndian.PutUint64(hdr[1:], v.bits)
		_, _ = d.Write(hdr[:])
	}
}
