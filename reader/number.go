package reader

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/uniyakcom/vjson/value"
)

var (
	errInvalidNumber = errors.New("invalid number")
	errOverflow      = errors.New("number overflow")
)

// number 把数字字面量分类为 Int / Long / BigInt / Double
//
// 整数字面量: 适配 int32 → Int，适配 int64 → Long，更大 → BigInt；
// 含小数点或指数 → Double（超出 float64 精度的十进制字面量按最近值舍入，溢出为 Inf 时报错）。
func number(text string) (value.Value, error) {
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		switch {
		case err == nil:
		case !errors.Is(err, strconv.ErrRange):
			return value.Value{}, errInvalidNumber
		case math.IsInf(f, 0):
			return value.Value{}, errOverflow
		}
		return value.Double(f), nil
	}
	n, err := parseInt(text)
	switch {
	case err == nil:
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return value.Int(int32(n)), nil
		}
		return value.Long(n), nil
	case errors.Is(err, errOverflow):
		b, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return value.Value{}, errInvalidNumber
		}
		return value.BigInt(b), nil
	default:
		return value.Value{}, err
	}
}

// parseInt 快速整数解析（避免 strconv.ParseInt 开销），溢出返回 errOverflow
func parseInt(s string) (int64, error) {
	if len(s) == 0 {
		return 0, errInvalidNumber
	}
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(s) {
		return 0, errInvalidNumber
	}

	var n uint64
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errInvalidNumber
		}
		d := uint64(c - '0')
		if n > (math.MaxInt64+uint64(1)-d)/10 {
			// 继续校验剩余字符，非法字面量优先报告为非法
			for i++; i < len(s); i++ {
				if s[i] < '0' || s[i] > '9' {
					return 0, errInvalidNumber
				}
			}
			return 0, errOverflow
		}
		n = n*10 + d
	}

	if neg {
		if n > uint64(math.MaxInt64)+1 {
			return 0, errOverflow
		}
		return -int64(n), nil
	}
	if n > uint64(math.MaxInt64) {
		return 0, errOverflow
	}
	return int64(n), nil
}
