// Package counter 提供多 goroutine 并发写入的条带计数器
package counter

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

// maxStripes 最大条带数（覆盖常见 GOMAXPROCS）
const maxStripes = 256

// Counter 条带计数器：写入按 goroutine 栈地址分散到不同 cache line，读取求和
type Counter struct {
	stripes [maxStripes]stripe
	mask    int
}

type stripe struct {
	n atomic.Int64
	_ [56]byte // cache line padding
}

// New 按 GOMAXPROCS 创建计数器，条带数为 2 的幂，最少 8
func New() *Counter {
	n := runtime.GOMAXPROCS(0)
	sz := 8
	for sz < n && sz < maxStripes {
		sz *= 2
	}
	return &Counter{mask: sz - 1}
}

// Add 加 delta
//
// 栈变量地址右移 13 位（最小栈 8KB）后映射到条带，x 不逃逸。
//
//go:nosplit
func (c *Counter) Add(delta int64) {
	var x uintptr
	id := int(uintptr(unsafe.Pointer(&x)) >> 13)
	c.stripes[id&c.mask].n.Add(delta)
}

// Inc 加 1
func (c *Counter) Inc() { c.Add(1) }

// Load 所有条带的累计值
func (c *Counter) Load() int64 {
	var sum int64
	for i := 0; i <= c.mask; i++ {
		sum += c.stripes[i].n.Load()
	}
	return sum
}
