// Package intern 提供容量受限的字符串驻留
//
// 成员名在同 schema 文档中高度重复；驻留后相同名字共享一份内存，
// 且与输入缓冲解除引用。淘汰策略为 LRU。
package intern

import (
	"fmt"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MaxLen 超过该长度的字符串不驻留
const MaxLen = 256

// Interner 并发安全的字符串驻留表
type Interner struct {
	c      *lru.Cache[string, string]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New 创建容量为 size 的驻留表
func New(size int) (*Interner, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("intern: %w", err)
	}
	return &Interner{c: c}, nil
}

// Intern 返回与 s 相等的驻留副本
func (in *Interner) Intern(s string) string {
	if len(s) > MaxLen {
		return s
	}
	if v, ok := in.c.Get(s); ok {
		in.hits.Add(1)
		return v
	}
	in.misses.Add(1)
	s = strings.Clone(s)
	in.c.Add(s, s)
	return s
}

// Len 当前驻留数
func (in *Interner) Len() int { return in.c.Len() }

// Stats 命中与未命中次数
func (in *Interner) Stats() (hits, misses uint64) {
	return in.hits.Load(), in.misses.Load()
}
