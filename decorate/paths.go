package decorate

import (
	"strings"
	"sync"
)

// maxPathDepth Remove 回溯路径的最大深度（固定数组，避免分配）
const maxPathDepth = 32

// PathTrie 成员路径模式树
//
// 模式以 '.' 分段，支持 user.* (单层通配)、user.** (零或多层通配，仅作末段)
// 以及 user.name (精确)。Match 可并发调用；被 Project 使用期间不得 Add/Remove。
type PathTrie struct {
	root *node
	mu   sync.RWMutex
	n    int
}

type node struct {
	children map[string]*node
	pattern  string
	refCount int32
	isEnd    bool
}

func newNode() *node {
	return &node{children: make(map[string]*node, 4)}
}

// NewPathTrie 创建模式树并加入 patterns
func NewPathTrie(patterns ...string) *PathTrie {
	t := &PathTrie{root: newNode()}
	for _, p := range patterns {
		t.Add(p)
	}
	return t
}

// Len 模式数（重复添加计多次）
func (t *PathTrie) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.n
}

// Add 添加模式
func (t *PathTrie) Add(pattern string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.root
	for part := range strings.SplitSeq(pattern, ".") {
		child, ok := n.children[part]
		if !ok {
			child = newNode()
			n.children[part] = child
		}
		n = child
	}
	n.isEnd = true
	n.pattern = pattern
	n.refCount++
	t.n++
}

// Remove 移除模式（引用计数 + 自底向上清理空节点）
func (t *PathTrie) Remove(pattern string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	parts := strings.Split(pattern, ".")
	if len(parts) > maxPathDepth {
		return
	}
	var pathBuf [maxPathDepth + 1]*node
	pathBuf[0] = t.root
	n := t.root
	for i, part := range parts {
		next, ok := n.children[part]
		if !ok {
			return
		}
		pathBuf[i+1] = next
		n = next
	}
	if n.refCount == 0 {
		return
	}
	n.refCount--
	t.n--
	if n.refCount == 0 {
		n.isEnd = false
		n.pattern = ""
	}

	for i := len(parts) - 1; i >= 0; i-- {
		child := pathBuf[i+1]
		if child.isEnd || len(child.children) > 0 {
			break
		}
		delete(pathBuf[i].children, parts[i])
	}
}

// Match 完整路径是否匹配任一模式
func (t *PathTrie) Match(path string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	at := []*node{t.root}
	for part := range strings.SplitSeq(path, ".") {
		next, whole := step(at, part)
		if whole {
			return true
		}
		if len(next) == 0 {
			return false
		}
		at = next
	}
	return false
}

// hasDeep 是否以 ** 结尾的模式经过该节点
func (n *node) hasDeep() bool {
	c, ok := n.children["**"]
	return ok && c.isEnd
}

// step 沿一个路径段推进存活节点集合
//
// whole 为 true 表示该段已命中某模式终点（或 ** 通配），其后代全部匹配。
// a.** 在段 a 处即命中。
func step(at []*node, seg string) (next []*node, whole bool) {
	for _, n := range at {
		if n.hasDeep() {
			return nil, true
		}
		for _, key := range [2]string{seg, "*"} {
			c, ok := n.children[key]
			if !ok {
				continue
			}
			if c.isEnd || c.hasDeep() {
				return nil, true
			}
			next = append(next, c)
		}
	}
	return next, false
}
