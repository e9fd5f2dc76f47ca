package model

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

const (
	tagObject byte = 0xF0
	tagArray  byte = 0xF1
)

// Hash 返回与 Equal 一致的结构哈希
func (e Elem) Hash() uint64 {
	switch {
	case e.obj != nil:
		return e.obj.Hash()
	case e.arr != nil:
		return e.arr.Hash()
	default:
		return e.val.Hash()
	}
}

// Hash 成员哈希求和，与插入顺序无关
func (o *Object) Hash() uint64 {
	var (
		sum uint64
		buf [8]byte
	)
	d := xxhash.New()
	for i, e := range o.slots {
		d.Reset()
		_, _ = d.WriteString(o.shape.Name(i))
		binary.LittleEndian.PutUint64(buf[:], e.Hash())
		_, _ = d.Write([]byte{0})
		_, _ = d.Write(buf[:])
		sum += d.Sum64()
	}
	d.Reset()
	_, _ = d.Write([]byte{tagObject})
	binary.LittleEndian.PutUint64(buf[:], sum)
	_, _ = d.Write(buf[:])
	return d.Sum64()
}

// Hash 按位置顺序组合元素哈希
func (a *Array) Hash() uint64 {
	var buf [8]byte
	d := xxhash.New()
	_, _ = d.Write([]byte{tagArray})
	for i := 0; i < a.length(); i++ {
		binary.LittleEndian.PutUint64(buf[:], a.elems[i].Hash())
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
