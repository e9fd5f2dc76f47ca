package printer

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/value"
)

// compact 不转义 HTML；浮点不走 jsoniter 的有损快速路径，数字以原生文本写入
var compact = jsoniter.Config{EscapeHTML: false}.Froze()

// Stream 紧凑流式写入器，同时是根数组访问者
//
// 每个顶层值写完后追加 '\n' 并 Flush，多个顶层值构成 NDJSON。
// 顶层对象/数组的结果为 nil；写入错误在 End 时返回。
//
//	s := printer.NewStream(os.Stdout)
//	defer s.Close()
//	_, err := reader.New(cur, nil).Read(s)
type Stream struct {
	s *jsoniter.Stream
}

// NewStream 创建写入 w 的流
func NewStream(w io.Writer) *Stream {
	return &Stream{s: compact.BorrowStream(w)}
}

// Close 归还底层 jsoniter.Stream，之后不可再使用
func (st *Stream) Close() {
	if st.s != nil {
		compact.ReturnStream(st.s)
		st.s = nil
	}
}

// Err 返回首个写入错误
func (st *Stream) Err() error { return st.s.Error }

func (st *Stream) endTop() error {
	st.s.WriteRaw("\n")
	return st.s.Flush()
}

func (st *Stream) VisitValue(v value.Value) error {
	writeScalar(st.s, v)
	return st.endTop()
}

func (st *Stream) VisitObject() (core.ObjectVisitor, error) {
	st.s.WriteObjectStart()
	return &streamObject{st: st, top: true}, nil
}

func (st *Stream) VisitArray() (core.ArrayVisitor, error) {
	st.s.WriteArrayStart()
	return &streamArray{st: st, top: true}, nil
}

func (st *Stream) EndArray() (any, error) { return nil, st.s.Flush() }

func writeScalar(s *jsoniter.Stream, v value.Value) {
	switch v.Kind() {
	case value.KindNull:
		s.WriteNil()
	case value.KindBool:
		b, _ := v.Bool()
		s.WriteBool(b)
	case value.KindString:
		str, _ := v.StringValue()
		s.WriteString(str)
	default:
		s.WriteRaw(v.String())
	}
}

type streamObject struct {
	st  *Stream
	n   int
	top bool
}

func (o *streamObject) field(name string) {
	if o.n > 0 {
		o.st.s.WriteMore()
	}
	o.n++
	o.st.s.WriteObjectField(name)
}

func (o *streamObject) VisitMemberValue(name string, v value.Value) error {
	o.field(name)
	writeScalar(o.st.s, v)
	return o.st.s.Error
}

func (o *streamObject) VisitMemberObject(name string) (core.ObjectVisitor, error) {
	o.field(name)
	o.st.s.WriteObjectStart()
	return &streamObject{st: o.st}, nil
}

func (o *streamObject) VisitMemberArray(name string) (core.ArrayVisitor, error) {
	o.field(name)
	o.st.s.WriteArrayStart()
	return &streamArray{st: o.st}, nil
}

func (o *streamObject) EndObject() (any, error) {
	o.st.s.WriteObjectEnd()
	if o.top {
		return nil, o.st.endTop()
	}
	return nil, o.st.s.Error
}

type streamArray struct {
	st  *Stream
	n   int
	top bool
}

func (a *streamArray) elem() {
	if a.n > 0 {
		a.st.s.WriteMore()
	}
	a.n++
}

func (a *streamArray) VisitValue(v value.Value) error {
	a.elem()
	writeScalar(a.st.s, v)
	return a.st.s.Error
}

func (a *streamArray) VisitObject() (core.ObjectVisitor, error) {
	a.elem()
	a.st.s.WriteObjectStart()
	return &streamObject{st: a.st}, nil
}

func (a *streamArray) VisitArray() (core.ArrayVisitor, error) {
	a.elem()
	a.st.s.WriteArrayStart()
	return &streamArray{st: a.st}, nil
}

func (a *streamArray) EndArray() (any, error) {
	a.st.s.WriteArrayEnd()
	if a.top {
		return nil, a.st.endTop()
	}
	return nil, a.st.s.Error
}

// WriteObject 以紧凑格式把对象节点写入 w（不追加换行）
func WriteObject(w io.Writer, src ObjectSource) error {
	if src == nil {
		return core.ErrNilArgument
	}
	st := NewStream(w)
	defer st.Close()
	st.s.WriteObjectStart()
	if _, err := src.Accept(&streamObject{st: st}); err != nil {
		return err
	}
	return st.s.Flush()
}

// WriteArray 以紧凑格式把数组节点写入 w（不追加换行）
func WriteArray(w io.Writer, src ArraySource) error {
	if src == nil {
		return core.ErrNilArgument
	}
	st := NewStream(w)
	defer st.Close()
	st.s.WriteArrayStart()
	if _, err := src.Accept(&streamArray{st: st}); err != nil {
		return err
	}
	return st.s.Flush()
}
