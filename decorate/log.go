package decorate

import (
	"log/slog"
	"strconv"

	"github.com/uniyakcom/vjson/core"
	"github.com/uniyakcom/vjson/value"
)

// Log 以 slog Debug 记录 ov 子树上的每个事件，结束失败记为 Error
//
// 记录携带 "path" 属性：成员名以 '.' 连接，数组下标记为 [i]。
// logger 为 nil 时使用 slog.Default()。
func Log(ov core.ObjectVisitor, logger *slog.Logger) core.ObjectVisitor {
	if ov == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &logObject{inner: ov, logger: logger}
}

// LogArray 以 av 为根的 Log
func LogArray(av core.ArrayVisitor, logger *slog.Logger) core.ArrayVisitor {
	if av == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return logArr(av, logger, "")
}

func memberPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

type logObject struct {
	inner  core.ObjectVisitor
	logger *slog.Logger
	path   string
}

func (l *logObject) VisitMemberValue(name string, v value.Value) error {
	l.logger.Debug("member value",
		"path", memberPath(l.path, name),
		"kind", v.Kind().String(),
		"value", v.String(),
	)
	return l.inner.VisitMemberValue(name, v)
}

func (l *logObject) VisitMemberObject(name string) (core.ObjectVisitor, error) {
	p := memberPath(l.path, name)
	nested, err := l.inner.VisitMemberObject(name)
	if err != nil || nested == nil {
		l.logger.Debug("member object skipped", "path", p)
		return nil, err
	}
	l.logger.Debug("member object", "path", p)
	return &logObject{inner: nested, logger: l.logger, path: p}, nil
}

func (l *logObject) VisitMemberArray(name string) (core.ArrayVisitor, error) {
	p := memberPath(l.path, name)
	nested, err := l.inner.VisitMemberArray(name)
	if err != nil || nested == nil {
		l.logger.Debug("member array skipped", "path", p)
		return nil, err
	}
	l.logger.Debug("member array", "path", p, "mode", core.ModeOf(nested).String())
	return logArr(nested, l.logger, p), nil
}

func (l *logObject) EndObject() (any, error) {
	r, err := l.inner.EndObject()
	if err != nil {
		l.logger.Error("end object failed", "path", l.path, "error", err)
		return nil, err
	}
	l.logger.Debug("end object", "path", l.path)
	return r, nil
}

// logArray 数组事件记录，i 为下一个元素下标
//
// Pull-inside 下标量不经过 VisitValue，下标只计复合元素。
type logArray struct {
	inner  core.ArrayVisitor
	logger *slog.Logger
	path   string
	i      int
}

func logArr(av core.ArrayVisitor, logger *slog.Logger, path string) core.ArrayVisitor {
	l := &logArray{inner: av, logger: logger, path: path}
	if agg, ok := core.AsAggregator(av); ok {
		return &logAgg{logArray: l, agg: agg}
	}
	return l
}

func (l *logArray) next() string {
	p := l.path + "[" + strconv.Itoa(l.i) + "]"
	l.i++
	return p
}

func (l *logArray) VisitValue(v value.Value) error {
	l.logger.Debug("element value", "path", l.next(), "kind", v.Kind().String(), "value", v.String())
	return l.inner.VisitValue(v)
}

func (l *logArray) VisitObject() (core.ObjectVisitor, error) {
	p := l.next()
	nested, err := l.inner.VisitObject()
	if err != nil || nested == nil {
		l.logger.Debug("element object skipped", "path", p)
		return nil, err
	}
	l.logger.Debug("element object", "path", p)
	return &logObject{inner: nested, logger: l.logger, path: p}, nil
}

func (l *logArray) VisitArray() (core.ArrayVisitor, error) {
	p := l.next()
	nested, err := l.inner.VisitArray()
	if err != nil || nested == nil {
		l.logger.Debug("element array skipped", "path", p)
		return nil, err
	}
	l.logger.Debug("element array", "path", p)
	return logArr(nested, l.logger, p), nil
}

func (l *logArray) EndArray() (any, error) {
	r, err := l.inner.EndArray()
	if err != nil {
		l.logger.Error("end array failed", "path", l.path, "error", err)
		return nil, err
	}
	l.logger.Debug("end array", "path", l.path, "len", l.i)
	return r, nil
}

type logAgg struct {
	*logArray
	agg core.Aggregator
}

func (l *logAgg) Mode() core.Mode { return core.PullInside }

func (l *logAgg) Aggregate(elems core.Seq) (any, error) {
	r, err := l.agg.Aggregate(elems)
	if err != nil {
		l.logger.Error("aggregate failed", "path", l.path, "error", err)
		return nil, err
	}
	l.logger.Debug("aggregate", "path", l.path)
	return r, nil
}
