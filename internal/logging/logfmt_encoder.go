package logging

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// logfmtEncoder implements zapcore.Encoder producing lines shaped like:
// ts=15:04:05 lvl=info caller=file.go:42 msg="message" key=value
type logfmtEncoder struct {
	cfg zapcore.EncoderConfig
	buf *buffer.Buffer
}

func newLogfmtEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &logfmtEncoder{cfg: cfg, buf: bufferPool.Get()}
}

func (e *logfmtEncoder) Clone() zapcore.Encoder {
	clone := &logfmtEncoder{cfg: e.cfg, buf: bufferPool.Get()}
	clone.buf.Write(e.buf.Bytes())
	return clone
}

func (e *logfmtEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	if e.cfg.TimeKey != "" {
		appendKey(final, e.cfg.TimeKey)
		final.AppendString(ent.Time.Format("15:04:05"))
	}
	if e.cfg.LevelKey != "" {
		appendKey(final, e.cfg.LevelKey)
		final.AppendString(strings.ToLower(ent.Level.String()))
	}
	if e.cfg.CallerKey != "" && ent.Caller.Defined {
		appendKey(final, e.cfg.CallerKey)
		final.AppendString(ent.Caller.TrimmedPath())
	}
	if e.cfg.MessageKey != "" {
		appendKey(final, e.cfg.MessageKey)
		appendQuotedString(final, ent.Message)
	}

	if e.buf.Len() > 0 {
		final.AppendByte(' ')
		final.Write(e.buf.Bytes())
	}
	for _, f := range fields {
		appendField(final, f)
	}

	final.AppendString(e.cfg.LineEnding)
	return final, nil
}

func appendKey(buf *buffer.Buffer, key string) {
	if buf.Len() > 0 {
		buf.AppendByte(' ')
	}
	buf.AppendString(key)
	buf.AppendByte('=')
}

func appendQuotedString(buf *buffer.Buffer, s string) {
	if !strings.ContainsAny(s, " \t\n\r\"=") {
		buf.AppendString(s)
		return
	}
	buf.AppendByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.AppendString(`\"`)
		case '\\':
			buf.AppendString(`\\`)
		case '\n':
			buf.AppendString(`\n`)
		case '\r':
			buf.AppendString(`\r`)
		case '\t':
			buf.AppendString(`\t`)
		default:
			buf.AppendString(string(r))
		}
	}
	buf.AppendByte('"')
}

func appendField(buf *buffer.Buffer, f zapcore.Field) {
	switch f.Type {
	case zapcore.StringType:
		appendKey(buf, f.Key)
		appendQuotedString(buf, f.String)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		appendKey(buf, f.Key)
		buf.AppendString(strconv.FormatInt(f.Integer, 10))
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		appendKey(buf, f.Key)
		buf.AppendString(strconv.FormatUint(uint64(f.Integer), 10))
	case zapcore.Float64Type:
		appendKey(buf, f.Key)
		buf.AppendString(strconv.FormatFloat(math.Float64frombits(uint64(f.Integer)), 'f', -1, 64))
	case zapcore.BoolType:
		appendKey(buf, f.Key)
		if f.Integer == 1 {
			buf.AppendString("true")
		} else {
			buf.AppendString("false")
		}
	case zapcore.DurationType:
		appendKey(buf, f.Key)
		buf.AppendString(time.Duration(f.Integer).String())
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok {
			appendKey(buf, f.Key)
			appendQuotedString(buf, err.Error())
		}
	case zapcore.StringerType:
		appendKey(buf, f.Key)
		appendQuotedString(buf, f.Interface.(fmt.Stringer).String())
	default:
		if f.Interface != nil {
			appendKey(buf, f.Key)
			appendQuotedString(buf, fmt.Sprintf("%v", f.Interface))
		}
	}
}

// The remaining methods satisfy zapcore.ObjectEncoder for zap.Logger.With
// callers that add fields outside of a log call.

func (e *logfmtEncoder) AddArray(key string, arr zapcore.ArrayMarshaler) error {
	e.AddString(key, fmt.Sprintf("%v", arr))
	return nil
}

func (e *logfmtEncoder) AddObject(key string, obj zapcore.ObjectMarshaler) error {
	e.AddString(key, fmt.Sprintf("%v", obj))
	return nil
}

func (e *logfmtEncoder) AddBinary(key string, val []byte)     { e.AddString(key, string(val)) }
func (e *logfmtEncoder) AddByteString(key string, val []byte) { e.AddString(key, string(val)) }

func (e *logfmtEncoder) AddBool(key string, val bool) {
	appendKey(e.buf, key)
	if val {
		e.buf.AppendString("true")
	} else {
		e.buf.AppendString("false")
	}
}

func (e *logfmtEncoder) AddComplex128(key string, val complex128) { e.AddString(key, fmt.Sprintf("%v", val)) }
func (e *logfmtEncoder) AddComplex64(key string, val complex64)   { e.AddString(key, fmt.Sprintf("%v", val)) }

func (e *logfmtEncoder) AddDuration(key string, val time.Duration) {
	appendKey(e.buf, key)
	e.buf.AppendString(val.String())
}

func (e *logfmtEncoder) AddFloat64(key string, val float64) {
	appendKey(e.buf, key)
	e.buf.AppendString(strconv.FormatFloat(val, 'f', -1, 64))
}

func (e *logfmtEncoder) AddFloat32(key string, val float32) { e.AddFloat64(key, float64(val)) }

func (e *logfmtEncoder) AddInt(key string, val int)       { e.AddInt64(key, int64(val)) }
func (e *logfmtEncoder) AddInt32(key string, val int32)   { e.AddInt64(key, int64(val)) }
func (e *logfmtEncoder) AddInt16(key string, val int16)   { e.AddInt64(key, int64(val)) }
func (e *logfmtEncoder) AddInt8(key string, val int8)     { e.AddInt64(key, int64(val)) }

func (e *logfmtEncoder) AddInt64(key string, val int64) {
	appendKey(e.buf, key)
	e.buf.AppendString(strconv.FormatInt(val, 10))
}

func (e *logfmtEncoder) AddString(key, val string) {
	appendKey(e.buf, key)
	appendQuotedString(e.buf, val)
}

func (e *logfmtEncoder) AddTime(key string, val time.Time) {
	appendKey(e.buf, key)
	e.buf.AppendString(val.Format(time.RFC3339))
}

func (e *logfmtEncoder) AddUint(key string, val uint)     { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUint32(key string, val uint32) { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUint16(key string, val uint16) { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUint8(key string, val uint8)   { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUintptr(key string, val uintptr) { e.AddUint64(key, uint64(val)) }

func (e *logfmtEncoder) AddUint64(key string, val uint64) {
	appendKey(e.buf, key)
	e.buf.AppendString(strconv.FormatUint(val, 10))
}

func (e *logfmtEncoder) AddReflected(key string, val interface{}) error {
	e.AddString(key, fmt.Sprintf("%v", val))
	return nil
}

func (e *logfmtEncoder) OpenNamespace(key string) {
	appendKey(e.buf, key)
	e.buf.AppendString("{")
}

var _ zapcore.Encoder = (*logfmtEncoder)(nil)
