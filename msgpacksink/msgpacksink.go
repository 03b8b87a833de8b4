package msgpacksink

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/wippyai/canonjson/errors"
	"github.com/wippyai/canonjson/event"
)

type frame struct {
	buf     bytes.Buffer
	enc     *msgpack.Encoder
	count   int
	object  bool
	haveKey bool
}

func newFrame(object bool) *frame {
	f := &frame{object: object}
	f.enc = msgpack.NewEncoder(&f.buf)
	return f
}

// Encoder is an event.Sink writing one MessagePack value per top-level
// value to an io.Writer.
type Encoder struct {
	w      io.Writer
	frames []*frame
}

var _ event.Sink = (*Encoder)(nil)

func New(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) BeginObject() error { return e.open(true) }
func (e *Encoder) BeginArray() error  { return e.open(false) }
func (e *Encoder) EndObject() error   { return e.close(true) }
func (e *Encoder) EndArray() error    { return e.close(false) }

func (e *Encoder) Key(name string) error {
	top := e.top()
	if top == nil || !top.object || top.haveKey {
		return misplaced("key " + strconv.Quote(name))
	}
	if err := top.enc.EncodeString(name); err != nil {
		return err
	}
	top.haveKey = true
	return nil
}

func (e *Encoder) Null() error {
	return e.value(func(f *frame) error {
		return f.enc.EncodeNil()
	})
}

func (e *Encoder) Scalar(s event.Scalar) error {
	return e.value(func(f *frame) error {
		return encodeScalar(f.enc, s)
	})
}

func (e *Encoder) open(object bool) error {
	if err := e.checkValue(); err != nil {
		return err
	}
	e.frames = append(e.frames, newFrame(object))
	return nil
}

func (e *Encoder) close(object bool) error {
	top := e.top()
	if top == nil || top.object != object || top.haveKey {
		if object {
			return misplaced("end of object")
		}
		return misplaced("end of array")
	}
	e.frames = e.frames[:len(e.frames)-1]

	return e.value(func(f *frame) error {
		var err error
		if object {
			err = f.enc.EncodeMapLen(top.count)
		} else {
			err = f.enc.EncodeArrayLen(top.count)
		}
		if err != nil {
			return err
		}
		_, err = f.buf.Write(top.buf.Bytes())
		return err
	})
}

// value encodes one complete value into the open container, or straight
// to the output when no container is open.
func (e *Encoder) value(encode func(*frame) error) error {
	if err := e.checkValue(); err != nil {
		return err
	}

	top := e.top()
	if top == nil {
		root := newFrame(false)
		if err := encode(root); err != nil {
			return err
		}
		_, err := e.w.Write(root.buf.Bytes())
		return err
	}

	if err := encode(top); err != nil {
		return err
	}
	top.count++
	top.haveKey = false
	return nil
}

func (e *Encoder) checkValue() error {
	if top := e.top(); top != nil && top.object && !top.haveKey {
		return misplaced("object member without a key")
	}
	return nil
}

func (e *Encoder) top() *frame {
	if len(e.frames) == 0 {
		return nil
	}
	return e.frames[len(e.frames)-1]
}

func encodeScalar(enc *msgpack.Encoder, s event.Scalar) error {
	switch s.Kind {
	case event.ScalarString, event.ScalarRaw:
		return enc.EncodeString(s.Text)
	case event.ScalarBool:
		return enc.EncodeBool(s.Bool)
	case event.ScalarNumber:
		return encodeNumber(enc, s.Text)
	default:
		return errors.InvalidInput(errors.PhaseWrite, "unknown scalar kind "+s.Kind.String())
	}
}

func encodeNumber(enc *msgpack.Encoder, lit string) error {
	if lit != "" && !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return enc.EncodeInt(i)
		}
		if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
			return enc.EncodeUint(u)
		}
		return enc.EncodeString(lit)
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return errors.New(errors.PhaseWrite, errors.KindInvalidInput).
			Value(lit).
			Detail("number literal %q does not fit MessagePack", lit).
			Cause(err).
			Build()
	}
	return enc.EncodeFloat64(f)
}

func misplaced(what string) error {
	return errors.InvalidInput(errors.PhaseWrite, "msgpack: unexpected "+what)
}

// Buffer is an Encoder that collects its output in memory.
type Buffer struct {
	*Encoder
	buf bytes.Buffer
}

func NewBuffer() *Buffer {
	b := &Buffer{}
	b.Encoder = New(&b.buf)
	return b
}

func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}
