package cborsink

import (
	"bytes"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/canonjson/errors"
	"github.com/wippyai/canonjson/event"
)

// TagEmbeddedJSON marks a byte string holding JSON text.
const TagEmbeddedJSON = 262

// CBOR major types used for container heads.
const (
	majorArray byte = 4
	majorMap   byte = 5
)

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cborsink: CBOR encoder initialization failed: " + err.Error())
	}
}

type frame struct {
	body    []byte
	count   uint64
	object  bool
	haveKey bool
}

// Encoder is an event.Sink that writes one CBOR data item per top-level
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
	b, err := encMode.Marshal(name)
	if err != nil {
		return err
	}
	top.body = append(top.body, b...)
	top.haveKey = true
	return nil
}

func (e *Encoder) Null() error {
	return e.item([]byte{0xf6})
}

func (e *Encoder) Scalar(s event.Scalar) error {
	b, err := encodeScalar(s)
	if err != nil {
		return err
	}
	return e.item(b)
}

func (e *Encoder) open(object bool) error {
	if err := e.checkValue(); err != nil {
		return err
	}
	e.frames = append(e.frames, &frame{object: object})
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

	major := majorArray
	if object {
		major = majorMap
	}
	out := appendHead(make([]byte, 0, len(top.body)+9), major, top.count)
	return e.item(append(out, top.body...))
}

func (e *Encoder) checkValue() error {
	if top := e.top(); top != nil && top.object && !top.haveKey {
		return misplaced("object member without a key")
	}
	return nil
}

// item appends a complete data item to the open container, or writes it
// out when no container is open.
func (e *Encoder) item(b []byte) error {
	if err := e.checkValue(); err != nil {
		return err
	}
	top := e.top()
	if top == nil {
		_, err := e.w.Write(b)
		return err
	}
	top.body = append(top.body, b...)
	top.count++
	top.haveKey = false
	return nil
}

func (e *Encoder) top() *frame {
	if len(e.frames) == 0 {
		return nil
	}
	return e.frames[len(e.frames)-1]
}

func encodeScalar(s event.Scalar) ([]byte, error) {
	switch s.Kind {
	case event.ScalarString:
		return encMode.Marshal(s.Text)
	case event.ScalarBool:
		return encMode.Marshal(s.Bool)
	case event.ScalarNumber:
		return encodeNumber(s.Text)
	case event.ScalarRaw:
		return encMode.Marshal(cbor.Tag{Number: TagEmbeddedJSON, Content: []byte(s.Text)})
	default:
		return nil, errors.InvalidInput(errors.PhaseWrite, "unknown scalar kind "+s.Kind.String())
	}
}

func encodeNumber(lit string) ([]byte, error) {
	if lit != "" && !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return encMode.Marshal(i)
		}
		if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
			return encMode.Marshal(u)
		}
		if bi, ok := new(big.Int).SetString(lit, 10); ok {
			return encMode.Marshal(bi)
		}
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) {
		return nil, errors.New(errors.PhaseWrite, errors.KindInvalidInput).
			Value(lit).
			Detail("number literal %q does not fit CBOR", lit).
			Build()
	}
	return encMode.Marshal(f)
}

// appendHead writes an RFC 8949 §3 initial byte and argument in the
// shortest form.
func appendHead(dst []byte, major byte, n uint64) []byte {
	mt := major << 5
	switch {
	case n < 24:
		return append(dst, mt|byte(n))
	case n <= math.MaxUint8:
		return append(dst, mt|24, byte(n))
	case n <= math.MaxUint16:
		return append(dst, mt|25, byte(n>>8), byte(n))
	case n <= math.MaxUint32:
		return append(dst, mt|26, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	default:
		return append(dst, mt|27,
			byte(n>>56), byte(n>>48), byte(n>>40), byte(n>>32),
			byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	}
}

func misplaced(what string) error {
	return errors.InvalidInput(errors.PhaseWrite, "cbor: unexpected "+what)
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
