package jsonsink

import (
	"bytes"
	"io"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/wippyai/canonjson/event"
)

type config struct {
	indent     string
	escapeHTML bool
}

// Option configures an Encoder.
type Option func(*config)

// WithIndent enables multi-line output using indent per nesting level.
func WithIndent(indent string) Option {
	return func(c *config) {
		c.indent = indent
	}
}

// WithEscapeHTML escapes <, >, and & inside strings.
func WithEscapeHTML(escape bool) Option {
	return func(c *config) {
		c.escapeHTML = escape
	}
}

// Encoder is an event.Sink that writes JSON text to an io.Writer.
type Encoder struct {
	enc *jsontext.Encoder
}

var _ event.Sink = (*Encoder)(nil)

func New(w io.Writer, opts ...Option) *Encoder {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	jsonOpts := []jsontext.Options{
		jsontext.EscapeForHTML(cfg.escapeHTML),
	}
	if cfg.indent != "" {
		jsonOpts = append(jsonOpts, jsontext.WithIndent(cfg.indent))
	}

	return &Encoder{enc: jsontext.NewEncoder(w, jsonOpts...)}
}

func (e *Encoder) BeginObject() error { return e.enc.WriteToken(jsontext.BeginObject) }
func (e *Encoder) EndObject() error   { return e.enc.WriteToken(jsontext.EndObject) }
func (e *Encoder) BeginArray() error  { return e.enc.WriteToken(jsontext.BeginArray) }
func (e *Encoder) EndArray() error    { return e.enc.WriteToken(jsontext.EndArray) }

func (e *Encoder) Key(name string) error {
	return e.enc.WriteToken(jsontext.String(name))
}

func (e *Encoder) Null() error {
	return e.enc.WriteToken(jsontext.Null)
}

func (e *Encoder) Scalar(s event.Scalar) error {
	switch s.Kind {
	case event.ScalarString:
		return e.enc.WriteToken(jsontext.String(s.Text))
	case event.ScalarBool:
		return e.enc.WriteToken(jsontext.Bool(s.Bool))
	default:
		// Number literals and raw values are already valid JSON.
		return e.enc.WriteValue(jsontext.Value(s.Text))
	}
}

// Buffer collects one top-level value into memory.
type Buffer struct {
	*Encoder
	buf bytes.Buffer
}

// NewBuffer returns an Encoder writing into an internal buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{}
	b.Encoder = New(&b.buf, opts...)
	return b
}

// Bytes returns the encoded text without the trailing newline the
// streaming encoder appends after each top-level value.
func (b *Buffer) Bytes() []byte {
	return bytes.TrimSuffix(b.buf.Bytes(), []byte{'\n'})
}

func (b *Buffer) String() string {
	return string(b.Bytes())
}
