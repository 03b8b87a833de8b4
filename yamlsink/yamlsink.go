package yamlsink

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/canonjson/errors"
	"github.com/wippyai/canonjson/event"
)

const (
	tagStr   = "!!str"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagBool  = "!!bool"
	tagNull  = "!!null"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// Option configures an Encoder.
type Option func(*Encoder)

// WithIndent sets the number of spaces per nesting level.
func WithIndent(spaces int) Option {
	return func(e *Encoder) {
		if spaces > 0 {
			e.indent = spaces
		}
	}
}

// Encoder is an event.Sink writing YAML documents to an io.Writer.
type Encoder struct {
	w       io.Writer
	stack   []*yaml.Node
	pending *yaml.Node // key awaiting its value
	indent  int
}

var _ event.Sink = (*Encoder)(nil)

func New(w io.Writer, opts ...Option) *Encoder {
	e := &Encoder{w: w, indent: DefaultIndent}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Encoder) BeginObject() error {
	return e.open(&yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"})
}

func (e *Encoder) BeginArray() error {
	return e.open(&yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"})
}

func (e *Encoder) EndObject() error { return e.close(yaml.MappingNode) }
func (e *Encoder) EndArray() error  { return e.close(yaml.SequenceNode) }

func (e *Encoder) Key(name string) error {
	top := e.top()
	if top == nil || top.Kind != yaml.MappingNode || e.pending != nil {
		return misplaced("key " + strconv.Quote(name))
	}
	e.pending = scalarNode(tagStr, name)
	return nil
}

func (e *Encoder) Null() error {
	return e.add(scalarNode(tagNull, "null"))
}

func (e *Encoder) Scalar(s event.Scalar) error {
	n, err := nodeFor(s)
	if err != nil {
		return err
	}
	return e.add(n)
}

func (e *Encoder) open(n *yaml.Node) error {
	if err := e.checkValue(); err != nil {
		return err
	}
	e.stack = append(e.stack, n)
	return nil
}

func (e *Encoder) close(kind yaml.Kind) error {
	top := e.top()
	if top == nil || top.Kind != kind || e.pending != nil {
		return misplaced("end of " + kindName(kind))
	}
	e.stack = e.stack[:len(e.stack)-1]
	return e.add(top)
}

func (e *Encoder) checkValue() error {
	if top := e.top(); top != nil && top.Kind == yaml.MappingNode && e.pending == nil {
		return misplaced("mapping value without a key")
	}
	return nil
}

// add attaches a finished node to its parent or emits it as a document.
func (e *Encoder) add(n *yaml.Node) error {
	if err := e.checkValue(); err != nil {
		return err
	}

	top := e.top()
	if top == nil {
		return e.emit(n)
	}
	if top.Kind == yaml.MappingNode {
		top.Content = append(top.Content, e.pending, n)
		e.pending = nil
		return nil
	}
	top.Content = append(top.Content, n)
	return nil
}

func (e *Encoder) emit(n *yaml.Node) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(e.indent)
	if err := enc.Encode(n); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := e.w.Write(buf.Bytes())
	return err
}

func (e *Encoder) top() *yaml.Node {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

func nodeFor(s event.Scalar) (*yaml.Node, error) {
	switch s.Kind {
	case event.ScalarString:
		return scalarNode(tagStr, s.Text), nil
	case event.ScalarBool:
		return scalarNode(tagBool, strconv.FormatBool(s.Bool)), nil
	case event.ScalarNumber:
		if strings.ContainsAny(s.Text, ".eE") {
			return scalarNode(tagFloat, s.Text), nil
		}
		return scalarNode(tagInt, s.Text), nil
	case event.ScalarRaw:
		return rawNode(s.Text)
	default:
		return nil, errors.InvalidInput(errors.PhaseWrite, "unknown scalar kind "+s.Kind.String())
	}
}

// rawNode parses JSON text, which is valid YAML, into block-style nodes.
func rawNode(text string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, errors.Wrap(errors.PhaseWrite, errors.KindInvalidInput, err, "raw JSON scalar is not valid YAML")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, errors.InvalidInput(errors.PhaseWrite, "raw JSON scalar is empty")
	}
	n := doc.Content[0]
	clearStyle(n)
	return n, nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	n.Line, n.Column = 0, 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func kindName(k yaml.Kind) string {
	if k == yaml.MappingNode {
		return "mapping"
	}
	return "sequence"
}

func misplaced(what string) error {
	return errors.InvalidInput(errors.PhaseWrite, "yaml: unexpected "+what)
}

// Buffer is an Encoder that collects its output in memory.
type Buffer struct {
	*Encoder
	buf bytes.Buffer
}

func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{}
	b.Encoder = New(&b.buf, opts...)
	return b
}

func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}

func (b *Buffer) String() string {
	return b.buf.String()
}
