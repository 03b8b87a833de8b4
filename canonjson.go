package canonjson

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wippyai/canonjson/canonical"
	"github.com/wippyai/canonjson/cborsink"
	"github.com/wippyai/canonjson/digest"
	"github.com/wippyai/canonjson/errors"
	"github.com/wippyai/canonjson/jsonsink"
	"github.com/wippyai/canonjson/msgpacksink"
	"github.com/wippyai/canonjson/yamlsink"
)

// Format selects an output backend.
type Format uint8

const (
	FormatJSON Format = iota
	FormatCBOR
	FormatMsgpack
	FormatYAML
)

var formatNames = [...]string{
	FormatJSON:    "json",
	FormatCBOR:    "cbor",
	FormatMsgpack: "msgpack",
	FormatYAML:    "yaml",
}

var contentTypes = [...]string{
	FormatJSON:    "application/json",
	FormatCBOR:    "application/cbor",
	FormatMsgpack: "application/msgpack",
	FormatYAML:    "application/yaml",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("unknown(%d)", uint8(f))
}

// ContentType returns the media type of encodings in f.
func (f Format) ContentType() string {
	if int(f) < len(contentTypes) {
		return contentTypes[f]
	}
	return "application/octet-stream"
}

// ParseFormat parses a format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	case "msgpack", "messagepack":
		return FormatMsgpack, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown format %q", name))
	}
}

// buffer is a sink that keeps its output in memory.
type buffer interface {
	canonical.Sink
	Bytes() []byte
}

func newBuffer(f Format, indent string) (buffer, error) {
	switch f {
	case FormatJSON:
		if indent != "" {
			return jsonsink.NewBuffer(jsonsink.WithIndent(indent)), nil
		}
		return jsonsink.NewBuffer(), nil
	case FormatCBOR:
		return cborsink.NewBuffer(), nil
	case FormatMsgpack:
		return msgpacksink.NewBuffer(), nil
	case FormatYAML:
		if indent != "" {
			return yamlsink.NewBuffer(yamlsink.WithIndent(len(indent))), nil
		}
		return yamlsink.NewBuffer(), nil
	default:
		return nil, errors.InvalidInput(errors.PhaseConfig, "unsupported format "+f.String())
	}
}

var defaultWriter = canonical.NewWriter()

// Marshal returns the compact canonical JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return encode(defaultWriter, v, FormatJSON, "")
}

// MarshalIndent is like Marshal but indents nested members. Indentation
// changes the bytes, so indented output should not be hashed.
func MarshalIndent(v any, indent string) ([]byte, error) {
	return encode(defaultWriter, v, FormatJSON, indent)
}

// MarshalFormat returns the canonical encoding of v in f.
func MarshalFormat(v any, f Format, opts ...canonical.Option) ([]byte, error) {
	w := defaultWriter
	if len(opts) > 0 {
		w = canonical.NewWriter(opts...)
	}
	return encode(w, v, f, "")
}

// Unmarshal always fails: canonical encodings are write-only.
func Unmarshal(data []byte, v any) error {
	return errors.UnsupportedRead("canonical JSON")
}

// Equal reports whether a and b have the same canonical encoding.
func Equal(a, b any) (bool, error) {
	ea, err := Marshal(a)
	if err != nil {
		return false, err
	}
	eb, err := Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ea, eb), nil
}

// Sum returns the digest of v's compact canonical JSON encoding.
func Sum(v any, a digest.Algorithm) (digest.Digest, error) {
	return digest.Value(defaultWriter, a, v)
}

func encode(w *canonical.Writer, v any, f Format, indent string) ([]byte, error) {
	buf, err := newBuffer(f, indent)
	if err != nil {
		return nil, err
	}
	if err := w.Write(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Codec adapts the canonical writer to the Marshal/Unmarshal shape used by
// storage layers. Unmarshal always fails with an unsupported read error.
// The zero value encodes compact JSON with default canonical options.
type Codec struct {
	Writer *canonical.Writer
	Indent string
	Format Format
}

// NewCodec creates a codec for f using a writer built from opts.
func NewCodec(f Format, opts ...canonical.Option) *Codec {
	return &Codec{Format: f, Writer: canonical.NewWriter(opts...)}
}

func (c *Codec) Marshal(v any) ([]byte, error) {
	w := c.Writer
	if w == nil {
		w = defaultWriter
	}
	return encode(w, v, c.Format, c.Indent)
}

func (c *Codec) Unmarshal(data []byte, v any) error {
	return errors.UnsupportedRead("canonical " + c.Format.String())
}

// Name identifies the codec, e.g. "canonical-json".
func (c *Codec) Name() string {
	return "canonical-" + c.Format.String()
}

func (c *Codec) ContentType() string {
	return c.Format.ContentType()
}
