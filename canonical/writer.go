package canonical

import (
	"reflect"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/canonjson/errors"
	"github.com/wippyai/canonjson/event"
	"github.com/wippyai/canonjson/internal/jsontree"
)

// DefaultMaxDepth bounds composite nesting; deeper graphs are almost
// always cyclic.
const DefaultMaxDepth = 1000

// Option configures a Writer.
type Option func(*Writer)

// WithIntrospector replaces the record field discovery.
func WithIntrospector(in Introspector) Option {
	return func(w *Writer) {
		if in != nil {
			w.introspector = in
		}
	}
}

// WithTagger replaces the "$type" naming.
func WithTagger(t TypeTagger) Option {
	return func(w *Writer) {
		if t != nil {
			w.tagger = t
		}
	}
}

// WithTypeTags controls whether records carry a "$type" member. Enabled
// by default.
func WithTypeTags(enabled bool) Option {
	return func(w *Writer) {
		w.typeTags = enabled
	}
}

// WithMaxDepth sets the nesting limit. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(w *Writer) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

// Writer walks value graphs and emits canonical events to a Sink.
// A Writer holds no per-call state and is safe for concurrent use.
type Writer struct {
	introspector Introspector
	tagger       TypeTagger
	maxDepth     int
	typeTags     bool
}

// NewWriter creates a writer using reflection for records and module
// paths for type tags.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		introspector: NewReflectIntrospector(),
		tagger:       &ModuleTagger{},
		maxDepth:     DefaultMaxDepth,
		typeTags:     true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var defaultWriter = NewWriter()

// Write emits v to sink with the default writer.
func Write(sink Sink, v any) error {
	return defaultWriter.Write(sink, v)
}

// Write emits the canonical event stream of v to sink. On error the sink
// may have received a partial stream and should be discarded.
func (w *Writer) Write(sink Sink, v any) error {
	return w.WriteValue(sink, reflect.ValueOf(v))
}

// WriteValue is Write for a reflect.Value.
func (w *Writer) WriteValue(sink Sink, v reflect.Value) error {
	return w.write(sink, v, nil, 0)
}

// SortKey returns the key v would be ordered by as a sequence element.
func (w *Writer) SortKey(v any) (SortKey, error) {
	tape := getTape()
	defer putTape(tape)

	if err := w.Write(tape, v); err != nil {
		return SortKey{}, err
	}
	return SortKeyOf(tape)
}

func (w *Writer) write(sink Sink, v reflect.Value, path []string, depth int) error {
	v, k := resolve(v)

	switch k {
	case KindNull:
		return emit(path, event.OpNull, sink.Null())
	case KindScalar:
		s, isNull, err := scalarOf(v, path)
		if err != nil {
			return err
		}
		if isNull {
			return emit(path, event.OpNull, sink.Null())
		}
		if s.Kind == event.ScalarRaw {
			return w.writeMarshaled(sink, s.Text, v.Type(), path, depth)
		}
		return emit(path, event.OpScalar, sink.Scalar(s))
	}

	if depth >= w.maxDepth {
		return errors.DepthExceeded(path, w.maxDepth)
	}

	switch k {
	case KindMapping:
		return w.writeMapping(sink, v, path, depth+1)
	case KindSequence:
		return w.writeSequence(sink, v, path, depth+1)
	default:
		return w.writeRecord(sink, v, path, depth+1)
	}
}

func (w *Writer) writeRecord(sink Sink, v reflect.Value, path []string, depth int) error {
	fields, err := w.introspector.Fields(v)
	if err != nil {
		return withPath(err, path)
	}

	for _, f := range fields {
		if f.Name == TypeKey {
			return errors.UninspectableRecord(path, v.Type().String(),
				"field name "+strconv.Quote(TypeKey)+" is reserved", nil)
		}
	}
	slices.SortFunc(fields, func(a, b Field) int {
		return CompareFieldNames(a.Name, b.Name)
	})
	for i := 1; i < len(fields); i++ {
		if fields[i].Name == fields[i-1].Name {
			return errors.UninspectableRecord(path, v.Type().String(),
				"field "+strconv.Quote(fields[i].Name)+" declared twice", nil)
		}
	}

	if err := emit(path, event.OpBeginObject, sink.BeginObject()); err != nil {
		return err
	}
	if w.typeTags {
		if err := emit(path, event.OpKey, sink.Key(TypeKey)); err != nil {
			return err
		}
		if err := emit(path, event.OpScalar, sink.Scalar(event.String(w.tagger.Tag(v.Type())))); err != nil {
			return err
		}
	}
	for _, f := range fields {
		fieldPath := appendPath(path, f.Name)
		if err := emit(fieldPath, event.OpKey, sink.Key(f.Name)); err != nil {
			return err
		}
		if err := w.write(sink, f.Value, fieldPath, depth); err != nil {
			return err
		}
	}
	return emit(path, event.OpEndObject, sink.EndObject())
}

// writeMarshaled writes an object or array produced by MarshalJSON under
// the same rules as a Go map or slice holding the same data.
func (w *Writer) writeMarshaled(sink Sink, text string, t reflect.Type, path []string, depth int) error {
	tree, err := jsontree.Decode([]byte(text))
	if err != nil {
		return errors.New(errors.PhaseWrite, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("MarshalJSON output cannot be decoded").
			Cause(err).
			Build()
	}
	return w.write(sink, reflect.ValueOf(tree), path, depth)
}

type mapEntry struct {
	value reflect.Value
	key   string
}

func (w *Writer) writeMapping(sink Sink, v reflect.Value, path []string, depth int) error {
	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := stringifyKey(iter.Key(), path)
		if err != nil {
			return err
		}
		if !utf8.ValidString(key) {
			return errors.Unsupported(errors.PhaseWrite, path, v.Type().String(),
				"map key "+strconv.Quote(key)+" is not valid UTF-8")
		}
		entries = append(entries, mapEntry{key: key, value: iter.Value()})
	}

	slices.SortFunc(entries, func(a, b mapEntry) int {
		return CompareMappingKeys(a.key, b.key)
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].key == entries[i-1].key {
			return errors.Unsupported(errors.PhaseWrite, path, v.Type().String(),
				"distinct map keys share the name "+strconv.Quote(entries[i].key))
		}
	}

	if err := emit(path, event.OpBeginObject, sink.BeginObject()); err != nil {
		return err
	}
	for _, e := range entries {
		entryPath := appendPath(path, e.key)
		if err := emit(entryPath, event.OpKey, sink.Key(e.key)); err != nil {
			return err
		}
		if err := w.write(sink, e.value, entryPath, depth); err != nil {
			return err
		}
	}
	return emit(path, event.OpEndObject, sink.EndObject())
}

type element struct {
	tape *event.Tape
	key  SortKey
}

func (w *Writer) writeSequence(sink Sink, v reflect.Value, path []string, depth int) error {
	n := v.Len()
	elems := make([]element, 0, n)
	defer func() {
		for _, e := range elems {
			putTape(e.tape)
		}
	}()

	for i := 0; i < n; i++ {
		tape := getTape()
		elems = append(elems, element{tape: tape})
		if err := w.write(tape, v.Index(i), appendPath(path, "["+strconv.Itoa(i)+"]"), depth); err != nil {
			return err
		}
		key, err := SortKeyOf(tape)
		if err != nil {
			return withPath(err, path)
		}
		elems[i].key = key
	}

	var sortErr error
	slices.SortStableFunc(elems, func(a, b element) int {
		c, err := CompareSequenceElements(a.key, b.key)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c
	})
	if sortErr != nil {
		return withPath(sortErr, path)
	}

	if err := emit(path, event.OpBeginArray, sink.BeginArray()); err != nil {
		return err
	}
	for _, e := range elems {
		if op, err := e.tape.Replay(sink); err != nil {
			return errors.Sink(path, op.String(), err)
		}
	}
	return emit(path, event.OpEndArray, sink.EndArray())
}

func emit(path []string, op event.Op, err error) error {
	if err == nil {
		return nil
	}
	return errors.Sink(path, op.String(), err)
}

func appendPath(path []string, segment string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, segment)
}

// withPath fills in the location of errors raised below the writer.
func withPath(err error, path []string) error {
	if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 && len(path) > 0 {
		e.Path = path
	}
	return err
}
