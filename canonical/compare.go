package canonical

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wippyai/canonjson/canonical/internal/reflectx"
	"github.com/wippyai/canonjson/errors"
	"github.com/wippyai/canonjson/event"
	"github.com/wippyai/canonjson/jsonsink"
)

// CompareMappingKeys orders mapping keys case-insensitively, comparing the
// lower-case form of each rune. Keys equal under that folding are ordered
// ordinally so the result is still total ("B" < "b").
func CompareMappingKeys(a, b string) int {
	if c := compareFold(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareFold(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if ra != rb {
			la, lb := unicode.ToLower(ra), unicode.ToLower(rb)
			if la < lb {
				return -1
			}
			if la > lb {
				return 1
			}
		}
		a, b = a[na:], b[nb:]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// CompareFieldNames orders record field names byte-wise.
func CompareFieldNames(a, b string) int {
	return strings.Compare(a, b)
}

// ElementClass groups sequence elements that have a natural order among
// themselves.
type ElementClass uint8

const (
	ClassNull ElementClass = iota
	ClassNumber
	ClassString
	ClassBool
	ClassComposite
)

var elementClassNames = [...]string{
	ClassNull:      "null",
	ClassNumber:    "number",
	ClassString:    "string",
	ClassBool:      "bool",
	ClassComposite: "composite",
}

func (c ElementClass) String() string {
	if int(c) < len(elementClassNames) {
		return elementClassNames[c]
	}
	return "unknown"
}

// SortKey is the comparable form of one written sequence element.
type SortKey struct {
	num   *reflectx.Decimal
	Text  string // literal, string value, or compact JSON for composites
	Class ElementClass
	Bool  bool
}

// SortKeyOf derives the sort key of an element from its recorded events.
func SortKeyOf(t *event.Tape) (SortKey, error) {
	if e, ok := t.Single(); ok {
		switch e.Op {
		case event.OpNull:
			return SortKey{Class: ClassNull}, nil
		case event.OpScalar:
			return scalarSortKey(e.Scalar)
		}
	}

	text, err := compactJSON(t)
	if err != nil {
		return SortKey{}, err
	}
	return SortKey{Class: ClassComposite, Text: text}, nil
}

func scalarSortKey(s event.Scalar) (SortKey, error) {
	switch s.Kind {
	case event.ScalarString:
		return SortKey{Class: ClassString, Text: s.Text}, nil
	case event.ScalarBool:
		return SortKey{Class: ClassBool, Bool: s.Bool}, nil
	case event.ScalarNumber:
		r, ok := reflectx.ParseNumber(s.Text)
		if !ok {
			return SortKey{}, errors.New(errors.PhaseSort, errors.KindInvalidInput).
				Value(s.Text).
				Detail("invalid number literal %q", s.Text).
				Build()
		}
		return SortKey{Class: ClassNumber, Text: s.Text, num: r}, nil
	default:
		return SortKey{Class: ClassComposite, Text: s.Text}, nil
	}
}

func compactJSON(t *event.Tape) (string, error) {
	buf := jsonsink.NewBuffer()
	if op, err := t.Replay(buf); err != nil {
		return "", errors.Sink(nil, op.String(), err)
	}
	return buf.String(), nil
}

// CompareSequenceElements orders two sequence elements. Null sorts before
// everything; otherwise both elements must be of the same class. Numbers
// compare by exact value, then by literal; strings and composites compare
// byte-wise by their text; false sorts before true.
func CompareSequenceElements(a, b SortKey) (int, error) {
	if a.Class == ClassNull || b.Class == ClassNull {
		return compareBool(a.Class != ClassNull, b.Class != ClassNull), nil
	}
	if a.Class != b.Class {
		return 0, errors.UnsortableSequence(nil, a.Class.String(), b.Class.String())
	}

	switch a.Class {
	case ClassNumber:
		if a.num != nil && b.num != nil {
			if c := a.num.Cmp(b.num); c != 0 {
				return c, nil
			}
		}
		return strings.Compare(a.Text, b.Text), nil
	case ClassBool:
		return compareBool(a.Bool, b.Bool), nil
	default:
		return strings.Compare(a.Text, b.Text), nil
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
