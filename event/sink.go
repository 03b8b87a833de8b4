package event

// Sink accepts canonical events in emission order.
// Implementations are not required to be safe for concurrent use.
type Sink interface {
	BeginObject() error
	EndObject() error
	BeginArray() error
	EndArray() error
	// Key announces the name of the next object member.
	Key(name string) error
	Null() error
	Scalar(s Scalar) error
}

// ScalarKind selects how a backend renders a Scalar.
type ScalarKind uint8

const (
	ScalarString ScalarKind = iota
	ScalarNumber            // Text holds a JSON number literal
	ScalarBool
	ScalarRaw // Text holds a canonical JSON value that is not a primitive
)

var scalarKindNames = [...]string{
	ScalarString: "string",
	ScalarNumber: "number",
	ScalarBool:   "bool",
	ScalarRaw:    "raw",
}

func (k ScalarKind) String() string {
	if int(k) < len(scalarKindNames) {
		return scalarKindNames[k]
	}
	return "unknown"
}

// Scalar is a leaf value emitted without further decomposition.
type Scalar struct {
	Text string
	Kind ScalarKind
	Bool bool
}

func String(s string) Scalar {
	return Scalar{Kind: ScalarString, Text: s}
}

// Number wraps a JSON number literal. The literal is passed through as-is.
func Number(literal string) Scalar {
	return Scalar{Kind: ScalarNumber, Text: literal}
}

func Bool(b bool) Scalar {
	return Scalar{Kind: ScalarBool, Bool: b}
}

// Raw wraps a compact JSON object or array. The canonical writer decodes
// raw marshaler output and never emits Raw itself; backends accept it from
// other producers.
func Raw(json string) Scalar {
	return Scalar{Kind: ScalarRaw, Text: json}
}
