package kind

type Kind uint8

const (
	Null Kind = iota
	Scalar
	Sequence
	Mapping
	Record
)

var kindNames = [...]string{
	Null:     "null",
	Scalar:   "scalar",
	Sequence: "sequence",
	Mapping:  "mapping",
	Record:   "record",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsComposite reports whether values of this kind contain other values.
func (k Kind) IsComposite() bool {
	return k == Sequence || k == Mapping || k == Record
}
