// Package canonical implements deterministic serialization of arbitrary Go
// values.
//
// Two semantically equal value graphs produce the same event stream, and
// therefore byte-identical output in every backend, regardless of struct
// field declaration order, map iteration order, or slice element order.
//
// # Value Kinds
//
// Classify assigns every value exactly one Kind:
//
//	Kind       Go shapes                                     Output
//	────────────────────────────────────────────────────────────────────────
//	Null       nil, nil pointer/interface/map/slice          null
//	Scalar     bool, numbers, string, []byte, json.Marshaler, literal
//	           encoding.TextMarshaler
//	Mapping    map[K]V                                       object, keys sorted
//	Sequence   []T, [N]T                                     array, elements sorted
//	Record     struct                                        object, "$type" first
//
// Pointers and interfaces are looked through, so an `any` holding a []int
// is a Sequence. Marshaler types are checked first, then Mapping, Sequence,
// Record, with Scalar as the fallback.
//
// # Ordering Rules
//
//   - Mapping keys are stringified, then ordered case-insensitively; keys
//     that differ only by case fall back to ordinal order.
//   - Record fields are ordered by ordinal (byte-wise) name comparison.
//   - Sequence elements are ordered naturally: numbers numerically,
//     strings ordinally, false before true, null first. Composite elements
//     are ordered by their own compact canonical JSON text. Mixing element
//     classes (a number and a string) is an unsortable sequence.
//
// # Type Tags
//
// Each record object starts with a "$type" member naming the concrete Go
// type as "<package path>.<Name>, <module>", so a consumer can tell which
// implementation of an interface was serialized. Registry pins explicit
// names for types whose tags must survive refactoring.
//
// # Usage
//
//	w := canonical.NewWriter()
//	buf := jsonsink.NewBuffer()
//	if err := w.Write(buf, value); err != nil {
//		// buf holds partial output; discard it
//	}
//	fmt.Println(buf.String())
//
// # Thread Safety
//
// Writer, ReflectIntrospector, ModuleTagger and Registry are safe for
// concurrent use. Sinks are not; use one per Write call.
//
// # Error Handling
//
// Errors use the structured types from the errors package:
//
//	[sort] unsortable_sequence at items: cannot order number element against string element
//	[introspect] uninspectable_record at order: Go type shop.Order - field "id" declared twice
package canonical
