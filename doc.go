// Package canonjson produces deterministic, canonical encodings of Go values.
//
// Two semantically equal value graphs always serialize to byte-identical
// output, regardless of struct field declaration order, map iteration
// order, or slice element order. The output is meant for content
// addressing and checksum comparison of serialized snapshots; it is
// write-only and cannot be read back.
//
// # Architecture Overview
//
//	canonjson/           Root facade: Marshal, Sum, Equal, Codec
//	├── canonical/       Classifier, ordering rules, type tags, Writer
//	├── event/           Sink interface, scalar model, event tapes
//	├── jsonsink/        JSON text backend (jsontext)
//	├── cborsink/        CBOR backend (fxamacker/cbor)
//	├── msgpacksink/     MessagePack backend (vmihailenco/msgpack)
//	├── yamlsink/        YAML backend (yaml.v3)
//	├── digest/          BLAKE3 and SHA-256 content addresses
//	├── snapshot/        Content-addressed snapshot store with lz4/zstd
//	├── errors/          Structured error types
//	└── cmd/canonjson/   Command line tool
//
// # Quick Start
//
//	type Box struct {
//		Number int
//		Name   string
//		Ints   []int
//	}
//
//	out, err := canonjson.Marshal(Box{Number: 42, Name: "Test", Ints: []int{0, 3, 2, 1}})
//	// {"$type":"example.com/app.Box, example.com/app","Ints":[0,1,2,3],"Name":"Test","Number":42}
//
//	sum, err := canonjson.Sum(value, digest.BLAKE3)
//	fmt.Println(sum) // blake3:6f1c...
//
// # Canonical Rules
//
//   - Records (structs) become objects whose first member is "$type",
//     followed by fields in ordinal name order.
//   - Mappings (maps) become objects with stringified keys in
//     case-insensitive order, ties broken ordinally.
//   - Sequences (slices, arrays) are sorted: numbers numerically, strings
//     ordinally, composites by their canonical text. Mixed element types
//     fail with an unsortable sequence error.
//   - nil in any position becomes null.
//
// See package canonical for the full rules and extension points.
package canonjson
