// Package event defines the token-stream contract between the canonical
// writer and the concrete output backends.
//
// A Sink receives an ordered sequence of structural events:
//
//	BeginObject Key Scalar ... EndObject
//	BeginArray Null Scalar ... EndArray
//
// Backends (jsonsink, cborsink, msgpacksink, yamlsink) implement Sink and are
// interchangeable: the writer decides the order, the backend only renders it.
//
// Tape is an in-memory Sink that records events for later replay. The
// canonical writer uses tapes to serialize sequence elements before sorting
// them.
package event
