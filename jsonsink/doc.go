// Package jsonsink renders canonical events as JSON text using the
// go-json-experiment jsontext streaming encoder.
//
// Output is compact unless WithIndent is given. The encoder validates the
// event stream: unbalanced objects, a value without a preceding key, or a
// repeated member name are reported as errors rather than producing
// malformed JSON.
package jsonsink
