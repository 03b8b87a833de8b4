// Package errors provides structured error types for the canonjson library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: value path, Go type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseWrite, errors.KindUnsupported).
//		Path("user", "callback").
//		GoType("func()").
//		Detail("functions have no canonical form").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsortableSequence(path, "number", "string")
//	err := errors.UnsupportedRead("canonical JSON")
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match any error of their Kind regardless of Phase:
//
//	if errors.Is(err, errors.ErrUnsortableSequence) { ... }
package errors
