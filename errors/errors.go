package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseClassify   Phase = "classify"   // value classification
	PhaseIntrospect Phase = "introspect" // record field discovery
	PhaseTag        Phase = "tag"        // type tag resolution
	PhaseSort       Phase = "sort"       // ordering of composite members
	PhaseWrite      Phase = "write"      // event emission to a sink
	PhaseRead       Phase = "read"       // any deserialization attempt
	PhaseDigest     Phase = "digest"     // content hashing
	PhaseStore      Phase = "store"      // snapshot storage
	PhaseConfig     Phase = "config"     // option and config validation
)

// Kind categorizes the error
type Kind string

const (
	KindUnsortableSequence  Kind = "unsortable_sequence"
	KindUninspectableRecord Kind = "uninspectable_record"
	KindUnsupportedRead     Kind = "unsupported_read"
	KindUnsupported         Kind = "unsupported"
	KindDepthExceeded       Kind = "depth_exceeded"
	KindSink                Kind = "sink"
	KindInvalidInput        Kind = "invalid_input"
	KindNotFound            Kind = "not_found"
	KindIntegrity           Kind = "integrity"
)

// Sentinels for errors.Is checks that only care about the category.
var (
	ErrUnsortableSequence  = &Error{Kind: KindUnsortableSequence}
	ErrUninspectableRecord = &Error{Kind: KindUninspectableRecord}
	ErrUnsupportedRead     = &Error{Kind: KindUnsupportedRead}
	ErrUnsupported         = &Error{Kind: KindUnsupported}
	ErrDepthExceeded       = &Error{Kind: KindDepthExceeded}
	ErrSink                = &Error{Kind: KindSink}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrIntegrity           = &Error{Kind: KindIntegrity}
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnsortableSequence reports two sequence elements with no defined relative order.
func UnsortableSequence(path []string, left, right string) *Error {
	return &Error{
		Phase:  PhaseSort,
		Kind:   KindUnsortableSequence,
		Path:   path,
		Detail: fmt.Sprintf("cannot order %s element against %s element", left, right),
	}
}

// UninspectableRecord reports a record whose fields could not be enumerated.
func UninspectableRecord(path []string, goType string, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseIntrospect,
		Kind:   KindUninspectableRecord,
		Path:   path,
		GoType: goType,
		Detail: detail,
		Cause:  cause,
	}
}

// UnsupportedRead is returned by every deserialization entry point.
func UnsupportedRead(what string) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindUnsupportedRead,
		Detail: fmt.Sprintf("%s is write-only; reading is not supported", what),
	}
}

// Unsupported creates an unsupported value error
func Unsupported(phase Phase, path []string, goType, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
		Detail: what,
	}
}

// DepthExceeded reports nesting deeper than the configured limit, usually a cycle.
func DepthExceeded(path []string, limit int) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindDepthExceeded,
		Path:   path,
		Detail: fmt.Sprintf("nesting exceeds %d levels (cyclic value?)", limit),
		Value:  limit,
	}
}

// Sink wraps a failure reported by the token-stream backend.
func Sink(path []string, event string, cause error) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindSink,
		Path:   path,
		Detail: fmt.Sprintf("sink rejected %s", event),
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Integrity reports content whose digest does not match its address.
func Integrity(phase Phase, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIntegrity,
		Detail: fmt.Sprintf("digest mismatch: want %s, got %s", want, got),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}
