package canonical

import (
	"github.com/wippyai/canonjson/canonical/internal/kind"
	"github.com/wippyai/canonjson/event"
)

type Kind = kind.Kind

const (
	KindNull     = kind.Null
	KindScalar   = kind.Scalar
	KindSequence = kind.Sequence
	KindMapping  = kind.Mapping
	KindRecord   = kind.Record
)

type Sink = event.Sink
type Scalar = event.Scalar

// TypeKey is the member name carrying a record's type tag.
const TypeKey = "$type"
