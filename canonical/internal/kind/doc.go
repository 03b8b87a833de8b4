// Package kind defines the closed classification of values handled by the
// canonical writer.
//
// Every value maps to exactly one Kind. The writer has one recursion branch
// per Kind; there is no open-ended dispatch.
//
// This package is internal to canonical.
package kind
