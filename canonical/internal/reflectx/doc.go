// Package reflectx provides internal reflection and number helpers for the
// canonical writer.
//
// # Contents
//
//   - helpers.go: type naming and nil-safe reflection utilities
//   - number.go: JSON number literal formatting and exact comparison
//
// This package is internal to canonical.
package reflectx
