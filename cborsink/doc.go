// Package cborsink renders canonical events as CBOR (RFC 8949).
//
// Scalars are encoded with fxamacker/cbor in Core Deterministic mode:
// shortest integer and float forms, definite lengths. Arrays and maps are
// framed by the encoder itself so that member order is exactly the
// canonical event order; CBOR's own deterministic key sorting (length
// first, then bytes) would otherwise reorder record members.
//
// Number literals become CBOR integers when they have no fraction or
// exponent (bignums when they overflow 64 bits) and floats otherwise. Raw
// JSON scalars are carried as tag 262 (embedded JSON) around a byte string.
package cborsink
