// Package digest computes content addresses for canonical encodings.
//
// A Digest is a 32-byte hash tagged with the algorithm that produced it
// and printed as "<algorithm>:<hex>". Because the canonical writer emits
// identical bytes for semantically equal values, two values with the same
// digest can be treated as the same snapshot.
//
// BLAKE3 runs in keyed mode with a fixed domain key, so canonjson digests
// never collide with plain BLAKE3 hashes of the same bytes computed for
// other purposes. SHA-256 is provided for interoperability with tools that
// only speak SHA-2.
package digest
