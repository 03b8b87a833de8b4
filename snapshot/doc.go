// Package snapshot stores canonical encodings by content address.
//
// Each snapshot lives at <root>/<algorithm>/<hex[0:2]>/<hex>, where hex is
// the digest of the uncompressed canonical bytes. Storing the same value
// twice is a no-op, and comparing two snapshots only needs their digests.
//
// On disk a snapshot is a one-byte compression tag, the uncompressed
// length as a uvarint, and the payload. LZ4 block compression is fast;
// zstd gives better ratios for larger JSON documents. Payloads that do
// not shrink are stored uncompressed.
//
// Loads always re-hash the decompressed bytes, so a corrupted or renamed
// file is reported as an integrity error rather than returned.
package snapshot
