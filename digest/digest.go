package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/wippyai/canonjson/canonical"
	"github.com/wippyai/canonjson/errors"
	"github.com/wippyai/canonjson/jsonsink"
)

// Size is the byte length of every supported digest.
const Size = 32

// Algorithm identifies a hash function. Values are stable and may be
// persisted.
type Algorithm uint8

const (
	BLAKE3 Algorithm = 1
	SHA256 Algorithm = 2
)

// String returns the name used in digest strings and configuration.
func (a Algorithm) String() string {
	switch a {
	case BLAKE3:
		return "blake3"
	case SHA256:
		return "sha256"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAlgorithm parses an algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(name) {
	case "blake3":
		return BLAKE3, nil
	case "sha256", "sha-256":
		return SHA256, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseDigest, fmt.Sprintf("unknown digest algorithm %q", name))
	}
}

// domainKey is the BLAKE3 key for canonical encodings: ASCII
// "canonjson.canonical", zero-padded to 32 bytes. Changing it changes
// every digest.
var domainKey = [32]byte{
	'c', 'a', 'n', 'o', 'n', 'j', 's', 'o', 'n', '.',
	'c', 'a', 'n', 'o', 'n', 'i', 'c', 'a', 'l',
}

// NewHasher returns a streaming hasher for a.
func NewHasher(a Algorithm) (hash.Hash, error) {
	switch a {
	case BLAKE3:
		h, err := blake3.NewKeyed(domainKey[:])
		if err != nil {
			panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
		}
		return h, nil
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, errors.InvalidInput(errors.PhaseDigest, "unsupported digest algorithm "+a.String())
	}
}

// Digest is an algorithm-tagged hash.
type Digest struct {
	Sum       [Size]byte
	Algorithm Algorithm
}

// String formats d as "<algorithm>:<hex>".
func (d Digest) String() string {
	return d.Algorithm.String() + ":" + d.Hex()
}

// Hex returns the lower-case hex encoding of the hash bytes.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.Sum[:])
}

// Short returns the first 12 hex characters, for logs and listings.
func (d Digest) Short() string {
	return hex.EncodeToString(d.Sum[:6])
}

// IsZero reports whether d is the zero Digest.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Parse parses "<algorithm>:<hex>".
func Parse(s string) (Digest, error) {
	name, hexSum, ok := strings.Cut(s, ":")
	if !ok {
		return Digest{}, errors.InvalidInput(errors.PhaseDigest, fmt.Sprintf("digest %q has no algorithm prefix", s))
	}
	alg, err := ParseAlgorithm(name)
	if err != nil {
		return Digest{}, err
	}

	raw, err := hex.DecodeString(hexSum)
	if err != nil {
		return Digest{}, errors.Wrap(errors.PhaseDigest, errors.KindInvalidInput, err, "digest is not hex")
	}
	if len(raw) != Size {
		return Digest{}, errors.InvalidInput(errors.PhaseDigest,
			fmt.Sprintf("digest is %d bytes, want %d", len(raw), Size))
	}

	d := Digest{Algorithm: alg}
	copy(d.Sum[:], raw)
	return d, nil
}

// Of hashes data with a.
func Of(a Algorithm, data []byte) (Digest, error) {
	h, err := NewHasher(a)
	if err != nil {
		return Digest{}, err
	}
	h.Write(data)
	return finish(a, h), nil
}

// Value hashes the compact canonical JSON encoding of v. A nil writer uses
// canonical defaults.
func Value(w *canonical.Writer, a Algorithm, v any) (Digest, error) {
	if w == nil {
		w = canonical.NewWriter()
	}

	buf := jsonsink.NewBuffer()
	if err := w.Write(buf, v); err != nil {
		return Digest{}, err
	}
	return Of(a, buf.Bytes())
}

func finish(a Algorithm, h hash.Hash) Digest {
	d := Digest{Algorithm: a}
	copy(d.Sum[:], h.Sum(nil))
	return d
}
