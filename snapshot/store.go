package snapshot

import (
	"context"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/canonjson/canonical"
	"github.com/wippyai/canonjson/digest"
	"github.com/wippyai/canonjson/errors"
	"github.com/wippyai/canonjson/jsonsink"
)

// Option configures a Store.
type Option func(*Store)

// WithCompression selects the payload compression for new snapshots.
func WithCompression(c Compression) Option {
	return func(s *Store) {
		s.compression = c
	}
}

// WithAlgorithm selects the digest algorithm used for addressing.
func WithAlgorithm(a digest.Algorithm) Option {
	return func(s *Store) {
		s.algorithm = a
	}
}

// WithWriter sets the canonical writer used by Put.
func WithWriter(w *canonical.Writer) Option {
	return func(s *Store) {
		if w != nil {
			s.writer = w
		}
	}
}

// Store is a directory of content-addressed canonical snapshots. It is
// safe for concurrent use, including by several processes sharing a
// directory: writes land via rename, and identical content always maps to
// the same path.
type Store struct {
	writer      *canonical.Writer
	root        string
	algorithm   digest.Algorithm
	compression Compression
}

// Open prepares a store rooted at dir, creating it if needed.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		root:        dir,
		algorithm:   digest.BLAKE3,
		compression: CompressionZstd,
		writer:      canonical.NewWriter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := digest.NewHasher(s.algorithm); err != nil {
		return nil, err
	}
	if s.compression > CompressionZstd {
		return nil, errors.InvalidInput(errors.PhaseConfig, "unsupported compression "+s.compression.String())
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "create store directory")
	}
	return s, nil
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// Put stores the canonical JSON encoding of v and returns its address.
func (s *Store) Put(ctx context.Context, v any) (digest.Digest, error) {
	buf := jsonsink.NewBuffer()
	if err := s.writer.Write(buf, v); err != nil {
		return digest.Digest{}, err
	}
	return s.PutBytes(ctx, buf.Bytes())
}

// PutBytes stores already-canonical bytes and returns their address.
func (s *Store) PutBytes(ctx context.Context, data []byte) (digest.Digest, error) {
	if err := ctx.Err(); err != nil {
		return digest.Digest{}, err
	}

	d, err := digest.Of(s.algorithm, data)
	if err != nil {
		return digest.Digest{}, err
	}

	path := s.path(d)
	if _, err := os.Stat(path); err == nil {
		Logger().Debug("snapshot exists", zap.Stringer("digest", d))
		return d, nil
	}

	payload, applied, err := compress(data, s.compression)
	if err != nil {
		return digest.Digest{}, err
	}

	record := make([]byte, 0, 1+binary.MaxVarintLen64+len(payload))
	record = append(record, byte(applied))
	record = binary.AppendUvarint(record, uint64(len(data)))
	record = append(record, payload...)

	if err := writeAtomic(path, record); err != nil {
		return digest.Digest{}, err
	}

	Logger().Debug("stored snapshot",
		zap.Stringer("digest", d),
		zap.Int("size", len(data)),
		zap.Int("stored", len(record)),
		zap.Stringer("compression", applied))
	return d, nil
}

// Load returns the canonical bytes stored under d.
func (s *Store) Load(ctx context.Context, d digest.Digest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, err := os.ReadFile(s.path(d))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(errors.PhaseStore, "snapshot", d.String())
		}
		return nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "read snapshot")
	}

	data, err := decodeRecord(record)
	if err != nil {
		return nil, err
	}

	got, err := digest.Of(d.Algorithm, data)
	if err != nil {
		return nil, err
	}
	if got != d {
		return nil, errors.Integrity(errors.PhaseStore, d.String(), got.String())
	}
	return data, nil
}

// Has reports whether a snapshot exists under d without verifying it.
func (s *Store) Has(ctx context.Context, d digest.Digest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path(d))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "stat snapshot")
	}
}

// Verify loads the snapshot under d and checks its digest.
func (s *Store) Verify(ctx context.Context, d digest.Digest) error {
	_, err := s.Load(ctx, d)
	return err
}

// List returns the digests of all snapshots stored with the store's
// algorithm, sorted by hex.
func (s *Store) List(ctx context.Context) ([]digest.Digest, error) {
	base := filepath.Join(s.root, s.algorithm.String())
	var out []digest.Digest

	err := filepath.WalkDir(base, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == base {
				return fs.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		d, perr := digest.Parse(s.algorithm.String() + ":" + entry.Name())
		if perr != nil {
			Logger().Debug("skipping foreign file", zap.String("path", path))
			return nil
		}
		out = append(out, d)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "list snapshots")
	}

	slices.SortFunc(out, func(a, b digest.Digest) int {
		return strings.Compare(a.Hex(), b.Hex())
	})
	return out, nil
}

func (s *Store) path(d digest.Digest) string {
	hex := d.Hex()
	return filepath.Join(s.root, d.Algorithm.String(), hex[:2], hex)
}

func decodeRecord(record []byte) ([]byte, error) {
	if len(record) < 2 {
		return nil, errors.New(errors.PhaseStore, errors.KindIntegrity).
			Detail("snapshot record is truncated").
			Build()
	}
	comp := Compression(record[0])
	size, n := binary.Uvarint(record[1:])
	if n <= 0 || size > uint64(maxSnapshotSize) {
		return nil, errors.New(errors.PhaseStore, errors.KindIntegrity).
			Detail("snapshot record has a corrupt length").
			Build()
	}
	return decompress(record[1+n:], comp, int(size))
}

// maxSnapshotSize bounds the allocation made for a recorded length.
const maxSnapshotSize = 1 << 30

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "create snapshot directory")
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "write snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "write snapshot")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "commit snapshot")
	}
	return nil
}
