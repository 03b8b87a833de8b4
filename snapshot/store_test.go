package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/canonjson/canonical"
	"github.com/wippyai/canonjson/digest"
	"github.com/wippyai/canonjson/errors"
)

type order struct {
	ID    string
	Lines []string
	Qty   map[string]int
}

func sample() order {
	lines := make([]string, 0, 64)
	qty := map[string]int{}
	for i := 0; i < 64; i++ {
		sku := "sku-" + strings.Repeat("x", i%7) + string(rune('a'+i%26))
		lines = append(lines, sku)
		qty[sku] = i
	}
	return order{ID: "o-1", Lines: lines, Qty: qty}
}

func TestStore_PutLoadRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		for _, alg := range []digest.Algorithm{digest.BLAKE3, digest.SHA256} {
			t.Run(comp.String()+"/"+alg.String(), func(t *testing.T) {
				s, err := Open(t.TempDir(), WithCompression(comp), WithAlgorithm(alg))
				require.NoError(t, err)

				d, err := s.Put(ctx, sample())
				require.NoError(t, err)
				assert.Equal(t, alg, d.Algorithm)

				data, err := s.Load(ctx, d)
				require.NoError(t, err)

				want, err := digest.Value(canonical.NewWriter(), alg, sample())
				require.NoError(t, err)
				assert.Equal(t, want, d)

				again, err := digest.Of(alg, data)
				require.NoError(t, err)
				assert.Equal(t, d, again)

				require.NoError(t, s.Verify(ctx, d))
			})
		}
	}
}

func TestStore_Deduplicates(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	a, err := s.PutBytes(ctx, []byte(`{"a":1}`))
	require.NoError(t, err)
	b, err := s.PutBytes(ctx, []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := s.PutBytes(ctx, []byte(`{"a":2}`))
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []digest.Digest{a, c}, list)

	ok, err := s.Has(ctx, a)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_Missing(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	d, err := digest.Of(digest.BLAKE3, []byte("nothing"))
	require.NoError(t, err)

	_, err = s.Load(ctx, d)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	ok, err := s.Has(ctx, d)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_DetectsCorruption(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir(), WithCompression(CompressionNone))
	require.NoError(t, err)

	d, err := s.PutBytes(ctx, []byte(`{"a":1}`))
	require.NoError(t, err)

	path := s.path(d)
	record, err := os.ReadFile(path)
	require.NoError(t, err)
	record[len(record)-2] = '2'
	require.NoError(t, os.WriteFile(path, record, 0o644))

	err = s.Verify(ctx, d)
	assert.ErrorIs(t, err, errors.ErrIntegrity)

	require.NoError(t, os.WriteFile(path, []byte{0}, 0o644))
	assert.ErrorIs(t, s.Verify(ctx, d), errors.ErrIntegrity)
}

func TestStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	d, err := s.PutBytes(context.Background(), []byte(`[]`))
	require.NoError(t, err)

	hex := d.Hex()
	_, err = os.Stat(filepath.Join(dir, "blake3", hex[:2], hex))
	assert.NoError(t, err)
}

func TestStore_CanceledContext(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.PutBytes(ctx, []byte(`1`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_PutPropagatesWriteErrors(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(context.Background(), []any{1, "x"})
	assert.ErrorIs(t, err, errors.ErrUnsortableSequence)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestCompress_SmallInputStaysRaw(t *testing.T) {
	out, applied, err := compress([]byte("ab"), CompressionZstd)
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, applied)
	assert.Equal(t, []byte("ab"), out)
}
