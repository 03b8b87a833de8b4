package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/canonjson/digest"
	cerrors "github.com/wippyai/canonjson/errors"
)

// workdir isolates a test in a fresh directory with no config file.
func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func TestCanon(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		input string
		want  string
	}{
		{
			name:  "json",
			file:  "doc.json",
			input: `{"b":[3,1,2],"a":1.50}`,
			want:  `{"a":1.50,"b":[1,2,3]}`,
		},
		{
			name:  "jsonc",
			file:  "doc.jsonc",
			input: "{\n  // comment\n  \"z\": true,\n  \"a\": null,\n}",
			want:  `{"a":null,"z":true}`,
		},
		{
			name:  "yaml",
			file:  "doc.yaml",
			input: "b: 2\na: [c, a]\n",
			want:  `{"a":["a","c"],"b":2}`,
		},
		{
			name:  "nested",
			file:  "doc.json",
			input: `{"x":[{"k":2},{"k":1}],"B":1,"b":0}`,
			want:  `{"B":1,"b":0,"x":[{"k":1},{"k":2}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workdir(t)
			path := writeFile(t, tt.file, tt.input)
			out, err := run(t, "", "canon", path)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestCanon_Stdin(t *testing.T) {
	workdir(t)
	out, err := run(t, `["b","a"]`, "canon")
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`+"\n", out)
}

func TestCanon_BinaryToFile(t *testing.T) {
	dir := workdir(t)
	out, err := run(t, `{"b":true,"a":null}`, "canon", "--format", "cbor", "-o", "out.cbor")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(filepath.Join(dir, "out.cbor"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa2, 0x61, 0x61, 0xf6, 0x61, 0x62, 0xf5}, data)
}

func TestCanon_Errors(t *testing.T) {
	workdir(t)

	_, err := run(t, `[1,"a"]`, "canon")
	assert.True(t, cerrors.Is(err, cerrors.ErrUnsortableSequence), "got %v", err)

	_, err = run(t, `{"a":1} {"b":2}`, "canon")
	assert.ErrorContains(t, err, "unexpected data")

	_, err = run(t, `{}`, "canon", "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, "", "canon", "missing.json")
	assert.ErrorContains(t, err, "missing.json")
}

func TestDigest_PermutationStable(t *testing.T) {
	workdir(t)
	a := writeFile(t, "a.json", `{"tags":["x","y"],"n":1}`)
	b := writeFile(t, "b.yaml", "n: 1\ntags: [y, x]\n")

	out, err := run(t, "", "digest", a, b)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	da, db := strings.Fields(lines[0]), strings.Fields(lines[1])
	assert.Equal(t, da[0], db[0])
	assert.True(t, strings.HasPrefix(da[0], "blake3:"))

	out, err = run(t, "", "digest", "--digest", "sha256", a)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sha256:"))
}

func TestDiff(t *testing.T) {
	workdir(t)
	a := writeFile(t, "a.json", `{"a":[1,2],"b":"x"}`)
	same := writeFile(t, "same.json", "{\"b\": \"x\", \"a\": [2, 1]}")
	other := writeFile(t, "other.json", `{"a":[1,3],"b":"x"}`)

	out, err := run(t, "", "diff", a, same)
	require.NoError(t, err)
	assert.Contains(t, out, "identical")

	out, err = run(t, "", "diff", a, other)
	assert.ErrorIs(t, err, errDifferent)
	assert.Contains(t, out, "different")
	assert.Contains(t, out, "first difference at line")
}

func TestSnapshot(t *testing.T) {
	workdir(t)
	doc := writeFile(t, "doc.json", `{"b":[2,1],"a":"x"}`)

	out, err := run(t, "", "snapshot", "put", doc)
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	d, err := digest.Parse(fields[0])
	require.NoError(t, err)

	out, err = run(t, "", "snapshot", "list")
	require.NoError(t, err)
	assert.Equal(t, d.String()+"\n", out)

	out, err = run(t, "", "snapshot", "cat", d.String())
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":[1,2]}`+"\n", out)

	out, err = run(t, "", "snapshot", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, d.String())

	_, err = run(t, "", "snapshot", "cat", "blake3:"+strings.Repeat("0", 64))
	assert.True(t, cerrors.Is(err, cerrors.ErrNotFound), "got %v", err)
}

func TestSnapshot_ConfigFile(t *testing.T) {
	dir := workdir(t)
	writeFile(t, ".canonjson.yaml", "store: custom\ncompression: lz4\n")
	doc := writeFile(t, "doc.json", `{"a":1}`)

	_, err := run(t, "", "snapshot", "put", doc)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "custom", "blake3"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestVersion(t *testing.T) {
	workdir(t)
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "canonjson version dev\n", out)
}

func TestExploreEntries(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		labels []string
	}{
		{name: "object", data: `{"a":1,"b":{"c":[1,2]}}`, labels: []string{"a", "b"}},
		{name: "array", data: `[null,"x",{"k":1}]`, labels: []string{"[0]", "[1]", "[2]"}},
		{name: "scalar", data: `42`, labels: []string{"(value)"}},
		{name: "empty", data: `{}`, labels: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := exploreEntries([]byte(tt.data), digest.BLAKE3)
			require.NoError(t, err)

			var labels []string
			for _, e := range entries {
				labels = append(labels, e.label)
				want, err := digest.Of(digest.BLAKE3, []byte(e.compact))
				require.NoError(t, err)
				assert.Equal(t, want, e.digest)
			}
			assert.Equal(t, tt.labels, labels)
		})
	}
}

func TestExploreModel_Filter(t *testing.T) {
	entries, err := exploreEntries([]byte(`{"alpha":1,"beta":"needle","gamma":3}`), digest.BLAKE3)
	require.NoError(t, err)

	m := newExploreModel("doc.json", digest.Digest{}, entries)
	assert.Len(t, m.visible, 3)

	m.filter.SetValue("needle")
	m.applyFilter()
	require.Len(t, m.visible, 1)
	assert.Equal(t, "beta", m.entries[m.visible[0]].label)

	m.filter.SetValue("zzz")
	m.applyFilter()
	assert.Empty(t, m.visible)
	assert.Contains(t, m.View(), "no matching entries")
}

func TestCanon_YAMLNonStringKeys(t *testing.T) {
	workdir(t)
	path := writeFile(t, "keys.yml", "true: yes\n1: one\n")
	out, err := run(t, "", "canon", path)
	require.NoError(t, err)
	assert.Equal(t, `{"1":"one","true":"yes"}`+"\n", out)
}

func TestCanon_JSONInputKeepsLiterals(t *testing.T) {
	workdir(t)
	out, err := run(t, `{"n":[12345678901234567891,1.50e+3,2]}`, "canon")
	require.NoError(t, err)
	assert.Equal(t, `{"n":[2,1.50e+3,12345678901234567891]}`+"\n", out)

	_, err = run(t, `{"a":1,"a":2}`, "canon")
	assert.ErrorContains(t, err, "duplicate")
}
