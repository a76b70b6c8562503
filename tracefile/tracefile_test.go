package tracefile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibexico/pagesim/paging"
)

func TestRead(t *testing.T) {
	addrs, err := Read(strings.NewReader("100 250\n\t399\n\n1234  \n"))
	require.NoError(t, err)
	assert.Equal(t, []uint64{100, 250, 399, 1234}, addrs)
}

func TestReadEmpty(t *testing.T) {
	addrs, err := Read(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestReadRejectsMalformedEntries(t *testing.T) {
	for _, input := range []string{"1 2 x3", "1 -4", "1 2.5", "18446744073709551616"} {
		t.Run(input, func(t *testing.T) {
			_, err := Read(strings.NewReader(input))
			require.Error(t, err)
			assert.True(t, paging.IsErrorCode(err, paging.ErrCodeTraceParse))
		})
	}

	_, err := Read(strings.NewReader("5 6 seven"))
	assert.Contains(t, err.Error(), `trace entry 3`)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatPlain, FormatFromPath("address.txt"))
	assert.Equal(t, FormatPlain, FormatFromPath("trace"))
	assert.Equal(t, FormatSnappy, FormatFromPath("trace.sz"))
	assert.Equal(t, FormatSnappy, FormatFromPath("trace.SNAPPY"))
	assert.Equal(t, FormatLZ4, FormatFromPath("trace.lz4"))
	assert.Equal(t, "lz4", FormatLZ4.String())
}

func TestWriteAndOpenEveryFormat(t *testing.T) {
	addrs := []uint64{100, 200, 300, 400, 100, 200, 500, 100, 200, 300, 400, 500}

	for _, name := range []string{"trace.txt", "trace.sz", "trace.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Write(path, addrs))

			got, err := Open(path)
			require.NoError(t, err)
			assert.Equal(t, addrs, got)
		})
	}
}

func TestCompressedTraceIsNotPlainText(t *testing.T) {
	addrs := make([]uint64, 2000)
	for i := range addrs {
		addrs[i] = uint64(i % 7 * 100)
	}

	dir := t.TempDir()
	plain := filepath.Join(dir, "trace.txt")
	packed := filepath.Join(dir, "trace.lz4")
	require.NoError(t, Write(plain, addrs))
	require.NoError(t, Write(packed, addrs))

	plainInfo, err := os.Stat(plain)
	require.NoError(t, err)
	packedInfo, err := os.Stat(packed)
	require.NoError(t, err)
	assert.Less(t, packedInfo.Size(), plainInfo.Size())

	_, err = Read(mustOpen(t, packed))
	assert.Error(t, err, "compressed bytes must not parse as a plain trace")
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	addrs, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, paging.IsErrorCode(err, paging.ErrCodeTraceRead))

	_, err = Open(filepath.Join(t.TempDir(), "nope.sz"))
	assert.True(t, paging.IsErrorCode(err, paging.ErrCodeTraceRead))
}

func TestOpenKeepsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 2 oops\n"), 0644))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, paging.IsErrorCode(err, paging.ErrCodeTraceParse))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "address.txt")
	require.NoError(t, os.WriteFile(path, []byte("150\n250\n120\n"), 0644))

	stream, err := Load(path, 100)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 1}, stream.Pages())

	_, err = Load(path, 0)
	assert.True(t, paging.IsErrorCode(err, paging.ErrCodeInvalidConfiguration))
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, []uint64{1}, Format(9))
	assert.True(t, paging.IsErrorCode(err, paging.ErrCodeUnsupportedFormat))

	_, err = Decode(&buf, Format(9))
	assert.True(t, paging.IsErrorCode(err, paging.ErrCodeUnsupportedFormat))
}

func TestLoadedTraceReproducesAnomaly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "belady.sz")
	pages := []uint64{1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5}
	require.NoError(t, Write(path, pages))

	stream, err := Load(path, 1)
	require.NoError(t, err)

	points, err := paging.Sweep(stream, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, []paging.SweepPoint{{Frames: 3, Faults: 9}, {Frames: 4, Faults: 10}}, points)
}
