// Package tracefile reads and writes address traces: whitespace separated
// non-negative integers, optionally compressed with snappy (.sz) or lz4 (.lz4).
package tracefile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"

	"github.com/sibexico/pagesim/paging"
)

// Format is the on-disk encoding of a trace
type Format uint8

const (
	FormatPlain  Format = 0
	FormatSnappy Format = 1
	FormatLZ4    Format = 2
)

func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	case FormatSnappy:
		return "snappy"
	case FormatLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sz", ".snappy":
		return FormatSnappy
	case ".lz4":
		return FormatLZ4
	default:
		return FormatPlain
	}
}

// Read parses a plain trace
func Read(r io.Reader) ([]uint64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var addrs []uint64
	for scanner.Scan() {
		tok := scanner.Text()
		addr, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, paging.ErrTraceParse("tracefile.Read", len(addrs)+1, tok)
		}
		addrs = append(addrs, addr)
	}
	if err := scanner.Err(); err != nil {
		return nil, paging.NewSimError(paging.ErrCodeTraceRead, "tracefile.Read", "scan failed", err)
	}
	return addrs, nil
}

// Decode parses a trace in the given format
func Decode(r io.Reader, format Format) ([]uint64, error) {
	switch format {
	case FormatPlain:
		return Read(r)
	case FormatSnappy:
		return Read(snappy.NewReader(r))
	case FormatLZ4:
		return Read(lz4.NewReader(r))
	default:
		return nil, paging.NewSimError(paging.ErrCodeUnsupportedFormat, "tracefile.Decode",
			fmt.Sprintf("unsupported trace format %s", format), nil)
	}
}

// Open reads every address from path. Plain traces are memory mapped where
// the platform allows it; compressed traces are streamed through the decoder.
func Open(path string) ([]uint64, error) {
	format := FormatFromPath(path)
	if format == FormatPlain {
		var addrs []uint64
		err := withFileBytes(path, func(data []byte) error {
			var perr error
			addrs, perr = Read(bytes.NewReader(data))
			return perr
		})
		if err != nil {
			return nil, wrapRead(path, err)
		}
		return addrs, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, paging.ErrTraceRead("tracefile.Open", path, err)
	}
	defer f.Close()

	addrs, err := Decode(f, format)
	if err != nil {
		return nil, wrapRead(path, err)
	}
	return addrs, nil
}

// wrapRead keeps parse and format errors as they are and tags anything else
// as a read failure of path.
func wrapRead(path string, err error) error {
	if paging.IsErrorCode(err, paging.ErrCodeTraceParse) || paging.IsErrorCode(err, paging.ErrCodeUnsupportedFormat) {
		return err
	}
	return paging.ErrTraceRead("tracefile.Open", path, err)
}

// Load reads path and splits the addresses into pages of pageSize
func Load(path string, pageSize uint64) (*paging.ReferenceStream, error) {
	addrs, err := Open(path)
	if err != nil {
		return nil, err
	}
	return paging.NewReferenceStream(addrs, pageSize)
}

// Encode writes addrs one per line in the given format
func Encode(w io.Writer, addrs []uint64, format Format) error {
	var out io.WriteCloser
	switch format {
	case FormatPlain:
		out = nopCloser{w}
	case FormatSnappy:
		out = snappy.NewBufferedWriter(w)
	case FormatLZ4:
		out = lz4.NewWriter(w)
	default:
		return paging.NewSimError(paging.ErrCodeUnsupportedFormat, "tracefile.Encode",
			fmt.Sprintf("unsupported trace format %s", format), nil)
	}

	bw := bufio.NewWriter(out)
	buf := make([]byte, 0, 24)
	for _, addr := range addrs {
		buf = strconv.AppendUint(buf[:0], addr, 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return out.Close()
}

// Write stores addrs at path, compressed according to the extension
func Write(path string, addrs []uint64) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create trace file %s: %w", path, err)
	}

	if err := Encode(f, addrs, FormatFromPath(path)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write trace file %s: %w", path, err)
	}
	return f.Close()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
