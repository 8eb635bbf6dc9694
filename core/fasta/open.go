// core/fasta/open.go
package fasta

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// readCloser pairs a (possibly decompressing) reader with everything that
// has to be closed behind it, innermost first.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *readCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Stdin is the path that selects standard input.
const Stdin = "-"

// open returns a reader for path. "-" reads standard input. gzip input is
// detected by its magic number (1F 8B) or a .gz suffix, for stdin too.
func open(path string) (io.ReadCloser, error) {
	var (
		src     io.Reader
		closers []io.Closer
	)
	if path == Stdin {
		src = os.Stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = fh
		closers = append(closers, fh)
	}

	br := bufio.NewReaderSize(src, 64*1024)
	sig, _ := br.Peek(2)
	if (len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(br)
		if err != nil {
			for _, c := range closers {
				_ = c.Close()
			}
			return nil, err
		}
		return &readCloser{Reader: gr, closers: append([]io.Closer{gr}, closers...)}, nil
	}
	return &readCloser{Reader: br, closers: closers}, nil
}
