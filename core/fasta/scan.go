// core/fasta/scan.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one FASTA entry. Name is the first whitespace-delimited token of
// the header line.
type Record struct {
	Name string
	Seq  []byte
}

// Len is the sequence length.
func (r Record) Len() int { return len(r.Seq) }

// Scan parses FASTA from r and calls emit once per record, in file order.
// Sequence lines are concatenated with surrounding whitespace removed; case
// is preserved. Text before the first header is an error. Scan returns
// promptly with ctx.Err() once ctx is done.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		name   string
		inside bool
		seq    = make([]byte, 0, 1<<16)
		lineNo int
	)
	flush := func() error {
		if !inside {
			return nil
		}
		return emit(Record{Name: name, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			name, inside, seq = parseHeaderID(line[1:]), true, seq[:0]
			continue
		}
		if !inside {
			return fmt.Errorf("line %d: %w: sequence data before first header", lineNo, ErrFormat)
		}
		seq = append(seq, line...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
