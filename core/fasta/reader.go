// core/fasta/reader.go
package fasta

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"oligoscreen/core/iupac"
)

// ErrFormat marks input that is not acceptable FASTA for screening. Loader
// errors wrap it together with the offending path and record.
var ErrFormat = errors.New("invalid FASTA")

// Read parses every record from r.
func Read(ctx context.Context, r io.Reader) ([]Record, error) {
	var out []Record
	err := Scan(ctx, r, func(rec Record) error {
		out = append(out, rec)
		return nil
	})
	return out, err
}

// Load reads all records from path ("-" for stdin, gzip transparently).
func Load(ctx context.Context, path string) ([]Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	recs, err := Read(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// LoadTemplate loads the screening template: exactly one record made only
// of A, C, G and T (any case). The returned sequence is upper-case.
func LoadTemplate(ctx context.Context, path string) (Record, error) {
	recs, err := Load(ctx, path)
	if err != nil {
		return Record{}, err
	}
	if len(recs) != 1 {
		return Record{}, fmt.Errorf("%s: %w: template must contain exactly one sequence, found %d", path, ErrFormat, len(recs))
	}
	t, err := NormalizeTemplate(recs[0])
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadSequences loads a reference or exclusivity set. Every record must be
// non-empty and plain bases; sequences are upper-cased.
func LoadSequences(ctx context.Context, path string) ([]Record, error) {
	recs, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s: %w: no sequences", path, ErrFormat)
	}
	for i := range recs {
		if recs[i], err = Normalize(recs[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return recs, nil
}

// NormalizeTemplate upper-cases r and requires plain bases only.
func NormalizeTemplate(r Record) (Record, error) {
	if len(r.Seq) == 0 {
		return Record{}, fmt.Errorf("%w: template %q is empty", ErrFormat, r.Name)
	}
	seq := bytes.ToUpper(r.Seq)
	for i, b := range seq {
		if !iupac.FromByte(b).IsBase() {
			return Record{}, fmt.Errorf("%w: template %q: invalid base %q at %d (only A, C, G, T allowed)", ErrFormat, r.Name, b, i+1)
		}
	}
	return Record{Name: r.Name, Seq: seq}, nil
}

// Normalize upper-cases r and requires a non-empty sequence of plain bases.
// U is read as T. Ambiguity codes such as N are rejected: they would reach
// the variant analyzer as degenerate matched subsequences.
func Normalize(r Record) (Record, error) {
	if len(r.Seq) == 0 {
		return Record{}, fmt.Errorf("%w: sequence %q is empty", ErrFormat, r.Name)
	}
	seq := make([]byte, len(r.Seq))
	for i, b := range r.Seq {
		m := iupac.FromByte(b)
		if !m.IsBase() {
			return Record{}, fmt.Errorf("%w: sequence %q: invalid base %q at %d (only A, C, G, T, U allowed)", ErrFormat, r.Name, b, i+1)
		}
		seq[i] = m.Byte()
	}
	return Record{Name: r.Name, Seq: seq}, nil
}
