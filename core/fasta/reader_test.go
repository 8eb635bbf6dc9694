package fasta

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const plain = `>ref1 first reference
ACGT
acgt
>ref2
NNnn

>ref3
ACGU
`

// writeGz creates a gzipped FASTA file with provided data, returns the file path.
func writeGz(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func writePlain(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "x.fa")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestReadMultiline(t *testing.T) {
	recs, err := Read(context.Background(), strings.NewReader(plain))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 records, got %d", len(recs))
	}
	if recs[0].Name != "ref1" || string(recs[0].Seq) != "ACGTacgt" {
		t.Fatalf("record 0 = %q %q", recs[0].Name, recs[0].Seq)
	}
	if recs[1].Name != "ref2" || string(recs[1].Seq) != "NNnn" {
		t.Fatalf("record 1 = %q %q", recs[1].Name, recs[1].Seq)
	}
}

func TestReadRejectsLeadingSequence(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader("ACGT\n>x\nACGT\n"))
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("want ErrFormat, got %v", err)
	}
}

func TestLoadGzipByMagicAndSuffix(t *testing.T) {
	for _, name := range []string{"refs.fa.gz", "refs.fa"} { // second relies on magic only
		path := writeGz(t, name, plain)
		recs, err := Load(context.Background(), path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(recs) != 3 {
			t.Fatalf("%s: gzip parse failed, got %d records", name, len(recs))
		}
	}
}

func TestLoadStdin(t *testing.T) {
	// Fake stdin by swapping os.Stdin
	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	go func() {
		_, _ = io.WriteString(w, plain)
		_ = w.Close()
	}()

	recs, err := Load(context.Background(), Stdin)
	if err != nil {
		t.Fatalf("load stdin: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records from stdin, got %d", len(recs))
	}
}

func TestLoadCanceled(t *testing.T) {
	path := writePlain(t, plain)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already canceled

	if _, err := Load(ctx, path); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.fa")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want not-exist error, got %v", err)
	}
}

func TestLoadTemplate(t *testing.T) {
	ctx := context.Background()

	tpl, err := LoadTemplate(ctx, writePlain(t, ">tpl\nacgtAC\nGT\n"))
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if tpl.Name != "tpl" || string(tpl.Seq) != "ACGTACGT" {
		t.Fatalf("template = %q %q", tpl.Name, tpl.Seq)
	}

	bad := map[string]string{
		"two records":  ">a\nACGT\n>b\nACGT\n",
		"no records":   "",
		"ambiguity":    ">a\nACGRT\n",
		"empty record": ">a\n",
	}
	for name, data := range bad {
		if _, err := LoadTemplate(ctx, writePlain(t, data)); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: want ErrFormat, got %v", name, err)
		}
	}
}

func TestLoadSequences(t *testing.T) {
	ctx := context.Background()
	recs, err := LoadSequences(ctx, writePlain(t, ">r1\nACGT\nacgt\n>r2\nggcc\n>r3\nACGU\n"))
	if err != nil {
		t.Fatalf("sequences: %v", err)
	}
	want := []string{"ACGTACGT", "GGCC", "ACGT"}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i, r := range recs {
		if string(r.Seq) != want[i] {
			t.Errorf("record %d = %q, want %q", i, r.Seq, want[i])
		}
	}

	// ambiguity codes would become degenerate matched subsequences
	for _, seq := range []string{"AC-GT", "ACNTGG", "nnnn", "ACGRT"} {
		if _, err := LoadSequences(ctx, writePlain(t, ">a\n"+seq+"\n")); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: want ErrFormat, got %v", seq, err)
		}
	}
	if _, err := LoadSequences(ctx, writePlain(t, plain)); !errors.Is(err, ErrFormat) {
		t.Errorf("N record: want ErrFormat, got %v", err)
	}
	if _, err := LoadSequences(ctx, writePlain(t, ">a\n>b\nACGT\n")); !errors.Is(err, ErrFormat) {
		t.Errorf("empty record: want ErrFormat, got %v", err)
	}
}
