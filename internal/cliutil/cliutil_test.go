package cliutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fa")
	b := filepath.Join(dir, "b.fa")
	_ = os.WriteFile(a, []byte(">a\nA\n"), 0o644)
	_ = os.WriteFile(b, []byte(">b\nA\n"), 0o644)
	got, err := ExpandPositionals([]string{filepath.Join(dir, "*.fa"), "-", "plain.fa"})
	if err != nil || len(got) != 4 {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
	if got[2] != "-" || got[3] != "plain.fa" {
		t.Fatalf("non-glob args must pass through in order: %v", got)
	}
}

func TestExpandPositionalsNoMatch(t *testing.T) {
	if _, err := ExpandPositionals([]string{filepath.Join(t.TempDir(), "*.fa")}); err == nil {
		t.Fatalf("expected error for unmatched glob")
	}
}

func TestCountStdin(t *testing.T) {
	if n := CountStdin([]string{"-", "a"}, nil, []string{"-"}); n != 2 {
		t.Fatalf("want 2, got %d", n)
	}
}
