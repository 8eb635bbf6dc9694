package runutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolveThreads(t *testing.T) {
	if got := ResolveThreads(3); got != 3 {
		t.Fatalf("want 3, got %d", got)
	}
	if got := ResolveThreads(0); got != runtime.NumCPU() {
		t.Fatalf("0 → all CPUs, got %d", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"SARS-CoV-2 ORF1ab": "SARS-CoV-2_ORF1ab",
		"a/b\\c:d":          "a_b_c_d",
		"  ":                "template",
		"..":                "template",
		"gene.v2":           "gene.v2",
		"x??y":              "x_y",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAutoSavePath(t *testing.T) {
	got := AutoSavePath("out", "my template", "abc")
	if got != filepath.Join("out", "my_template_abc.json") {
		t.Fatalf("got %s", got)
	}
}

func TestLRUSetEvicts(t *testing.T) {
	s := NewLRUSet[string](2)
	if _, ev := s.Add("a"); ev {
		t.Fatal("unexpected eviction")
	}
	s.Add("b")
	s.Add("a") // refresh a; b is now oldest
	k, ev := s.Add("c")
	if !ev || k != "b" {
		t.Fatalf("want b evicted, got %q %v", k, ev)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestLRUSetRemoveFreesSlot(t *testing.T) {
	s := NewLRUSet[string](2)
	s.Add("a")
	s.Add("b")
	if !s.Remove("b") || s.Remove("b") {
		t.Fatal("remove should succeed once")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d", s.Len())
	}
	if k, ev := s.Add("c"); ev {
		t.Fatalf("a evicted as %q although a slot was free", k)
	}
	if k, ev := s.Add("d"); !ev || k != "a" {
		t.Fatalf("want a evicted, got %q %v", k, ev)
	}
}
