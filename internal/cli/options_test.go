// internal/cli/options_test.go
package cli

import (
	"errors"
	"testing"

	"oligoscreen/core/align"
	"oligoscreen/core/screen"
	"oligoscreen/core/variant"
)

func parseScreen(t *testing.T, args ...string) (ScreenOptions, error) {
	t.Helper()
	fs := NewFlagSet("screen")
	var o ScreenOptions
	RegisterScreen(fs, &o)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return o, o.AfterParse(fs.Args())
}

func mustScreen(t *testing.T, args ...string) ScreenOptions {
	t.Helper()
	o, err := parseScreen(t, args...)
	if err != nil {
		t.Fatalf("validate err: %v", err)
	}
	return o
}

func TestScreenDefaults(t *testing.T) {
	o := mustScreen(t, "--template", "t.fa", "--references", "r.fa")
	p, a, err := o.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p != screen.DefaultParams() {
		t.Errorf("screen params = %+v, want defaults", p)
	}
	if a != align.DefaultParams() {
		t.Errorf("align params = %+v, want defaults", a)
	}
	if !o.Header || o.Format != "summary" {
		t.Errorf("output defaults wrong: %+v", o.Output)
	}
}

func TestScreenPositionalReferences(t *testing.T) {
	o := mustScreen(t, "-T", "t.fa", "-r", "a.fa", "b.fa", "c.fa", "-x", "e1.fa", "-x", "e2.fa")
	if len(o.References) != 3 || o.References[2] != "c.fa" || len(o.Exclusivity) != 2 {
		t.Errorf("bad inputs %+v", o)
	}
}

func TestScreenMethods(t *testing.T) {
	o := mustScreen(t, "-T", "t.fa", "-r", "r.fa", "--method", "fixed", "--fixed-ambiguities", "3")
	p, _, err := o.Params()
	if err != nil || p.Method != variant.Fixed(3) {
		t.Fatalf("fixed: %+v %v", p.Method, err)
	}

	o = mustScreen(t, "-T", "t.fa", "-r", "r.fa", "-m", "incremental", "--target", "80", "--incremental-max", "4")
	p, _, err = o.Params()
	if err != nil || p.Method != variant.Stepwise(80, 4) {
		t.Fatalf("incremental: %+v %v", p.Method, err)
	}

	// each method's knob is named after the method
	for _, old := range []string{"--ambiguities", "--max-ambiguities"} {
		fs := NewFlagSet("screen")
		RegisterScreen(fs, &ScreenOptions{})
		if err := fs.Parse([]string{"-T", "t.fa", "-r", "r.fa", old, "2"}); err == nil {
			t.Errorf("%s: want unknown flag error", old)
		}
	}

	o = mustScreen(t, "-T", "t.fa", "-r", "r.fa", "-m", "incremental", "--target", "0")
	if _, _, err := o.Params(); !errors.Is(err, screen.ErrInvalidInput) {
		t.Fatalf("target 0: want ErrInvalidInput, got %v", err)
	}
}

func TestScreenParamErrors(t *testing.T) {
	cases := [][]string{
		{"--min-length", "30", "--max-length", "20"},
		{"--resolution", "0"},
		{"--threshold", "120"},
		{"--ignore", "-1"},
	}
	for _, extra := range cases {
		o := mustScreen(t, append([]string{"-T", "t.fa", "-r", "r.fa"}, extra...)...)
		if _, _, err := o.Params(); !errors.Is(err, screen.ErrInvalidInput) {
			t.Errorf("%v: want ErrInvalidInput, got %v", extra, err)
		}
	}
}

func TestScreenValidateErrors(t *testing.T) {
	cases := map[string][]string{
		"no template":   {"-r", "r.fa"},
		"no references": {"-T", "t.fa"},
		"two stdin":     {"-T", "-", "-r", "-"},
		"threads":       {"-T", "t.fa", "-r", "r.fa", "--threads", "-1"},
		"output":        {"-T", "t.fa", "-r", "r.fa", "--output", "xml"},
		"profile":       {"-T", "t.fa", "-r", "r.fa", "--profile", "block"},
		"method":        {"-T", "t.fa", "-r", "r.fa", "--method", "greedy"},
	}
	for name, args := range cases {
		if _, err := parseScreen(t, args...); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestRescoreOptions(t *testing.T) {
	fs := NewFlagSet("rescore")
	var o RescoreOptions
	RegisterRescore(fs, &o)
	if err := fs.Parse([]string{"run.json", "--threshold", "90", "--no-header"}); err != nil {
		t.Fatal(err)
	}
	if err := o.AfterParse(fs.Args()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if o.Results != "run.json" || o.Threshold != 90 || o.Ignore != -1 || o.Header {
		t.Errorf("bad rescore parse %+v", o)
	}

	bad := RescoreOptions{Results: "r.json", Threshold: 0, Output: Output{Format: "tsv"}}
	if bad.Validate() == nil {
		t.Errorf("threshold 0 must be rejected")
	}
}

func TestServeOptions(t *testing.T) {
	fs := NewFlagSet("serve")
	var o ServeOptions
	RegisterServe(fs, &o)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if err := o.Validate(); err != nil || o.Addr != ":8080" {
		t.Fatalf("defaults: %+v %v", o, err)
	}
	o.Retain = 0
	if o.Validate() == nil {
		t.Fatalf("retain 0 must be rejected")
	}
}
