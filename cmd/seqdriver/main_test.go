package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunVersion(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run([]string{"-version"}, strings.NewReader(""), &out, &errOut); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.HasPrefix(out.String(), "seqdriver dev") {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestRunDriverFromStdin(t *testing.T) {
	var out, errOut bytes.Buffer
	in := strings.NewReader("attach 10\nattach 20\nstart\ninsert 5\nprint\nquit\n")

	code := run([]string{"-capacity", "1", "-log-level", "error"}, in, &out, &errOut)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr %q)", code, errOut.String())
	}
	if !strings.Contains(out.String(), "[(5) 10 20]") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"-nope"}, 2},
		{"bad log level", []string{"-log-level", "loud"}, 2},
		{"extra argument", []string{"file.txt"}, 2},
		{"help", []string{"-h"}, 0},
		{"watch without file", []string{"-watch"}, 1},
		{"missing scenario", []string{"-scenario", filepath.Join(t.TempDir(), "none.yaml")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			if code := run(tt.args, strings.NewReader(""), &out, &errOut); code != tt.want {
				t.Errorf("expected exit code %d, got %d (stderr %q)", tt.want, code, errOut.String())
			}
		})
	}
}
