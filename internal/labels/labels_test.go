package labels_test

import (
	"strconv"
	"strings"
	"testing"

	"trcconv/internal/labels"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fp1", "Fp1"},
		{" Fp1 ", "Fp1"},
		{"EEG Fp1", "EEGFp1"},
		{"12", "ch12"},
		{" 12 ", "ch12"},
		{"3.5", "ch3.5"},
		{"-7", "ch-7"},
		{"", "ch"},
		{"  ", "ch"},
		{"T3\tA1", "T3A1"},
	}
	for _, tc := range tests {
		if got := labels.Clean(tc.in); got != tc.want {
			t.Errorf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRewriteInvariants(t *testing.T) {
	in := []string{"Fp1", " 12 ", "", "O2 ", "99"}
	out := labels.Rewrite(in)
	if len(out) != len(in) {
		t.Fatalf("length changed: %d != %d", len(out), len(in))
	}
	for i, label := range out {
		if label == "" {
			t.Fatalf("label %d is empty", i)
		}
		if strings.ContainsAny(label, " \t\n") {
			t.Fatalf("label %d %q contains whitespace", i, label)
		}
		if _, err := strconv.ParseFloat(label, 64); err == nil {
			t.Fatalf("label %d %q is purely numeric", i, label)
		}
	}
}
