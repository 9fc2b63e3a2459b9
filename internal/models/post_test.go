package models

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"React", "React", true},
		{"react", "React", true},
		{"NODE.JS", "Node.js", true},
		{"next.js", "Next.js", true},
		{"javascript", "JavaScript", true},
		{"Rust", "", false},
		{"", "", false},
		{"Node", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeCategory(tt.in)
		if ok != tt.valid || got != tt.want {
			t.Errorf("NormalizeCategory(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.valid)
		}
	}
}

func TestIsValidCategory(t *testing.T) {
	if !IsValidCategory("Node.js") {
		t.Error("Node.js should be valid")
	}
	if IsValidCategory("node.js") {
		t.Error("IsValidCategory is exact-match only")
	}
}
