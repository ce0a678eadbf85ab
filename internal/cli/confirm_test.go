package cli

import (
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes short", "y\n", true},
		{"yes long", "yes\n", true},
		{"yes uppercase", "YES\n", true},
		{"yes padded", "  y  \n", true},
		{"no", "n\n", false},
		{"default on enter", "\n", false},
		{"garbage", "absolutely\n", false},
		{"no newline (EOF)", "y", false},
		{"empty input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			got := Confirm(strings.NewReader(tt.input), &out, 3)
			if got != tt.want {
				t.Errorf("Confirm(%q): got %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "[y/N]") {
				t.Errorf("prompt missing [y/N]: %q", out.String())
			}
		})
	}
}
