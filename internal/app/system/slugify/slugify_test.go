package slugify_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/trackhub/internal/app/system/slugify"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Team Alpha", "team-alpha"},
		{"punctuation collapses", "Ops // On-Call!!", "ops-on-call"},
		{"diacritics fold", "Équipe Café", "equipe-cafe"},
		{"leading and trailing junk", "  --Widgets--  ", "widgets"},
		{"digits kept", "Q3 2026 Planning", "q3-2026-planning"},
		{"nothing usable", "!!!", "team"},
		{"empty", "", "team"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slugify.Make(tt.title); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestMake_CapsLength(t *testing.T) {
	got := slugify.Make(strings.Repeat("a", 100))
	if len(got) != 60 {
		t.Errorf("length: got %d, want 60", len(got))
	}

	// Truncation must not leave a dangling hyphen.
	got = slugify.Make(strings.Repeat("abcd ", 30))
	if len(got) > 60 || strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug %q is malformed", got)
	}
}

func TestWithSuffix(t *testing.T) {
	a := slugify.WithSuffix("team-alpha")
	b := slugify.WithSuffix("team-alpha")

	if !strings.HasPrefix(a, "team-alpha-") {
		t.Errorf("suffix form: got %q", a)
	}
	if len(a) != len("team-alpha-")+8 {
		t.Errorf("suffix length: got %q", a)
	}
	if a == b {
		t.Error("expected distinct suffixes")
	}
}
