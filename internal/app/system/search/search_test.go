package search

import "testing"

func TestEmailPivotOK(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		hasTeam bool
		want    bool
	}{
		// Should pivot - email query scoped to a team
		{"email search with team", "user@example.com", true, true},
		{"partial email with team", "user@", true, true},
		{"domain fragment with team", "@domain", true, true},

		// Should NOT pivot - missing @
		{"name search with team", "john doe", true, false},
		{"empty search with team", "", true, false},

		// Should NOT pivot - no team constraint
		{"email search without team", "user@example.com", false, false},
		{"partial email without team", "user@", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EmailPivotOK(tt.query, tt.hasTeam)
			if got != tt.want {
				t.Errorf("EmailPivotOK(%q, %v) = %v, want %v",
					tt.query, tt.hasTeam, got, tt.want)
			}
		})
	}
}

func TestEmailPivotGlobalOK(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"email search", "user@example.com", true},
		{"partial email", "user@", true},
		{"domain fragment", "@domain", true},
		{"name search", "john doe", false},
		{"empty search", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EmailPivotGlobalOK(tt.query)
			if got != tt.want {
				t.Errorf("EmailPivotGlobalOK(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestLooksLikeEmail(t *testing.T) {
	if !LooksLikeEmail("a@b") {
		t.Error("LooksLikeEmail(\"a@b\") = false, want true")
	}
	if LooksLikeEmail("alice") {
		t.Error("LooksLikeEmail(\"alice\") = true, want false")
	}
}
