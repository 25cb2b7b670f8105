package teams

import (
	"testing"

	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

func TestMemberMatches(t *testing.T) {
	u := models.User{
		Username:   "JDoe",
		UsernameCI: text.Fold("JDoe"),
		Name:       "Jane Doe",
		Email:      "jane@example.com",
	}

	tests := []struct {
		name    string
		query   string
		byEmail bool
		want    bool
	}{
		{"username fragment", "jdo", false, true},
		{"display name fragment", "jane d", false, true},
		{"case folded", "JANE", false, true},
		{"no match", "smith", false, false},
		{"email domain", "@example.com", true, true},
		{"email no match", "@other.org", true, false},
		{"email ignores username", "jdoe@", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := memberMatches(u, text.Fold(tt.query), tt.byEmail)
			if got != tt.want {
				t.Errorf("memberMatches(%q, byEmail=%v) = %v, want %v",
					tt.query, tt.byEmail, got, tt.want)
			}
		})
	}
}
