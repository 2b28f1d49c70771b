package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	defer SetEmojiDisabled(false)

	tests := []struct {
		key      string
		disabled bool
		want     string
	}{
		{"success", false, "✅"},
		{"success", true, "[OK]"},
		{"menu", true, "[=]"},
		{"nope", false, "[?]"},
		{"nope", true, "[?]"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			SetEmojiDisabled(tt.disabled)
			if got := GetEmoji(tt.key); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if IsEmojiDisabled() != tt.disabled {
				t.Errorf("Expected disabled %v", tt.disabled)
			}
		})
	}
}
