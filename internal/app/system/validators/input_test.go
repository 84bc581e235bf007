package validators

import "testing"

func TestValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.domain.org", true},
		{"UPPER@EXAMPLE.COM", true},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"@example.com", false},
		{"user@.com", false},
		{"", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidEmail(tt.input); got != tt.want {
				t.Errorf("ValidEmail(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
