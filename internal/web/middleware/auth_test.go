package middleware

import "testing"

func TestIsValidAPIKey(t *testing.T) {
	keys := []string{"alpha", "beta"}

	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"first key", "alpha", true},
		{"second key", "beta", true},
		{"unknown key", "gamma", false},
		{"empty key", "", false},
		{"prefix only", "alph", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidAPIKey(tt.key, keys); got != tt.want {
				t.Errorf("isValidAPIKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}

	if isValidAPIKey("anything", nil) {
		t.Error("no configured keys must reject everything")
	}
}
