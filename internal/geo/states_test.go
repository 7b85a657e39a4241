package geo

import "testing"

func TestStateName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"OH", "Ohio"},
		{"oh", "Ohio"},
		{" mi ", "Michigan"},
		{"DC", "District of Columbia"},
		{"PR", "Puerto Rico"},
		{"ZZ", "ZZ"}, // unknown codes pass through
		{"", ""},
	}

	for _, tt := range tests {
		if got := StateName(tt.code); got != tt.want {
			t.Errorf("StateName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
