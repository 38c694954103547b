package catalog

import (
	"reflect"
	"testing"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple lowercase", "gaming", "gaming"},
		{"uppercase", "GAMING", "gaming"},
		{"spaces to underscore", "Water Resistant", "water_resistant"},
		{"punctuation runs collapse", "noise--cancelling!!", "noise_cancelling"},
		{"leading and trailing separators", "  4K Ultra HD  ", "4k_ultra_hd"},
		{"mixed separators", "Wi-Fi / Bluetooth", "wi_fi_bluetooth"},
		{"only separators", "---", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTag(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeTag(%q) = %q, want %q", tt.in, got, tt.want)
			}
			// Normalization is idempotent.
			if again := NormalizeTag(got); again != got {
				t.Errorf("NormalizeTag(%q) not idempotent: %q", got, again)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Gaming", "gaming", "Water Resistant", "---", ""})
	want := []string{"gaming", "water_resistant"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags = %v, want %v", got, want)
	}
}

func TestHasAllTags(t *testing.T) {
	productTags := []string{"Gaming", "Water Resistant", "wireless"}

	tests := []struct {
		name      string
		requested []string
		want      bool
	}{
		{"subset matches", []string{"gaming"}, true},
		{"normalized form matches raw product tag", []string{"water_resistant"}, true},
		{"all present", []string{"gaming", "wireless"}, true},
		{"missing tag fails", []string{"gaming", "rgb"}, false},
		{"empty request matches", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAllTags(productTags, tt.requested); got != tt.want {
				t.Errorf("HasAllTags(%v) = %v, want %v", tt.requested, got, tt.want)
			}
		})
	}
}
