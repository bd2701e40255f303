package registry

import "testing"

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"lowercases and trims", "  12 SMITH St  ", "12 smith street"},
		{"punctuation to spaces", "12 smith st, parkville", "12 smith street parkville"},
		{"street abbreviation", "4 high rd", "4 high road"},
		{"avenue abbreviation", "7 ocean ave", "7 ocean avenue"},
		{"abbreviation inside word untouched", "3 easter close", "3 easter close"},
		{"unit synonym", "Unit 2 9 Park Dr", "u 2 9 park drive"},
		{"apartment synonym", "apartment 5, 1 Bay Ct", "u 5 1 bay court"},
		{"flat synonym", "flat 1/18 mill ln", "u 1 18 mill lane"},
		{"whitespace collapsed", "12   smith    street", "12 smith street"},
		{"hyphen and slash", "2-4 King-Wy/Parkville", "2 4 king way parkville"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAddress(tt.input); got != tt.want {
				t.Errorf("NormalizeAddress(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAddressIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Unit 2, 12 Smith St, Parkville 3052",
		"apt 7 / 4 High Rd",
		"3 easter close",
		"FLAT 9 - 1 Ocean Ave",
	}

	for _, input := range inputs {
		once := NormalizeAddress(input)
		twice := NormalizeAddress(once)
		if once != twice {
			t.Errorf("NormalizeAddress not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
