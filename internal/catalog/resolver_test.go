package catalog

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		expected string
	}{
		{
			name:     "first exact match wins",
			keywords: []string{"fine rings", "fashion rings"},
			expected: "164343",
		},
		{
			name:     "no substring matching",
			keywords: []string{"ring", "fine rings"},
			expected: "164343",
		},
		{
			name:     "lookup is case insensitive",
			keywords: []string{"Fine Earrings"},
			expected: "10986",
		},
		{
			name:     "unmatched keywords fall back to default",
			keywords: []string{"Jewelry", "Accessories", "Gold"},
			expected: DefaultSKU,
		},
		{
			name:     "empty input falls back to default",
			keywords: nil,
			expected: DefaultSKU,
		},
		{
			name:     "later keyword matches when earlier ones do not",
			keywords: []string{"Accessory", "vintage & antique bracelets"},
			expected: "10183",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Resolve(tt.keywords)
			if result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	keywords := []string{"Gemstone", "fashion jewelry", "fine jewelry"}
	first := Resolve(keywords)
	for i := 0; i < 100; i++ {
		if got := Resolve(keywords); got != first {
			t.Fatalf("Resolve changed answer on run %d: %s vs %s", i, got, first)
		}
	}
	if first != "10968" {
		t.Errorf("Expected 10968, got %s", first)
	}
}
