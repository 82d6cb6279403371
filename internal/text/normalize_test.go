package text

import "testing"

func newTestNormalizer(t *testing.T, opts ...Option) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(128, 128, opts...)
	if err != nil {
		t.Fatalf("NewNormalizer() error = %v", err)
	}
	return n
}

func TestNormalize(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "IPHONE", "iphone"},
		{"cyrillic transliterated", "велосипед", "velosiped"},
		{"kazakh letters", "кітап", "kitap"},
		{"mixed script", "iPhone 13 Про", "iphone 13 pro"},
		{"punctuation stripped", "ремонт, телефонов!", "remont telefonov"},
		{"stop words dropped", "велосипед для детей", "velosiped detei"},
		{"single letters dropped", "а б telephone", "telephone"},
		{"multi space collapsed", "горный   велосипед", "gornyi velosiped"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newTestNormalizer(t)

	inputs := []string{
		"Горный Велосипед",
		"iPhone 13 Pro Max",
		"ремонт телефонов и ноутбуков",
		"Қарағанды",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSynonymsOf(t *testing.T) {
	n := newTestNormalizer(t)

	closure := n.SynonymsOf("bike")
	found := false
	for _, s := range closure {
		if s == "velosiped" {
			found = true
		}
	}
	if !found {
		t.Errorf("SynonymsOf(bike) = %v, want it to contain velosiped", closure)
	}

	if got := n.SynonymsOf("квантовый дезинтегратор"); len(got) != 0 {
		t.Errorf("SynonymsOf(unknown) = %v, want empty", got)
	}
}

func TestNormalizeCaching(t *testing.T) {
	n := newTestNormalizer(t)

	first := n.Normalize("Горный Велосипед")
	second := n.Normalize("Горный Велосипед")
	if first != second {
		t.Errorf("cached result differs: %q vs %q", first, second)
	}
}
