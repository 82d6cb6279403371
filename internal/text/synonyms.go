package text

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SynonymTable maps canonical label forms to their synonym sets. Lookups are
// bidirectional: a synonym resolves back to its canonical and to all its
// siblings. The table is immutable after construction.
type SynonymTable struct {
	canonical map[string][]string // canonical -> synonyms
	reverse   map[string]string   // synonym -> canonical
}

// defaultSynonyms is the built-in marketplace vocabulary: canonical Latin
// forms of common listing terms with their cross-script and cross-language
// synonyms. Entries are canonicalized at load time, so Cyrillic spellings
// here land on the same keys as transliterated user input.
var defaultSynonyms = map[string][]string{
	"велосипед":   {"bike", "bicycle", "велик", "velosiped"},
	"электроника": {"electronics", "iphone", "смартфон", "smartphone", "телефон", "gadget"},
	"книга":       {"book", "books", "кітап", "kniga"},
	"автомобиль":  {"car", "auto", "машина", "көлік", "avto"},
	"квартира":    {"apartment", "flat", "пәтер", "kvartira"},
	"ноутбук":     {"laptop", "notebook", "macbook"},
	"ремонт":      {"repair", "жөндеу", "remont"},
	"мебель":      {"furniture", "диван", "жиһаз"},
	"инструмент":  {"tools", "tool", "құрал"},
	"одежда":      {"clothes", "clothing", "киім"},
}

// NewSynonymTable builds a table from canonical → synonyms entries. Every
// entry is canonicalized with the normalization pipeline (sans synonym
// logic), and a term appearing under two different canonicals is rejected.
func NewSynonymTable(entries map[string][]string, stopWords map[string]struct{}) (*SynonymTable, error) {
	t := &SynonymTable{
		canonical: make(map[string][]string, len(entries)),
		reverse:   make(map[string]string),
	}

	for raw, syns := range entries {
		canon := canonicalize(raw, stopWords)
		if canon == "" {
			return nil, fmt.Errorf("synonym entry %q canonicalizes to empty string", raw)
		}
		for _, s := range syns {
			cs := canonicalize(s, stopWords)
			if cs == "" || cs == canon {
				continue
			}
			if owner, ok := t.reverse[cs]; ok && owner != canon {
				return nil, fmt.Errorf("synonym %q already belongs to %q, cannot add to %q", cs, owner, canon)
			}
			t.reverse[cs] = canon
			t.canonical[canon] = append(t.canonical[canon], cs)
		}
	}
	return t, nil
}

// DefaultSynonymTable builds the built-in table.
func DefaultSynonymTable(stopWords map[string]struct{}) (*SynonymTable, error) {
	return NewSynonymTable(defaultSynonyms, stopWords)
}

// LoadSynonymFile reads a canonical → synonyms YAML mapping and merges it
// over the built-in entries. File entries extend built-in synonym sets.
func LoadSynonymFile(path string, stopWords map[string]struct{}) (*SynonymTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonym file: %w", err)
	}

	var fileEntries map[string][]string
	if err := yaml.Unmarshal(data, &fileEntries); err != nil {
		return nil, fmt.Errorf("parse synonym file %s: %w", path, err)
	}

	merged := make(map[string][]string, len(defaultSynonyms)+len(fileEntries))
	for k, v := range defaultSynonyms {
		merged[k] = append([]string(nil), v...)
	}
	for k, v := range fileEntries {
		merged[k] = append(merged[k], v...)
	}
	return NewSynonymTable(merged, stopWords)
}

// Closure returns every term related to s: for a canonical, its synonyms;
// for a synonym, its canonical plus all siblings. One hop only; chains
// across different canonicals are not followed.
func (t *SynonymTable) Closure(s string) []string {
	if syns, ok := t.canonical[s]; ok {
		return append([]string(nil), syns...)
	}
	canon, ok := t.reverse[s]
	if !ok {
		return nil
	}
	out := []string{canon}
	for _, sib := range t.canonical[canon] {
		if sib != s {
			out = append(out, sib)
		}
	}
	return out
}

// AreSynonyms reports whether a and b resolve to the same canonical term.
func (t *SynonymTable) AreSynonyms(a, b string) bool {
	if a == b {
		return true
	}
	return t.rootOf(a) == t.rootOf(b)
}

func (t *SynonymTable) rootOf(s string) string {
	if canon, ok := t.reverse[s]; ok {
		return canon
	}
	return s
}

// Len returns the number of canonical entries.
func (t *SynonymTable) Len() int { return len(t.canonical) }
