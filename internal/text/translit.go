package text

import "strings"

// translitMap is the fixed Cyrillic → Latin character map. It covers the
// Russian alphabet plus the Kazakh-specific letters, so labels written in
// either script canonicalize to the same Latin form.
var translitMap = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "i", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",

	// Kazakh-specific letters.
	'ә': "a", 'ғ': "g", 'қ': "k", 'ң': "n", 'ө': "o",
	'ұ': "u", 'ү': "u", 'һ': "h", 'і': "i",
}

// hasCyrillic reports whether s contains any Cyrillic character.
func hasCyrillic(s string) bool {
	for _, r := range s {
		if r >= 0x0400 && r <= 0x04FF {
			return true
		}
	}
	return false
}

// transliterate maps every Cyrillic rune through translitMap, passing other
// runes through unchanged. Unknown Cyrillic runes are dropped.
func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x0400 && r <= 0x04FF {
			b.WriteString(translitMap[r])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
