package lang

import (
	"strings"
	"unicode"
)

// Language tags returned by Detect. French is the pivot language: the
// corpus is monolingual French, so every query is normalized into it
// before retrieval.
const (
	French  = "fr"
	English = "en"
	Korean  = "ko"

	Pivot = French
)

// Marker words are intentionally short function words: they survive
// domain vocabulary ("titre de séjour" appears verbatim in English
// questions) and make the count cheap and deterministic.
var frenchMarkers = makeSet(
	"le", "la", "les", "un", "une", "des", "du", "de", "et", "est",
	"que", "qui", "quoi", "comment", "quand", "pour", "avec", "dans",
	"sur", "mon", "ma", "mes", "je", "vous", "il", "elle", "ne", "pas",
	"quel", "quelle", "faire", "dois", "puis",
)

var englishMarkers = makeSet(
	"the", "a", "an", "of", "to", "and", "is", "are", "for", "with",
	"in", "on", "that", "this", "what", "how", "do", "does", "can",
	"i", "my", "you", "your", "where", "when", "need", "get",
)

const frenchDiacritics = "àâäçéèêëîïôöùûüÿœæ"

// diacriticsBonus is added to the French count when French-specific
// diacritics appear anywhere in the text.
const diacriticsBonus = 2

// hangulShortText: any Hangul at all decides Korean when the text is this
// short, because the fraction test is meaningless on a handful of runes.
const hangulShortText = 10

// Detect classifies a query as French, English or Korean. Deterministic
// and side-effect-free; ties default to French, the corpus language.
func Detect(text string) string {
	var hangul, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.Is(unicode.Hangul, r) {
			hangul++
		}
	}
	if hangul > 0 && (total <= hangulShortText || float64(hangul)/float64(total) > 0.10) {
		return Korean
	}

	french, english := 0, 0
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, tok := range tokens {
		if frenchMarkers[tok] {
			french++
		}
		if englishMarkers[tok] {
			english++
		}
	}
	if strings.ContainsAny(strings.ToLower(text), frenchDiacritics) {
		french += diacriticsBonus
	}

	if english > french {
		return English
	}
	return French
}

func makeSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
