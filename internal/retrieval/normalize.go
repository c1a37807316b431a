package retrieval

import "strings"

// punctuation is stripped from both edges of every token.
const punctuation = "¿?.,;:"

// stopwords are dropped from queries and candidate questions.
var stopwords = map[string]struct{}{
	"de": {}, "la": {}, "el": {}, "en": {}, "y": {}, "a": {}, "los": {}, "las": {},
	"del": {}, "al": {}, "es": {}, "un": {}, "una": {}, "con": {}, "por": {}, "para": {},
	"su": {}, "sus": {}, "que": {}, "qué": {}, "están": {}, "estan": {},
	"como": {}, "cómo": {}, "cual": {}, "cuál": {}, "cuales": {}, "cuáles": {},
}

// synonyms fold location words onto the stem used by the corpus questions
// ("ubicados", "ubicadas"). Only applied to queries.
var synonyms = map[string]string{
	"donde":     "ubicad",
	"dónde":     "ubicad",
	"ubicacion": "ubicad",
	"ubicación": "ubicad",
	"oficina":   "ubicad",
	"direccion": "ubicad",
	"dirección": "ubicad",
}

// Normalize turns a raw query into its ordered token sequence: lowercased,
// punctuation stripped, stopwords removed and synonyms folded. Duplicates are kept.
func Normalize(raw string) []string {
	tokens := Tokenize(raw)
	for i, t := range tokens {
		if mapped, ok := synonyms[t]; ok {
			tokens[i] = mapped
		}
	}
	return tokens
}

// Tokenize is Normalize without synonym folding. Candidate questions go
// through this path.
func Tokenize(raw string) []string {
	fields := strings.Fields(strings.ToLower(raw))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.Trim(f, punctuation)
		if t == "" {
			continue
		}
		if _, stop := stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}
