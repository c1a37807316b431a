package dialogue

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const smallTalkMaxLen = 20

var smallTalkPhrases = map[string]struct{}{
	"hola": {}, "hola!": {}, "hola.": {}, "¡hola!": {},
	"buenas": {}, "buenas!": {}, "buenas tardes": {}, "buenas noches": {},
	"buenos dias": {}, "buenos días": {},
	"hey": {}, "que tal": {}, "qué tal": {},
	"gracias": {}, "muchas gracias": {},
	"ok": {}, "vale": {}, "entendido": {}, "perfecto": {},
	"hola chatbot": {}, "hola bot": {},
}

var smallTalkPrefixes = []string{"hola", "buen", "grac", "hey", "que tal", "qué tal"}

// IsSmallTalk reports whether the question is a greeting or acknowledgement:
// a known phrase, or a short utterance starting with a known prefix.
func IsSmallTalk(question string) bool {
	normalized := strings.ToLower(strings.TrimSpace(question))
	if _, ok := smallTalkPhrases[normalized]; ok {
		return true
	}
	if utf8.RuneCountInString(normalized) > smallTalkMaxLen {
		return false
	}
	for _, p := range smallTalkPrefixes {
		if strings.HasPrefix(normalized, p) {
			return true
		}
	}
	return false
}

// SmallTalkReply returns the canned reply for a small talk question.
func SmallTalkReply(question, company string) string {
	if strings.Contains(strings.ToLower(question), "grac") {
		return fmt.Sprintf("¡Con gusto! Si necesitas algo más sobre %s, dime.", company)
	}
	return fmt.Sprintf("¡Hola! Estoy aquí para ayudarte con todo lo relacionado a %s. ¿En qué puedo asistirte hoy?", company)
}
