package retrieval

import (
	"sort"
	"strings"

	"faqbot/internal/domain"
)

// DefaultThreshold is the minimum score a record needs to count as a match.
const DefaultThreshold = 0.2

const (
	partialWeight  = 0.4
	exactWeight    = 0.2
	categoryWeight = 0.3
	answerWeight   = 0.1
	phraseBonus    = 0.5
)

// Candidate is a record with the score it got for one query.
type Candidate struct {
	Record domain.FAQRecord
	Score  float64
}

type indexedRecord struct {
	record        domain.FAQRecord
	questionLower string
	answerLower   string
	categoryLower string
	tokens        []string
}

// Matcher scores queries against a fixed corpus. It is safe for concurrent use.
type Matcher struct {
	threshold float64
	records   []indexedRecord
}

// NewMatcher indexes records in the given order.
func NewMatcher(records []domain.FAQRecord, threshold float64) *Matcher {
	idx := make([]indexedRecord, len(records))
	for i, r := range records {
		q := strings.ToLower(r.Question)
		idx[i] = indexedRecord{
			record:        r,
			questionLower: q,
			answerLower:   strings.ToLower(r.Answer),
			categoryLower: strings.ToLower(r.Category),
			tokens:        Tokenize(q),
		}
	}
	return &Matcher{threshold: threshold, records: idx}
}

// Threshold returns the configured match threshold.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Search returns the best scoring record above the threshold. Ties keep the
// earliest record. ok is false when nothing matches.
func (m *Matcher) Search(query string) (domain.FAQRecord, bool) {
	queryLower := strings.ToLower(query)
	tokens := Normalize(query)
	if len(tokens) == 0 {
		return domain.FAQRecord{}, false
	}
	var (
		best      domain.FAQRecord
		bestScore float64
		found     bool
	)
	for i := range m.records {
		score := m.records[i].score(tokens, queryLower)
		if score > m.threshold && score > bestScore {
			best, bestScore, found = m.records[i].record, score, true
		}
	}
	return best, found
}

// Rank scores every record and returns them by descending score, corpus
// order breaking ties.
func (m *Matcher) Rank(query string) []Candidate {
	queryLower := strings.ToLower(query)
	tokens := Normalize(query)
	out := make([]Candidate, len(m.records))
	for i := range m.records {
		out[i] = Candidate{Record: m.records[i].record, Score: m.records[i].score(tokens, queryLower)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Search is the one-shot form of Matcher.Search.
func Search(records []domain.FAQRecord, query string, threshold float64) (domain.FAQRecord, bool) {
	return NewMatcher(records, threshold).Search(query)
}

func (r *indexedRecord) score(queryTokens []string, queryLower string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	score := 0.0
	for _, q := range queryTokens {
		for _, p := range r.tokens {
			if strings.Contains(p, q) || strings.Contains(q, p) {
				score += partialWeight
			}
			if q == p {
				score += exactWeight
			}
		}
		if strings.Contains(r.categoryLower, q) {
			score += categoryWeight
		}
		if strings.Contains(r.answerLower, q) {
			score += answerWeight
		}
	}
	score /= float64(len(queryTokens))
	if strings.Contains(r.questionLower, queryLower) || strings.Contains(r.answerLower, queryLower) {
		score += phraseBonus
	}
	return score
}
