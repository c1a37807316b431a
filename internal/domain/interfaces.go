package domain

import (
	"context"
	"strings"
)

// FAQRecord is a single question/answer pair loaded from the corpus.
type FAQRecord struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Category string `json:"category" yaml:"category"`
}

// StructuredAnswer holds the named segments produced by the generation capability.
// Any segment may be empty.
type StructuredAnswer struct {
	Greeting     string `json:"greeting"`
	DirectAnswer string `json:"direct_answer"`
	NextStep     string `json:"next_step"`
}

// Compose joins the non-empty segments with a single space.
func (a StructuredAnswer) Compose() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{a.Greeting, a.DirectAnswer, a.NextStep} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// TransferAdvice is the raw recommendation returned by a TransferAdvisor.
type TransferAdvice struct {
	Decision string `json:"should_transfer"`
	Reason   string `json:"reason"`
}

var affirmativeDecisions = map[string]struct{}{
	"si": {}, "sí": {}, "yes": {}, "true": {},
	"si.": {}, "sí.": {}, "yes.": {},
}

// ShouldTransfer reports whether the decision text is affirmative.
func (a TransferAdvice) ShouldTransfer() bool {
	_, ok := affirmativeDecisions[strings.ToLower(strings.TrimSpace(a.Decision))]
	return ok
}

// Generator composes an answer for a question grounded on the given context.
type Generator interface {
	Generate(ctx context.Context, question, grounding string) (StructuredAnswer, error)
}

// TransferAdvisor recommends whether a generated answer should be handed to a human.
type TransferAdvisor interface {
	Recommend(ctx context.Context, question, grounding, answer string) (TransferAdvice, error)
}

// TransferSink receives the handoff payload when a conversation is transferred.
type TransferSink interface {
	Transfer(ctx context.Context, ticket TransferTicket) error
}

// Answerer is the operation exposed to front-ends.
type Answerer interface {
	Answer(ctx context.Context, question string) ChatOutcome
}
