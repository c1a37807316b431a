package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Source identifies where the answer of a ChatOutcome came from.
type Source string

const (
	SourceLLM       Source = "LLM"
	SourceSmallTalk Source = "small_talk"
	SourceTransfer  Source = "transfer"

	faqSourcePrefix = "FAQ - Category: "
)

// FAQSource labels an answer grounded on a record of the given category.
func FAQSource(category string) Source {
	return Source(faqSourcePrefix + category)
}

// IsFAQ reports whether the source is a knowledge base category label.
func (s Source) IsFAQ() bool { return strings.HasPrefix(string(s), faqSourcePrefix) }

// ChatOutcome is the result of answering one question. It is the payload
// front-ends depend on.
type ChatOutcome struct {
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	Source          Source `json:"source"`
	TransferToAgent bool   `json:"transfer_to_agent"`
	TransferReason  string `json:"transfer_reason"`
}

// NewChatOutcome starts an outcome for the given question.
func NewChatOutcome(question string) ChatOutcome {
	return ChatOutcome{Question: question}
}

// JSON returns the serialized outcome.
func (o ChatOutcome) JSON() ([]byte, error) {
	return json.Marshal(o)
}

// ContextEntry is one key/value line of the context shown to the human agent.
type ContextEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TransferTicket is the simulated handoff payload sent to a TransferSink.
type TransferTicket struct {
	ID         string         `json:"id"`
	Question   string         `json:"question"`
	ReasonKind string         `json:"reason_kind"`
	Reason     string         `json:"reason"`
	Context    []ContextEntry `json:"context"`
	CreatedAt  time.Time      `json:"created_at"`
}
