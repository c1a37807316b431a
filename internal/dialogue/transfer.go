package dialogue

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"faqbot/internal/domain"
)

// DefaultAgentContextLimit caps every context value shown to the human agent.
const DefaultAgentContextLimit = 220

// TruncateForAgent collapses whitespace runs to single spaces and cuts the
// text to limit runes, appending "..." when it was cut.
func TruncateForAgent(text string, limit int) string {
	clean := strings.Join(strings.Fields(text), " ")
	if limit <= 0 {
		return clean
	}
	r := []rune(clean)
	if len(r) <= limit {
		return clean
	}
	return strings.TrimRightFunc(string(r[:limit]), unicode.IsSpace) + "..."
}

func entry(key, value string) domain.ContextEntry {
	return domain.ContextEntry{Key: key, Value: value}
}

func withEntries(base []domain.ContextEntry, extra ...domain.ContextEntry) []domain.ContextEntry {
	out := make([]domain.ContextEntry, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// newTicket builds the handoff payload. Values are truncated and entries that
// end up empty are dropped.
func newTicket(question string, kind ErrorKind, reason string, entries []domain.ContextEntry, limit int, now time.Time) domain.TransferTicket {
	ctx := make([]domain.ContextEntry, 0, len(entries))
	for _, e := range entries {
		v := TruncateForAgent(e.Value, limit)
		if v == "" {
			continue
		}
		ctx = append(ctx, domain.ContextEntry{Key: e.Key, Value: v})
	}
	return domain.TransferTicket{
		ID:         uuid.NewString(),
		Question:   question,
		ReasonKind: string(kind),
		Reason:     reason,
		Context:    ctx,
		CreatedAt:  now.UTC(),
	}
}
