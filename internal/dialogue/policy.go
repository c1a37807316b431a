package dialogue

import (
	"context"
	"strings"
	"time"

	"faqbot/internal/domain"
	"faqbot/internal/logger"
)

// fallbackGrounding is sent to the generator when no FAQ matched.
const fallbackGrounding = "No hay información relevante en la base de conocimientos para esta pregunta. " +
	"Ofrece una respuesta breve y útil basada en tu conocimiento general."

// Searcher finds the FAQ record that best matches a question.
type Searcher interface {
	Search(query string) (domain.FAQRecord, bool)
}

// Config holds the policy settings that are not collaborators.
type Config struct {
	CompanyName       string
	AgentContextLimit int
}

// Policy decides how each question is answered: small talk, FAQ grounded
// answer, general generated answer or transfer to a human agent.
// Generator, advisor and sink are optional. Policy keeps no per-question
// state and is safe for concurrent use.
type Policy struct {
	matcher   Searcher
	generator domain.Generator
	advisor   domain.TransferAdvisor
	sink      domain.TransferSink
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

func New(matcher Searcher, generator domain.Generator, advisor domain.TransferAdvisor, sink domain.TransferSink, cfg Config, log *logger.Logger) *Policy {
	if cfg.AgentContextLimit <= 0 {
		cfg.AgentContextLimit = DefaultAgentContextLimit
	}
	if strings.TrimSpace(cfg.CompanyName) == "" {
		cfg.CompanyName = "nuestra empresa"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Policy{
		matcher:   matcher,
		generator: generator,
		advisor:   advisor,
		sink:      sink,
		cfg:       cfg,
		log:       log.With("component", "dialogue"),
		now:       time.Now,
	}
}

// Answer runs one question through the policy. The returned outcome always
// has a non-empty answer, and TransferToAgent is set exactly when the source
// is a transfer.
func (p *Policy) Answer(ctx context.Context, question string) domain.ChatOutcome {
	out := domain.NewChatOutcome(question)
	rec, found := p.matcher.Search(question)

	if !found && IsSmallTalk(question) {
		return p.smallTalk(out)
	}
	if found {
		p.log.Debug("faq match", "question", question, "related_question", rec.Question, "category", rec.Category)
		return p.answerFromFAQ(ctx, out, rec)
	}
	p.log.Debug("no faq match", "question", question)
	return p.answerWithoutFAQ(ctx, out)
}

func (p *Policy) smallTalk(out domain.ChatOutcome) domain.ChatOutcome {
	out.Answer = SmallTalkReply(out.Question, p.cfg.CompanyName)
	out.Source = domain.SourceSmallTalk
	return out
}

func (p *Policy) answerFromFAQ(ctx context.Context, out domain.ChatOutcome, rec domain.FAQRecord) domain.ChatOutcome {
	grounding := "Pregunta relacionada: " + rec.Question + "\nRespuesta: " + rec.Answer
	out.Source = domain.FAQSource(rec.Category)

	answer, err := p.generate(ctx, out.Question, grounding, rec.Answer)
	out.Answer = answer
	base := []domain.ContextEntry{
		entry("related_question", rec.Question),
		entry("category", rec.Category),
	}
	if err != nil {
		return p.providerFailure(ctx, out, err, withEntries(base, entry("suggested_answer", rec.Answer)))
	}
	if strings.TrimSpace(answer) == "" {
		return p.transfer(ctx, out, KindNoAnswer, TechnicalReason(KindNoAnswer),
			withEntries(base, entry("context", "registro de FAQ sin respuesta")))
	}
	return p.adviseTransfer(ctx, out, grounding, base, false)
}

func (p *Policy) answerWithoutFAQ(ctx context.Context, out domain.ChatOutcome) domain.ChatOutcome {
	base := []domain.ContextEntry{entry("question", out.Question)}

	if p.generator == nil {
		// Unreachable from Answer, which handles small talk first. Kept so
		// answerWithoutFAQ stays correct on its own.
		if IsSmallTalk(out.Question) {
			return p.smallTalk(out)
		}
		return p.transfer(ctx, out, KindNoAnswer, TechnicalReason(KindNoAnswer),
			withEntries(base, entry("context", "sin coincidencias en FAQ")))
	}

	answer, err := p.generate(ctx, out.Question, fallbackGrounding, "")
	if err != nil {
		return p.providerFailure(ctx, out, err,
			withEntries(base, entry("context", "sin resultados en la base de conocimiento")))
	}
	if strings.TrimSpace(answer) == "" {
		return p.transfer(ctx, out, KindNoAnswer, TechnicalReason(KindNoAnswer),
			withEntries(base, entry("context", "la IA no devolvió contenido")))
	}
	out.Answer = answer
	out.Source = domain.SourceLLM
	return p.adviseTransfer(ctx, out, fallbackGrounding, base, true)
}

// generate asks the generator for a structured answer. fallback is returned
// when there is no generator, on error, or when the composed answer is empty.
func (p *Policy) generate(ctx context.Context, question, grounding, fallback string) (string, error) {
	if p.generator == nil {
		return fallback, nil
	}
	structured, err := p.generator.Generate(ctx, question, grounding)
	if err != nil {
		return fallback, err
	}
	if composed := structured.Compose(); composed != "" {
		return composed, nil
	}
	return fallback, nil
}

func (p *Policy) adviseTransfer(ctx context.Context, out domain.ChatOutcome, grounding string, base []domain.ContextEntry, skipSmallTalk bool) domain.ChatOutcome {
	if p.advisor == nil {
		return out
	}
	advice, err := p.advisor.Recommend(ctx, out.Question, grounding, out.Answer)
	if err != nil {
		kind := Classify(err.Error())
		p.log.Error("transfer advice failed", "error", err, "kind", kind)
		return p.transfer(ctx, out, kind, PipelineFailureReason(kind), withEntries(base,
			entry("context", "fallo en pipeline de transferencia"),
			entry("error", err.Error()),
		))
	}
	// skipSmallTalk never fires from Answer, for the same reason as above.
	if !advice.ShouldTransfer() || (skipSmallTalk && IsSmallTalk(out.Question)) {
		return out
	}
	reason := strings.TrimSpace(advice.Reason)
	if reason == "" {
		reason = TechnicalReason(KindLLMTransfer)
	}
	return p.transfer(ctx, out, KindLLMTransfer, reason, withEntries(base,
		entry("llm_answer", out.Answer),
		entry("model_reason", advice.Reason),
	))
}

func (p *Policy) providerFailure(ctx context.Context, out domain.ChatOutcome, err error, entries []domain.ContextEntry) domain.ChatOutcome {
	kind := Classify(err.Error())
	p.log.Error("generation failed", "error", err, "kind", kind)
	return p.transfer(ctx, out, kind, TechnicalReason(kind), withEntries(entries, entry("error", err.Error())))
}

func (p *Policy) transfer(ctx context.Context, out domain.ChatOutcome, kind ErrorKind, reason string, entries []domain.ContextEntry) domain.ChatOutcome {
	out.TransferToAgent = true
	out.TransferReason = reason
	out.Answer = UserMessage(kind)
	out.Source = domain.SourceTransfer

	ticket := newTicket(out.Question, kind, reason, entries, p.cfg.AgentContextLimit, p.now())
	if p.sink != nil {
		if err := p.sink.Transfer(ctx, ticket); err != nil {
			p.log.Error("handoff sink failed", "ticket_id", ticket.ID, "error", err)
		}
	}
	return out
}
