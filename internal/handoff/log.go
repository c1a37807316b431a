package handoff

import (
	"context"
	"errors"

	"faqbot/internal/domain"
	"faqbot/internal/logger"
)

// Wording of the simulated handoff shown to the customer and logged for the desk.
const (
	StatusConnecting = "Conectando con agente disponible..."
	EstimatedWait    = "2-3 minutos"
)

// LogSink simulates the handoff by logging the ticket for the agent desk.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.With("component", "handoff")}
}

func (s *LogSink) Transfer(ctx context.Context, ticket domain.TransferTicket) error {
	kv := []interface{}{
		"ticket_id", ticket.ID,
		"question", ticket.Question,
		"reason_kind", ticket.ReasonKind,
		"reason", ticket.Reason,
		"status", StatusConnecting,
		"estimated_wait", EstimatedWait,
	}
	for _, e := range ticket.Context {
		kv = append(kv, "ctx."+e.Key, e.Value)
	}
	s.log.Info("transfer to human agent", kv...)
	return nil
}

// Multi fans a ticket out to several sinks and joins their errors.
type Multi []domain.TransferSink

func (m Multi) Transfer(ctx context.Context, ticket domain.TransferTicket) error {
	var errs []error
	for _, s := range m {
		if err := s.Transfer(ctx, ticket); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
