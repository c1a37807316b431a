package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faqbot/internal/domain"
	"faqbot/internal/handoff"
)

type stubAnswerer struct {
	asked []string
	out   domain.ChatOutcome
}

func (s *stubAnswerer) Answer(_ context.Context, q string) domain.ChatOutcome {
	s.asked = append(s.asked, q)
	out := s.out
	out.Question = q
	return out
}

func typed(m Model, s string) Model {
	m.input.SetValue(s)
	return m
}

func TestIsExitWord(t *testing.T) {
	for _, w := range []string{"salir", "EXIT", " quit "} {
		assert.True(t, IsExitWord(w), w)
	}
	assert.False(t, IsExitWord("salida"))
}

func TestUpdate_EnterAsksAndRendersOutcome(t *testing.T) {
	ans := &stubAnswerer{out: domain.ChatOutcome{Answer: "Atendemos de 9am a 6pm.", Source: domain.FAQSource("Horarios")}}
	m := New(ans, "3 preguntas cargadas")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = next.(Model)

	next, cmd := typed(m, "¿horario?").Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.pending)
	assert.Equal(t, "", m.input.Value())

	msg := cmd()
	require.IsType(t, answerMsg{}, msg)
	assert.Equal(t, []string{"¿horario?"}, ans.asked)

	next, _ = m.Update(msg)
	m = next.(Model)
	assert.False(t, m.pending)
	require.Len(t, m.turns, 1)
	assert.Contains(t, m.status, "FAQ - Category: Horarios")
	assert.Contains(t, renderTranscript(m.turns), "Atendemos")
}

func TestUpdate_TransferShowsReason(t *testing.T) {
	out := domain.ChatOutcome{Answer: "Te comunico con un agente.", Source: domain.SourceTransfer, TransferToAgent: true, TransferReason: "sin coincidencias"}
	m := New(&stubAnswerer{}, "")
	next, _ := m.Update(answerMsg{outcome: out})
	m = next.(Model)
	assert.Equal(t, "Transferido a un agente humano.", m.status)
	transcript := renderTranscript(m.turns)
	assert.True(t, strings.Contains(transcript, "sin coincidencias"))
	assert.Contains(t, transcript, handoff.EstimatedWait)
}

func TestUpdate_ExitWordQuits(t *testing.T) {
	ans := &stubAnswerer{}
	m := New(ans, "")
	_, cmd := typed(m, "salir").Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, ans.asked)
}

func TestUpdate_EmptyInputIgnored(t *testing.T) {
	m := New(&stubAnswerer{}, "")
	_, cmd := typed(m, "   ").Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestHighlightQueryTerms(t *testing.T) {
	assert.Equal(t, "sin cambios", highlightQueryTerms("sin cambios", ""))
	assert.Contains(t, highlightQueryTerms("El horario es de 9 a 6", "¿cuál es el horario?"), "horario")
}
