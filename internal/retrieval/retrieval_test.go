package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faqbot/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"only stopwords and punctuation", "¿de la? ,", []string{}},
		{"strips edges and folds synonyms", "¿Cuál es el HORARIO de la oficina?", []string{"horario", "ubicad"}},
		{"keeps duplicates and order", "envío; envío: garantía", []string{"envío", "envío", "garantía"}},
		{"accented synonym", "¿Dónde?", []string{"ubicad"}},
		{"inner punctuation kept", "9.30 hrs.", []string{"9.30", "hrs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestTokenize_NoSynonymFolding(t *testing.T) {
	assert.Equal(t, []string{"oficina", "central"}, Tokenize("La oficina central."))
}

var horarioCorpus = []domain.FAQRecord{
	{Question: "¿Cuál es el horario?", Answer: "9am-6pm", Category: "Horarios"},
}

func TestSearch_HorarioScenario(t *testing.T) {
	rec, ok := Search(horarioCorpus, "cual es el horario", DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, horarioCorpus[0], rec)

	ranked := NewMatcher(horarioCorpus, DefaultThreshold).Rank("cual es el horario")
	require.Len(t, ranked, 1)
	// horario~horario 0.4+0.2, category "horarios" 0.3, no phrase bonus.
	assert.InDelta(t, 0.9, ranked[0].Score, 1e-9)
}

func TestSearch_EmptyNormalizedQueryNeverMatches(t *testing.T) {
	corpus := []domain.FAQRecord{{Question: "¿de la?", Answer: "de la", Category: "de"}}
	_, ok := Search(corpus, "¿de la?", DefaultThreshold)
	assert.False(t, ok)
	_, ok = Search(corpus, "   ", DefaultThreshold)
	assert.False(t, ok)
}

func TestSearch_FullQuestionGetsPhraseBonus(t *testing.T) {
	corpus := []domain.FAQRecord{
		{Question: "¿Hacen envíos a provincias?", Answer: "Sí, enviamos a todo el país.", Category: "Envios"},
		{Question: "¿Cuánto cuesta el envío?", Answer: "El envío cuesta 10 soles.", Category: "Envios"},
	}
	m := NewMatcher(corpus, DefaultThreshold)
	rec, ok := m.Search(corpus[1].Question)
	require.True(t, ok)
	assert.Equal(t, corpus[1], rec)

	ranked := m.Rank(corpus[1].Question)
	assert.Equal(t, corpus[1], ranked[0].Record)
	assert.InDelta(t, 2.0/3+0.5, ranked[0].Score, 1e-9)
	assert.InDelta(t, 0.4/3, ranked[1].Score, 1e-9)
}

func TestSearch_TieKeepsEarliestRecord(t *testing.T) {
	corpus := []domain.FAQRecord{
		{Question: "horario de atención", Answer: "x", Category: "A"},
		{Question: "horario de atención", Answer: "y", Category: "B"},
	}
	rec, ok := Search(corpus, "horario", DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, "x", rec.Answer)

	ranked := NewMatcher(corpus, DefaultThreshold).Rank("horario")
	assert.Equal(t, "x", ranked[0].Record.Answer)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
}

func TestSearch_SynonymFolding(t *testing.T) {
	corpus := []domain.FAQRecord{
		{Question: "¿Cuál es el horario?", Answer: "9am-6pm", Category: "Horarios"},
		{Question: "¿Dónde están ubicados?", Answer: "Av. Central 123", Category: "Ubicación"},
	}
	rec, ok := Search(corpus, "¿dónde están?", DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, corpus[1], rec)
}

func TestSearch_ThresholdIsStrict(t *testing.T) {
	_, ok := Search(horarioCorpus, "cual es el horario", 5)
	assert.False(t, ok)

	score := NewMatcher(horarioCorpus, DefaultThreshold).Rank("cual es el horario")[0].Score
	_, ok = NewMatcher(horarioCorpus, score).Search("cual es el horario")
	assert.False(t, ok, "a score equal to the threshold must not match")
}

func TestSearch_NoOverlap(t *testing.T) {
	_, ok := Search(horarioCorpus, "¿tienen garantía?", DefaultThreshold)
	assert.False(t, ok)
}

func TestSearch_Deterministic(t *testing.T) {
	corpus := []domain.FAQRecord{
		{Question: "¿Aceptan tarjetas?", Answer: "Sí, Visa y Mastercard.", Category: "Pagos"},
		{Question: "¿Aceptan transferencias?", Answer: "Sí.", Category: "Pagos"},
		{Question: "¿Cuál es el horario?", Answer: "9am-6pm", Category: "Horarios"},
	}
	for _, q := range []string{"pagos con tarjeta", "aceptan", "horario", "nada que ver"} {
		r1, ok1 := Search(corpus, q, DefaultThreshold)
		r2, ok2 := Search(corpus, q, DefaultThreshold)
		assert.Equal(t, ok1, ok2, q)
		assert.Equal(t, r1, r2, q)
	}
}

func TestSearch_EmptyCorpus(t *testing.T) {
	_, ok := Search(nil, "horario", DefaultThreshold)
	assert.False(t, ok)
	assert.Empty(t, NewMatcher(nil, DefaultThreshold).Rank("horario"))
}
