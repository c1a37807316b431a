package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredAnswer_Compose(t *testing.T) {
	assert.Equal(t, "", StructuredAnswer{}.Compose())
	assert.Equal(t, "Hola. Abrimos a las 9.", StructuredAnswer{Greeting: " Hola. ", NextStep: "Abrimos a las 9.\n"}.Compose())
	assert.Equal(t, "a b c", StructuredAnswer{Greeting: "a", DirectAnswer: "b", NextStep: "c"}.Compose())
}

func TestTransferAdvice_ShouldTransfer(t *testing.T) {
	for _, d := range []string{"si", "Sí", "YES", "true", "si.", "sí.", "yes.", "  yes  "} {
		assert.True(t, TransferAdvice{Decision: d}.ShouldTransfer(), d)
	}
	for _, d := range []string{"no", "", "maybe", "si, pero", "true."} {
		assert.False(t, TransferAdvice{Decision: d}.ShouldTransfer(), d)
	}
}

func TestChatOutcome_JSON(t *testing.T) {
	out := NewChatOutcome("¿horario?")
	out.Answer = "9am-6pm"
	out.Source = FAQSource("Horarios")

	data, err := out.JSON()
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]any{
		"question":          "¿horario?",
		"answer":            "9am-6pm",
		"source":            "FAQ - Category: Horarios",
		"transfer_to_agent": false,
		"transfer_reason":   "",
	}, got)
}

func TestSource_IsFAQ(t *testing.T) {
	assert.True(t, FAQSource("General").IsFAQ())
	assert.False(t, SourceLLM.IsFAQ())
	assert.False(t, SourceTransfer.IsFAQ())
}
