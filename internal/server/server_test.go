package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faqbot/internal/corpus"
	"faqbot/internal/domain"
	"faqbot/internal/logger"
)

type echoAnswerer struct{}

func (echoAnswerer) Answer(_ context.Context, q string) domain.ChatOutcome {
	out := domain.NewChatOutcome(q)
	out.Answer = "respuesta para " + q
	out.Source = domain.SourceLLM
	return out
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := corpus.NewStore([]domain.FAQRecord{
		{Question: "¿Horario?", Answer: "9am-6pm", Category: "Horarios"},
		{Question: "¿Envíos?", Answer: "Sí", Category: "Envios"},
		{Question: "¿Pagos?", Answer: "Tarjeta", Category: "Envios"},
	})
	return NewRouter(RouterConfig{
		ChatHandler:    NewChatHandler(echoAnswerer{}),
		CatalogHandler: NewCatalogHandler(store),
		Log:            logger.Nop(),
	})
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestChat(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodPost, "/api/chat", `{"question":"¿horario?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.ChatOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "¿horario?", got.Question)
	assert.Equal(t, "respuesta para ¿horario?", got.Answer)
	assert.Equal(t, domain.SourceLLM, got.Source)
	assert.False(t, got.TransferToAgent)
}

func TestChat_BadRequest(t *testing.T) {
	r := newTestRouter()
	for _, body := range []string{`{}`, `{"question":"   "}`, `not json`} {
		w := do(t, r, http.MethodPost, "/api/chat", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		var env ErrorEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "invalid_request", env.Error.Code)
	}
}

func TestFAQs(t *testing.T) {
	r := newTestRouter()

	var all struct {
		Count int                `json:"count"`
		FAQs  []domain.FAQRecord `json:"faqs"`
	}
	w := do(t, r, http.MethodGet, "/api/faqs", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Equal(t, 3, all.Count)

	w = do(t, r, http.MethodGet, "/api/faqs?category=envios", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Equal(t, 2, all.Count)

	w = do(t, r, http.MethodGet, "/api/faqs?category=nada", "")
	assert.JSONEq(t, `{"count":0,"faqs":[]}`, w.Body.String())
}

func TestCategories(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Categories []corpus.CategoryCount `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Categories, 2)
	assert.Equal(t, "Envios", got.Categories[0].Category)
	assert.Equal(t, 2, got.Categories[0].Count)
}
