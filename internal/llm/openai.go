package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"faqbot/internal/domain"
)

// ProviderError is returned for every failed call to the provider. Message
// keeps the provider's wording (status line, transport error) so callers can
// classify it.
type ProviderError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() error { return e.Err }

// Client is an OpenAI-compatible chat completions client implementing
// domain.Generator and domain.TransferAdvisor. It makes a single attempt per
// call; failures are returned as *ProviderError.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

// Config configures the OpenAI-compatible chat client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Timeout     time.Duration
	Temperature float64
}

// ErrMissingAPIKey is returned by NewClient when the key variable is unset.
var ErrMissingAPIKey = errors.New("missing API key")

// NewClient creates a new chat client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w in env %s", ErrMissingAPIKey, cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		return nil, errors.New("missing model name")
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      key,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: t},
	}, nil
}

// Name returns the identifier of this provider.
func (c *Client) Name() string { return "openai:" + c.model }

const answerSystemPrompt = `Eres un agente de atención al cliente. Responde en español usando los pasajes recuperados como evidencia principal.
Devuelve únicamente un objeto JSON con las claves:
"greeting": saludo formal y reconocimiento de la consulta,
"direct_answer": respuesta concisa sustentada en el contexto,
"next_step": pasos siguientes o recomendaciones para la persona usuaria.`

const transferSystemPrompt = `Decide si la conversación debe transferirse a un agente humano.
Devuelve únicamente un objeto JSON con las claves:
"should_transfer": "si" o "no",
"reason": justificación breve de la recomendación.`

// Generate composes a structured answer for question grounded on the passages.
func (c *Client) Generate(ctx context.Context, question, grounding string) (domain.StructuredAnswer, error) {
	user := "Pasajes recuperados:\n" + grounding + "\n\nPregunta del cliente:\n" + question
	content, err := c.complete(ctx, "generate", answerSystemPrompt, user)
	if err != nil {
		return domain.StructuredAnswer{}, err
	}
	var out domain.StructuredAnswer
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &out); err != nil {
		// Not JSON: keep the text as the direct answer.
		return domain.StructuredAnswer{DirectAnswer: strings.TrimSpace(content)}, nil
	}
	return out, nil
}

// Recommend asks whether the generated answer should be handed to a human.
func (c *Client) Recommend(ctx context.Context, question, grounding, answer string) (domain.TransferAdvice, error) {
	if strings.TrimSpace(grounding) == "" {
		grounding = "sin_resultados"
	}
	user := "Pregunta del usuario:\n" + question +
		"\n\nResultado de búsqueda:\n" + grounding +
		"\n\nRespuesta propuesta:\n" + answer
	content, err := c.complete(ctx, "recommend", transferSystemPrompt, user)
	if err != nil {
		return domain.TransferAdvice{}, err
	}
	var out domain.TransferAdvice
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &out); err != nil {
		line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
		return domain.TransferAdvice{Decision: line}, nil
	}
	return out, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) complete(ctx context.Context, op, system, user string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    c.temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", &ProviderError{Op: op, Message: "encode request: " + err.Error(), Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", &ProviderError{Op: op, Message: "create request: " + err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ProviderError{Op: op, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Op: op, StatusCode: resp.StatusCode, Message: "read response: " + err.Error(), Err: err}
	}
	if resp.StatusCode >= 300 {
		return "", &ProviderError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("openai %s failed: %s: %s", op, resp.Status, snippet(payload)),
		}
	}
	var out chatResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", &ProviderError{Op: op, StatusCode: resp.StatusCode, Message: "decode response: " + err.Error(), Err: err}
	}
	if out.Error != nil {
		return "", &ProviderError{Op: op, StatusCode: resp.StatusCode, Message: "openai " + op + " failed: " + out.Error.Message}
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func snippet(b []byte) string {
	s := strings.Join(strings.Fields(string(b)), " ")
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
