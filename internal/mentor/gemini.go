package mentor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandeepkv93/mentord/internal/logging"
	"github.com/sandeepkv93/mentord/internal/model"
)

const (
	DefaultModel   = "gemini-3-flash-preview"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	chatTemperature    = 0.7
	outlineTemperature = 0.5
)

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	log        *logging.Logger
}

type GeminiOption func(*GeminiClient)

func WithBaseURL(base string) GeminiOption {
	return func(c *GeminiClient) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

func WithHTTPClient(hc *http.Client) GeminiOption {
	return func(c *GeminiClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) GeminiOption {
	return func(c *GeminiClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithLogger(log *logging.Logger) GeminiOption {
	return func(c *GeminiClient) {
		c.log = logging.OrNop(log)
	}
}

func NewGeminiClient(apiKey, modelName string, opts ...GeminiOption) *GeminiClient {
	if modelName == "" {
		modelName = DefaultModel
	}
	c := &GeminiClient{
		apiKey:     strings.TrimSpace(apiKey),
		model:      modelName,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *GeminiClient) Model() string { return c.model }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func (c *GeminiClient) SendMessage(ctx context.Context, history []model.Message, text string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyPrompt
	}
	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: SystemInstruction}}},
		Contents:          append(historyContents(history), content{Role: "user", Parts: []part{{Text: text}}}),
		GenerationConfig:  generationConfig{Temperature: chatTemperature},
	}
	resp, err := c.generate(ctx, req)
	if err != nil {
		c.log.Error("mentor request failed", "error", err)
		return "", err
	}
	reply := resp.text()
	if reply == "" {
		return NoReplyText, nil
	}
	return reply, nil
}

func (c *GeminiClient) GenerateOutline(ctx context.Context, topic string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if strings.TrimSpace(topic) == "" {
		return "", ErrEmptyPrompt
	}
	req := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: OutlinePrompt(topic)}}}},
		GenerationConfig: generationConfig{Temperature: outlineTemperature},
	}
	resp, err := c.generate(ctx, req)
	if err != nil {
		c.log.Warn("outline request failed", "topic", topic, "error", err)
		return "", err
	}
	return strings.TrimSpace(resp.text()), nil
}

// historyContents converts stored turns to API contents. Error placeholders are dropped,
// and so are model turns before the first user turn (the greeting).
func historyContents(history []model.Message) []content {
	out := make([]content, 0, len(history))
	for _, msg := range history {
		if msg.IsError || strings.TrimSpace(msg.Text) == "" {
			continue
		}
		if len(out) == 0 && msg.Role != model.RoleUser {
			continue
		}
		out = append(out, content{Role: string(msg.Role), Parts: []part{{Text: msg.Text}}})
	}
	return out
}

func (c *GeminiClient) generate(ctx context.Context, body generateRequest) (generateResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return generateResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return generateResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return generateResponse{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return generateResponse{}, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return generateResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
