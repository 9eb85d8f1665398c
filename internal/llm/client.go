// Package llm talks to an OpenAI-compatible chat-completions endpoint for
// field extraction and reply generation. Empty extraction results mean "not
// confidently present", never an error.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"lead-agent/model"
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL, apiKey, modelName string, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   modelName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, messages []chatMessage, maxTokens int, temperature float64) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion failed (status %d): %s", resp.StatusCode, string(body))
	}

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return cr.Choices[0].Message.Content, nil
}

// ExtractField asks the model for a single normalized field value. An empty
// string means the field was not confidently present in the message.
func (c *Client) ExtractField(ctx context.Context, message string, kind model.FieldKind) (string, error) {
	prompt, ok := extractionPrompts[kind]
	if !ok {
		return "", fmt.Errorf("no extraction prompt for field %q", kind)
	}

	content, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: fmt.Sprintf("%s\n\nMensaje: %s", prompt, message)},
	}, 100, 0.1)
	if err != nil {
		c.log.Warn("field extraction failed", zap.String("field", string(kind)), zap.Error(err))
		return "", err
	}
	return parseValue(content), nil
}

// ExtractQuotation pulls the whole quotation batch out of one message. Keys
// the model could not fill come back empty.
func (c *Client) ExtractQuotation(ctx context.Context, message string) (model.QuotationData, error) {
	content, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: fmt.Sprintf("%s\n\nMensaje: %s", quotationPrompt, message)},
	}, 200, 0.1)
	if err != nil {
		c.log.Warn("quotation extraction failed", zap.Error(err))
		return model.QuotationData{}, err
	}
	return parseQuotation(content)
}

// GenerateReply produces the next assistant message given the dialogue
// context. Callers supply a deterministic fallback per state when it errors.
func (c *Client) GenerateReply(ctx context.Context, history []model.Message, state model.ConversationState, results []model.SearchResult, lead *model.Lead) (string, error) {
	messages := make([]chatMessage, 0, len(history)+1)
	messages = append(messages, chatMessage{
		Role:    "system",
		Content: systemPrompt(state, results, lead),
	})
	for _, m := range history {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	content, err := c.complete(ctx, messages, 300, 0.7)
	if err != nil {
		c.log.Warn("reply generation failed", zap.String("state", string(state)), zap.Error(err))
		return "", err
	}
	return content, nil
}
