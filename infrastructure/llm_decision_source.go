package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"liarsdice/domain/entities"
	"liarsdice/domain/interfaces"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// LLMConfig configures an OpenAI compatible chat completions endpoint
type LLMConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// LLMDecisionSource asks a language model for each action
type LLMDecisionSource struct {
	cfg LLMConfig
}

// NewLLMDecisionSource builds a decision source. The default HTTP client is
// instrumented with otelhttp.
func NewLLMDecisionSource(cfg LLMConfig) (*LLMDecisionSource, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM model is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &LLMDecisionSource{cfg: cfg}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
}

var actionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"quantity": map[string]any{"type": "integer"},
		"face":     map[string]any{"type": "integer"},
	},
	"required":             []string{"quantity", "face"},
	"additionalProperties": false,
}

// Decide sends the rules and the participant's view and parses {quantity, face}
func (s *LLMDecisionSource) Decide(ctx context.Context, req interfaces.DecisionRequest) (entities.Action, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: llmRules},
			{Role: "user", Content: BuildDecisionPrompt(req)},
		},
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "action",
				Strict: true,
				Schema: actionSchema,
			},
		},
	})
	if err != nil {
		return entities.Action{}, fmt.Errorf("marshal completion request: %w", err)
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return entities.Action{}, fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	res, err := s.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return entities.Action{}, fmt.Errorf("completion request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return entities.Action{}, fmt.Errorf("completion request status %d: %s", res.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var completion chatResponse
	if err := json.NewDecoder(res.Body).Decode(&completion); err != nil {
		return entities.Action{}, fmt.Errorf("decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return entities.Action{}, fmt.Errorf("completion response has no choices")
	}

	msg := completion.Choices[0].Message
	if msg.Refusal != "" {
		return entities.Action{}, fmt.Errorf("model refused: %s", msg.Refusal)
	}

	var action entities.Action
	if err := json.Unmarshal([]byte(msg.Content), &action); err != nil {
		return entities.Action{}, fmt.Errorf("parse model action %q: %w", msg.Content, err)
	}

	log.WithFields(log.Fields{
		"table_id":       req.TableID,
		"participant_id": req.ParticipantID,
		"model":          s.cfg.Model,
		"action":         action.String(),
	}).Debug("Model chose action")

	return action, nil
}
