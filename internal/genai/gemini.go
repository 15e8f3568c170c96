package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/config"
)

type part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *functionCall     `json:"functionCall,omitempty"`
	FunctionResponse *functionResponse `json:"functionResponse,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type functionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type functionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type functionDeclaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

type toolSet struct {
	FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	Tools            []toolSet         `json:"tools,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GeminiClient calls the Gemini generateContent REST API.
type GeminiClient struct {
	httpClient   *resty.Client
	model        string
	maxToolTurns int
	logger       *zap.Logger
}

// NewGeminiClient creates a client from configuration
func NewGeminiClient(cfg config.GenAIConfig, logger *zap.Logger) *GeminiClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)

	maxTurns := cfg.MaxToolTurns
	if maxTurns <= 0 {
		maxTurns = 1
	}

	return &GeminiClient{
		httpClient:   client,
		model:        cfg.Model,
		maxToolTurns: maxTurns,
		logger:       logger,
	}
}

// Generate sends the prompt and runs requested tools until the model answers
// without calling any, or the tool turn budget is spent.
func (c *GeminiClient) Generate(ctx context.Context, req *Request) (*Response, error) {
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
	}
	if len(req.Tools) > 0 {
		decls := make([]functionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, functionDeclaration{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
		}
		body.Tools = []toolSet{{FunctionDeclarations: decls}}
	}
	if req.ResponseSchema != nil {
		body.GenerationConfig = &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   req.ResponseSchema,
		}
	}

	out := &Response{}
	for turn := 0; ; turn++ {
		resp, err := c.call(ctx, &body)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 {
			if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
				c.logger.Warn("prompt blocked by generation service", zap.String("reason", resp.PromptFeedback.BlockReason))
			}
			return out, nil
		}

		candidate := resp.Candidates[0].Content
		var calls []*functionCall
		var text strings.Builder
		for _, p := range candidate.Parts {
			if p.FunctionCall != nil {
				calls = append(calls, p.FunctionCall)
			}
			text.WriteString(p.Text)
		}

		if len(calls) == 0 || turn >= c.maxToolTurns {
			out.Text = strings.TrimSpace(text.String())
			return out, nil
		}

		if candidate.Role == "" {
			candidate.Role = "model"
		}
		body.Contents = append(body.Contents, candidate)

		responses := make([]part, 0, len(calls))
		for _, fc := range calls {
			result, callErr := runTool(ctx, req.Tools, fc)
			record := ToolCall{Name: fc.Name, Args: fc.Args}
			payload := map[string]any{"result": result}
			if callErr != nil {
				record.Error = callErr.Error()
				payload = map[string]any{"error": callErr.Error()}
				c.logger.Warn("tool call failed", zap.String("tool", fc.Name), zap.Error(callErr))
			}
			out.ToolCalls = append(out.ToolCalls, record)
			responses = append(responses, part{FunctionResponse: &functionResponse{Name: fc.Name, Response: payload}})
		}
		body.Contents = append(body.Contents, content{Role: "user", Parts: responses})
	}
}

func (c *GeminiClient) call(ctx context.Context, body *generateRequest) (*generateResponse, error) {
	var result generateResponse
	var apiErr apiError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		c.logger.Error("generation call failed", zap.String("model", c.model), zap.Error(err))
		return nil, fmt.Errorf("failed to call generation service: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("generation service returned error",
			zap.String("model", c.model),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("status", apiErr.Error.Status),
			zap.String("msg", apiErr.Error.Message),
		)
		return nil, fmt.Errorf("generation service error: %s (status: %d)", apiErr.Error.Message, resp.StatusCode())
	}
	return &result, nil
}

func runTool(ctx context.Context, tools []Tool, fc *functionCall) (any, error) {
	for _, t := range tools {
		if t.Name == fc.Name {
			args := fc.Args
			if len(args) == 0 {
				args = json.RawMessage("{}")
			}
			return t.Handler(ctx, args)
		}
	}
	return nil, fmt.Errorf("unknown tool %q", fc.Name)
}
