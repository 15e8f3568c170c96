// Package flow wraps a call to the generation service in a typed request and
// response: validate input, render a fixed prompt, generate, validate output.
package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/genai"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidOutput = errors.New("invalid output")
	ErrNoOutput      = errors.New("generation service returned no output")
	// ErrGeneration wraps failures of the generation service call itself.
	ErrGeneration = errors.New("generation failed")
)

var validate = validator.New()

var templateFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

// Definition describes a flow.
type Definition[In, Out any] struct {
	Name   string
	Prompt string
	// PromptData maps the input to the template's data; the input itself is used when nil.
	PromptData func(In) any
	Tools      []genai.Tool
	// Schema requests JSON output decoded into Out. When nil, FromText builds Out from plain text.
	Schema   *genai.Schema
	FromText func(string) Out
	// Fallback is returned when the service produces no output.
	Fallback func(In) Out
}

// Result is a flow's output with the tool calls made while producing it.
type Result[Out any] struct {
	Output    Out
	ToolCalls []genai.ToolCall
	Fallback  bool
}

// Flow is a compiled Definition bound to a generator.
type Flow[In, Out any] struct {
	def    Definition[In, Out]
	prompt *template.Template
	gen    genai.Generator
	logger *zap.Logger
}

// New compiles def. It panics when the prompt template does not parse.
func New[In, Out any](def Definition[In, Out], gen genai.Generator, logger *zap.Logger) *Flow[In, Out] {
	return &Flow[In, Out]{
		def:    def,
		prompt: template.Must(template.New(def.Name).Funcs(templateFuncs).Option("missingkey=error").Parse(def.Prompt)),
		gen:    gen,
		logger: logger.With(zap.String("flow", def.Name)),
	}
}

// Name returns the flow name.
func (f *Flow[In, Out]) Name() string {
	return f.def.Name
}

// Render validates in and returns the prompt that would be sent.
func (f *Flow[In, Out]) Render(in In) (string, error) {
	if err := validate.Struct(in); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}

	var data any = in
	if f.def.PromptData != nil {
		data = f.def.PromptData(in)
	}

	var buf bytes.Buffer
	if err := f.prompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", f.def.Name, err)
	}
	return buf.String(), nil
}

// Run executes the flow.
func (f *Flow[In, Out]) Run(ctx context.Context, in In) (*Result[Out], error) {
	prompt, err := f.Render(in)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := f.gen.Generate(ctx, &genai.Request{
		Prompt:         prompt,
		Tools:          f.def.Tools,
		ResponseSchema: f.def.Schema,
	})
	if err != nil {
		f.logger.Error("generation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("%s: %w: %w", f.def.Name, ErrGeneration, err)
	}

	result := &Result[Out]{ToolCalls: resp.ToolCalls}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		if f.def.Fallback == nil {
			return nil, fmt.Errorf("%s: %w", f.def.Name, ErrNoOutput)
		}
		f.logger.Warn("empty output, using fallback")
		result.Output = f.def.Fallback(in)
		result.Fallback = true
		return result, nil
	}

	if f.def.Schema != nil {
		if err := json.Unmarshal([]byte(stripFences(text)), &result.Output); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", f.def.Name, ErrInvalidOutput, err)
		}
	} else {
		result.Output = f.def.FromText(text)
	}

	if err := validate.Struct(result.Output); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", f.def.Name, ErrInvalidOutput, describe(err))
	}

	f.logger.Info("flow completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("tool_calls", len(resp.ToolCalls)),
	)
	return result, nil
}

// Decode reads a JSON input. Type mismatches, such as a number where a string
// is expected, are reported as ErrInvalidInput.
func Decode[In any](r io.Reader) (In, error) {
	var in In
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return in, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return in, nil
}

func stripFences(s string) string {
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
