// Package genai is a thin client for a hosted generation service. It sends one
// prompt, executes any tool calls the model requests and returns the final text.
package genai

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("generation service is not configured")

// Schema is the OpenAPI subset accepted by the service for tool parameters and
// structured responses.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Format      string             `json:"format,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	MinItems    *int               `json:"minItems,omitempty"`
	MaxItems    *int               `json:"maxItems,omitempty"`
}

const (
	TypeObject  = "OBJECT"
	TypeArray   = "ARRAY"
	TypeString  = "STRING"
	TypeNumber  = "NUMBER"
	TypeBoolean = "BOOLEAN"
)

// String returns a string schema.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// Number returns a number schema.
func Number(description string) *Schema {
	return &Schema{Type: TypeNumber, Description: description}
}

// Object returns an object schema.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: properties, Required: required}
}

// Array returns an array schema bounded to [min, max] items; zero means unbounded.
func Array(items *Schema, description string, min, max int) *Schema {
	s := &Schema{Type: TypeArray, Items: items, Description: description}
	if min > 0 {
		s.MinItems = &min
	}
	if max > 0 {
		s.MaxItems = &max
	}
	return s
}

// ToolHandler executes a tool call with the model-supplied JSON arguments.
type ToolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool is a function the model may call while generating.
type Tool struct {
	Name        string
	Description string
	Parameters  *Schema
	Handler     ToolHandler
}

// Request is one generation call.
type Request struct {
	Prompt string
	Tools  []Tool
	// ResponseSchema requests JSON output matching the schema.
	ResponseSchema *Schema
}

// ToolCall records a tool invocation made while serving a Request.
type ToolCall struct {
	Name  string          `json:"name"`
	Args  json.RawMessage `json:"args,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Response is the model's final answer.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Generator produces a Response for a Request.
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Disabled is used when no API key is configured.
type Disabled struct{}

func (Disabled) Generate(context.Context, *Request) (*Response, error) {
	return nil, ErrNotConfigured
}
