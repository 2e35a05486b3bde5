// Package ai talks to the generative model that produces practice material.
// Every response is requested as JSON against a schema and validated before
// it is decoded.
package ai

import (
	"context"
	"errors"
)

// ErrUnavailable wraps every failure of the practice assistant.
var ErrUnavailable = errors.New("ai provider unavailable")

// Attachment is inline binary input such as an image or a PDF.
type Attachment struct {
	MimeType string
	Data     []byte
}

// GenerateRequest is the input to a structured generation call.
type GenerateRequest struct {
	Prompt      string
	Attachments []Attachment
	Schema      *Schema
	Model       string
	Temperature float64
}

// GenerateResponse is the raw model output.
type GenerateResponse struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Provider is implemented by generative model backends.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	HealthCheck(ctx context.Context) error
}
