// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package llm is a small provider-agnostic completion client. plaintes uses
// it to rephrase and prioritize rule-based recommendations; every caller must
// work without it.
package llm

import (
	"context"
	"errors"
	"strings"
)

// Provider runs a single synchronous completion.
type Provider interface {
	// Complete sends req and returns the model output. Implementations honor
	// ctx cancellation.
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request is one completion request.
type Request struct {
	SystemPrompt string
	Prompt       string

	// Model overrides the provider default when set.
	Model string

	// MaxTokens caps the output; zero uses the provider default.
	MaxTokens int

	// Temperature uses the provider default when nil.
	Temperature *float64
}

// Response is the result of a completion.
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Usage reports token counts for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// ErrNoJSON is returned by ExtractJSON when the text holds no JSON value.
var ErrNoJSON = errors.New("llm: no json in response")

// ExtractJSON returns the JSON object or array embedded in model output,
// dropping Markdown code fences and any prose around it.
func ExtractJSON(content string) (string, error) {
	s := strings.TrimSpace(content)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		s = strings.TrimSpace(rest)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", ErrNoJSON
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}
