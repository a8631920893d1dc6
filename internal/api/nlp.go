// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/observatoire/plaintes/internal/model"
)

// DefaultLocation is sent when a classification request has no location.
const DefaultLocation = "Inconnue"

// NLPClient calls the complaint classification service.
type NLPClient struct {
	*Client
}

// NewNLPClient creates a client for the classification service at baseURL.
func NewNLPClient(baseURL string, opts ...Option) (*NLPClient, error) {
	c, err := New(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &NLPClient{Client: c}, nil
}

type classifyRequest struct {
	Description  string `json:"description"`
	Localisation string `json:"localisation"`
}

// Classify returns the category, scores and priority of a complaint text.
func (c *NLPClient) Classify(ctx context.Context, description, location string) (model.Classification, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.Classification{}, fmt.Errorf("classify: description is empty")
	}
	if strings.TrimSpace(location) == "" {
		location = DefaultLocation
	}

	var w model.WireClassification
	req := classifyRequest{Description: description, Localisation: location}
	if err := c.do(ctx, http.MethodPost, "/classify", nil, req, &w); err != nil {
		return model.Classification{}, fmt.Errorf("classify: %w", err)
	}
	return model.NormalizeClassification(w), nil
}
