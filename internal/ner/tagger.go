package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Entity is a single named entity returned by a tagger.
type Entity struct {
	Text      string  `json:"text"`
	Tag       string  `json:"tag"`
	Certainty float64 `json:"certainty"`
}

// Tagger extracts named entities from a piece of text.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Entity, error)
}

// HTTPTagger talks to a tagging sidecar over HTTP. The sidecar accepts a
// JSON body {"text": "..."} and answers with a JSON array of entities.
type HTTPTagger struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTagger creates a tagger for the given sidecar endpoint.
func NewHTTPTagger(endpoint string) *HTTPTagger {
	return &HTTPTagger{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

type tagRequest struct {
	Text string `json:"text"`
}

// Tag sends text to the sidecar and decodes the entities it found.
func (t *HTTPTagger) Tag(ctx context.Context, text string) ([]Entity, error) {
	body, err := json.Marshal(tagRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tag request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create tag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tagger request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tagger returned status %d", resp.StatusCode)
	}

	var entities []Entity
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, fmt.Errorf("failed to decode tagger response: %w", err)
	}
	return entities, nil
}
