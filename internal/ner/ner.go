// Package ner extracts named entities from document text via a tagging
// sidecar and aggregates them into per-entity counts.
package ner

import (
	"context"
	"log/slog"
	"sort"
)

// DefaultCertainty is the minimum certainty an entity needs to be counted.
const DefaultCertainty = 0.9

// DefaultMinContent is the minimum meaningful-content proportion a text
// must have before it is sent to the tagger.
const DefaultMinContent = 0.2

// Config controls entity extraction.
type Config struct {
	Certainty  float64
	ChunkSize  int
	MinContent float64
}

// DefaultConfig returns the extraction defaults.
func DefaultConfig() Config {
	return Config{
		Certainty:  DefaultCertainty,
		ChunkSize:  DefaultChunkSize,
		MinContent: DefaultMinContent,
	}
}

// Result is an aggregated entity with its occurrence count.
type Result struct {
	Text  string
	Tag   string
	Count int
}

// Extractor feeds text through a tagger and accumulates entity counts.
type Extractor struct {
	tagger Tagger
	cfg    Config
	logger *slog.Logger
	counts map[entityKey]int
}

type entityKey struct {
	text string
	tag  string
}

// New creates an extractor using the given tagger.
func New(tagger Tagger, cfg Config) *Extractor {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.MinContent <= 0 {
		cfg.MinContent = DefaultMinContent
	}
	return &Extractor{
		tagger: tagger,
		cfg:    cfg,
		logger: slog.Default(),
		counts: make(map[entityKey]int),
	}
}

// Process tags one text and adds its entities to the running counts. Texts
// below the meaningful-content gate are skipped entirely, and a chunk whose
// tagging fails is logged and skipped without failing the rest.
func (e *Extractor) Process(ctx context.Context, text string) error {
	if !IsMeaningful(text, e.cfg.MinContent) {
		e.logger.Debug("skipping text below content gate",
			"proportion", MeaningfulProportion(text))
		return nil
	}

	for i, chunk := range Chunk(text, e.cfg.ChunkSize) {
		entities, err := e.tagger.Tag(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Warn("failed to tag chunk", "chunk", i, "error", err)
			continue
		}
		for _, ent := range entities {
			if ent.Certainty < e.cfg.Certainty {
				continue
			}
			if ent.Tag == "MISC" {
				continue
			}
			e.counts[entityKey{text: ent.Text, tag: ent.Tag}]++
		}
	}
	return nil
}

// Results returns the aggregated entities sorted by count descending, ties
// broken alphabetically on the entity text.
func (e *Extractor) Results() []Result {
	results := make([]Result, 0, len(e.counts))
	for key, count := range e.counts {
		results = append(results, Result{Text: key.text, Tag: key.tag, Count: count})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		return results[i].Text < results[j].Text
	})
	return results
}
