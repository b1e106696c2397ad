package ner

import (
	"strings"
	"unicode"
)

// DefaultChunkSize is the maximum chunk length passed to the tagger in one
// request. Longer texts are split on word boundaries.
const DefaultChunkSize = 1337

// Chunk splits text into pieces of at most size runes, breaking on word
// boundaries so no word is cut in half. A single word longer than size is
// emitted as its own chunk.
func Chunk(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := len([]rune(word))
		if currentLen > 0 && currentLen+1+wordLen > size {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// MeaningfulProportion returns the fraction of non-space runes that are
// letters, digits or punctuation. Scanned pages that OCR to noise score low.
func MeaningfulProportion(text string) float64 {
	total := 0
	meaningful := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r) {
			meaningful++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(meaningful) / float64(total)
}

// IsMeaningful reports whether text clears the minimum content gate.
func IsMeaningful(text string, minProportion float64) bool {
	return MeaningfulProportion(text) >= minProportion
}
