// Package ocr wraps the Tesseract engine (via gosseract) for the commands
// that read scanned pages. Tesseract must be installed on the system;
// on Debian/Ubuntu: apt-get install tesseract-ocr tesseract-ocr-nld.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Config holds the Tesseract settings shared by the OCR commands.
type Config struct {
	// Language is the Tesseract language code ("nld", "eng", or "eng+nld").
	Language string
	// PageSegMode selects the layout analysis mode. The per-cell pipeline
	// uses SingleBlock; single-line region reads use SingleLine.
	PageSegMode gosseract.PageSegMode
	// Whitelist restricts recognized characters when non-empty.
	Whitelist string
}

// DefaultConfig returns the settings used for Dutch disclosure scans.
func DefaultConfig() Config {
	return Config{
		Language:    "nld",
		PageSegMode: gosseract.PSM_SINGLE_BLOCK,
	}
}

// Client is a configured Tesseract client. Not safe for concurrent use;
// every command here runs a single sequential pass.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client with the given configuration. Close the client
// when done to release Tesseract resources.
func New(cfg Config) (*Client, error) {
	client := gosseract.NewClient()

	if cfg.Language != "" {
		langs := strings.Split(cfg.Language, "+")
		if err := client.SetLanguage(langs...); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to set OCR language %q: %w", cfg.Language, err)
		}
	}
	if err := client.SetPageSegMode(cfg.PageSegMode); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if cfg.Whitelist != "" {
		if err := client.SetWhitelist(cfg.Whitelist); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to set character whitelist: %w", err)
		}
	}
	return &Client{client: client}, nil
}

// Close releases Tesseract resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Text recognizes the text on an image, trimmed of surrounding whitespace.
func (c *Client) Text(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return c.TextFromBytes(data)
}

// TextFromBytes recognizes text on already-encoded image data (PNG, JPEG, TIFF).
func (c *Client) TextFromBytes(data []byte) (string, error) {
	if err := c.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Word is a single recognized word with its pixel bounding box.
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// Words recognizes the image and returns word-level bounding boxes.
func (c *Client) Words(img image.Image) ([]Word, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	if err := c.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{
			Text:       strings.TrimSpace(b.Word),
			Box:        b.Box,
			Confidence: b.Confidence,
		})
	}
	return words, nil
}

// EncodePNG serializes an image to PNG bytes for handoff to Tesseract.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
