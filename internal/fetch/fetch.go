package fetch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// SkipMarker is the filename that, when present in a publication directory,
// stops its PDFs from being downloaded again.
const SkipMarker = "skip"

// Config controls a fetch run.
type Config struct {
	IndexURL string
	BaseURL  string
	OutDir   string
	Timeout  time.Duration
}

// Client downloads publications and their documents.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a fetch client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}
}

// Run fetches the publication index, writes titles.csv and then processes
// every publication. Failures on individual publications or documents are
// logged and do not abort the run.
func (c *Client) Run(ctx context.Context) error {
	publications, err := c.FetchIndex(ctx, c.cfg.IndexURL)
	if err != nil {
		return err
	}
	c.logger.Info("fetched publication index", "count", len(publications))

	if err := os.MkdirAll(c.cfg.OutDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := c.writeTitlesCSV(publications); err != nil {
		return err
	}

	for _, pub := range publications {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := c.processPublication(ctx, pub); err != nil {
			c.logger.Warn("failed to process publication", "link", pub.Link, "error", err)
		}
	}
	return nil
}

func (c *Client) writeTitlesCSV(publications []Publication) error {
	path := filepath.Join(c.cfg.OutDir, "titles.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Link", "Title"}); err != nil {
		return fmt.Errorf("failed to write titles header: %w", err)
	}
	for _, pub := range publications {
		if err := w.Write([]string{pub.Link, pub.Title}); err != nil {
			return fmt.Errorf("failed to write titles row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// processPublication creates the publication's directory, records its title,
// scrapes its page for PDF links and downloads each document.
func (c *Client) processPublication(ctx context.Context, pub Publication) error {
	slug := PublicationSlug(pub.Link)
	if slug == "" {
		return fmt.Errorf("cannot derive directory name from link %q", pub.Link)
	}

	dir := filepath.Join(c.cfg.OutDir, slug)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	titlePath := filepath.Join(dir, "title.txt")
	if err := os.WriteFile(titlePath, []byte(pub.Title+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", titlePath, err)
	}

	pageURL, err := url.JoinPath(c.cfg.BaseURL, pub.Link)
	if err != nil {
		return fmt.Errorf("failed to build page URL: %w", err)
	}
	links, err := c.ScrapePDFLinks(ctx, pageURL)
	if err != nil {
		return err
	}
	c.logger.Info("publication scraped", "slug", slug, "pdfs", len(links))

	listPath := filepath.Join(dir, "pdfs.txt")
	if err := os.WriteFile(listPath, []byte(strings.Join(links, "\n")+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", listPath, err)
	}

	if _, err := os.Stat(filepath.Join(dir, SkipMarker)); err == nil {
		c.logger.Info("skip marker present, not downloading", "slug", slug)
		return nil
	}

	for _, link := range links {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := c.downloadPDF(ctx, dir, link); err != nil {
			c.logger.Warn("download failed", "url", link, "error", err)
		}
	}
	return nil
}

// downloadPDF fetches one document into dir, skipping files that already
// exist on disk.
func (c *Client) downloadPDF(ctx context.Context, dir, pdfURL string) error {
	parsed, err := url.Parse(pdfURL)
	if err != nil {
		return fmt.Errorf("invalid PDF URL %s: %w", pdfURL, err)
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "/" || name == "." {
		return fmt.Errorf("cannot derive filename from %s", pdfURL)
	}

	target := filepath.Join(dir, name)
	if _, err := os.Stat(target); err == nil {
		c.logger.Debug("already downloaded", "file", target)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	tmp := target + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", target, err)
	}
	c.logger.Info("downloaded", "file", target)
	return nil
}

// PublicationSlug derives a directory name from a publication link by taking
// its last non-empty path segment.
func PublicationSlug(link string) string {
	trimmed := strings.Trim(link, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	return parts[len(parts)-1]
}
