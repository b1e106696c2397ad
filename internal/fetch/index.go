// Package fetch downloads disclosure publications from a government
// publication index: the JSON index itself, each publication's page and the
// PDF documents it links to.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Publication is one entry from the publication index.
type Publication struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}

type indexResponse struct {
	TotalCount int           `json:"totalcount"`
	Results    []Publication `json:"results"`
}

// FetchIndex retrieves the publication index and returns its entries. It
// fails when the number of results does not match the reported totalcount,
// which means the index was paginated or truncated.
func (c *Client) FetchIndex(ctx context.Context, indexURL string) ([]Publication, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create index request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index returned status %d", resp.StatusCode)
	}

	var index indexResponse
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	if len(index.Results) != index.TotalCount {
		return nil, fmt.Errorf("index returned %d results but reports totalcount %d",
			len(index.Results), index.TotalCount)
	}
	return index.Results, nil
}
