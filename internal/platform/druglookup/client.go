package druglookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Drug is a single medication entry from the NDC directory.
type Drug struct {
	ProductNDC  string   `json:"product_ndc"`
	BrandName   string   `json:"brand_name"`
	GenericName string   `json:"generic_name"`
	DosageForm  string   `json:"dosage_form"`
	Route       []string `json:"route,omitempty"`
	LabelerName string   `json:"labeler_name,omitempty"`
}

type ndcResponse struct {
	Results []Drug `json:"results"`
}

// Client queries the openFDA National Drug Code directory.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a drug directory client for the given base URL
// (typically https://api.fda.gov/drug/ndc.json).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Search looks up drugs whose brand or generic name matches the query.
// The openFDA API answers 404 for empty result sets; that case is
// returned as an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Drug, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	params := url.Values{}
	params.Set("search", fmt.Sprintf("brand_name:%q+generic_name:%q", query, query))
	params.Set("limit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building drug search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying drug directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []Drug{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("drug directory returned status %d", resp.StatusCode)
	}

	var out ndcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding drug directory response: %w", err)
	}
	return out.Results, nil
}
