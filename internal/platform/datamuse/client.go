// Package datamuse provides a client for the Datamuse word-association API
// used to expand vocabulary suggestions beyond the core set.
package datamuse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Datamuse endpoint.
const DefaultBaseURL = "https://api.datamuse.com"

// Result filtering: candidate words must be simple enough for an early
// communicator (single tokens under ten characters), and at most ten are
// returned per lookup.
const (
	requestMax    = 15
	maxCandidates = 10
	maxWordLength = 10
)

// requestTimeout bounds each lookup; a slow upstream degrades to an empty
// candidate list rather than stalling the suggestion flow.
const requestTimeout = 3 * time.Second

// Client queries Datamuse for semantically related words. Requests are
// rate-limited to stay polite toward the public API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a Datamuse client. An empty baseURL selects the public
// endpoint. If logger is nil, the default logger is used.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		logger:     logger.With(slog.String("component", "datamuse")),
	}
}

// datamuseWord is one entry of the Datamuse response.
type datamuseWord struct {
	Word  string `json:"word"`
	Score int    `json:"score,omitempty"`
}

// RelatedWords returns up to ten simple words semantically related to topic.
// An optional trigger word refines the results. Lookup failures return an
// error with no candidates; callers treat the lookup as best-effort.
func (c *Client) RelatedWords(ctx context.Context, topic, trigger string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("ml", topic)
	params.Set("max", fmt.Sprintf("%d", requestMax))
	if trigger != "" {
		params.Set("rel_trg", trigger)
	}

	reqURL := c.baseURL + "/words?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build datamuse request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("datamuse request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("datamuse returned status %d", resp.StatusCode)
	}

	var words []datamuseWord
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		return nil, fmt.Errorf("decode datamuse response: %w", err)
	}

	return filterCandidates(words), nil
}

// filterCandidates keeps simple single-token words, preserving the API's
// relevance order.
func filterCandidates(words []datamuseWord) []string {
	candidates := make([]string, 0, maxCandidates)
	for _, w := range words {
		if strings.Contains(w.Word, " ") || len(w.Word) >= maxWordLength {
			continue
		}
		candidates = append(candidates, w.Word)
		if len(candidates) == maxCandidates {
			break
		}
	}
	return candidates
}
