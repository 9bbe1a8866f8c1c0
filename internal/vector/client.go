// internal/vector/client.go
// HTTP client for the Qdrant vector-similarity service.
// Only the two calls the matching engine needs: nearest-neighbor
// search and single-point retrieval.

package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxErrorBodyBytes = 1024

var (
	// ErrNotFound is returned when a point (profile embedding) does
	// not exist in the collection.
	ErrNotFound = errors.New("vector not found")
)

// Client talks to a single Qdrant collection.
type Client struct {
	baseURL    string
	collection string
	http       *http.Client
}

// SearchResult is one nearest-neighbor hit.
type SearchResult struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Point is a stored vector with its payload.
type Point struct {
	ID      string                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Status json.RawMessage `json:"status"`
	Time   float64         `json:"time"`
}

func NewClient(baseURL, collection string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Search runs a nearest-neighbor query and returns hits ordered by
// similarity. Payloads and vectors stay server-side; callers only
// need IDs and scores.
func (c *Client) Search(ctx context.Context, vec []float32, limit int, filter *Filter) ([]SearchResult, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("query vector is required")
	}
	if limit <= 0 {
		limit = 10
	}

	req := map[string]interface{}{
		"vector":       vec,
		"limit":        limit,
		"with_payload": false,
		"with_vector":  false,
	}
	if body := filter.Body(); body != nil {
		req["filter"] = body
	}

	var results []struct {
		ID    json.RawMessage `json:"id"`
		Score float64         `json:"score"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.collectionPath("/points/search"), req, &results); err != nil {
		return nil, err
	}

	out := make([]SearchResult, 0, len(results))
	for _, item := range results {
		id := decodePointID(item.ID)
		if id == "" {
			continue
		}
		out = append(out, SearchResult{
			ID:    id,
			Score: item.Score,
		})
	}
	return out, nil
}

// Retrieve fetches a single point including its stored vector.
// Returns ErrNotFound when the point does not exist.
func (c *Client) Retrieve(ctx context.Context, id string) (*Point, error) {
	var result struct {
		ID      json.RawMessage        `json:"id"`
		Vector  []float32              `json:"vector"`
		Payload map[string]interface{} `json:"payload"`
	}

	path := c.collectionPath("/points/" + id)
	err := c.doJSON(ctx, http.MethodGet, path, nil, &result)
	if err != nil {
		return nil, err
	}
	if len(result.Vector) == 0 {
		return nil, ErrNotFound
	}

	return &Point{
		ID:      decodePointID(result.ID),
		Vector:  result.Vector,
		Payload: result.Payload,
	}, nil
}

func (c *Client) collectionPath(suffix string) string {
	return "/collections/" + c.collection + suffix
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant status=%d body=%q", resp.StatusCode, truncateBody(raw))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode qdrant envelope: %w", err)
	}

	if out == nil || len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("failed to decode qdrant result: %w", err)
	}
	return nil
}

// decodePointID handles both string (UUID) and numeric point IDs.
func decodePointID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return fmt.Sprintf("%d", n)
	}
	return strings.TrimSpace(string(raw))
}

func truncateBody(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}
