// Package vectorindex is a thin, concurrency-safe client over a hosted
// Pinecone-style vector backend: upsert, query, delete, stats, health.
// It owns payload shape, batching, filter construction and the single
// long-lived HTTP connection pool; it never retries — retry policy, if
// any, belongs to a caller.
package vectorindex

import (
	"context"
	"fmt"
	"time"

	"github.com/Vishal4742/sonica/internal/apierror"
	"github.com/Vishal4742/sonica/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	// maxUpsertBatch is the backend's hard limit on vectors per upsert
	// request; larger upsert calls are chunked into batches of this size.
	maxUpsertBatch = 100

	// defaultTimeout bounds every outbound call unless the caller passes
	// a context with its own (shorter) deadline.
	defaultTimeout = 30 * time.Second
)

// Client is a process-wide vector backend client, built once by New.
// Safe for concurrent use: the underlying resty.Client manages its own
// connection pool and carries no mutable per-request state.
type Client struct {
	http      *resty.Client
	indexName string
}

// Config holds the connection parameters for a vector backend index.
type Config struct {
	APIKey      string
	Environment string
	IndexName   string
	BaseURL     string // e.g. https://{index}.svc.{environment}.pinecone.io
	Timeout     time.Duration
}

// New constructs a Client with its own HTTP connection pool. Intended to
// be constructed once per process and shared across all recognition and
// ingestion requests.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Api-Key", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{http: http, indexName: cfg.IndexName}
}

// upsertRequest mirrors the backend's /vectors/upsert body.
type upsertRequest struct {
	Vectors   []wireVector `json:"vectors"`
	Namespace string       `json:"namespace,omitempty"`
}

type wireVector struct {
	ID       string                 `json:"id"`
	Values   []float64              `json:"values"`
	Metadata map[string]interface{} `json:"metadata"`
}

// NewEntry builds a VectorEntry ready for upsert: it assigns the
// deterministic id and keeps the caller-supplied metadata, setting its
// song id, a fresh fingerprint id and the current wall clock over
// whatever the caller put in those fields.
func NewEntry(songID string, embedding models.Embedding, meta models.VectorMetadata) models.VectorEntry {
	meta.SongID = songID
	meta.FingerprintID = uuid.New().String()
	meta.CreatedAt = time.Now()

	return models.VectorEntry{
		ID:       models.VectorEntryID(songID),
		Values:   []float64(embedding),
		Metadata: meta,
	}
}

// Upsert writes entries to the index, idempotent with respect to id (a
// re-upsert replaces). Batches larger than maxUpsertBatch are split into
// sequential chunks; if any chunk fails the error surfaces immediately
// and later chunks are not attempted, so a bulk upsert may be partially
// applied on failure.
func (c *Client) Upsert(ctx context.Context, entries []models.VectorEntry, namespace string) error {
	for start := 0; start < len(entries); start += maxUpsertBatch {
		end := start + maxUpsertBatch
		if end > len(entries) {
			end = len(entries)
		}
		if err := c.upsertChunk(ctx, entries[start:end], namespace); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertChunk(ctx context.Context, chunk []models.VectorEntry, namespace string) error {
	vectors := make([]wireVector, len(chunk))
	for i, e := range chunk {
		vectors[i] = wireVector{
			ID:       e.ID,
			Values:   e.Values,
			Metadata: metadataToMap(e.Metadata),
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(upsertRequest{Vectors: vectors, Namespace: namespace}).
		Post("/vectors/upsert")

	if err := wireError(resp, err); err != nil {
		return err
	}
	return nil
}

// queryRequest mirrors the backend's /query body.
type queryRequest struct {
	Vector          []float64              `json:"vector"`
	TopK            int                    `json:"top_k"`
	IncludeMetadata bool                   `json:"include_metadata"`
	Namespace       string                 `json:"namespace,omitempty"`
	Filter          map[string]interface{} `json:"filter,omitempty"`
}

type queryResponse struct {
	Matches []wireMatch `json:"matches"`
}

type wireMatch struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Query returns up to topK matches ordered by score descending. filter is
// an equality conjunction over metadata fields (today: language, genre);
// a nil or empty filter matches everything.
func (c *Client) Query(ctx context.Context, vector models.Embedding, topK int, filter map[string]string, namespace string) ([]models.VectorMatch, error) {
	var wireFilter map[string]interface{}
	if len(filter) > 0 {
		wireFilter = make(map[string]interface{}, len(filter))
		for k, v := range filter {
			wireFilter[k] = v
		}
	}

	var out queryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(queryRequest{
			Vector:          []float64(vector),
			TopK:            topK,
			IncludeMetadata: true,
			Namespace:       namespace,
			Filter:          wireFilter,
		}).
		SetResult(&out).
		Post("/query")

	if err := wireError(resp, err); err != nil {
		return nil, err
	}

	matches := make([]models.VectorMatch, len(out.Matches))
	for i, m := range out.Matches {
		matches[i] = models.VectorMatch{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: metadataFromMap(m.Metadata),
		}
	}
	return matches, nil
}

// deleteRequest mirrors the backend's /vectors/delete body.
type deleteRequest struct {
	IDs       []string `json:"ids"`
	Namespace string   `json:"namespace,omitempty"`
}

// Delete removes entries by id. Deleting an id that doesn't exist is not
// an error.
func (c *Client) Delete(ctx context.Context, ids []string, namespace string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(deleteRequest{IDs: ids, Namespace: namespace}).
		Post("/vectors/delete")

	return wireError(resp, err)
}

type statsResponse struct {
	TotalVectorCount int     `json:"total_vector_count"`
	Dimension        int     `json:"dimension"`
	IndexFullness    float64 `json:"index_fullness"`
}

// Stats reports index-level counters.
func (c *Client) Stats(ctx context.Context) (*models.IndexStats, error) {
	var out statsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Post("/describe_index_stats")

	if err := wireError(resp, err); err != nil {
		return nil, err
	}
	return &models.IndexStats{
		TotalVectorCount: out.TotalVectorCount,
		Dimension:        out.Dimension,
		IndexFullness:    out.IndexFullness,
	}, nil
}

// Health reports true iff Stats succeeds.
func (c *Client) Health(ctx context.Context) bool {
	_, err := c.Stats(ctx)
	return err == nil
}

// wireError maps transport errors and non-2xx responses to a single
// VectorBackendError, per the client's failure contract — no partial
// success or status-code-specific handling is exposed to callers.
func wireError(resp *resty.Response, err error) error {
	if err != nil {
		return apierror.VectorBackendError(err.Error())
	}
	if resp != nil && resp.IsError() {
		return apierror.VectorBackendError(fmt.Sprintf("vector backend returned %s: %s", resp.Status(), resp.String()))
	}
	return nil
}

func metadataToMap(m models.VectorMetadata) map[string]interface{} {
	out := map[string]interface{}{
		"song_id":        m.SongID,
		"fingerprint_id": m.FingerprintID,
		"created_at":     m.CreatedAt.Format(time.RFC3339),
	}
	if m.Title != "" {
		out["title"] = m.Title
	}
	if m.Artist != "" {
		out["artist"] = m.Artist
	}
	if m.Language != "" {
		out["language"] = m.Language
	}
	if m.Genre != "" {
		out["genre"] = m.Genre
	}
	if m.Album != "" {
		out["album"] = m.Album
	}
	if m.PopularityScore != 0 {
		out["popularity_score"] = m.PopularityScore
	}
	return out
}

func metadataFromMap(m map[string]interface{}) models.VectorMetadata {
	get := func(k string) string {
		if v, ok := m[k].(string); ok {
			return v
		}
		return ""
	}
	created, _ := time.Parse(time.RFC3339, get("created_at"))
	popularity := 0.0
	if v, ok := m["popularity_score"].(float64); ok {
		popularity = v
	}
	return models.VectorMetadata{
		SongID:          get("song_id"),
		FingerprintID:   get("fingerprint_id"),
		CreatedAt:       created,
		Title:           get("title"),
		Artist:          get("artist"),
		Language:        get("language"),
		Genre:           get("genre"),
		Album:           get("album"),
		PopularityScore: popularity,
	}
}
