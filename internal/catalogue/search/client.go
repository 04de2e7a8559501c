// Package search is an Elasticsearch-backed full-text index over the
// song catalogue: boosted title/artist/album text match plus an exact
// genre filter, surfaced as a supplemental discovery endpoint.
// It is never on the recognition path — recognition always resolves
// through the vector index.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Vishal4742/sonica/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

// IndexSongs is the single index this package maintains.
const IndexSongs = "songs"

// Client wraps the Elasticsearch client with song-catalogue search.
type Client struct {
	es *elasticsearch.Client
}

// NewClient creates a new Elasticsearch client against the given URL.
func NewClient(url string) (*Client, error) {
	cfg := elasticsearch.Config{Addresses: []string{url}}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	if _, err := es.Info(); err != nil {
		return nil, fmt.Errorf("failed to connect to elasticsearch: %w", err)
	}

	return &Client{es: es}, nil
}

// InitializeIndex creates the songs index with its mapping if absent.
func (c *Client) InitializeIndex(ctx context.Context) error {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{"type": "keyword"},
				"title": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{"type": "keyword"},
					},
				},
				"artist": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{"type": "keyword"},
					},
				},
				"album":            map[string]interface{}{"type": "text", "analyzer": "standard"},
				"genre":            map[string]interface{}{"type": "keyword"},
				"language":         map[string]interface{}{"type": "keyword"},
				"popularity_score": map[string]interface{}{"type": "float"},
				"created_at":       map[string]interface{}{"type": "date"},
			},
		},
	}

	return c.createIndex(ctx, IndexSongs, mapping)
}

func (c *Client) createIndex(ctx context.Context, name string, mapping map[string]interface{}) error {
	res, err := c.es.Indices.Exists([]string{name})
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	res, err = c.es.Indices.Create(name,
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return decodeErrResp(res.Body, res.Status(), "creating index")
	}
	return nil
}

// IndexSong upserts a song document into the search index.
func (c *Client) IndexSong(ctx context.Context, song *models.SongRecord) error {
	doc := map[string]interface{}{
		"id":               song.ID,
		"title":            song.Title,
		"artist":           song.Artist,
		"album":            song.Album,
		"genre":            song.Genre,
		"language":         song.Language,
		"popularity_score": song.PopularityScore,
		"created_at":       song.CreatedAt,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal song document: %w", err)
	}

	res, err := c.es.Index(IndexSongs, bytes.NewReader(body),
		c.es.Index.WithDocumentID(song.ID),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index song: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return decodeErrResp(res.Body, res.Status(), "indexing song")
	}
	return nil
}

// DeleteSong removes a song document from the search index. A 404 is
// treated as success since the desired end state already holds.
func (c *Client) DeleteSong(ctx context.Context, songID string) error {
	res, err := c.es.Delete(IndexSongs, songID, c.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return decodeErrResp(res.Body, res.Status(), "deleting song")
	}
	return nil
}

// SongHit is a single search result.
type SongHit struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	Album           string  `json:"album"`
	Genre           string  `json:"genre"`
	Language        string  `json:"language"`
	PopularityScore float64 `json:"popularity_score"`
	Score           float64 `json:"score"`
}

// SongSearchResult is the paginated result of SearchSongs.
type SongSearchResult struct {
	Songs []SongHit `json:"songs"`
	Total int       `json:"total"`
}

// SearchSongs performs a boosted title/artist/album text match,
// optionally narrowed by an exact genre filter.
func (c *Client) SearchSongs(ctx context.Context, query, genre string, limit, offset int) (*SongSearchResult, error) {
	should := []map[string]interface{}{
		{"match": map[string]interface{}{"title": map[string]interface{}{"query": query, "boost": 2.0, "fuzziness": "AUTO"}}},
		{"match": map[string]interface{}{"artist": map[string]interface{}{"query": query, "boost": 1.5, "fuzziness": "AUTO"}}},
		{"match": map[string]interface{}{"album": map[string]interface{}{"query": query, "boost": 1.0, "fuzziness": "AUTO"}}},
	}

	boolQuery := map[string]interface{}{
		"should":               should,
		"minimum_should_match": 1,
	}
	if genre != "" {
		boolQuery["filter"] = []map[string]interface{}{
			{"term": map[string]interface{}{"genre": genre}},
		}
	}

	searchBody := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"size":  limit,
		"from":  offset,
	}

	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(IndexSongs),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search songs: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeErrResp(res.Body, res.Status(), "searching songs")
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source SongHit `json:"_source"`
				Score  float64 `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	result := &SongSearchResult{Total: parsed.Hits.Total.Value}
	for _, hit := range parsed.Hits.Hits {
		song := hit.Source
		song.Score = hit.Score
		result.Songs = append(result.Songs, song)
	}
	return result, nil
}

// Health reports whether Elasticsearch answers a cluster info request.
func (c *Client) Health(ctx context.Context) bool {
	res, err := c.es.Info(c.es.Info.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

func decodeErrResp(body io.Reader, status, action string) error {
	var errResp map[string]interface{}
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		return fmt.Errorf("error response [%s] while %s", status, action)
	}
	return fmt.Errorf("error %s: [%s] %v", action, status, errResp["error"])
}
