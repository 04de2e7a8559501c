package vectorindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Vishal4742/sonica/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{APIKey: "test-key", IndexName: "songs", BaseURL: srv.URL})
}

func TestUpsert_ChunksAt100(t *testing.T) {
	var chunkSizes []int
	var upsertCalls int32

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Api-Key"))
		var body upsertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		chunkSizes = append(chunkSizes, len(body.Vectors))
		atomic.AddInt32(&upsertCalls, 1)
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, handler)

	entries := make([]models.VectorEntry, 250)
	for i := range entries {
		entries[i] = NewEntry("song-id", models.Embedding{1, 2, 3}, models.VectorMetadata{})
	}

	err := client.Upsert(context.Background(), entries, "")
	require.NoError(t, err)

	assert.Equal(t, int32(3), upsertCalls)
	assert.Equal(t, []int{100, 100, 50}, chunkSizes)
}

func TestUpsert_StopsAfterFirstChunkFailure(t *testing.T) {
	var calls int32

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, handler)

	entries := make([]models.VectorEntry, 150)
	for i := range entries {
		entries[i] = NewEntry("song-id", models.Embedding{1}, models.VectorMetadata{})
	}

	err := client.Upsert(context.Background(), entries, "")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls)
}

func TestNewEntry_IDIsDeterministic(t *testing.T) {
	e := NewEntry("abc-123", models.Embedding{0.1, 0.2}, models.VectorMetadata{Title: "Song"})

	assert.Equal(t, "fingerprint_abc-123", e.ID)
	assert.Equal(t, "abc-123", e.Metadata.SongID)
	assert.NotEmpty(t, e.Metadata.FingerprintID)
	assert.False(t, e.Metadata.CreatedAt.IsZero())
}

func TestQuery_OrdersAndDecodesMetadata(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		var body queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.IncludeMetadata)
		assert.Equal(t, "hi", body.Filter["language"])

		resp := queryResponse{Matches: []wireMatch{
			{ID: "fingerprint_s1", Score: 0.95, Metadata: map[string]interface{}{"song_id": "s1"}},
			{ID: "fingerprint_s2", Score: 0.80, Metadata: map[string]interface{}{"song_id": "s2"}},
		}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	client := newTestClient(t, handler)
	matches, err := client.Query(context.Background(), models.Embedding{0.1, 0.2}, 5, map[string]string{"language": "hi"}, "")

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "s1", matches[0].Metadata.SongID)
	assert.Equal(t, 0.95, matches[0].Score)
}

func TestStatsAndHealth(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/describe_index_stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statsResponse{TotalVectorCount: 42, Dimension: 1024, IndexFullness: 0.01})
	})

	client := newTestClient(t, handler)
	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.TotalVectorCount)
	assert.True(t, client.Health(context.Background()))
}

func TestHealth_FalseOnBackendError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := newTestClient(t, handler)
	assert.False(t, client.Health(context.Background()))
}

func TestDelete_MissingIDsIsNotAnError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/delete", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, handler)
	err := client.Delete(context.Background(), []string{"fingerprint_does-not-exist"}, "")
	assert.NoError(t, err)
}
