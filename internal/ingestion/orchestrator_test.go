package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/Vishal4742/sonica/internal/fingerprint"
	"github.com/Vishal4742/sonica/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDecoder struct{}

func (fakeDecoder) GenerateFingerprint(ctx context.Context, audioBytes []byte) (*fingerprint.Fingerprint, error) {
	return &fingerprint.Fingerprint{
		Peaks:    []fingerprint.Peak{{Frequency: 500, Time: 1, Magnitude: 2}},
		Metadata: fingerprint.Metadata{Duration: 4},
	}, nil
}

type fakeVectorIndex struct {
	upsertErr  error
	upserted   []models.VectorEntry
	upsertCall int
}

func (f *fakeVectorIndex) Upsert(ctx context.Context, entries []models.VectorEntry, namespace string) error {
	f.upsertCall++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, entries...)
	return nil
}

func (f *fakeVectorIndex) Query(ctx context.Context, vector models.Embedding, topK int, filter map[string]string, namespace string) ([]models.VectorMatch, error) {
	for _, e := range f.upserted {
		return []models.VectorMatch{{ID: e.ID, Score: 1.0, Metadata: e.Metadata}}, nil
	}
	return nil, nil
}

type fakeCatalogue struct {
	created map[string]*models.SongRecord
}

func newFakeCatalogue() *fakeCatalogue {
	return &fakeCatalogue{created: map[string]*models.SongRecord{}}
}

func (f *fakeCatalogue) CreateSong(ctx context.Context, song *models.SongRecord) (string, error) {
	if song.ID == "" {
		song.ID = uuid.New().String()
	}
	f.created[song.ID] = song
	return song.ID, nil
}

func (f *fakeCatalogue) GetSong(ctx context.Context, id string) (*models.SongRecord, error) {
	if s, ok := f.created[id]; ok {
		return s, nil
	}
	return nil, errors.New("not found")
}

func TestAddSong_CatalogueBeforeVector(t *testing.T) {
	cat := newFakeCatalogue()
	vec := &fakeVectorIndex{}

	orch := New(fakeDecoder{}, vec, cat, nil, 33)

	songID, err := orch.AddSong(context.Background(), SongInput{
		Song:       models.SongRecord{Title: "Tum Hi Ho", Artist: "Arijit Singh"},
		AudioBytes: []byte("clip"),
	})

	require.NoError(t, err)
	require.NotEmpty(t, songID)
	assert.Contains(t, cat.created, songID)
	require.Len(t, vec.upserted, 1)
	assert.Equal(t, songID, vec.upserted[0].Metadata.SongID)
}

func TestAddSong_OrderingUnderVectorFailure(t *testing.T) {
	cat := newFakeCatalogue()
	vec := &fakeVectorIndex{upsertErr: errors.New("backend unavailable")}

	orch := New(fakeDecoder{}, vec, cat, nil, 33)

	songID, err := orch.AddSong(context.Background(), SongInput{
		Song:       models.SongRecord{Title: "Raabta"},
		AudioBytes: []byte("clip"),
	})

	require.Error(t, err)
	require.NotEmpty(t, songID)

	got, getErr := cat.GetSong(context.Background(), songID)
	require.NoError(t, getErr)
	require.NotNil(t, got)

	// The vector index still raised VectorBackendError and was never
	// populated (the orchestrator doesn't retry within one call).
	assert.Empty(t, vec.upserted)
}

func TestBatchAddSongs_SingleChunkedUpsertAtEnd(t *testing.T) {
	cat := newFakeCatalogue()
	vec := &fakeVectorIndex{}

	orch := New(fakeDecoder{}, vec, cat, nil, 33)

	inputs := []SongInput{
		{Song: models.SongRecord{Title: "A"}, AudioBytes: []byte("a")},
		{Song: models.SongRecord{Title: "B"}, AudioBytes: []byte("b")},
		{Song: models.SongRecord{Title: "C"}, AudioBytes: []byte("c")},
	}

	ids, err := orch.BatchAddSongs(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, 1, vec.upsertCall)
	assert.Len(t, vec.upserted, 3)

	for _, id := range ids {
		assert.Contains(t, cat.created, id)
	}
}

func TestBatchAddSongs_CatalogueRowsRetainedOnBatchUpsertFailure(t *testing.T) {
	cat := newFakeCatalogue()
	vec := &fakeVectorIndex{upsertErr: errors.New("batch rejected")}

	orch := New(fakeDecoder{}, vec, cat, nil, 33)

	inputs := []SongInput{
		{Song: models.SongRecord{Title: "A"}, AudioBytes: []byte("a")},
		{Song: models.SongRecord{Title: "B"}, AudioBytes: []byte("b")},
	}

	ids, err := orch.BatchAddSongs(context.Background(), inputs)
	require.Error(t, err)
	require.Len(t, ids, 2)
	assert.Len(t, cat.created, 2)
}
