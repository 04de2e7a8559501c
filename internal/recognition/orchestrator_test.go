package recognition

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

type fakeDecoder struct {
	fp  *fingerprint.Fingerprint
	err error
}

func (f *fakeDecoder) GenerateFingerprint(ctx context.Context, audioBytes []byte) (*fingerprint.Fingerprint, error) {
	return f.fp, f.err
}

type fakeVectorIndex struct {
	matches []models.VectorMatch
	err     error
	stats   *models.IndexStats
}

func (f *fakeVectorIndex) Query(ctx context.Context, vector models.Embedding, topK int, filter map[string]string, namespace string) ([]models.VectorMatch, error) {
	return f.matches, f.err
}

func (f *fakeVectorIndex) Stats(ctx context.Context) (*models.IndexStats, error) {
	return f.stats, nil
}

type fakeCatalogue struct {
	songs          map[string]*models.SongRecord
	loggedSuccess  int
	loggedError    int
	lastLoggedErr  error
	stats          *models.RecognitionStats
}

func newFakeCatalogue() *fakeCatalogue {
	return &fakeCatalogue{songs: map[string]*models.SongRecord{}}
}

func (f *fakeCatalogue) GetSong(ctx context.Context, id string) (*models.SongRecord, error) {
	if s, ok := f.songs[id]; ok {
		return s, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeCatalogue) LogRecognition(ctx context.Context, userID, requestID, songID string, confidence float64, processingTimeMs int64) error {
	f.loggedSuccess++
	return nil
}

func (f *fakeCatalogue) LogRecognitionError(ctx context.Context, userID, requestID string, procErr error, processingTimeMs int64) error {
	f.loggedError++
	f.lastLoggedErr = procErr
	return nil
}

func (f *fakeCatalogue) GetRecognitionStats(ctx context.Context) (*models.RecognitionStats, error) {
	return f.stats, nil
}

func (f *fakeCatalogue) Health(ctx context.Context) bool { return true }

func testFingerprint() *fingerprint.Fingerprint {
	return &fingerprint.Fingerprint{
		Peaks:    []fingerprint.Peak{{Frequency: 1000, Time: 1, Magnitude: 1}},
		Metadata: fingerprint.Metadata{Duration: 3},
	}
}

func TestRecognize_ThresholdBelowFloor(t *testing.T) {
	s1, s2 := uuid.New().String(), uuid.New().String()
	cat := newFakeCatalogue()
	cat.songs[s1] = &models.SongRecord{ID: s1, Title: "One"}
	cat.songs[s2] = &models.SongRecord{ID: s2, Title: "Two"}

	vec := &fakeVectorIndex{matches: []models.VectorMatch{
		{ID: "fingerprint_" + s1, Score: 0.79, Metadata: models.VectorMetadata{SongID: s1}},
		{ID: "fingerprint_" + s2, Score: 0.75, Metadata: models.VectorMetadata{SongID: s2}},
	}}

	orch := New(&fakeDecoder{fp: testFingerprint()}, vec, cat, Config{Dimensions: 33, Threshold: 0.8, MaxCandidates: 10})

	result, err := orch.Recognize(context.Background(), []byte("clip"), "", "", "req-1")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, cat.loggedError)
}

func TestRecognize_TieBreakByOrdering(t *testing.T) {
	s1, s2 := uuid.New().String(), uuid.New().String()
	cat := newFakeCatalogue()
	cat.songs[s1] = &models.SongRecord{ID: s1, Title: "First"}
	cat.songs[s2] = &models.SongRecord{ID: s2, Title: "Second"}

	vec := &fakeVectorIndex{matches: []models.VectorMatch{
		{ID: "fingerprint_" + s1, Score: 0.9, Metadata: models.VectorMetadata{SongID: s1}},
		{ID: "fingerprint_" + s2, Score: 0.9, Metadata: models.VectorMetadata{SongID: s2}},
	}}

	orch := New(&fakeDecoder{fp: testFingerprint()}, vec, cat, Config{Dimensions: 33, Threshold: 0.5, MaxCandidates: 10})

	result, err := orch.Recognize(context.Background(), []byte("clip"), "", "", "req-2")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, s1, result.Song.ID)
	assert.Equal(t, 1, cat.loggedSuccess)
}

func TestRecognize_DanglingVectorEntry(t *testing.T) {
	missing := uuid.New().String()
	present := uuid.New().String()
	cat := newFakeCatalogue()
	cat.songs[present] = &models.SongRecord{ID: present, Title: "Present"}

	vec := &fakeVectorIndex{matches: []models.VectorMatch{
		{ID: "fingerprint_" + missing, Score: 0.95, Metadata: models.VectorMetadata{SongID: missing}},
		{ID: "fingerprint_" + present, Score: 0.80, Metadata: models.VectorMetadata{SongID: present}},
	}}

	orch := New(&fakeDecoder{fp: testFingerprint()}, vec, cat, Config{Dimensions: 33, Threshold: 0.5, MaxCandidates: 10})

	result, err := orch.Recognize(context.Background(), []byte("clip"), "", "", "req-3")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, present, result.Song.ID)
	assert.InDelta(t, 0.80, result.Confidence, 0.0001)
}

func TestRecognize_EmptyCandidatesIsNoMatch(t *testing.T) {
	cat := newFakeCatalogue()
	vec := &fakeVectorIndex{matches: nil}

	orch := New(&fakeDecoder{fp: testFingerprint()}, vec, cat, Config{Dimensions: 33, Threshold: 0.5, MaxCandidates: 10})

	result, err := orch.Recognize(context.Background(), []byte("clip"), "", "", "req-4")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRecognize_VectorBackendFailureSurfaces(t *testing.T) {
	cat := newFakeCatalogue()
	vec := &fakeVectorIndex{err: errors.New("connection reset")}

	orch := New(&fakeDecoder{fp: testFingerprint()}, vec, cat, Config{Dimensions: 33, Threshold: 0.5, MaxCandidates: 10})

	result, err := orch.Recognize(context.Background(), []byte("clip"), "", "", "req-5")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, cat.loggedError)
}

func TestRecognize_InvalidSongIDInMetadataIsSkipped(t *testing.T) {
	valid := uuid.New().String()
	cat := newFakeCatalogue()
	cat.songs[valid] = &models.SongRecord{ID: valid, Title: "Valid"}

	vec := &fakeVectorIndex{matches: []models.VectorMatch{
		{ID: "fingerprint_bad", Score: 0.99, Metadata: models.VectorMetadata{SongID: "not-a-uuid"}},
		{ID: "fingerprint_" + valid, Score: 0.85, Metadata: models.VectorMetadata{SongID: valid}},
	}}

	orch := New(&fakeDecoder{fp: testFingerprint()}, vec, cat, Config{Dimensions: 33, Threshold: 0.5, MaxCandidates: 10})

	result, err := orch.Recognize(context.Background(), []byte("clip"), "", "", "req-6")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, valid, result.Song.ID)
}

func TestRecognizeStreaming_DelegatesToFirstChunk(t *testing.T) {
	s1 := uuid.New().String()
	cat := newFakeCatalogue()
	cat.songs[s1] = &models.SongRecord{ID: s1, Title: "Streamed"}
	vec := &fakeVectorIndex{matches: []models.VectorMatch{
		{ID: "fingerprint_" + s1, Score: 0.9, Metadata: models.VectorMetadata{SongID: s1}},
	}}

	orch := New(&fakeDecoder{fp: testFingerprint()}, vec, cat, Config{Dimensions: 33, Threshold: 0.5, MaxCandidates: 10})

	big := make([]byte, 3<<20) // 3 MiB, larger than the 1 MiB chunk
	result, err := orch.RecognizeStreaming(context.Background(), big, "", "", "req-7")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, s1, result.Song.ID)
}
