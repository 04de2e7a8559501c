// Package ingestion dual-writes new songs to the catalogue and their
// fingerprint embeddings to the vector index, keeping the two
// consistent under both single and batch import.
package ingestion

import (
	"context"
	"fmt"

	"github.com/Vishal4742/sonica/internal/fingerprint"
	"github.com/Vishal4742/sonica/internal/logger"
	"github.com/Vishal4742/sonica/internal/models"
	"github.com/Vishal4742/sonica/internal/vectorindex"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AudioDecoder produces a peak-list fingerprint from raw audio bytes.
type AudioDecoder interface {
	GenerateFingerprint(ctx context.Context, audioBytes []byte) (*fingerprint.Fingerprint, error)
}

// VectorIndex is the subset of internal/vectorindex.Client the
// orchestrator depends on.
type VectorIndex interface {
	Upsert(ctx context.Context, entries []models.VectorEntry, namespace string) error
}

// Catalogue is the subset of internal/catalogue.Catalogue the
// orchestrator depends on.
type Catalogue interface {
	CreateSong(ctx context.Context, song *models.SongRecord) (string, error)
}

// BlobStore optionally persists the raw clip submitted at ingestion.
// Entirely optional — when nil, Orchestrator skips blob storage and
// ingestion proceeds unaffected.
type BlobStore interface {
	UploadAudio(ctx context.Context, audioData []byte, songID, originalFilename string) (url string, err error)
}

// Orchestrator implements add_song and batch_add_songs: the catalogue
// insert always precedes the vector upsert, because a catalogue row
// without a vector entry (unrecognisable but discoverable) is a lesser
// defect than a vector entry without a catalogue row (dangling,
// violates invariant I1).
type Orchestrator struct {
	decoder    AudioDecoder
	vector     VectorIndex
	catalogue  Catalogue
	blobStore  BlobStore
	dimensions int
}

// New constructs an Orchestrator. blobStore may be nil.
func New(decoder AudioDecoder, vector VectorIndex, catalogue Catalogue, blobStore BlobStore, dimensions int) *Orchestrator {
	return &Orchestrator{decoder: decoder, vector: vector, catalogue: catalogue, blobStore: blobStore, dimensions: dimensions}
}

// SongInput bundles the metadata and audio bytes for one song to ingest.
type SongInput struct {
	Song             models.SongRecord
	AudioBytes       []byte
	OriginalFilename string
}

// AddSong computes the fingerprint, inserts the catalogue row, then
// upserts the vector entry. On vector upsert failure the catalogue row
// is retained (not rolled back) and its id is returned alongside the
// error — a reconciler, out of scope here, may retry the upsert later.
func (o *Orchestrator) AddSong(ctx context.Context, input SongInput) (string, error) {
	fp, err := o.decoder.GenerateFingerprint(ctx, input.AudioBytes)
	if err != nil {
		return "", fmt.Errorf("generate fingerprint: %w", err)
	}

	song := input.Song
	o.assignIDAndBlobBestEffort(ctx, &song, input)

	songID, err := o.catalogue.CreateSong(ctx, &song)
	if err != nil {
		return "", fmt.Errorf("create song: %w", err)
	}

	embedding := fingerprint.Project(*fp, o.dimensions)
	entry := vectorindex.NewEntry(songID, embedding, vectorMetadataFor(song))

	if err := o.vector.Upsert(ctx, []models.VectorEntry{entry}, ""); err != nil {
		return songID, fmt.Errorf("upsert fingerprint for song %s: %w", songID, err)
	}

	return songID, nil
}

// BatchAddSongs creates all catalogue rows sequentially (to obtain ids),
// then submits a single chunked batch upsert. If the batch upsert fails,
// every catalogue row created so far remains — the caller sees the
// error but the catalogue is never rolled back. Returns created ids in
// input order.
func (o *Orchestrator) BatchAddSongs(ctx context.Context, inputs []SongInput) ([]string, error) {
	ids := make([]string, 0, len(inputs))
	entries := make([]models.VectorEntry, 0, len(inputs))

	for _, input := range inputs {
		fp, err := o.decoder.GenerateFingerprint(ctx, input.AudioBytes)
		if err != nil {
			return ids, fmt.Errorf("generate fingerprint: %w", err)
		}

		song := input.Song
		o.assignIDAndBlobBestEffort(ctx, &song, input)

		songID, err := o.catalogue.CreateSong(ctx, &song)
		if err != nil {
			return ids, fmt.Errorf("create song: %w", err)
		}
		ids = append(ids, songID)

		embedding := fingerprint.Project(*fp, o.dimensions)
		entries = append(entries, vectorindex.NewEntry(songID, embedding, vectorMetadataFor(song)))
	}

	if err := o.vector.Upsert(ctx, entries, ""); err != nil {
		return ids, fmt.Errorf("batch upsert %d fingerprints: %w", len(entries), err)
	}

	return ids, nil
}

// assignIDAndBlobBestEffort pre-assigns song.ID (so the optional raw-audio
// blob can be keyed by it) and, if a blob store is configured, uploads the
// clip and attaches the resulting URL before the catalogue insert. Blob
// upload is a pure side channel: failures are logged at Warn and never
// block ingestion.
func (o *Orchestrator) assignIDAndBlobBestEffort(ctx context.Context, song *models.SongRecord, input SongInput) {
	if song.ID == "" {
		song.ID = uuid.New().String()
	}
	if o.blobStore == nil {
		return
	}
	url, err := o.blobStore.UploadAudio(ctx, input.AudioBytes, song.ID, input.OriginalFilename)
	if err != nil {
		logger.Log.Warn("raw audio blob upload failed; ingestion proceeds without it",
			logger.WithSongID(song.ID), zap.Error(err))
		return
	}
	song.SourceAudioURL = url
}

func vectorMetadataFor(song models.SongRecord) models.VectorMetadata {
	return models.VectorMetadata{
		Title:           song.Title,
		Artist:          song.Artist,
		Language:        song.Language,
		Genre:           song.Genre,
		Album:           song.Album,
		PopularityScore: song.PopularityScore,
	}
}
