// Package recognition coordinates feature extraction, vector search,
// candidate scoring, threshold-based selection, and per-request logging
// behind the single public entry point Orchestrator.Recognize.
package recognition

import (
	"context"
	"fmt"
	"time"

	"github.com/Vishal4742/sonica/internal/apierror"
	"github.com/Vishal4742/sonica/internal/fingerprint"
	"github.com/Vishal4742/sonica/internal/logger"
	"github.com/Vishal4742/sonica/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// streamChunkSize bounds how much of a streaming upload is handed to the
// decoder before recognize_streaming delegates to the ordinary path.
const streamChunkSize = 1 << 20 // 1 MiB

// AudioDecoder produces a peak-list fingerprint from compressed audio
// bytes. Implemented outside this package (see internal/audio); this
// orchestrator treats it as an external collaborator.
type AudioDecoder interface {
	GenerateFingerprint(ctx context.Context, audioBytes []byte) (*fingerprint.Fingerprint, error)
}

// VectorIndex is the subset of internal/vectorindex.Client the
// orchestrator depends on.
type VectorIndex interface {
	Query(ctx context.Context, vector models.Embedding, topK int, filter map[string]string, namespace string) ([]models.VectorMatch, error)
	Stats(ctx context.Context) (*models.IndexStats, error)
}

// Catalogue is the subset of internal/catalogue.Catalogue the
// orchestrator depends on.
type Catalogue interface {
	GetSong(ctx context.Context, id string) (*models.SongRecord, error)
	LogRecognition(ctx context.Context, userID, requestID, songID string, confidence float64, processingTimeMs int64) error
	LogRecognitionError(ctx context.Context, userID, requestID string, procErr error, processingTimeMs int64) error
	GetRecognitionStats(ctx context.Context) (*models.RecognitionStats, error)
	Health(ctx context.Context) bool
}

// Config holds the tunables spec.md names for the recognition path.
type Config struct {
	Dimensions     int
	Threshold      float64
	MaxCandidates  int
}

// Orchestrator implements the recognition pipeline: audio -> fingerprint
// -> embedding -> ANN query -> threshold filter -> catalogue lookup ->
// RecognitionResult | NoMatch.
type Orchestrator struct {
	decoder   AudioDecoder
	vector    VectorIndex
	catalogue Catalogue
	cfg       Config
}

// New constructs an Orchestrator. Decoder, vector index and catalogue are
// explicitly constructed collaborators, not process-wide globals — they
// are handed in once at wiring time so tests can substitute fakes.
func New(decoder AudioDecoder, vector VectorIndex, catalogue Catalogue, cfg Config) *Orchestrator {
	return &Orchestrator{decoder: decoder, vector: vector, catalogue: catalogue, cfg: cfg}
}

// Recognize runs one request through the full pipeline. A nil result
// with a nil error means NoMatch — a well-formed outcome, not a system
// error. userID may be empty for anonymous recognition requests; it is
// only used for history attribution.
func (o *Orchestrator) Recognize(ctx context.Context, audioBytes []byte, language, userID, requestID string) (*models.RecognitionResult, error) {
	start := time.Now()

	result, procErr := o.recognizeOnce(ctx, audioBytes, language)
	elapsedMs := time.Since(start).Milliseconds()

	o.logOutcome(ctx, userID, requestID, result, procErr, elapsedMs)

	return result, procErr
}

// RecognizeStreaming chunks the input into 1 MiB blocks and delegates to
// Recognize on the first block only — streaming recognition should
// return as soon as enough signal exists; later blocks are a higher
// layer's responsibility, which may re-issue the call.
func (o *Orchestrator) RecognizeStreaming(ctx context.Context, audioBytes []byte, language, userID, requestID string) (*models.RecognitionResult, error) {
	chunk := audioBytes
	if len(chunk) > streamChunkSize {
		chunk = chunk[:streamChunkSize]
	}
	return o.Recognize(ctx, chunk, language, userID, requestID)
}

func (o *Orchestrator) recognizeOnce(ctx context.Context, audioBytes []byte, language string) (*models.RecognitionResult, error) {
	start := time.Now()

	fp, err := o.decoder.GenerateFingerprint(ctx, audioBytes)
	if err != nil {
		return nil, apierror.AudioProcessingFailure(err.Error())
	}

	queryVec := fingerprint.Project(*fp, o.cfg.Dimensions)

	var filter map[string]string
	if language != "" {
		filter = map[string]string{"language": language}
	}

	candidates, err := o.vector.Query(ctx, queryVec, o.cfg.MaxCandidates, filter, "")
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	var best *models.RecognitionResult
	bestScore := 0.0

	for _, candidate := range candidates {
		if candidate.Score <= o.cfg.Threshold {
			continue
		}
		if candidate.Score <= bestScore {
			continue
		}

		songID, err := uuid.Parse(candidate.Metadata.SongID)
		if err != nil {
			logger.Log.Warn("skipping candidate with invalid song id in metadata",
				zap.String("vector_id", candidate.ID),
				zap.String("raw_song_id", candidate.Metadata.SongID),
			)
			continue
		}

		song, err := o.catalogue.GetSong(ctx, songID.String())
		if err != nil {
			logger.Log.Warn("skipping dangling vector entry",
				zap.String("song_id", songID.String()),
				zap.Float64("score", candidate.Score),
			)
			continue
		}

		bestScore = candidate.Score
		best = &models.RecognitionResult{
			Song:             models.SongInfoFromRecord(song),
			Confidence:       candidate.Score,
			MatchType:        models.MatchTypeVectorSimilarity,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}
	}

	return best, nil
}

func (o *Orchestrator) logOutcome(ctx context.Context, userID, requestID string, result *models.RecognitionResult, procErr error, elapsedMs int64) {
	var logErr error
	switch {
	case procErr != nil:
		logErr = o.catalogue.LogRecognitionError(ctx, userID, requestID, procErr, elapsedMs)
	case result != nil:
		logErr = o.catalogue.LogRecognition(ctx, userID, requestID, result.Song.ID, result.Confidence, elapsedMs)
	default:
		// NoMatch is a well-formed outcome, not a processing exception,
		// but it is still worth an error-shaped log entry — it surfaces
		// to the HTTP layer as RecognitionFailed.
		logErr = o.catalogue.LogRecognitionError(ctx, userID, requestID, apierror.RecognitionFailed(""), elapsedMs)
	}

	if logErr != nil {
		logger.Log.Error("failed to write recognition log entry",
			zap.String("request_id", requestID),
			zap.Error(logErr),
		)
	}
}

// Stats merges catalogue-side recognition counters with vector index
// stats (vector count, dimension, fullness), restoring the behaviour the distilled contract dropped from
// the original recognition_service.get_recognition_stats.
func (o *Orchestrator) Stats(ctx context.Context) (*models.RecognitionStats, error) {
	stats, err := o.catalogue.GetRecognitionStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalogue stats: %w", err)
	}

	if vecStats, err := o.vector.Stats(ctx); err == nil {
		stats.VectorIndex = vecStats
	} else {
		logger.Log.Warn("vector index stats unavailable for recognition stats merge", zap.Error(err))
	}

	return stats, nil
}
