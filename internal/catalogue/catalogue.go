// Package catalogue is the narrow interface onto durable song metadata:
// song lookup, song creation, recognition logging, paginated history, and
// aggregate stats. Nothing outside this package talks to gorm directly
// for these entities.
package catalogue

import (
	"context"
	"errors"
	"time"

	"github.com/Vishal4742/sonica/internal/models"
	"gorm.io/gorm"
)

// ErrSongNotFound is returned by GetSong when no row matches the id.
var ErrSongNotFound = errors.New("song not found")

// ErrRecognitionNotFound is returned by DeleteRecognitionHistory when the
// entry doesn't exist or isn't owned by the caller.
var ErrRecognitionNotFound = errors.New("recognition entry not found")

// Catalogue is the song catalogue client contract. Implementations MUST
// scope GetRecognitionHistory and DeleteRecognitionHistory by the given
// userID server-side — a client-supplied id alone is never sufficient
// (authorisation invariant A1).
type Catalogue interface {
	GetSong(ctx context.Context, id string) (*models.SongRecord, error)
	CreateSong(ctx context.Context, song *models.SongRecord) (string, error)

	LogRecognition(ctx context.Context, userID, requestID, songID string, confidence float64, processingTimeMs int64) error
	LogRecognitionError(ctx context.Context, userID, requestID string, procErr error, processingTimeMs int64) error

	GetRecognitionHistory(ctx context.Context, userID string, limit, offset int) ([]models.RecognitionLogEntry, error)
	DeleteRecognitionHistory(ctx context.Context, recognitionID, userID string) error

	GetRecognitionStats(ctx context.Context) (*models.RecognitionStats, error)
	Health(ctx context.Context) bool
}

// gormCatalogue implements Catalogue over a gorm.DB (Postgres in
// production, SQLite for local development and tests).
type gormCatalogue struct {
	db *gorm.DB
}

// New constructs a Catalogue backed by the given database connection.
func New(db *gorm.DB) Catalogue {
	return &gormCatalogue{db: db}
}

// GetSong fetches a SongRecord by id, or ErrSongNotFound if absent.
func (c *gormCatalogue) GetSong(ctx context.Context, id string) (*models.SongRecord, error) {
	var song models.SongRecord
	err := c.db.WithContext(ctx).Where("id = ?", id).First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

// CreateSong inserts a new SongRecord, assigning a fresh id if the caller
// didn't already set one, and returns that id.
func (c *gormCatalogue) CreateSong(ctx context.Context, song *models.SongRecord) (string, error) {
	if err := c.db.WithContext(ctx).Create(song).Error; err != nil {
		return "", err
	}
	return song.ID, nil
}

// LogRecognition appends a successful recognition log entry.
func (c *gormCatalogue) LogRecognition(ctx context.Context, userID, requestID, songID string, confidence float64, processingTimeMs int64) error {
	entry := models.RecognitionLogEntry{
		UserID:           userID,
		RequestID:        requestID,
		SongID:           &songID,
		Confidence:       &confidence,
		ProcessingTimeMs: processingTimeMs,
		Timestamp:        time.Now(),
	}
	return c.db.WithContext(ctx).Create(&entry).Error
}

// LogRecognitionError appends a failed recognition log entry. procErr may
// be nil, in which case the entry carries no error text and
// GetRecognitionStats counts it as successful; the recognition
// orchestrator logs a NoMatch with a non-nil RecognitionFailed error.
func (c *gormCatalogue) LogRecognitionError(ctx context.Context, userID, requestID string, procErr error, processingTimeMs int64) error {
	var msg *string
	if procErr != nil {
		s := procErr.Error()
		msg = &s
	}
	entry := models.RecognitionLogEntry{
		UserID:           userID,
		RequestID:        requestID,
		Error:            msg,
		ProcessingTimeMs: processingTimeMs,
		Timestamp:        time.Now(),
	}
	return c.db.WithContext(ctx).Create(&entry).Error
}

// GetRecognitionHistory returns this user's recognition attempts, most
// recent first, scoped server-side by userID.
func (c *gormCatalogue) GetRecognitionHistory(ctx context.Context, userID string, limit, offset int) ([]models.RecognitionLogEntry, error) {
	var entries []models.RecognitionLogEntry
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

// DeleteRecognitionHistory deletes one log entry after verifying the
// caller owns it; returns ErrRecognitionNotFound otherwise (including
// when the entry exists but belongs to a different user — this must not
// leak which is the case).
func (c *gormCatalogue) DeleteRecognitionHistory(ctx context.Context, recognitionID, userID string) error {
	result := c.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recognitionID, userID).
		Delete(&models.RecognitionLogEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecognitionNotFound
	}
	return nil
}

// GetRecognitionStats aggregates counts, rates and latencies across all
// recognition attempts. Vector-index stats are merged in separately by
// internal/recognition.Orchestrator.Stats.
func (c *gormCatalogue) GetRecognitionStats(ctx context.Context) (*models.RecognitionStats, error) {
	var total, failed int64

	if err := c.db.WithContext(ctx).Model(&models.RecognitionLogEntry{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := c.db.WithContext(ctx).Model(&models.RecognitionLogEntry{}).
		Where("error IS NOT NULL").Count(&failed).Error; err != nil {
		return nil, err
	}

	var avgLatency float64
	row := c.db.WithContext(ctx).Model(&models.RecognitionLogEntry{}).
		Select("COALESCE(AVG(processing_time_ms), 0)").Row()
	_ = row.Scan(&avgLatency)

	successful := total - failed
	stats := &models.RecognitionStats{
		TotalRecognitions:      total,
		SuccessfulRecognitions: successful,
		FailedRecognitions:     failed,
		AverageLatencyMs:       avgLatency,
	}
	if total > 0 {
		stats.SuccessRate = float64(successful) / float64(total)
	}
	return stats, nil
}

// Health reports whether the catalogue's backing store is reachable.
func (c *gormCatalogue) Health(ctx context.Context) bool {
	sqlDB, err := c.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
