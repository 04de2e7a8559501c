// Package models defines the catalogue and recognition entities persisted
// and exchanged across the recognition core.
package models

import (
	"time"

	"gorm.io/gorm"
)

// SongRecord is the durable catalogue entity for one indexed song.
// Immutable after creation as far as this core is concerned — only the
// catalogue layer mutates it, and the recognition/ingestion
// orchestrators never write to it directly except via CreateSong.
type SongRecord struct {
	ID              string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title           string  `gorm:"not null;index" json:"title"`
	Artist          string  `gorm:"not null;index" json:"artist"`
	Album           string  `json:"album"`
	Genre           string  `gorm:"index" json:"genre"`
	Language        string  `gorm:"index" json:"language"`
	Duration        float64 `json:"duration"` // seconds
	ReleaseDate     *time.Time `json:"release_date"`
	PopularityScore float64    `gorm:"default:0" json:"popularity_score"`

	// ExternalIDs holds upstream catalogue identifiers (ISRC, provider
	// track ids, ...) as a flat JSON object; we don't model the schema
	// of every possible provider here.
	ExternalIDs ExternalIDs `gorm:"type:jsonb;serializer:json" json:"external_ids,omitempty"`

	// SourceAudioURL is set when the raw clip submitted at ingestion
	// was persisted to blob storage (optional; see internal/storage).
	SourceAudioURL string `json:"source_audio_url,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ExternalIDs is a loosely-typed bag of third-party catalogue
// identifiers, keyed by provider name (e.g. "isrc", "spotify").
type ExternalIDs map[string]string

// SongInfo is the read-facing projection of a SongRecord returned inside
// a RecognitionResult — deliberately narrower than the full catalogue
// row.
type SongInfo struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	Album           string  `json:"album"`
	Genre           string  `json:"genre"`
	Language        string  `json:"language"`
	Duration        float64 `json:"duration"`
	PopularityScore float64 `json:"popularity_score"`
}

// SongInfoFromRecord projects a catalogue row down to the shape exposed
// in recognition results.
func SongInfoFromRecord(s *SongRecord) SongInfo {
	return SongInfo{
		ID:              s.ID,
		Title:           s.Title,
		Artist:          s.Artist,
		Album:           s.Album,
		Genre:           s.Genre,
		Language:        s.Language,
		Duration:        s.Duration,
		PopularityScore: s.PopularityScore,
	}
}
