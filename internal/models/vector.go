package models

import (
	"time"

	"github.com/Vishal4742/sonica/internal/fingerprint"
)

// Embedding is the fixed-length vector stored in, and queried against,
// the vector index; it is the type fingerprint.Project produces.
type Embedding = fingerprint.Embedding

// VectorEntry is the shape stored in, and returned by, the vector index.
// Its Id is a deterministic function of SongID ("fingerprint_" + SongID),
// which enforces at most one entry per song (invariant I2).
type VectorEntry struct {
	ID       string         `json:"id"`
	Values   []float64      `json:"values"`
	Metadata VectorMetadata `json:"metadata"`
}

// VectorMetadata rides along with a VectorEntry so query results can be
// resolved back to a song without a catalogue round trip in the common
// case (though the orchestrator still authoritatively re-fetches the
// SongRecord — see internal/recognition).
type VectorMetadata struct {
	SongID        string    `json:"song_id"`
	FingerprintID string    `json:"fingerprint_id"`
	CreatedAt     time.Time `json:"created_at"`
	Title         string    `json:"title,omitempty"`
	Artist        string    `json:"artist,omitempty"`
	Language      string    `json:"language,omitempty"`
	Genre         string    `json:"genre,omitempty"`
	Album         string    `json:"album,omitempty"`
	PopularityScore float64 `json:"popularity_score,omitempty"`
}

// VectorMatch is one scored result from a vector index query, ordered by
// Score descending by the backend's contract.
type VectorMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata VectorMetadata `json:"metadata"`
}

// IndexStats mirrors the vector backend's describe_index_stats response.
type IndexStats struct {
	TotalVectorCount int     `json:"total_vector_count"`
	Dimension        int     `json:"dimension"`
	IndexFullness    float64 `json:"index_fullness"`
}

// VectorEntryID computes the deterministic vector-index id for a song.
func VectorEntryID(songID string) string {
	return "fingerprint_" + songID
}
