package models

import "time"

// MatchTypeVectorSimilarity is the only match_type this core produces
// today; kept as a named constant so the wire value and any future
// match strategies stay in one place.
const MatchTypeVectorSimilarity = "vector_similarity"

// RecognitionResult is the system's answer to "what song is this clip?".
type RecognitionResult struct {
	Song              SongInfo `json:"song"`
	Confidence        float64  `json:"confidence"`
	MatchType         string   `json:"match_type"`
	ProcessingTimeMs  int64    `json:"processing_time_ms"`
}

// RecognitionLogEntry is an append-only record of one recognition
// attempt, successful or not. Never mutated after being written.
type RecognitionLogEntry struct {
	ID               string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID           string    `gorm:"index" json:"user_id,omitempty"`
	RequestID        string    `gorm:"index" json:"request_id"`
	SongID           *string   `gorm:"index" json:"song_id,omitempty"`
	Confidence       *float64  `json:"confidence,omitempty"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	Error            *string   `json:"error,omitempty"`
	Timestamp        time.Time `gorm:"index" json:"timestamp"`
}

// RecognitionStats summarises recognition activity, merging catalogue-side
// counters with vector-index stats for the stats endpoint.
type RecognitionStats struct {
	TotalRecognitions      int64         `json:"total_recognitions"`
	SuccessfulRecognitions int64         `json:"successful_recognitions"`
	FailedRecognitions     int64         `json:"failed_recognitions"`
	SuccessRate            float64       `json:"success_rate"`
	AverageLatencyMs       float64       `json:"average_latency_ms"`
	VectorIndex            *IndexStats   `json:"vector_index,omitempty"`
}

// HealthStatus is the aggregated result of internal/kernel.Kernel.HealthCheck.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Catalogue ComponentHealth `json:"catalogue"`
	Vector    ComponentHealth `json:"vector_index"`
	Audio     ComponentHealth `json:"audio"`
}

// ComponentHealth is the per-dependency slice of a HealthStatus.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}
