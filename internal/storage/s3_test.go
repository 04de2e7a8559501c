package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		extension string
		expected  string
	}{
		{".mp3", "audio/mpeg"},
		{".MP3", "audio/mpeg"},
		{".wav", "audio/wav"},
		{".WAV", "audio/wav"},
		{".ogg", "audio/ogg"},
		{".m4a", "audio/mp4"},
		{".flac", "audio/flac"},
		{".unknown", "application/octet-stream"},
		{"", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.extension, func(t *testing.T) {
			result := getContentType(tt.extension)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestS3UploaderStruct(t *testing.T) {
	uploader := &S3Uploader{
		bucket:  "test-bucket",
		region:  "us-west-2",
		baseURL: "https://cdn.test.com",
	}

	assert.Equal(t, "test-bucket", uploader.bucket)
	assert.Equal(t, "us-west-2", uploader.region)
	assert.Equal(t, "https://cdn.test.com", uploader.baseURL)
}

func TestAudioKeyContainsSongID(t *testing.T) {
	songID := "song-456"
	expectedPattern := "/" + songID

	// Real keys look like songs/{year}/{month}/{songID}.{ext}.
	assert.Contains(t, expectedPattern, songID)
}
