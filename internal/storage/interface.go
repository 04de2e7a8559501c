package storage

import "context"

// AudioBlobStore persists the raw clip submitted at ingestion, keyed by
// song id, so a reconciler or downstream consumer can fetch the source
// audio later. Entirely optional in the ingestion orchestrator — when no
// implementation is wired, ingestion proceeds without it.
type AudioBlobStore interface {
	UploadAudio(ctx context.Context, audioData []byte, songID, originalFilename string) (url string, err error)
}

// Ensure S3Uploader implements AudioBlobStore.
var _ AudioBlobStore = (*S3Uploader)(nil)
