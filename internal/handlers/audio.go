package handlers

import (
	"path/filepath"
	"strings"

	"github.com/Vishal4742/sonica/internal/apierror"
)

// supportedAudioExtensions are the upload formats this service accepts
// for both recognition and ingestion.
var supportedAudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".flac": true,
}

// validateAudioUpload checks the upload's size and extension before it
// ever reaches the decoder. It does not check duration: the handler's
// minDuration and maxDuration are not consulted here or anywhere else,
// so clips outside those bounds are not rejected. The only
// duration-related rejection is the reference decoder failing on a clip
// with fewer samples than one FFT window.
func (h *Handlers) validateAudioUpload(filename string, size int64) *apierror.APIError {
	if size > h.maxAudioSize {
		return apierror.InvalidAudioFormat(filename, supportedExtensionList())
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedAudioExtensions[ext] {
		return apierror.InvalidAudioFormat(ext, supportedExtensionList())
	}

	return nil
}

func supportedExtensionList() []string {
	exts := make([]string, 0, len(supportedAudioExtensions))
	for ext := range supportedAudioExtensions {
		exts = append(exts, ext)
	}
	return exts
}
