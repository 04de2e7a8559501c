// Package audio defines the boundary between compressed/raw audio bytes
// and the peak-list fingerprint the recognition core consumes. The
// production decoder is an external collaborator (out of scope for this
// core, per spec); this package only defines the interface plus one
// reference implementation meant for local development and tests.
package audio

import (
	"context"

	"github.com/Vishal4742/sonica/internal/fingerprint"
)

// Decoder turns raw audio bytes into a peak-list Fingerprint. Both the
// recognition and ingestion orchestrators depend on this interface, not
// on any concrete decoder — production deployments are expected to wire
// in a decoder backed by a real spectral/MFCC pipeline.
type Decoder interface {
	GenerateFingerprint(ctx context.Context, audioBytes []byte) (*fingerprint.Fingerprint, error)
}
