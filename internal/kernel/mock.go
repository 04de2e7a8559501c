package kernel

import (
	"github.com/Vishal4742/sonica/internal/audio"
	"github.com/Vishal4742/sonica/internal/auth"
	"github.com/Vishal4742/sonica/internal/cache"
	"github.com/Vishal4742/sonica/internal/catalogue"
	"github.com/Vishal4742/sonica/internal/ingestion"
	"github.com/Vishal4742/sonica/internal/recognition"
	"github.com/Vishal4742/sonica/internal/storage"
	"github.com/Vishal4742/sonica/internal/vectorindex"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockKernel is a kernel designed for testing. It allows easy
// overriding of dependencies with test doubles (mocks, stubs, fakes).
type MockKernel struct {
	*Kernel
}

// NewMock creates a new mock kernel with no dependencies registered;
// tests wire in exactly the doubles a given handler needs via the
// WithMock* fluent setters.
func NewMock() *MockKernel {
	return &MockKernel{Kernel: New()}
}

// WithMockDB sets the database for testing.
func (m *MockKernel) WithMockDB(db *gorm.DB) *MockKernel {
	m.SetDB(db)
	return m
}

// WithMockLogger sets a test logger.
func (m *MockKernel) WithMockLogger(l *zap.Logger) *MockKernel {
	m.SetLogger(l)
	return m
}

// WithMockCache sets a mock cache.
func (m *MockKernel) WithMockCache(c *cache.RedisClient) *MockKernel {
	m.SetCache(c)
	return m
}

// WithMockVectorIndex sets a mock vector index client.
func (m *MockKernel) WithMockVectorIndex(client *vectorindex.Client) *MockKernel {
	m.SetVectorIndex(client)
	return m
}

// WithMockCatalogue sets a mock song catalogue.
func (m *MockKernel) WithMockCatalogue(c catalogue.Catalogue) *MockKernel {
	m.SetCatalogue(c)
	return m
}

// WithMockS3Uploader sets a mock S3 uploader.
func (m *MockKernel) WithMockS3Uploader(uploader *storage.S3Uploader) *MockKernel {
	m.SetS3Uploader(uploader)
	return m
}

// WithMockAuthService sets a mock auth service.
func (m *MockKernel) WithMockAuthService(service *auth.Service) *MockKernel {
	m.SetAuthService(service)
	return m
}

// WithMockDecoder sets a mock audio decoder.
func (m *MockKernel) WithMockDecoder(d audio.Decoder) *MockKernel {
	m.SetDecoder(d)
	return m
}

// WithMockRecognizer sets a mock recognition orchestrator.
func (m *MockKernel) WithMockRecognizer(o *recognition.Orchestrator) *MockKernel {
	m.SetRecognizer(o)
	return m
}

// WithMockIngester sets a mock ingestion orchestrator.
func (m *MockKernel) WithMockIngester(o *ingestion.Orchestrator) *MockKernel {
	m.SetIngester(o)
	return m
}
