// Package kernel provides dependency injection management for the
// recognition service. It consolidates all services and provides
// type-safe access to dependencies.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Vishal4742/sonica/internal/audio"
	"github.com/Vishal4742/sonica/internal/auth"
	"github.com/Vishal4742/sonica/internal/cache"
	"github.com/Vishal4742/sonica/internal/catalogue"
	"github.com/Vishal4742/sonica/internal/catalogue/search"
	"github.com/Vishal4742/sonica/internal/ingestion"
	"github.com/Vishal4742/sonica/internal/logger"
	"github.com/Vishal4742/sonica/internal/recognition"
	"github.com/Vishal4742/sonica/internal/storage"
	"github.com/Vishal4742/sonica/internal/vectorindex"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InitializationError reports one or more missing required dependencies
// discovered by Kernel.Validate.
type InitializationError struct {
	Message string
	Missing []string
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Missing)
}

// NewInitializationError constructs an InitializationError.
func NewInitializationError(message string, missing []string) error {
	return &InitializationError{Message: message, Missing: missing}
}

// Kernel holds all application dependencies and provides type-safe
// access. It implements the Service Locator pattern with additional
// lifecycle management.
type Kernel struct {
	// Core infrastructure
	db     *gorm.DB
	logger *zap.Logger
	cache  *cache.RedisClient

	// Domain clients
	vectorIndex *vectorindex.Client
	catalogue   catalogue.Catalogue
	search      *search.Client
	s3          *storage.S3Uploader
	auth        *auth.Service

	// Audio processing
	decoder audio.Decoder

	// Orchestrators
	recognizer *recognition.Orchestrator
	ingester   *ingestion.Orchestrator

	// Lifecycle hooks
	cleanupFuncs []func(context.Context) error
	mu           sync.RWMutex
}

// New creates a new empty kernel. Services should be registered using
// Set* methods.
func New() *Kernel {
	return &Kernel{
		cleanupFuncs: make([]func(context.Context) error, 0),
	}
}

// ============================================================================
// CORE INFRASTRUCTURE SETTERS/GETTERS
// ============================================================================

// SetDB registers the database connection.
func (k *Kernel) SetDB(db *gorm.DB) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.db = db
	return k
}

// DB returns the database connection.
func (k *Kernel) DB() *gorm.DB {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.db
}

// SetLogger registers the logger.
func (k *Kernel) SetLogger(l *zap.Logger) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.logger = l
	return k
}

// Logger returns the logger instance.
func (k *Kernel) Logger() *zap.Logger {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.logger == nil {
		return logger.Log
	}
	return k.logger
}

// SetCache registers the Redis cache client.
func (k *Kernel) SetCache(client *cache.RedisClient) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cache = client
	return k
}

// Cache returns the Redis cache client.
func (k *Kernel) Cache() *cache.RedisClient {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.cache
}

// ============================================================================
// DOMAIN CLIENT SETTERS/GETTERS
// ============================================================================

// SetVectorIndex registers the vector index client.
func (k *Kernel) SetVectorIndex(client *vectorindex.Client) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.vectorIndex = client
	return k
}

// VectorIndex returns the vector index client.
func (k *Kernel) VectorIndex() *vectorindex.Client {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.vectorIndex
}

// SetCatalogue registers the song catalogue client.
func (k *Kernel) SetCatalogue(c catalogue.Catalogue) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.catalogue = c
	return k
}

// Catalogue returns the song catalogue client.
func (k *Kernel) Catalogue() catalogue.Catalogue {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.catalogue
}

// SetSearchClient registers the Elasticsearch full-text search client.
func (k *Kernel) SetSearchClient(client *search.Client) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.search = client
	return k
}

// Search returns the Elasticsearch full-text search client.
func (k *Kernel) Search() *search.Client {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.search
}

// SetS3Uploader registers the S3 audio blob uploader.
func (k *Kernel) SetS3Uploader(uploader *storage.S3Uploader) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.s3 = uploader
	return k
}

// S3 returns the S3 audio blob uploader.
func (k *Kernel) S3() *storage.S3Uploader {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.s3
}

// SetAuthService registers the authentication service.
func (k *Kernel) SetAuthService(service *auth.Service) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.auth = service
	return k
}

// Auth returns the authentication service.
func (k *Kernel) Auth() *auth.Service {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.auth
}

// ============================================================================
// AUDIO PROCESSING SETTERS/GETTERS
// ============================================================================

// SetDecoder registers the audio fingerprint decoder.
func (k *Kernel) SetDecoder(d audio.Decoder) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.decoder = d
	return k
}

// Decoder returns the audio fingerprint decoder.
func (k *Kernel) Decoder() audio.Decoder {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.decoder
}

// ============================================================================
// ORCHESTRATOR SETTERS/GETTERS
// ============================================================================

// SetRecognizer registers the recognition orchestrator.
func (k *Kernel) SetRecognizer(o *recognition.Orchestrator) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.recognizer = o
	return k
}

// Recognizer returns the recognition orchestrator.
func (k *Kernel) Recognizer() *recognition.Orchestrator {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.recognizer
}

// SetIngester registers the ingestion orchestrator.
func (k *Kernel) SetIngester(o *ingestion.Orchestrator) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ingester = o
	return k
}

// Ingester returns the ingestion orchestrator.
func (k *Kernel) Ingester() *ingestion.Orchestrator {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.ingester
}

// ============================================================================
// LIFECYCLE MANAGEMENT
// ============================================================================

// OnCleanup registers a cleanup function to be called during shutdown.
// Cleanup functions are called in LIFO order (last registered, first
// cleaned up), which ensures proper dependency ordering during shutdown.
func (k *Kernel) OnCleanup(fn func(context.Context) error) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cleanupFuncs = append(k.cleanupFuncs, fn)
	return k
}

// Cleanup performs graceful shutdown of all registered services,
// calling cleanup functions in reverse order of registration.
func (k *Kernel) Cleanup(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for i := len(k.cleanupFuncs) - 1; i >= 0; i-- {
		if err := k.cleanupFuncs[i](ctx); err != nil {
			k.Logger().Error("cleanup function failed", zap.Int("index", i), zap.Error(err))
		}
	}

	return nil
}

// ============================================================================
// VALIDATION
// ============================================================================

// Validate checks that all required dependencies are registered. This
// should be called after initialization and before starting the server.
func (k *Kernel) Validate() error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	var missing []string

	if k.db == nil {
		missing = append(missing, "database (DB)")
	}
	if k.vectorIndex == nil {
		missing = append(missing, "vector index client")
	}
	if k.catalogue == nil {
		missing = append(missing, "song catalogue")
	}
	if k.auth == nil {
		missing = append(missing, "auth service")
	}
	if k.decoder == nil {
		missing = append(missing, "audio decoder")
	}
	if k.recognizer == nil {
		missing = append(missing, "recognition orchestrator")
	}
	if k.ingester == nil {
		missing = append(missing, "ingestion orchestrator")
	}

	if len(missing) > 0 {
		return NewInitializationError("missing required dependencies", missing)
	}

	return nil
}

// ErrNotConfigured names the condition of an optional dependency
// (search, cache, s3) that was never wired. The optional accessors do
// not return it; they return nil in that case.
var ErrNotConfigured = errors.New("dependency not configured")

// ============================================================================
// FLUENT API SUPPORT
// ============================================================================

// WithDB is a fluent setter for the database.
func (k *Kernel) WithDB(db *gorm.DB) *Kernel { return k.SetDB(db) }

// WithLogger is a fluent setter for the logger.
func (k *Kernel) WithLogger(l *zap.Logger) *Kernel { return k.SetLogger(l) }

// WithCache is a fluent setter for the cache.
func (k *Kernel) WithCache(client *cache.RedisClient) *Kernel { return k.SetCache(client) }

// WithVectorIndex is a fluent setter for the vector index client.
func (k *Kernel) WithVectorIndex(client *vectorindex.Client) *Kernel { return k.SetVectorIndex(client) }

// WithCatalogue is a fluent setter for the song catalogue client.
func (k *Kernel) WithCatalogue(c catalogue.Catalogue) *Kernel { return k.SetCatalogue(c) }

// WithSearchClient is a fluent setter for the Elasticsearch client.
func (k *Kernel) WithSearchClient(client *search.Client) *Kernel { return k.SetSearchClient(client) }

// WithS3Uploader is a fluent setter for the S3 uploader.
func (k *Kernel) WithS3Uploader(uploader *storage.S3Uploader) *Kernel { return k.SetS3Uploader(uploader) }

// WithAuthService is a fluent setter for the auth service.
func (k *Kernel) WithAuthService(service *auth.Service) *Kernel { return k.SetAuthService(service) }

// WithDecoder is a fluent setter for the audio decoder.
func (k *Kernel) WithDecoder(d audio.Decoder) *Kernel { return k.SetDecoder(d) }

// WithRecognizer is a fluent setter for the recognition orchestrator.
func (k *Kernel) WithRecognizer(o *recognition.Orchestrator) *Kernel { return k.SetRecognizer(o) }

// WithIngester is a fluent setter for the ingestion orchestrator.
func (k *Kernel) WithIngester(o *ingestion.Orchestrator) *Kernel { return k.SetIngester(o) }
