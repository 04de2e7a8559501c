// Package main is the root of the sonica song-recognition service. The
// entry points are cmd/server (HTTP API) and cmd/ingest (ingestion CLI);
// the code is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: JWT principal validation
// - internal/audio: Decoder interface and the reference WAV fingerprinter
// - internal/fingerprint: Peak-list fingerprints and their projection to embeddings
// - internal/vectorindex: Client for the Pinecone-style vector backend
// - internal/catalogue: Song catalogue and recognition log store
// - internal/catalogue/search: Elasticsearch-backed catalogue text search
// - internal/recognition: Recognition orchestrator
// - internal/ingestion: Ingestion orchestrator
// - internal/kernel: Dependency container and health aggregation
// - internal/storage: S3 storage for raw ingested audio
// - internal/database: Database connection and migrations
// - internal/middleware: HTTP middleware (rate limiting, metrics, etc.)
// - internal/cache: Redis client wrapper
// - internal/config, internal/logger, internal/metrics, internal/telemetry,
//   internal/apierror, internal/util: Ambient support packages

// See the individual package documentation for detailed API reference.
package main
