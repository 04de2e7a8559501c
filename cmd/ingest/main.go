package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/Vishal4742/sonica/internal/audio"
	"github.com/Vishal4742/sonica/internal/catalogue"
	"github.com/Vishal4742/sonica/internal/config"
	"github.com/Vishal4742/sonica/internal/database"
	"github.com/Vishal4742/sonica/internal/ingestion"
	"github.com/Vishal4742/sonica/internal/logger"
	"github.com/Vishal4742/sonica/internal/models"
	"github.com/Vishal4742/sonica/internal/storage"
	"github.com/Vishal4742/sonica/internal/vectorindex"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// manifestEntry is one row of a batch manifest: a song's catalogue
// metadata plus the path (relative to --dir) of its reference audio.
type manifestEntry struct {
	File     string  `json:"file"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	Genre    string  `json:"genre"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

var (
	flagFile     string
	flagTitle    string
	flagArtist   string
	flagAlbum    string
	flagGenre    string
	flagLanguage string
	flagDuration float64

	flagDir      string
	flagManifest string
	flagWorkers  int
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Add reference songs to the sonica catalogue and vector index",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Ingest a single reference song",
	RunE:  runAdd,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Ingest every song listed in a manifest, with bounded concurrency",
	RunE:  runBatch,
}

func init() {
	addCmd.Flags().StringVar(&flagFile, "file", "", "path to the reference audio file (required)")
	addCmd.Flags().StringVar(&flagTitle, "title", "", "song title (required)")
	addCmd.Flags().StringVar(&flagArtist, "artist", "", "song artist (required)")
	addCmd.Flags().StringVar(&flagAlbum, "album", "", "album name")
	addCmd.Flags().StringVar(&flagGenre, "genre", "", "genre")
	addCmd.Flags().StringVar(&flagLanguage, "language", "", "language code")
	addCmd.Flags().Float64Var(&flagDuration, "duration", 0, "duration in seconds, if known")
	_ = addCmd.MarkFlagRequired("file")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("artist")

	batchCmd.Flags().StringVar(&flagDir, "dir", "", "directory audio paths in the manifest are relative to (required)")
	batchCmd.Flags().StringVar(&flagManifest, "manifest", "", "path to a JSON manifest (array of {file,title,artist,album,genre,language,duration}) (required)")
	batchCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "number of concurrent ingest workers")
	_ = batchCmd.MarkFlagRequired("dir")
	_ = batchCmd.MarkFlagRequired("manifest")

	rootCmd.AddCommand(addCmd, batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the same catalogue/vector/decoder stack cmd/server
// uses, minus the HTTP surface: this CLI talks to the orchestrator
// directly.
func bootstrap() (*ingestion.Orchestrator, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	if err := database.Initialize(cfg); err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	vectorClient := vectorindex.New(vectorindex.Config{
		APIKey:      cfg.VectorDBAPIKey,
		Environment: cfg.VectorDBEnvironment,
		IndexName:   cfg.VectorDBIndexName,
		BaseURL:     cfg.VectorIndexBaseURL(),
	})
	songCatalogue := catalogue.New(database.DB)
	decoder := audio.NewReferenceDecoder(audio.DefaultReferenceConfig())

	var blobStore ingestion.BlobStore
	if cfg.AudioBucket != "" {
		s3Uploader, err := storage.NewS3Uploader(cfg.AWSRegion, cfg.AudioBucket, cfg.AudioBucketBaseURL)
		if err != nil {
			logger.Log.Warn("s3 uploader unavailable, ingesting without raw-audio blob storage", zap.Error(err))
		} else {
			blobStore = s3Uploader
		}
	}

	orchestrator := ingestion.New(decoder, vectorClient, songCatalogue, blobStore, cfg.VectorDBDimensions)
	cleanup := func() { logger.Close() }
	return orchestrator, cleanup, nil
}

func runAdd(cmd *cobra.Command, _ []string) error {
	orchestrator, cleanup, err := bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	audioBytes, err := os.ReadFile(flagFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", flagFile, err)
	}

	songID, err := orchestrator.AddSong(context.Background(), ingestion.SongInput{
		Song: models.SongRecord{
			Title:    flagTitle,
			Artist:   flagArtist,
			Album:    flagAlbum,
			Genre:    flagGenre,
			Language: flagLanguage,
			Duration: flagDuration,
		},
		AudioBytes:       audioBytes,
		OriginalFilename: filepath.Base(flagFile),
	})
	if err != nil {
		return fmt.Errorf("ingest %s: %w", flagFile, err)
	}

	logger.Log.Info("song ingested", zap.String("song_id", songID), zap.String("file", flagFile))
	fmt.Println(songID)
	return nil
}

// runBatch reads the manifest, then fans out across flagWorkers
// goroutines reading and ingesting each file, collecting successes and
// failures without letting one bad file abort the run.
func runBatch(cmd *cobra.Command, _ []string) error {
	orchestrator, cleanup, err := bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	manifestBytes, err := os.ReadFile(flagManifest)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	var entries []manifestEntry
	if err := json.Unmarshal(manifestBytes, &entries); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	if len(entries) == 0 {
		logger.Log.Info("manifest has no entries")
		return nil
	}

	workers := flagWorkers
	if workers < 1 {
		workers = 1
	}

	ctx := context.Background()
	entryCh := make(chan manifestEntry, workers*2)
	var ingested, failed int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range entryCh {
				songID, err := ingestEntry(ctx, orchestrator, entry)
				mu.Lock()
				if err != nil {
					logger.Log.Error("ingest failed", zap.String("file", entry.File), zap.Error(err))
					failed++
				} else {
					logger.Log.Info("song ingested", zap.String("file", entry.File), zap.String("song_id", songID))
					ingested++
				}
				mu.Unlock()
			}
		}()
	}
	for _, entry := range entries {
		entryCh <- entry
	}
	close(entryCh)
	wg.Wait()

	logger.Log.Info("batch ingestion complete", zap.Int("ingested", ingested), zap.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d songs failed to ingest", failed, len(entries))
	}
	return nil
}

func ingestEntry(ctx context.Context, orchestrator *ingestion.Orchestrator, entry manifestEntry) (string, error) {
	path := filepath.Join(flagDir, entry.File)
	audioBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return orchestrator.AddSong(ctx, ingestion.SongInput{
		Song: models.SongRecord{
			Title:    entry.Title,
			Artist:   entry.Artist,
			Album:    entry.Album,
			Genre:    entry.Genre,
			Language: entry.Language,
			Duration: entry.Duration,
		},
		AudioBytes:       audioBytes,
		OriginalFilename: filepath.Base(path),
	})
}
