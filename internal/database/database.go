// Package database owns the Postgres connection used by the song
// catalogue and recognition log.
package database

import (
	"fmt"
	"time"

	"github.com/Vishal4742/sonica/internal/config"
	"github.com/Vishal4742/sonica/internal/logger"
	"github.com/Vishal4742/sonica/internal/metrics"
	"github.com/Vishal4742/sonica/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the process-wide database connection.
var DB *gorm.DB

// Initialize opens and configures the database connection from cfg.
func Initialize(cfg *config.Settings) error {
	gormLog := gormlogger.Default
	if cfg.Environment == "development" {
		gormLog = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLog,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	registerMetricsHooks(db)

	logger.Log.Info("database connected")
	return nil
}

// Migrate auto-migrates the catalogue and recognition-log schemas.
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		logger.Log.Warn("could not create pgcrypto extension", zap.Error(err))
	}

	if err := DB.AutoMigrate(
		&models.SongRecord{},
		&models.RecognitionLogEntry{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Log.Info("database migrations completed")
	return nil
}

func createIndexes() error {
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_songs_title_lower ON song_records (LOWER(title))")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_songs_artist_lower ON song_records (LOWER(artist))")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_recognition_log_user_created ON recognition_log_entries (user_id, timestamp DESC)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_recognition_log_song ON recognition_log_entries (song_id) WHERE song_id IS NOT NULL")
	return nil
}

// Close releases the underlying connection pool.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings the database connection.
func Health() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// registerMetricsHooks wires GORM callbacks to record query timing, the
// same pattern the catalogue's host application uses for its own models.
func registerMetricsHooks(db *gorm.DB) {
	before := func(db *gorm.DB) {
		db.InstanceSet("metrics:start_time", time.Now())
	}
	after := func(op, table string) func(db *gorm.DB) {
		return func(db *gorm.DB) {
			start, ok := db.InstanceGet("metrics:start_time")
			if !ok {
				return
			}
			duration := time.Since(start.(time.Time)).Seconds()
			metrics.Get().DatabaseQueryDuration.WithLabelValues(op, table).Observe(duration)
			status := "success"
			if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
				status = "error"
			}
			metrics.Get().DatabaseQueriesTotal.WithLabelValues(op, table, status).Inc()
		}
	}

	db.Callback().Create().Before("gorm:before_create").Register("metrics:before_create", before)
	db.Callback().Create().After("gorm:after_create").Register("metrics:after_create", after("create", "insert"))
	db.Callback().Query().Before("gorm:before_query").Register("metrics:before_query", before)
	db.Callback().Query().After("gorm:after_query").Register("metrics:after_query", after("query", "select"))
	db.Callback().Update().Before("gorm:before_update").Register("metrics:before_update", before)
	db.Callback().Update().After("gorm:after_update").Register("metrics:after_update", after("update", "update"))
	db.Callback().Delete().Before("gorm:before_delete").Register("metrics:before_delete", before)
	db.Callback().Delete().After("gorm:after_delete").Register("metrics:after_delete", after("delete", "delete"))
}
