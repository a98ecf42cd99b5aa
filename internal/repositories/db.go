// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"cardiorisk/internal/config"
	"cardiorisk/internal/models"
	"cardiorisk/internal/repositories/cache"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance used across the application.
var DB *gorm.DB
var CacheService *cache.CacheService

// DBConfig holds database connection and pool configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN renders the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// LoadDBConfig reads the database settings from the environment.
func LoadDBConfig() DBConfig {
	return DBConfig{
		Host:            config.GetEnv("DB_HOST", "localhost"),
		Port:            config.GetEnv("DB_PORT", "5432"),
		User:            config.GetEnv("DB_USER", "postgres"),
		Password:        config.GetEnv("DB_PASSWORD", "postgres"),
		Name:            config.GetEnv("DB_NAME", "cardiorisk"),
		SSLMode:         config.GetEnv("DB_SSLMODE", "disable"),
		MaxIdleConns:    config.GetIntEnv("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    config.GetIntEnv("DB_MAX_OPEN_CONNS", 100),
		ConnMaxLifetime: config.GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime: config.GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
	}
}

// InitDB connects to PostgreSQL and Redis, applies migrations and sets
// the package globals.
func InitDB() error {
	db, err := initPostgres(LoadDBConfig())
	if err != nil {
		return err
	}
	DB = db

	redisCfg := &cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	}
	redisClient := cache.NewRedisClient(redisCfg)
	CacheService = cache.NewCacheService(redisClient, config.GetDurationEnv("CACHE_TTL", 24*time.Hour))

	if err := Migrate(DB); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Cached users and history pages are serialized models; after a schema
	// change they can be dropped wholesale.
	if config.GetBoolEnv("CACHE_FLUSH_ON_START", false) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := CacheService.FlushAll(ctx); err != nil {
			slog.Warn("cache flush failed", "error", err)
		} else {
			slog.Info("cache flushed")
		}
	}

	slog.Info("redis configured", "addr", redisCfg.Host+":"+redisCfg.Port)
	return nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Prediction{},
	)
}

// gormConfig ignores "record not found" in the log and, through
// TranslateError, maps unique violations to gorm.ErrDuplicatedKey.
func gormConfig() *gorm.Config {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !config.IsProduction(),
		},
	)
	return &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	}
}

func initPostgres(cfg DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("postgres connected", "host", cfg.Host, "db", cfg.Name)
	return db, nil
}

// Ping checks the database connection.
func Ping(ctx context.Context) error {
	if DB == nil {
		return ErrDatabaseOperation
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the database and cache connections.
func Close() {
	if DB != nil {
		if sqlDB, err := DB.DB(); err != nil {
			slog.Warn("failed to get database instance", "error", err)
		} else if err := sqlDB.Close(); err != nil {
			slog.Warn("failed to close database connection", "error", err)
		}
	}

	if CacheService != nil {
		if err := CacheService.Close(); err != nil {
			slog.Warn("failed to close redis connection", "error", err)
		}
	}
}

// StartPoolMonitor logs connection pool statistics every interval until
// ctx is cancelled.
func StartPoolMonitor(ctx context.Context, interval time.Duration) {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				slog.Debug("db pool stats",
					"open", stats.OpenConnections,
					"idle", stats.Idle,
					"in_use", stats.InUse,
					"wait_count", stats.WaitCount,
					"wait_duration", stats.WaitDuration)
				if CacheService != nil {
					rs := CacheService.GetStats()
					slog.Debug("redis pool stats",
						"total", rs.TotalConns,
						"idle", rs.IdleConns,
						"hits", rs.Hits,
						"misses", rs.Misses,
						"timeouts", rs.Timeouts)
				}
			}
		}
	}()
}
