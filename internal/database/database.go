package database

import (
	"context"
	"fmt"
	"time"

	"review-backend/internal/config"
	"review-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	*gorm.DB
	config config.DatabaseConfig
	log    *logrus.Logger
}

// Connect opens the PostgreSQL pool described by cfg.
func Connect(cfg config.DatabaseConfig, log *logrus.Logger) (*Database, error) {
	return Open(postgres.Open(cfg.DSN()), cfg, log)
}

// Open opens a pool on dialector, verifies it with a ping and migrates the
// schema.
func Open(dialector gorm.Dialector, cfg config.DatabaseConfig, log *logrus.Logger) (*Database, error) {
	gormLogLevel := logger.Silent
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gormLogLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Unique violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
		PrepareStmt:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	d := &Database{DB: db, config: cfg, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.DBName,
	}).Info("Database connection established")

	if err := d.migrate(); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return d, nil
}

func (d *Database) WithContext(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx)
}

func (d *Database) GetQueryTimeout() time.Duration {
	return d.config.QueryTimeout
}

// Transaction runs fn in a database transaction bound to ctx.
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}

func (d *Database) HealthCheck(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// migrate creates the tables in dependency order. The review uniqueness
// index and the score check come from the model tags.
func (d *Database) migrate() error {
	start := time.Now()

	err := d.DB.AutoMigrate(
		&models.User{},
		&models.ConfirmationCode{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.TitleGenre{},
		&models.Review{},
		&models.Comment{},
	)
	if err != nil {
		return err
	}

	d.log.WithField("elapsed", time.Since(start).String()).Info("Schema migration completed")
	return nil
}
