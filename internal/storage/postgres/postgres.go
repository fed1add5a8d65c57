// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
)

// gormLogger adapts zap to gorm's logger.Interface.
type gormLogger struct {
	zapLogger *zap.Logger
	logLevel  logger.LogLevel
}

func newGormLogger(zapLogger *zap.Logger) logger.Interface {
	return &gormLogger{zapLogger: zapLogger, logLevel: logger.Warn}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.logLevel = level
	return &cloned
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Info {
		l.zapLogger.Sugar().Infof(msg, data...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.zapLogger.Sugar().Warnf(msg, data...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Error {
		l.zapLogger.Sugar().Errorf(msg, data...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}
	if err != nil {
		l.zapLogger.Error("trace", append(fields, zap.Error(err))...)
		return
	}
	if l.logLevel >= logger.Info {
		l.zapLogger.Info("trace", fields...)
	}
}

type postgresStorage struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStorage connects to Postgres and returns a Storage backed by gorm.
func NewStorage(dsn string, zapLogger *zap.Logger) (storage.Storage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newGormLogger(zapLogger.Named("gorm")),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &postgresStorage{db: db, logger: zapLogger}, nil
}

func (p *postgresStorage) RunMigrations() error {
	var lockObtained bool
	if err := p.db.Raw("SELECT pg_try_advisory_lock(101)").Scan(&lockObtained).Error; err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !lockObtained {
		return fmt.Errorf("another migration is in progress")
	}
	defer p.db.Exec("SELECT pg_advisory_unlock(101)")

	if err := p.db.AutoMigrate(&models.TokenRecord{}, &models.TradeRecord{}); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}

func (p *postgresStorage) SaveToken(ctx context.Context, token *models.TokenRecord) error {
	return p.db.WithContext(ctx).Create(token).Error
}

func (p *postgresStorage) UpdateToken(ctx context.Context, token *models.TokenRecord) error {
	return p.db.WithContext(ctx).
		Model(&models.TokenRecord{}).
		Where("mint = ?", token.Mint).
		Updates(map[string]interface{}{
			"status":                    token.Status,
			"virtual_token_amount":      token.VirtualTokenAmount,
			"virtual_asset_amount":      token.VirtualAssetAmount,
			"virtual_graduation_amount": token.VirtualGraduationAmount,
		}).Error
}

func (p *postgresStorage) GetToken(ctx context.Context, mint string) (*models.TokenRecord, error) {
	var token models.TokenRecord
	if err := p.db.WithContext(ctx).Where("mint = ?", mint).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (p *postgresStorage) MarkGraduated(ctx context.Context, mint, poolID string, graduatedAt time.Time) error {
	return p.db.WithContext(ctx).
		Model(&models.TokenRecord{}).
		Where("mint = ?", mint).
		Updates(map[string]interface{}{
			"status":       "graduated",
			"pool_id":      poolID,
			"graduated_at": graduatedAt,
		}).Error
}

func (p *postgresStorage) SaveTrade(ctx context.Context, trade *models.TradeRecord) error {
	return p.db.WithContext(ctx).Create(trade).Error
}

func (p *postgresStorage) ListTrades(ctx context.Context, mint string, limit, offset int) ([]*models.TradeRecord, error) {
	var trades []*models.TradeRecord
	err := p.db.WithContext(ctx).
		Where("mint = ?", mint).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

func (p *postgresStorage) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
