package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Test connection
	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// RecordSubmission stores a resolution attempt record in PostgreSQL.
func (p *PostgresStorage) RecordSubmission(ctx context.Context, rec *SubmissionRecord) error {
	query := `
		INSERT INTO resolution_submissions (
			id, market_id, question, domain, answer, confidence,
			explanation, abstained, tx_hash, evidence_uri, submitted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		rec.ID,
		rec.MarketID,
		rec.Question,
		string(rec.Domain),
		rec.Answer,
		rec.Confidence,
		rec.Explanation,
		rec.Abstained,
		rec.TxHash,
		rec.EvidenceURI,
		rec.SubmittedAt,
	)

	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	p.logger.Debug("submission-stored",
		zap.String("record-id", rec.ID),
		zap.Uint64("market-id", rec.MarketID),
		zap.Bool("abstained", rec.Abstained))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
