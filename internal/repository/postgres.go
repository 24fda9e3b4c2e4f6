package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"estimator/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository stores audited predictions
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return connect(db, maxConn, maxIdleConn)
}

// connect applies pool settings and verifies the connection, closing db when it is unreachable
func connect(db *sqlx.DB, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute) // Close idle connections sooner

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresRepositoryWithDB(db), nil
}

// NewPostgresRepositoryWithDB wraps an existing connection
func NewPostgresRepositoryWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

const predictionColumns = `
	id, prediction_id, city, property_type, area_sqft, input, features,
	raw_score, price_lakhs, model_name, created_at`

// LogPrediction inserts one audited prediction
func (r *PostgresRepository) LogPrediction(ctx context.Context, entry *model.PredictionLog) error {
	query := `
		INSERT INTO prediction_logs (
			prediction_id, city, property_type, area_sqft, input, features,
			raw_score, price_lakhs, model_name
		) VALUES (
			:prediction_id, :city, :property_type, :area_sqft, :input, :features,
			:raw_score, :price_lakhs, :model_name
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("failed to log prediction: %w", err)
	}
	return nil
}

// GetPrediction retrieves a prediction by its public id. It returns nil, nil when absent.
func (r *PostgresRepository) GetPrediction(ctx context.Context, predictionID string) (*model.PredictionLog, error) {
	var entry model.PredictionLog
	query := `SELECT ` + predictionColumns + ` FROM prediction_logs WHERE prediction_id = $1`
	err := r.db.GetContext(ctx, &entry, query, predictionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return &entry, nil
}

// SimilarPredictions returns the predictions nearest to predictionID by
// L2 distance between feature vectors, excluding the prediction itself
func (r *PostgresRepository) SimilarPredictions(ctx context.Context, predictionID string, limit int) ([]model.SimilarPrediction, error) {
	query := `
		SELECT
			p.id, p.prediction_id, p.city, p.property_type, p.area_sqft, p.input, p.features,
			p.raw_score, p.price_lakhs, p.model_name, p.created_at,
			p.features <-> ref.features AS distance
		FROM prediction_logs p,
			(SELECT features FROM prediction_logs WHERE prediction_id = $1) ref
		WHERE p.prediction_id <> $1
		ORDER BY distance
		LIMIT $2
	`
	var similar []model.SimilarPrediction
	if err := r.db.SelectContext(ctx, &similar, query, predictionID, limit); err != nil {
		return nil, fmt.Errorf("failed to find similar predictions: %w", err)
	}
	return similar, nil
}
