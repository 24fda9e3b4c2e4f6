package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"estimator/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var logColumns = []string{
	"id", "prediction_id", "city", "property_type", "area_sqft", "input", "features",
	"raw_score", "price_lakhs", "model_name", "created_at",
}

type PredictionRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	repo *PostgresRepository
}

func (s *PredictionRepoTestSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.mock = mock
	s.repo = NewPostgresRepositoryWithDB(sqlx.NewDb(db, "postgres"))
}

func (s *PredictionRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.repo.Close()
}

func (s *PredictionRepoTestSuite) TestLogPrediction() {
	s.mock.ExpectExec("INSERT INTO prediction_logs").
		WithArgs("0d9f", "Pune", "Villa", 1500.0, sqlmock.AnyArg(), sqlmock.AnyArg(), 72.5, 72.5, "linear").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.repo.LogPrediction(context.Background(), &model.PredictionLog{
		PredictionID: "0d9f",
		City:         "Pune",
		PropertyType: "Villa",
		AreaSqft:     1500,
		Input:        model.JSONMap{"city": "Pune"},
		Features:     pgvector.NewVector([]float32{1, 2, 3}),
		RawScore:     72.5,
		PriceLakhs:   72.5,
		ModelName:    "linear",
	})
	s.NoError(err)
}

func (s *PredictionRepoTestSuite) TestLogPrediction_Error() {
	s.mock.ExpectExec("INSERT INTO prediction_logs").WillReturnError(errors.New("connection reset"))

	err := s.repo.LogPrediction(context.Background(), &model.PredictionLog{PredictionID: "x"})
	s.ErrorContains(err, "failed to log prediction")
}

func (s *PredictionRepoTestSuite) TestGetPrediction_Found() {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.mock.ExpectQuery("SELECT .* FROM prediction_logs WHERE prediction_id = \\$1").
		WithArgs("0d9f").
		WillReturnRows(sqlmock.NewRows(logColumns).AddRow(
			7, "0d9f", "Pune", "Villa", 1500.0, []byte(`{"city":"Pune","bedrooms":3}`), "[1,2,3]",
			72.5, 72.5, "linear", created,
		))

	entry, err := s.repo.GetPrediction(context.Background(), "0d9f")
	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal(int64(7), entry.ID)
	s.Equal("Villa", entry.PropertyType)
	s.Equal([]float32{1, 2, 3}, entry.Features.Slice())
	s.Equal("Pune", entry.Input["city"])
	s.Equal(created, entry.CreatedAt)
}

func (s *PredictionRepoTestSuite) TestGetPrediction_NotFound() {
	s.mock.ExpectQuery("SELECT .* FROM prediction_logs").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(logColumns))

	entry, err := s.repo.GetPrediction(context.Background(), "missing")
	s.NoError(err)
	s.Nil(entry)
}

func (s *PredictionRepoTestSuite) TestSimilarPredictions() {
	now := time.Now().UTC()
	s.mock.ExpectQuery("SELECT .* p.features <-> ref.features AS distance").
		WithArgs("0d9f", 2).
		WillReturnRows(sqlmock.NewRows(append(logColumns, "distance")).
			AddRow(8, "a1", "Pune", "Villa", 1400.0, []byte(`{}`), "[1,2,4]", 70.0, 70.0, "linear", now, 1.0).
			AddRow(9, "b2", "Pune", "Apartment", 900.0, []byte(`{}`), "[0,2,3]", 40.0, 40.0, "linear", now, 1.0))

	similar, err := s.repo.SimilarPredictions(context.Background(), "0d9f", 2)
	s.Require().NoError(err)
	s.Require().Len(similar, 2)
	s.Equal("a1", similar[0].PredictionID)
	s.Equal(1.0, similar[0].Distance)
	s.Equal("Apartment", similar[1].PropertyType)
}

func TestConnect_ClosesUnreachableDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	repo, err := connect(sqlx.NewDb(db, "postgres"), 4, 1)
	assert.Nil(t, repo)
	assert.ErrorContains(t, err, "failed to ping database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()

	repo, err := connect(sqlx.NewDb(db, "postgres"), 4, 1)
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PredictionRepoTestSuite))
}
