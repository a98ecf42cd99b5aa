package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB opens gorm on a sqlmock connection with the production
// config, minus the implicit write transactions.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	cfg := gormConfig()
	cfg.SkipDefaultTransaction = true
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, mock.ExpectationsWereMet()) })
	return db, mock
}
