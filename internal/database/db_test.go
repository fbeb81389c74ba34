package database

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
	}{
		{
			name: "creates connection with valid config",
			cfg: config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				Database: "recall",
				Username: "testuser",
				Password: "testpass",
			},
		},
		{
			name: "creates connection with pool settings",
			cfg: config.DatabaseConfig{
				Host:            "localhost",
				Port:            3306,
				Database:        "recall",
				Username:        "testuser",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, "mysql", got.DriverName())
		})
	}
}

func TestMySQLConfig(t *testing.T) {
	got := mysqlConfig(config.DatabaseConfig{
		Host:     "db.example.com",
		Port:     3307,
		Database: "recall",
		Username: "admin",
		Password: "secret",
		TLS:      true,
		Params:   map[string]string{"charset": "utf8mb4"},
	})

	assert.Equal(t, "db.example.com:3307", got.Addr)
	assert.Equal(t, "recall", got.DBName)
	assert.True(t, got.ParseTime)
	assert.Equal(t, time.UTC, got.Loc)
	assert.Equal(t, "true", got.TLSConfig)
	assert.Equal(t, map[string]string{"charset": "utf8mb4"}, got.Params)
}

func TestRunInTx(t *testing.T) {
	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx *sqlx.Tx) error
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
		errMsg    string
	}{
		{
			name: "commits on success",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
		},
		{
			name: "rolls back on error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return fmt.Errorf("something failed")
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			wantErr: true,
			errMsg:  "something failed",
		},
		{
			name: "begin error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(fmt.Errorf("begin failed"))
			},
			wantErr: true,
			errMsg:  "begin transaction",
		},
		{
			name: "commit error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(fmt.Errorf("commit failed"))
			},
			wantErr: true,
			errMsg:  "commit transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			tt.setupMock(mock)

			err = RunInTx(context.Background(), sqlxDB, tt.fn)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMigrate(t *testing.T) {
	migrations := fstest.MapFS{
		"migrations/001_a.sql": {Data: []byte("CREATE TABLE a (id INT)")},
		"migrations/002_b.sql": {Data: []byte("CREATE TABLE b (id INT)")},
	}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []string
		wantErr   bool
	}{
		{
			name: "applies only pending migrations",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT version FROM schema_migrations ORDER BY version").
					WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("001_a.sql"))
				mock.ExpectBegin()
				mock.ExpectExec("CREATE TABLE b").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("002_b.sql").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			want: []string{"002_b.sql"},
		},
		{
			name: "rolls back a failing migration",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT version FROM schema_migrations ORDER BY version").
					WillReturnRows(sqlmock.NewRows([]string{"version"}))
				mock.ExpectBegin()
				mock.ExpectExec("CREATE TABLE a").WillReturnError(fmt.Errorf("syntax error"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setupMock(mock)
			got, err := Migrate(context.Background(), sqlx.NewDb(db, "mysql"), migrations)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "001_a.sql")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
