package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountInfoRows(mock sqlmock.Sqlmock) *sqlmock.Rows {
	cols := make([]*sqlmock.Column, 0, 7)
	for _, name := range []string{"account", "region", "user", "role", "warehouse", "database", "schema"} {
		cols = append(cols, sqlmock.NewColumn(name).OfType("TEXT", "").Nullable(true))
	}
	return mock.NewRowsWithColumnDefinition(cols...)
}

func TestGetAccountInfo(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(AccountInfoQuery).WillReturnRows(
		accountInfoRows(mock).AddRow("XY12345", "AWS_US_EAST_1", "LOADER", "SYSADMIN", "COMPUTE_WH", "SALES", nil))

	info, err := GetAccountInfo(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, &SnowflakeAccountInfo{
		Account:   "XY12345",
		Region:    "AWS_US_EAST_1",
		User:      "LOADER",
		Role:      "SYSADMIN",
		Warehouse: "COMPUTE_WH",
		Database:  "SALES",
	}, info)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountInfoError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	failure := errors.New("session expired")
	mock.ExpectQuery(AccountInfoQuery).WillReturnError(failure)

	_, err = GetAccountInfo(context.Background(), db)
	assert.ErrorIs(t, err, failure)
}

func TestNewSnowflakeDriverValidates(t *testing.T) {
	_, err := NewSnowflakeDriver(DefaultSnowflakeConfig(), zerolog.Nop())
	assert.EqualError(t, err, "account is required")
}
