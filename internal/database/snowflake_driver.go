package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	// registers the "snowflake" database/sql driver
	_ "github.com/snowflakedb/gosnowflake"
)

// DriverName is the database/sql driver name registered by gosnowflake
const DriverName = "snowflake"

// RowQueryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx
type RowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SnowflakeDriver opens connections to Snowflake
type SnowflakeDriver struct {
	config *SnowflakeConfig
	logger zerolog.Logger
}

// NewSnowflakeDriver creates a new Snowflake driver
func NewSnowflakeDriver(config *SnowflakeConfig, logger zerolog.Logger) (*SnowflakeDriver, error) {
	if err := config.ValidateConfig(); err != nil {
		return nil, err
	}

	return &SnowflakeDriver{
		config: config,
		logger: logger.With().Str("component", "snowflake-driver").Logger(),
	}, nil
}

// Open opens a connection to Snowflake and verifies the login
func (d *SnowflakeDriver) Open(ctx context.Context) (*sql.DB, error) {
	dsn, err := d.config.BuildDSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Snowflake connection: %w", err)
	}

	if err := d.TestConnection(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Snowflake: %w", err)
	}

	params := d.config.GetConnectionParameters()
	d.logger.Info().
		Str("account", params["account"]).
		Str("user", params["user"]).
		Str("host", params["host"]).
		Strs("session_parameters", d.config.SessionParameterNames()).
		Msg("snowflake connection established")

	return db, nil
}

// TestConnection tests if the connection is working
func (d *SnowflakeDriver) TestConnection(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, d.loginTimeout())
	defer cancel()

	return db.PingContext(ctx)
}

func (d *SnowflakeDriver) loginTimeout() time.Duration {
	if d.config.LoginTimeout > 0 {
		return d.config.LoginTimeout
	}
	return 30 * time.Second
}

// SnowflakeAccountInfo contains the current session context
type SnowflakeAccountInfo struct {
	Account   string `json:"account"`
	Region    string `json:"region"`
	User      string `json:"user"`
	Role      string `json:"role"`
	Warehouse string `json:"warehouse"`
	Database  string `json:"database"`
	Schema    string `json:"schema"`
}

// AccountInfoQuery reads the session context GetAccountInfo reports
const AccountInfoQuery = "SELECT CURRENT_ACCOUNT(), CURRENT_REGION(), CURRENT_USER(), CURRENT_ROLE(), " +
	"CURRENT_WAREHOUSE(), CURRENT_DATABASE(), CURRENT_SCHEMA()"

// GetAccountInfo retrieves the current session context
func GetAccountInfo(ctx context.Context, q RowQueryer) (*SnowflakeAccountInfo, error) {
	var account, region, user, role, warehouse, database, schema sql.NullString
	err := q.QueryRowContext(ctx, AccountInfoQuery).Scan(
		&account,
		&region,
		&user,
		&role,
		&warehouse,
		&database,
		&schema,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get account info: %w", err)
	}

	return &SnowflakeAccountInfo{
		Account:   account.String,
		Region:    region.String,
		User:      user.String,
		Role:      role.String,
		Warehouse: warehouse.String,
		Database:  database.String,
		Schema:    schema.String,
	}, nil
}
