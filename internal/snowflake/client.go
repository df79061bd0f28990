// Package snowflake wraps a single Snowflake session with helpers for
// administrative work: running queries in a chosen result shape, creating
// objects from JSON definitions, and managing users, roles and grants.
package snowflake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"snowflake-admin/internal/database"
	"snowflake-admin/internal/model"
	"snowflake-admin/internal/sqltemplate"
)

// DefaultInsertBatchSize is the number of rows sent per INSERT statement
const DefaultInsertBatchSize = 1000

var (
	// ErrEmptyResult is returned when a log-shaped query yields no row
	ErrEmptyResult = errors.New("query returned no rows")
	ErrClosed      = errors.New("client is closed")
)

// Opener opens the underlying database handle
type Opener func(ctx context.Context) (*sql.DB, error)

// QueryObserver is told about every statement the client executes
type QueryObserver interface {
	ObserveQuery(kind string, returnType model.ReturnType, duration time.Duration, err error)
}

// Options configures a Client
type Options struct {
	// Initial session attributes, reported until the connection says otherwise
	Warehouse string
	Database  string
	Schema    string

	// TemplateFolder is used when Template is nil
	TemplateFolder string
	Template       *sqltemplate.Template

	InsertBatchSize int
	Logger          zerolog.Logger
	Observer        QueryObserver
}

// Client holds a lazily opened Snowflake session. The first operation opens
// the connection; all statements then run on that one session, so USE
// statements carry over between calls. Calls are serialized.
type Client struct {
	opener Opener

	mu     sync.Mutex // guards db, conn, closed and statement execution
	db     *sql.DB
	conn   *sql.Conn
	closed bool

	stateMu          sync.RWMutex
	currentWarehouse string
	currentDatabase  string
	currentSchema    string

	User     *User
	Role     *Role
	Template *sqltemplate.Template

	typeMapper      *database.SnowflakeTypeMapper
	insertBatchSize int
	logger          zerolog.Logger
	observer        QueryObserver
}

// New creates a client that opens its connection with opener on first use
func New(opener Opener, opts Options) *Client {
	tmpl := opts.Template
	if tmpl == nil {
		tmpl = sqltemplate.New(opts.TemplateFolder)
	}
	batch := opts.InsertBatchSize
	if batch <= 0 {
		batch = DefaultInsertBatchSize
	}

	c := &Client{
		opener:           opener,
		currentWarehouse: opts.Warehouse,
		currentDatabase:  opts.Database,
		currentSchema:    opts.Schema,
		Template:         tmpl,
		typeMapper:       database.NewSnowflakeTypeMapper(),
		insertBatchSize:  batch,
		logger:           opts.Logger.With().Str("component", "snowflake-client").Logger(),
		observer:         opts.Observer,
	}
	c.User = &User{sf: c}
	c.Role = &Role{sf: c}
	return c
}

// NewFromConfig creates a client for the given connection settings. Session
// attributes left empty in opts are taken from the settings.
func NewFromConfig(cfg *database.SnowflakeConfig, opts Options) (*Client, error) {
	driver, err := database.NewSnowflakeDriver(cfg, opts.Logger)
	if err != nil {
		return nil, err
	}
	if opts.Warehouse == "" {
		opts.Warehouse = cfg.Warehouse
	}
	if opts.Database == "" {
		opts.Database = cfg.Database
	}
	if opts.Schema == "" {
		opts.Schema = cfg.Schema
	}
	return New(driver.Open, opts), nil
}

// Connected reports whether the connection has been opened
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect opens the connection if it is not open yet
func (c *Client) Connect(ctx context.Context) error {
	return c.withSession(ctx, func(*sql.Conn) error { return nil })
}

// Ping checks the session is alive, opening it if needed
func (c *Client) Ping(ctx context.Context) error {
	return c.withSession(ctx, func(conn *sql.Conn) error {
		return conn.PingContext(ctx)
	})
}

// AccountInfo reports the account, user, role and namespace of the pinned
// session, opening it if needed
func (c *Client) AccountInfo(ctx context.Context) (*database.SnowflakeAccountInfo, error) {
	start := time.Now()
	var info *database.SnowflakeAccountInfo
	err := c.withSession(ctx, func(conn *sql.Conn) error {
		var err error
		info, err = database.GetAccountInfo(ctx, conn)
		return err
	})
	c.observe(statementKind(database.AccountInfoQuery), model.ReturnList, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Close releases the session and the underlying handle. The client cannot
// be used afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	var errs []error
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
		c.conn = nil
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
		c.db = nil
		c.logger.Info().Msg("snowflake connection closed")
	}
	return errors.Join(errs...)
}

// withSession runs fn on the pinned session, opening it on first use
func (c *Client) withSession(ctx context.Context, fn func(conn *sql.Conn) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.conn == nil {
		if err := c.connect(ctx); err != nil {
			return err
		}
	}
	return fn(c.conn)
}

// connect must be called with mu held
func (c *Client) connect(ctx context.Context) error {
	db, err := c.opener(ctx)
	if err != nil {
		return err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to acquire session: %w", err)
	}
	c.db = db
	c.conn = conn
	c.logger.Debug().Msg("snowflake session pinned")
	return nil
}

// resolveStatement reads the statement from disk when query names a .sql file
func resolveStatement(query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if !strings.HasSuffix(trimmed, ".sql") {
		return query, nil
	}
	content, err := os.ReadFile(trimmed)
	if err != nil {
		return "", fmt.Errorf("failed to read query file: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

// Query executes a statement and returns its result in the requested shape.
// A query ending in .sql is treated as a path and the file's content runs
// instead. An empty return type means model.ReturnLog.
func (c *Client) Query(ctx context.Context, query string, returnType model.ReturnType) (*model.QueryResult, error) {
	stmt, err := resolveStatement(query)
	if err != nil {
		return nil, err
	}
	return c.QueryStatement(ctx, stmt, returnType)
}

// QueryStatement executes stmt as given; a trailing .sql is not a path here
func (c *Client) QueryStatement(ctx context.Context, stmt string, returnType model.ReturnType) (*model.QueryResult, error) {
	if returnType == "" {
		returnType = model.ReturnLog
	}
	if _, err := model.ParseReturnType(string(returnType)); err != nil {
		return nil, err
	}

	kind := statementKind(stmt)
	start := time.Now()
	result := &model.QueryResult{Type: returnType}

	err := c.withSession(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, stmt)
		if err != nil {
			return err
		}
		defer rows.Close()

		switch returnType {
		case model.ReturnFrame:
			result.Frame, err = c.scanFrame(rows)
		case model.ReturnList:
			result.List, err = c.scanList(rows)
		default:
			result.Scalar, err = c.scanScalar(rows)
		}
		return err
	})

	c.observe(kind, returnType, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// QueryFrame runs a statement and returns a tabular result
func (c *Client) QueryFrame(ctx context.Context, query string) (*model.Frame, error) {
	result, err := c.Query(ctx, query, model.ReturnFrame)
	if err != nil {
		return nil, err
	}
	return result.Frame, nil
}

// QueryList runs a statement and returns every row
func (c *Client) QueryList(ctx context.Context, query string) ([][]any, error) {
	result, err := c.Query(ctx, query, model.ReturnList)
	if err != nil {
		return nil, err
	}
	return result.List, nil
}

// QueryScalar runs a statement and returns the first column of the first row
func (c *Client) QueryScalar(ctx context.Context, query string) (string, error) {
	result, err := c.Query(ctx, query, model.ReturnLog)
	if err != nil {
		return "", err
	}
	return result.Scalar, nil
}

// execScalar and execFrame run generated statements, which are never paths
func (c *Client) execScalar(ctx context.Context, stmt string) (string, error) {
	result, err := c.QueryStatement(ctx, stmt, model.ReturnLog)
	if err != nil {
		return "", err
	}
	return result.Scalar, nil
}

func (c *Client) execFrame(ctx context.Context, stmt string) (*model.Frame, error) {
	result, err := c.QueryStatement(ctx, stmt, model.ReturnFrame)
	if err != nil {
		return nil, err
	}
	return result.Frame, nil
}

func (c *Client) observe(kind string, returnType model.ReturnType, d time.Duration, err error) {
	event := c.logger.Debug()
	if err != nil {
		event = c.logger.Warn().Err(err)
	}
	event.Str("statement", kind).
		Str("return_type", string(returnType)).
		Dur("duration", d).
		Msg("statement executed")

	if c.observer != nil {
		c.observer.ObserveQuery(kind, returnType, d, err)
	}
}

// scanValues reads the current row converted per column type
func (c *Client) scanValues(rows *sql.Rows, types []*sql.ColumnType) ([]any, error) {
	values := make([]any, len(types))
	ptrs := make([]any, len(types))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, ct := range types {
		values[i] = c.typeMapper.ConvertSnowflakeValue(values[i], ct.DatabaseTypeName())
	}
	return values, nil
}

func (c *Client) scanFrame(rows *sql.Rows) (*model.Frame, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	frame := &model.Frame{
		Columns: make([]model.ColumnInfo, len(types)),
		Rows:    [][]any{},
	}
	for i, ct := range types {
		frame.Columns[i] = c.typeMapper.ColumnInfo(ct)
	}

	for rows.Next() {
		values, err := c.scanValues(rows, types)
		if err != nil {
			return nil, err
		}
		frame.Rows = append(frame.Rows, values)
	}
	return frame, rows.Err()
}

func (c *Client) scanList(rows *sql.Rows) ([][]any, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	list := [][]any{}
	for rows.Next() {
		values, err := c.scanValues(rows, types)
		if err != nil {
			return nil, err
		}
		list = append(list, values)
	}
	return list, rows.Err()
}

func (c *Client) scanScalar(rows *sql.Rows) (string, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return "", err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", ErrEmptyResult
	}
	values, err := c.scanValues(rows, types)
	if err != nil {
		return "", err
	}
	if len(values) == 0 || values[0] == nil {
		return "", nil
	}
	return fmt.Sprint(values[0]), nil
}

// Warehouse returns the current warehouse. Before the connection is opened
// this is the configured one; afterwards the account's default warehouse
// as reported by SHOW WAREHOUSES.
func (c *Client) Warehouse(ctx context.Context) (string, error) {
	if !c.Connected() {
		c.stateMu.RLock()
		defer c.stateMu.RUnlock()
		return c.currentWarehouse, nil
	}

	warehouses, err := c.execFrame(ctx, "SHOW WAREHOUSES")
	if err != nil {
		return "", err
	}
	defaults, err := warehouses.Filter("is_default", "Y")
	if err != nil {
		return "", err
	}
	names, err := defaults.Column("name")
	if err != nil {
		return "", err
	}

	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if len(names) > 0 {
		c.currentWarehouse = fmt.Sprint(names[0])
	}
	return c.currentWarehouse, nil
}

// Database returns the current database
func (c *Client) Database() string {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.currentDatabase
}

// Schema returns the current schema
func (c *Client) Schema() string {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.currentSchema
}

// Use switches the session's warehouse, database and schema. Empty values
// are left alone.
func (c *Client) Use(ctx context.Context, warehouse, dbName, schema string) error {
	steps := []struct {
		objectType model.ObjectType
		name       string
		current    *string
	}{
		{model.ObjectWarehouse, warehouse, &c.currentWarehouse},
		{model.ObjectDatabase, dbName, &c.currentDatabase},
		{model.ObjectSchema, schema, &c.currentSchema},
	}

	for _, step := range steps {
		if step.name == "" {
			continue
		}
		c.stateMu.Lock()
		*step.current = step.name
		c.stateMu.Unlock()

		if _, err := c.execScalar(ctx, useStatement(step.objectType, step.name)); err != nil {
			return err
		}
	}
	return nil
}
