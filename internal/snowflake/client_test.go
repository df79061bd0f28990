package snowflake

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowflake-admin/internal/database"
	"snowflake-admin/internal/model"
	"snowflake-admin/internal/sqltemplate"
)

type recordedQuery struct {
	kind       string
	returnType model.ReturnType
	err        error
}

type recordingObserver struct {
	queries []recordedQuery
}

func (o *recordingObserver) ObserveQuery(kind string, returnType model.ReturnType, _ time.Duration, err error) {
	o.queries = append(o.queries, recordedQuery{kind: kind, returnType: returnType, err: err})
}

type harness struct {
	client   *Client
	mock     sqlmock.Sqlmock
	opens    int
	observer *recordingObserver
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	h := &harness{mock: mock, observer: &recordingObserver{}}
	opts.Logger = zerolog.Nop()
	opts.Observer = h.observer
	if opts.Template == nil {
		opts.Template = sqltemplate.New(filepath.Join("..", "sqltemplate", "templates"))
	}
	h.client = New(func(ctx context.Context) (*sql.DB, error) {
		h.opens++
		return db, nil
	}, opts)

	t.Cleanup(func() {
		db.Close()
	})
	return h
}

func (h *harness) done(t *testing.T) {
	t.Helper()
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func textRows(mock sqlmock.Sqlmock, cols ...string) *sqlmock.Rows {
	defs := make([]*sqlmock.Column, len(cols))
	for i, c := range cols {
		defs[i] = sqlmock.NewColumn(c).OfType("TEXT", "")
	}
	return mock.NewRowsWithColumnDefinition(defs...)
}

func statusRow(mock sqlmock.Sqlmock, status string) *sqlmock.Rows {
	return textRows(mock, "status").AddRow(status)
}

func TestQueryIsLazyAndOpensOnce(t *testing.T) {
	h := newHarness(t, Options{})
	assert.False(t, h.client.Connected())
	assert.Zero(t, h.opens)

	h.mock.ExpectQuery("SELECT 1").WillReturnRows(textRows(h.mock, "1").AddRow("1"))
	h.mock.ExpectQuery("SELECT 2").WillReturnRows(textRows(h.mock, "2").AddRow("2"))

	out, err := h.client.QueryScalar(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, "1", out)
	assert.True(t, h.client.Connected())

	_, err = h.client.QueryScalar(context.Background(), "SELECT 2")
	require.NoError(t, err)
	assert.Equal(t, 1, h.opens)
	h.done(t)
}

func TestQueryReturnShapes(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()

	count := sqlmock.NewColumn("count").OfType("FIXED", int64(0))
	name := sqlmock.NewColumn("name").OfType("TEXT", "")

	h.mock.ExpectQuery("SELECT name, count FROM t").
		WillReturnRows(h.mock.NewRowsWithColumnDefinition(name, count).AddRow("a", "1").AddRow("b", "2"))
	h.mock.ExpectQuery("SELECT name, count FROM t").
		WillReturnRows(h.mock.NewRowsWithColumnDefinition(name, count).AddRow("a", "1").AddRow("b", "2"))
	h.mock.ExpectQuery("SELECT name, count FROM t").
		WillReturnRows(h.mock.NewRowsWithColumnDefinition(name, count).AddRow("a", "1").AddRow("b", "2"))

	res, err := h.client.Query(ctx, "SELECT name, count FROM t", model.ReturnFrame)
	require.NoError(t, err)
	require.NotNil(t, res.Frame)
	assert.Equal(t, []string{"name", "count"}, res.Frame.ColumnNames())
	assert.Equal(t, model.TypeInteger, res.Frame.Columns[1].Type)
	assert.Equal(t, [][]any{{"a", int64(1)}, {"b", int64(2)}}, res.Frame.Rows)

	res, err = h.client.Query(ctx, "SELECT name, count FROM t", model.ReturnList)
	require.NoError(t, err)
	assert.Nil(t, res.Frame)
	assert.Equal(t, [][]any{{"a", int64(1)}, {"b", int64(2)}}, res.List)

	res, err = h.client.Query(ctx, "SELECT name, count FROM t", "")
	require.NoError(t, err)
	assert.Equal(t, model.ReturnLog, res.Type)
	assert.Equal(t, "a", res.Scalar)
	h.done(t)
}

func TestQueryRejectsUnknownReturnType(t *testing.T) {
	h := newHarness(t, Options{})
	_, err := h.client.Query(context.Background(), "SELECT 1", "csv")
	assert.True(t, errors.Is(err, model.ErrInvalidReturnType))
	assert.Zero(t, h.opens)
}

func TestQueryReadsSQLFile(t *testing.T) {
	h := newHarness(t, Options{})
	path := filepath.Join(t.TempDir(), "count.sql")
	require.NoError(t, os.WriteFile(path, []byte("\nSELECT COUNT(*) FROM orders\n\n"), 0o600))

	h.mock.ExpectQuery("SELECT COUNT(*) FROM orders").
		WillReturnRows(textRows(h.mock, "COUNT(*)").AddRow("7"))

	out, err := h.client.QueryScalar(context.Background(), "  "+path+" ")
	require.NoError(t, err)
	assert.Equal(t, "7", out)
	h.done(t)
}

func TestQueryStatementNeverReadsFiles(t *testing.T) {
	h := newHarness(t, Options{})
	path := filepath.Join(t.TempDir(), "secret.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 'leaked'"), 0o600))

	compileErr := errors.New("001003 (42000): SQL compilation error: syntax error")
	h.mock.ExpectQuery(path).WillReturnError(compileErr)

	_, err := h.client.QueryStatement(context.Background(), path, model.ReturnLog)
	assert.ErrorIs(t, err, compileErr)
	h.done(t)
}

func TestGeneratedStatementEndingInSQLIsNotAPath(t *testing.T) {
	h := newHarness(t, Options{})
	h.mock.ExpectQuery("TRUNCATE TABLE staging.sql").
		WillReturnRows(statusRow(h.mock, "Statement executed successfully."))

	_, err := h.client.TruncateTable(context.Background(), "staging.sql")
	require.NoError(t, err)
	h.done(t)
}

func TestAccountInfo(t *testing.T) {
	h := newHarness(t, Options{})
	h.mock.ExpectQuery(database.AccountInfoQuery).WillReturnRows(
		textRows(h.mock, "account", "region", "user", "role", "warehouse", "database", "schema").
			AddRow("XY12345", "AWS_US_EAST_1", "LOADER", "SYSADMIN", "COMPUTE_WH", "SALES", "PUBLIC"))

	info, err := h.client.AccountInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LOADER", info.User)
	assert.Equal(t, "SYSADMIN", info.Role)
	assert.Equal(t, "PUBLIC", info.Schema)
	assert.True(t, h.client.Connected())

	require.Len(t, h.observer.queries, 1)
	assert.Equal(t, "SELECT", h.observer.queries[0].kind)
	h.done(t)
}

func TestQueryEmptyScalar(t *testing.T) {
	h := newHarness(t, Options{})
	h.mock.ExpectQuery("SELECT 1 WHERE FALSE").WillReturnRows(textRows(h.mock, "1"))

	_, err := h.client.QueryScalar(context.Background(), "SELECT 1 WHERE FALSE")
	assert.True(t, errors.Is(err, ErrEmptyResult))
	h.done(t)
}

func TestQueryPropagatesDriverError(t *testing.T) {
	h := newHarness(t, Options{})
	driverErr := errors.New("002003 (02000): SQL compilation error: Object 'NOPE' does not exist")
	h.mock.ExpectQuery("SELECT * FROM NOPE").WillReturnError(driverErr)

	_, err := h.client.QueryFrame(context.Background(), "SELECT * FROM NOPE")
	require.Error(t, err)
	assert.Equal(t, driverErr.Error(), err.Error())

	require.Len(t, h.observer.queries, 1)
	assert.Equal(t, "SELECT", h.observer.queries[0].kind)
	assert.Equal(t, model.ReturnFrame, h.observer.queries[0].returnType)
	assert.Error(t, h.observer.queries[0].err)
	h.done(t)
}

func TestOpenFailure(t *testing.T) {
	openErr := errors.New("390100 (08004): Incorrect username or password was specified.")
	c := New(func(ctx context.Context) (*sql.DB, error) {
		return nil, openErr
	}, Options{Logger: zerolog.Nop()})

	_, err := c.QueryScalar(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, openErr)
	assert.False(t, c.Connected())
}

func TestWarehouseBeforeAndAfterConnect(t *testing.T) {
	h := newHarness(t, Options{Warehouse: "CONFIGURED_WH"})
	ctx := context.Background()

	wh, err := h.client.Warehouse(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CONFIGURED_WH", wh)

	require.NoError(t, h.client.Connect(ctx))
	h.mock.ExpectQuery("SHOW WAREHOUSES").WillReturnRows(
		textRows(h.mock, "name", "state", "is_default").
			AddRow("LOAD_WH", "STARTED", "N").
			AddRow("COMPUTE_WH", "SUSPENDED", "Y"),
	)

	wh, err = h.client.Warehouse(ctx)
	require.NoError(t, err)
	assert.Equal(t, "COMPUTE_WH", wh)
	h.done(t)
}

func TestUse(t *testing.T) {
	h := newHarness(t, Options{Warehouse: "A", Database: "DB1", Schema: "S1"})
	ctx := context.Background()

	h.mock.ExpectQuery("USE WAREHOUSE B").WillReturnRows(statusRow(h.mock, "Statement executed successfully."))
	h.mock.ExpectQuery("USE SCHEMA S2").WillReturnRows(statusRow(h.mock, "Statement executed successfully."))

	require.NoError(t, h.client.Use(ctx, "B", "", "S2"))
	assert.Equal(t, "DB1", h.client.Database())
	assert.Equal(t, "S2", h.client.Schema())
	h.done(t)
}

func TestCloseIsFinal(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()
	require.NoError(t, h.client.Connect(ctx))

	h.mock.ExpectClose()
	require.NoError(t, h.client.Close())
	assert.False(t, h.client.Connected())

	_, err := h.client.QueryScalar(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1, h.opens)
	h.done(t)
}
