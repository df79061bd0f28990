package snowflake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"snowflake-admin/internal/model"
)

var (
	ErrNoColumns = errors.New("frame has no columns")
	ErrRowWidth  = errors.New("row width does not match columns")
)

var newlineRuns = regexp.MustCompile(`\n+`)

// RenderCreate renders the CREATE statement for a definition without running
// it. Each column goes through the "column" template and is flattened onto
// one line; the statement comes from the "create" template.
func (c *Client) RenderCreate(def model.ObjectDefinition, objectType model.ObjectType) (string, error) {
	cols, err := def.Columns()
	if err != nil {
		return "", err
	}

	rendered := make([]string, 0, len(cols))
	for _, col := range cols {
		out, err := c.Template.Load("column", col, nil)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, strings.TrimSpace(newlineRuns.ReplaceAllString(out, " ")))
	}

	stmt, err := c.Template.Load("create", def.WithColumns(rendered), map[string]any{
		"type": objectType.String(),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(newlineRuns.ReplaceAllString(stmt, "\n")), nil
}

// CreateFromDefinition renders and runs the CREATE statement for def
func (c *Client) CreateFromDefinition(ctx context.Context, def model.ObjectDefinition, objectType model.ObjectType) (string, error) {
	stmt, err := c.RenderCreate(def, objectType)
	if err != nil {
		return "", err
	}
	return c.execScalar(ctx, stmt)
}

// CreateFromJSON creates an object from a JSON definition file
func (c *Client) CreateFromJSON(ctx context.Context, path string, objectType model.ObjectType) (string, error) {
	def, err := model.LoadObjectDefinition(path)
	if err != nil {
		return "", err
	}
	return c.CreateFromDefinition(ctx, def, objectType)
}

// CreateTableFromJSON creates a table from a JSON definition file
func (c *Client) CreateTableFromJSON(ctx context.Context, path string) (string, error) {
	return c.CreateFromJSON(ctx, path, model.ObjectTable)
}

// CreateViewFromJSON creates a view from a JSON definition file
func (c *Client) CreateViewFromJSON(ctx context.Context, path string) (string, error) {
	return c.CreateFromJSON(ctx, path, model.ObjectView)
}

// CreateTaskFromJSON creates a task from a JSON definition file
func (c *Client) CreateTaskFromJSON(ctx context.Context, path string) (string, error) {
	return c.CreateFromJSON(ctx, path, model.ObjectTask)
}

// GetData runs a query and returns the result as a frame
func (c *Client) GetData(ctx context.Context, query string) (*model.Frame, error) {
	return c.QueryFrame(ctx, query)
}

// TruncateTable removes all rows from a table
func (c *Client) TruncateTable(ctx context.Context, table string) (string, error) {
	return c.execScalar(ctx, truncateTableStatement(table))
}

// Drop drops an object if it exists. An empty object type means a table.
func (c *Client) Drop(ctx context.Context, name string, objectType model.ObjectType) (string, error) {
	if objectType == "" {
		objectType = model.ObjectTable
	}
	return c.execScalar(ctx, dropStatement(name, objectType))
}

// CreateSchema creates a schema, replacing an existing one when replace is set
func (c *Client) CreateSchema(ctx context.Context, name string, replace bool) (string, error) {
	return c.execScalar(ctx, createContainerStatement(model.ObjectSchema, name, replace))
}

// CreateDatabase creates a database, replacing an existing one when replace is set
func (c *Client) CreateDatabase(ctx context.Context, name string, replace bool) (string, error) {
	return c.execScalar(ctx, createContainerStatement(model.ObjectDatabase, name, replace))
}

// InsertData appends the frame's rows to table, matching columns by name.
// Rows are sent in batches inside one transaction; it returns the number of
// rows inserted.
func (c *Client) InsertData(ctx context.Context, table string, frame *model.Frame) (int64, error) {
	columns := frame.ColumnNames()
	if len(columns) == 0 {
		return 0, ErrNoColumns
	}
	for i, row := range frame.Rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, i, len(row), len(columns))
		}
	}
	if frame.Len() == 0 {
		return 0, nil
	}

	var total int64
	start := time.Now()

	err := c.withSession(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		for offset := 0; offset < frame.Len(); offset += c.insertBatchSize {
			end := min(offset+c.insertBatchSize, frame.Len())
			batch := frame.Rows[offset:end]

			args := make([]any, 0, len(batch)*len(columns))
			for _, row := range batch {
				args = append(args, row...)
			}

			res, err := tx.ExecContext(ctx, insertStatement(table, columns, len(batch)), args...)
			if err != nil {
				_ = tx.Rollback()
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				total += n
			} else {
				total += int64(len(batch))
			}
		}

		return tx.Commit()
	})

	c.observe("INSERT", model.ReturnLog, time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return total, nil
}
