package model

import (
	"bytes"
	"encoding/json"
)

// QueryRequest is the body of POST /api/v1/query
type QueryRequest struct {
	Query      string `json:"query" validate:"required"`
	ReturnType string `json:"returnType,omitempty" validate:"omitempty,oneof=log list df frame"`
	// Timeout in seconds, 0 means no limit beyond the request's own
	Timeout int `json:"timeout,omitempty" validate:"gte=0,lte=3600"`
}

// QueryResponse wraps a result with execution metadata
type QueryResponse struct {
	Result   *QueryResult  `json:"result"`
	Metadata QueryMetadata `json:"metadata"`
}

// UseRequest switches the session's context; empty fields are left alone
type UseRequest struct {
	Warehouse string `json:"warehouse,omitempty"`
	Database  string `json:"database,omitempty"`
	Schema    string `json:"schema,omitempty"`
}

// SessionContext reports the session's current context
type SessionContext struct {
	Warehouse string `json:"warehouse"`
	Database  string `json:"database"`
	Schema    string `json:"schema"`
}

// CreateObjectRequest creates or renders an object from a definition
type CreateObjectRequest struct {
	Type       string           `json:"type" validate:"required"`
	Definition ObjectDefinition `json:"definition" validate:"required"`
}

// ContainerRequest creates a schema or database
type ContainerRequest struct {
	Name    string `json:"name" validate:"required"`
	Replace bool   `json:"replace,omitempty"`
}

// InsertRowsRequest appends rows to a table
type InsertRowsRequest struct {
	Columns []string `json:"columns" validate:"required,min=1,dive,required"`
	Rows    [][]any  `json:"rows" validate:"required"`
}

// UnmarshalJSON keeps numbers as json.Number so integers wider than a
// float64 mantissa survive until Frame narrows them.
func (r *InsertRowsRequest) UnmarshalJSON(raw []byte) error {
	type plain InsertRowsRequest
	var decoded plain

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return err
	}
	*r = InsertRowsRequest(decoded)
	return nil
}

// Frame converts the request to a frame of untyped columns. Numeric cells
// become int64 when they are integral and float64 otherwise.
func (r *InsertRowsRequest) Frame() *Frame {
	cols := make([]ColumnInfo, len(r.Columns))
	for i, name := range r.Columns {
		cols[i] = ColumnInfo{Name: name, Type: TypeUnknown}
	}

	rows := make([][]any, len(r.Rows))
	for i, row := range r.Rows {
		out := make([]any, len(row))
		for j, cell := range row {
			out[j] = narrowNumber(cell)
		}
		rows[i] = out
	}
	return &Frame{Columns: cols, Rows: rows}
}

func narrowNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// UserRoleRequest grants a role to a user
type UserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// GrantRequest grants or revokes a privilege on one object
type GrantRequest struct {
	Privilege  string `json:"privilege" validate:"required"`
	ObjectName string `json:"objectName" validate:"required"`
	ObjectType string `json:"objectType" validate:"required"`
}

// AllTablesGrantRequest grants a privilege on every table in a schema
type AllTablesGrantRequest struct {
	Privilege string `json:"privilege" validate:"required"`
	Schema    string `json:"schema" validate:"required"`
}

// ImportedGrantRequest grants imported privileges on a shared database
type ImportedGrantRequest struct {
	Database string `json:"database" validate:"required"`
}

// StatementResult is the status line Snowflake returns for DDL and DCL
type StatementResult struct {
	Status string `json:"status"`
}
