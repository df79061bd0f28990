package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidReturnType = errors.New("invalid return type")
	ErrColumnNotFound    = errors.New("column not found")
)

// ReturnType selects the shape a query result is returned in
type ReturnType string

const (
	// ReturnLog returns the first column of the first row as text
	ReturnLog ReturnType = "log"
	// ReturnList returns every row as a slice of values
	ReturnList ReturnType = "list"
	// ReturnFrame returns a tabular result with column metadata
	ReturnFrame ReturnType = "df"
)

// ParseReturnType parses a return type name. An empty name means ReturnLog.
func ParseReturnType(s string) (ReturnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "log":
		return ReturnLog, nil
	case "list":
		return ReturnList, nil
	case "df", "frame":
		return ReturnFrame, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReturnType, s)
	}
}

// ColumnInfo represents column information in the result set
type ColumnInfo struct {
	Name     string           `json:"name"`
	Type     StandardizedType `json:"type"`
	Original string           `json:"original,omitempty"` // Snowflake type name
	Nullable bool             `json:"nullable"`
}

// Frame is a tabular query result
type Frame struct {
	Columns []ColumnInfo `json:"columns"`
	Rows    [][]any      `json:"rows"`
}

// ColumnNames returns the column names in result order
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of a column, matched case-insensitively,
// or -1 when the frame has no such column.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// Column returns all values of the named column
func (f *Frame) Column(name string) ([]any, error) {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	values := make([]any, 0, len(f.Rows))
	for _, row := range f.Rows {
		values = append(values, row[idx])
	}
	return values, nil
}

// Filter returns a frame holding only the rows whose column renders as value
func (f *Frame) Filter(column string, value string) (*Frame, error) {
	idx := f.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}
	out := &Frame{Columns: f.Columns, Rows: [][]any{}}
	for _, row := range f.Rows {
		if fmt.Sprint(row[idx]) == value {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return len(f.Rows)
}

// QueryResult holds the outcome of a query in exactly one of its shapes
type QueryResult struct {
	Type   ReturnType `json:"type"`
	Frame  *Frame     `json:"frame,omitempty"`
	List   [][]any    `json:"list,omitempty"`
	Scalar string     `json:"scalar,omitempty"`
}

// QueryMetadata contains metadata about the query execution
type QueryMetadata struct {
	RowCount        int       `json:"rowCount"`
	ExecutionTimeMs int64     `json:"executionTimeMs"`
	ExecutedAt      time.Time `json:"executedAt"`
}

// StandardizedType represents standardized data types across databases
type StandardizedType string

const (
	TypeInteger           StandardizedType = "integer"
	TypeFloat             StandardizedType = "float"
	TypeDouble            StandardizedType = "double"
	TypeDecimal           StandardizedType = "decimal"
	TypeString            StandardizedType = "string"
	TypeBoolean           StandardizedType = "boolean"
	TypeDate              StandardizedType = "date"
	TypeTime              StandardizedType = "time"
	TypeTimestamp         StandardizedType = "timestamp"
	TypeTimestampWithZone StandardizedType = "timestamp_tz"
	TypeBinary            StandardizedType = "binary"
	TypeVariant           StandardizedType = "variant"
	TypeArray             StandardizedType = "array"
	TypeGeography         StandardizedType = "geography"
	TypeUnknown           StandardizedType = "unknown"
)

func (t StandardizedType) String() string {
	return string(t)
}
