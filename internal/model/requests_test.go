package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRowsRequestFrame(t *testing.T) {
	req := InsertRowsRequest{
		Columns: []string{"id", "note"},
		Rows:    [][]any{{1.0, "a"}},
	}
	frame := req.Frame()
	assert.Equal(t, []string{"id", "note"}, frame.ColumnNames())
	assert.Equal(t, TypeUnknown, frame.Columns[0].Type)
	assert.Equal(t, 1, frame.Len())
}

func TestInsertRowsRequestKeepsWideIntegers(t *testing.T) {
	var req InsertRowsRequest
	raw := `{"columns":["id","ratio","note","flag","missing"],"rows":[[9007199254740993,0.25,"a",true,null]]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	frame := req.Frame()
	require.Equal(t, 1, frame.Len())
	assert.Equal(t, []any{int64(9007199254740993), 0.25, "a", true, nil}, frame.Rows[0])
}

func TestInsertRowsRequestRejectsMalformedBody(t *testing.T) {
	var req InsertRowsRequest
	assert.Error(t, json.Unmarshal([]byte(`{"columns":["id"],"rows":[[1]`), &req))
}
