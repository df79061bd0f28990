package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReturnType(t *testing.T) {
	rt, err := ParseReturnType("")
	require.NoError(t, err)
	assert.Equal(t, ReturnLog, rt)

	rt, err = ParseReturnType("DF")
	require.NoError(t, err)
	assert.Equal(t, ReturnFrame, rt)

	rt, err = ParseReturnType("list")
	require.NoError(t, err)
	assert.Equal(t, ReturnList, rt)

	_, err = ParseReturnType("csv")
	assert.True(t, errors.Is(err, ErrInvalidReturnType))
}

func warehousesFrame() *Frame {
	return &Frame{
		Columns: []ColumnInfo{{Name: "name"}, {Name: "is_default"}},
		Rows: [][]any{
			{"LOAD_WH", "N"},
			{"COMPUTE_WH", "Y"},
		},
	}
}

func TestFrameFilterAndColumn(t *testing.T) {
	f := warehousesFrame()
	assert.Equal(t, 1, f.ColumnIndex("IS_DEFAULT"))
	assert.Equal(t, -1, f.ColumnIndex("size"))
	assert.Equal(t, []string{"name", "is_default"}, f.ColumnNames())

	defaults, err := f.Filter("is_default", "Y")
	require.NoError(t, err)
	require.Equal(t, 1, defaults.Len())

	names, err := defaults.Column("name")
	require.NoError(t, err)
	assert.Equal(t, []any{"COMPUTE_WH"}, names)

	_, err = f.Column("size")
	assert.True(t, errors.Is(err, ErrColumnNotFound))
}
