package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"snowflake-admin/internal/database"
	"snowflake-admin/internal/model"
)

func newTable(out io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(true)
	return table
}

func cells(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			out[i] = "NULL"
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

// printFrame writes a frame as a table
func printFrame(out io.Writer, frame *model.Frame) {
	table := newTable(out)
	table.SetHeader(frame.ColumnNames())
	for _, row := range frame.Rows {
		table.Append(cells(row))
	}
	table.Render()
	fmt.Fprintf(out, "(%d rows)\n", frame.Len())
}

// printList writes rows without a header
func printList(out io.Writer, rows [][]any) {
	table := newTable(out)
	for _, row := range rows {
		table.Append(cells(row))
	}
	table.Render()
}

// printAccountInfo writes the session context as key/value rows
func printAccountInfo(out io.Writer, info *database.SnowflakeAccountInfo) {
	table := newTable(out)
	table.AppendBulk([][]string{
		{"account", info.Account},
		{"region", info.Region},
		{"user", info.User},
		{"role", info.Role},
		{"warehouse", info.Warehouse},
		{"database", info.Database},
		{"schema", info.Schema},
	})
	table.Render()
}

func printResult(out io.Writer, result *model.QueryResult) {
	switch result.Type {
	case model.ReturnFrame:
		printFrame(out, result.Frame)
	case model.ReturnList:
		printList(out, result.List)
	default:
		fmt.Fprintln(out, result.Scalar)
	}
}
