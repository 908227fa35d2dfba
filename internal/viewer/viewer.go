// Package viewer dumps the whole Students table for a quick look at the
// database: as an aligned text table, or as JSON or YAML records.
package viewer

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/roster-api/internal/storage"
	"github.com/aanand-mishra/roster-api/internal/types"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// EmptyMessage is printed in table format when the table has no rows.
const EmptyMessage = "No rows found in Students table."

// Options selects the database and the output format.
type Options struct {
	StoragePath string
	Format      string
}

// Table is a snapshot of the Students table with columns in declaration
// order.
type Table struct {
	Columns []string
	Rows    []types.Row
}

// Read loads column names from the table definition and every row.
func Read(ctx context.Context, path string) (*Table, error) {
	// Opening a missing file would create an empty database.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("viewer.Read: %s does not exist, run init first", path)
	}

	db, err := storage.OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("viewer.Read: %w", err)
	}
	defer db.Close()

	cols, err := columns(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("viewer.Read: table %s not found", types.StudentsTable)
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+types.StudentsTable)
	if err != nil {
		return nil, fmt.Errorf("viewer.Read: select: %w", err)
	}
	defer rows.Close()

	_, data, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("viewer.Read: %w", err)
	}

	return &Table{Columns: cols, Rows: data}, nil
}

// columns lists the table's columns in declaration order.
func columns(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+types.StudentsTable+")")
	if err != nil {
		return nil, fmt.Errorf("viewer.Read: table info: %w", err)
	}
	defer rows.Close()

	_, info, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("viewer.Read: table info: %w", err)
	}

	cols := make([]string, 0, len(info))
	for _, r := range info {
		name, _ := r["name"].(string)
		cols = append(cols, name)
	}
	return cols, nil
}

// Dump reads the table and writes it to w in opts.Format.
func Dump(ctx context.Context, opts Options, w io.Writer) error {
	t, err := Read(ctx, opts.StoragePath)
	if err != nil {
		return err
	}

	switch opts.Format {
	case FormatTable, "":
		return t.WriteText(w)
	case FormatJSON:
		return t.WriteJSON(w)
	case FormatYAML:
		return t.WriteYAML(w)
	default:
		return fmt.Errorf("viewer.Dump: unknown format %q", opts.Format)
	}
}

// WriteText renders an aligned table, or EmptyMessage when there are no rows.
func (t *Table) WriteText(w io.Writer) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t.Columns)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetBorder(false)

	for _, row := range t.Rows {
		cells := make([]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			cells = append(cells, cell(row[col]))
		}
		tw.Append(cells)
	}

	tw.Render()
	return nil
}

// WriteJSON writes an indented JSON array of records.
func (t *Table) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.records())
}

// WriteYAML writes a YAML sequence of records.
func (t *Table) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t.records()); err != nil {
		return err
	}
	return enc.Close()
}

func (t *Table) records() []record {
	out := make([]record, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, record{cols: t.Columns, row: row})
	}
	return out
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// record encodes one row with its keys in column order; plain maps would
// come out sorted.
type record struct {
	cols []string
	row  types.Row
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.row[col])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, col := range r.cols {
		var v yaml.Node
		if err := v.Encode(r.row[col]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
			&v,
		)
	}
	return node, nil
}
