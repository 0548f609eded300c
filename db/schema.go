// schema.go gathers the catalog description sent to text-generation
// backends.
//
// FetchCatalog walks SHOW SCHEMAS / SHOW TABLES / DESCRIBE; FormatCatalog
// renders the result as the text block injected into prompts.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/DachengChen/trinoai/applog"
)

// Display limits used when formatting a catalog for a prompt.
const (
	DefaultMaxTablesPerSchema = 10
	MaxColumnsPerTable        = 15
)

// ExcludedSchemas are never described.
var ExcludedSchemas = []string{"information_schema", "system"}

// TableInfo is one described table.
type TableInfo struct {
	Name    string
	Columns []Column
}

// SchemaInfo is one schema and its described tables, in catalog order.
type SchemaInfo struct {
	Name   string
	Tables []TableInfo
}

// Catalog is the ordered schema description.
type Catalog []SchemaInfo

// TableCount returns the number of described tables across schemas.
func (c Catalog) TableCount() int {
	n := 0
	for _, s := range c {
		n += len(s.Tables)
	}
	return n
}

// Skipped records a schema or table left out of the catalog.
type Skipped struct {
	Name   string // "schema" or "schema.table"
	Reason string
}

func (s Skipped) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Reason)
}

// Snapshot is the result of one catalog refresh.
type Snapshot struct {
	Catalog        Catalog
	SkippedSchemas []Skipped
	SkippedTables  []Skipped
}

// FetchCatalog builds a fresh description from the engine.
//
// System schemas are excluded; schemas whose table list fails are
// recorded in SkippedSchemas; schemas without tables are omitted;
// tables that fail to describe are recorded in SkippedTables and left
// out. Only a failure to list schemas is returned as an error.
func FetchCatalog(ctx context.Context, e Engine) (*Snapshot, error) {
	schemas, err := e.ListSchemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}

	snap := &Snapshot{}
	for _, schema := range schemas {
		if isExcluded(schema) {
			continue
		}

		tables, err := e.ListTables(ctx, schema)
		if err != nil {
			snap.SkippedSchemas = append(snap.SkippedSchemas, Skipped{Name: schema, Reason: err.Error()})
			continue
		}
		if len(tables) == 0 {
			continue
		}

		info := SchemaInfo{Name: schema}
		for _, table := range tables {
			cols, err := e.DescribeTable(ctx, schema, table)
			if err != nil {
				snap.SkippedTables = append(snap.SkippedTables, Skipped{Name: schema + "." + table, Reason: err.Error()})
				continue
			}
			info.Tables = append(info.Tables, TableInfo{Name: table, Columns: cols})
		}
		snap.Catalog = append(snap.Catalog, info)
	}

	applog.Event("schema", "catalog loaded",
		"schemas", len(snap.Catalog),
		"tables", snap.Catalog.TableCount(),
		"skipped_schemas", len(snap.SkippedSchemas),
		"skipped_tables", len(snap.SkippedTables),
	)
	return snap, nil
}

func isExcluded(schema string) bool {
	for _, s := range ExcludedSchemas {
		if schema == s {
			return true
		}
	}
	return false
}

// FormatCatalog renders the catalog as prompt text, showing at most
// maxTables tables per schema and MaxColumnsPerTable columns per table.
// Omitted counts are always reported.
func FormatCatalog(c Catalog, maxTables int) string {
	if len(c) == 0 {
		return "No schema information available."
	}
	if maxTables <= 0 {
		maxTables = DefaultMaxTablesPerSchema
	}

	var sb strings.Builder
	sb.WriteString("Available schemas and tables in the Trino lakehouse:\n\n")

	for _, s := range c {
		fmt.Fprintf(&sb, "Schema: %s\n", s.Name)

		for i, t := range s.Tables {
			if i >= maxTables {
				fmt.Fprintf(&sb, "  ... and %d more tables\n", len(s.Tables)-i)
				break
			}
			fmt.Fprintf(&sb, "  Table: %s\n", t.Name)

			for j, col := range t.Columns {
				if j >= MaxColumnsPerTable {
					break
				}
				fmt.Fprintf(&sb, "    - %s (%s)\n", col.Name, col.Type)
			}
			if len(t.Columns) > MaxColumnsPerTable {
				fmt.Fprintf(&sb, "    ... and %d more columns\n", len(t.Columns)-MaxColumnsPerTable)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
