package db_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/mocks"
)

func TestFetchCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	ctx := context.Background()

	engine.EXPECT().ListSchemas(ctx).Return([]string{"dbt_marts", "information_schema", "raw", "system", "staging", "empty"}, nil)
	engine.EXPECT().ListTables(ctx, "dbt_marts").Return([]string{"customers", "broken"}, nil)
	engine.EXPECT().DescribeTable(ctx, "dbt_marts", "customers").Return([]db.Column{{Name: "id", Type: "bigint"}}, nil)
	engine.EXPECT().DescribeTable(ctx, "dbt_marts", "broken").Return(nil, errors.New("access denied"))
	engine.EXPECT().ListTables(ctx, "raw").Return(nil, errors.New("catalog unavailable"))
	engine.EXPECT().ListTables(ctx, "staging").Return([]string{"stg_orders"}, nil)
	engine.EXPECT().DescribeTable(ctx, "staging", "stg_orders").Return([]db.Column{{Name: "order_id", Type: "bigint"}}, nil)
	engine.EXPECT().ListTables(ctx, "empty").Return([]string{}, nil)

	snap, err := db.FetchCatalog(ctx, engine)
	require.NoError(t, err)

	require.Len(t, snap.Catalog, 2)
	assert.Equal(t, "dbt_marts", snap.Catalog[0].Name)
	assert.Equal(t, "staging", snap.Catalog[1].Name)
	require.Len(t, snap.Catalog[0].Tables, 1)
	assert.Equal(t, "customers", snap.Catalog[0].Tables[0].Name)
	assert.Equal(t, 2, snap.Catalog.TableCount())

	require.Len(t, snap.SkippedSchemas, 1)
	assert.Equal(t, "raw (catalog unavailable)", snap.SkippedSchemas[0].String())
	require.Len(t, snap.SkippedTables, 1)
	assert.Equal(t, "dbt_marts.broken", snap.SkippedTables[0].Name)
}

func TestFetchCatalogListSchemasFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	engine.EXPECT().ListSchemas(gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := db.FetchCatalog(context.Background(), engine)
	assert.ErrorContains(t, err, "connection refused")
}

func TestFormatCatalogEmpty(t *testing.T) {
	assert.Equal(t, "No schema information available.", db.FormatCatalog(nil, 10))
}

func TestFormatCatalogSmall(t *testing.T) {
	c := db.Catalog{{
		Name: "dbt_marts",
		Tables: []db.TableInfo{{
			Name:    "customers",
			Columns: []db.Column{{Name: "id", Type: "bigint"}, {Name: "name", Type: "varchar"}},
		}},
	}}

	want := "Available schemas and tables in the Trino lakehouse:\n\n" +
		"Schema: dbt_marts\n" +
		"  Table: customers\n" +
		"    - id (bigint)\n" +
		"    - name (varchar)\n" +
		"\n"
	assert.Equal(t, want, db.FormatCatalog(c, 10))
}

func TestFormatCatalogTruncation(t *testing.T) {
	var tables []db.TableInfo
	for i := 0; i < 12; i++ {
		var cols []db.Column
		n := 3
		if i == 0 {
			n = 20
		}
		for j := 0; j < n; j++ {
			cols = append(cols, db.Column{Name: fmt.Sprintf("c%d", j), Type: "varchar"})
		}
		tables = append(tables, db.TableInfo{Name: fmt.Sprintf("t%02d", i), Columns: cols})
	}
	out := db.FormatCatalog(db.Catalog{{Name: "s", Tables: tables}}, 10)

	assert.Equal(t, 10, strings.Count(out, "  Table: "))
	assert.Contains(t, out, "  ... and 2 more tables\n")
	assert.Contains(t, out, "    - c14 (varchar)\n")
	assert.NotContains(t, out, "    - c15 (varchar)\n")
	assert.Contains(t, out, "    ... and 5 more columns\n")
	assert.NotContains(t, out, "t10")
}

func TestFormatCatalogTwentyFiveTables(t *testing.T) {
	tables := make([]db.TableInfo, 25)
	for i := range tables {
		tables[i] = db.TableInfo{Name: fmt.Sprintf("t%02d", i), Columns: []db.Column{{Name: "id", Type: "bigint"}}}
	}
	out := db.FormatCatalog(db.Catalog{{Name: "dbt_marts", Tables: tables}}, 10)

	assert.Equal(t, 10, strings.Count(out, "Table: "))
	assert.Contains(t, out, "... and 15 more tables")
	assert.NotContains(t, out, "Table: t10")
}

func TestFormatCatalogExactlyFifteenColumns(t *testing.T) {
	var cols []db.Column
	for j := 0; j < 15; j++ {
		cols = append(cols, db.Column{Name: fmt.Sprintf("c%d", j), Type: "int"})
	}
	out := db.FormatCatalog(db.Catalog{{Name: "s", Tables: []db.TableInfo{{Name: "t", Columns: cols}}}}, 10)
	assert.NotContains(t, out, "more columns")
	assert.Equal(t, 15, strings.Count(out, "    - "))
}
