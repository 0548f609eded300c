package nl2sql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DachengChen/trinoai/apperr"
)

func TestRequireSelect(t *testing.T) {
	allowed := []string{"SELECT 1", "  select * from t", "\nSelect a FROM b"}
	for _, sql := range allowed {
		assert.NoError(t, RequireSelect(sql), sql)
	}

	rejected := []string{"DROP TABLE x", "WITH c AS (SELECT 1) SELECT * FROM c", "", "SHOW SCHEMAS", "INSERT INTO t SELECT 1"}
	for _, sql := range rejected {
		err := RequireSelect(sql)
		if assert.Error(t, err, sql) {
			assert.Equal(t, "Only SELECT queries are allowed", err.Error())
			assert.True(t, apperr.Is(err, apperr.KindSafety))
		}
	}
}
