package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/mocks"
	"github.com/DachengChen/trinoai/session"
)

func TestStateRefreshKeepsPreviousCatalogOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	ctx := context.Background()

	engine.EXPECT().ListSchemas(ctx).Return([]string{"dbt_marts"}, nil)
	engine.EXPECT().ListTables(ctx, "dbt_marts").Return([]string{"customers"}, nil)
	engine.EXPECT().DescribeTable(ctx, "dbt_marts", "customers").Return([]db.Column{{Name: "id", Type: "bigint"}}, nil)

	st := session.NewState()
	assert.Empty(t, st.Catalog())
	require.NoError(t, st.Refresh(ctx, engine))
	assert.Equal(t, 1, st.Catalog().TableCount())
	assert.False(t, st.LoadedAt().IsZero())

	engine.EXPECT().ListSchemas(ctx).Return(nil, errors.New("connection refused"))
	require.Error(t, st.Refresh(ctx, engine))

	snap, err := st.Snapshot()
	assert.Error(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "dbt_marts", snap.Catalog[0].Name)
}
