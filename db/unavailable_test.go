package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnavailableFailsEveryCall(t *testing.T) {
	cause := errors.New("connection refused")
	u := Unavailable{Err: cause}
	ctx := context.Background()

	assert.ErrorIs(t, u.Ping(ctx), cause)
	res, err := u.Execute(ctx, "SELECT 1")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, cause)
	_, err = u.ListSchemas(ctx)
	assert.ErrorIs(t, err, cause)
	_, err = u.DescribeTable(ctx, "s", "t")
	assert.ErrorIs(t, err, cause)
}
