package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"ask", "mcp", "schema"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
}

func TestFlagDefaults(t *testing.T) {
	assert.Equal(t, "20", askCmd.Flags().Lookup("max-rows").DefValue)
	assert.Equal(t, "", askCmd.Flags().Lookup("backend").DefValue)
	assert.Equal(t, "", mcpCmd.Flags().Lookup("metrics-addr").DefValue)
	assert.Equal(t, "0", schemaCmd.Flags().Lookup("max-tables").DefValue)
}
