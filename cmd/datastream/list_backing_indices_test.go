package datastream

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamkeeper/dsadmin/internal/config"
	"github.com/streamkeeper/dsadmin/internal/elasticsearch"
)

// TestListBackingIndicesCmd_Unit tests the command structure
func TestListBackingIndicesCmd_Unit(t *testing.T) {
	cliCtx := config.NewContext()
	cliCtx.Config.OutputFormat = "table"

	cmd := ListBackingIndicesCmd(cliCtx)

	assert.Equal(t, "list-backing-indices", cmd.Use)
	assert.Equal(t, "List the backing indices of a data stream with their ages", cmd.Short)
	assert.NotNil(t, cmd.Run)
	assert.NotNil(t, cmd.Flags().Lookup("data-stream"))
}

// TestListBackingIndicesCmd_MissingDataStream verifies the usage error
// surfaces before any network activity
func TestListBackingIndicesCmd_MissingDataStream(t *testing.T) {
	cliCtx := config.NewContext()

	cmd := ListBackingIndicesCmd(cliCtx)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "data-stream")
}

// TestMockESClient_BackingIndices demonstrates listing through the mock
func TestMockESClient_BackingIndices(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mockClient := &mockESClient{
		existing: map[string]bool{"logs-app": true},
		indices: map[string][]elasticsearch.BackingIndex{
			"logs-app": {
				{Name: ".ds-logs-app-000001", UUID: "uuid-1"},
				{Name: ".ds-logs-app-000002", UUID: "uuid-2"},
			},
		},
		created: map[string]time.Time{
			".ds-logs-app-000001": created,
			".ds-logs-app-000002": created.Add(24 * time.Hour),
		},
	}

	indices, err := mockClient.BackingIndices("logs-app")
	require.NoError(t, err)
	require.Len(t, indices, 2)

	got, err := mockClient.IndexCreationTime(indices[0].Name)
	require.NoError(t, err)
	assert.True(t, created.Equal(got))

	_, err = mockClient.BackingIndices("missing")
	assert.Error(t, err)
}
