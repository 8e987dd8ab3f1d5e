package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCmd_EmptyCorpus(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents:       0")
	assert.Contains(t, out, "Pending retrain: 0")
}

func TestStatsCmd_CountsIngestedDocuments(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	ingestFixture(t, "First document for counting.")
	ingestFixture(t, "Second document for counting.")

	out, err := execute(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents:       2")
	assert.Contains(t, out, "Indexed vectors: 2")
	assert.Contains(t, out, "mock-embed")
}

func TestStatsCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { statsJSON = false }()

	out, err := execute(t, "stats", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"IndexedVectors"`)
}
