package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "queued", StatusQueued.String())
	assert.Equal(t, "processing", StatusProcessing.String())
	assert.Equal(t, "completed", StatusCompleted.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}

func TestStatusJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, `"processing"`, string(data))

	var status Status
	require.NoError(t, json.Unmarshal(data, &status))
	assert.Equal(t, StatusProcessing, status)
}

func TestParseStatusUnknown(t *testing.T) {
	_, err := ParseStatus("exploded")

	assert.Error(t, err)
}
