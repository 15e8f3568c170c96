package migrations

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_EveryVersionHasUpAndDown(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	for {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "version %d has no up file", version)
		upSQL, err := io.ReadAll(up)
		up.Close()
		require.NoError(t, err)
		assert.NotEmpty(t, upSQL)

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "version %d has no down file", version)
		down.Close()

		next, err := src.Next(version)
		if err != nil {
			assert.ErrorIs(t, err, os.ErrNotExist)
			break
		}
		version = next
	}
}

func TestInitSchema_CreatesEveryTable(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	up, _, err := src.ReadUp(1)
	require.NoError(t, err)
	defer up.Close()
	body, err := io.ReadAll(up)
	require.NoError(t, err)

	for _, table := range []string{"users", "devices", "trips", "geofences", "notifications", "firmwares", "webhooks"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
