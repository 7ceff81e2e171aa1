package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONToBuffer(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info")
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("component", "store").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "store", entry["component"])
	assert.Contains(t, entry, "time")
}

func TestNew_EmptyLevelMeansInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "")
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	log.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestOpenFile_Appends(t *testing.T) {
	p := filepath.Join(t.TempDir(), "crud.log")

	for i := 0; i < 2; i++ {
		f, err := OpenFile(p)
		require.NoError(t, err)
		log, err := New(f, "info")
		require.NoError(t, err)
		log.Info().Int("run", i).Msg("line")
		require.NoError(t, f.Close())
	}

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}
