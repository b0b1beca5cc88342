package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	t.Run("Convert config to metadata and back", func(t *testing.T) {
		config := DefaultConfig()
		config.Narrator = "Pip"
		config.ChapterPattern = `Chapter [IVXLC]+`

		m, err := NewMetadata(config)
		require.NoError(t, err)
		assert.Equal(t, "Pip", m["narrator"])
		assert.Equal(t, float64(10), m["num_sections"], "JSON numbers become float64")

		var restored Config
		err = m.Decode(&restored)
		require.NoError(t, err)
		assert.Equal(t, config, restored)
	})

	t.Run("Convert first interactions", func(t *testing.T) {
		overall := map[string]FirstInteraction{
			"Harry": {With: "Sally", Context: "Harry and Sally went to the park."},
		}

		m, err := NewMetadata(map[string]interface{}{"overall": overall})
		require.NoError(t, err)

		var restored struct {
			Overall map[string]FirstInteraction `json:"overall"`
		}
		err = m.Decode(&restored)
		require.NoError(t, err)
		assert.Equal(t, overall, restored.Overall)
	})
}

func TestMetadata_Unmarshal(t *testing.T) {
	t.Run("Unmarshal valid JSON bytes", func(t *testing.T) {
		var m Metadata

		err := m.Unmarshal([]byte(`{"book":"Emma","sections":3}`))

		require.NoError(t, err)
		assert.Equal(t, "Emma", m["book"])
		assert.Equal(t, float64(3), m["sections"])
	})

	t.Run("Unmarshal nil value", func(t *testing.T) {
		var m Metadata

		err := m.Unmarshal(nil)

		require.NoError(t, err)
		assert.NotNil(t, m)
		assert.Empty(t, m)
	})

	t.Run("Unmarshal invalid type", func(t *testing.T) {
		var m Metadata

		err := m.Unmarshal(42)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "type assertion to []byte failed")
	})
}

func TestMetadata_ValueScan(t *testing.T) {
	t.Run("Value then Scan preserves data", func(t *testing.T) {
		original := Metadata{"with": "Sally"}

		value, err := original.Value()
		require.NoError(t, err)

		var restored Metadata
		err = restored.Scan(value)
		require.NoError(t, err)
		assert.Equal(t, "Sally", restored["with"])
	})
}
