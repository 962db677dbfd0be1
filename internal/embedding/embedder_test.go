package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmbedder_Defaults(t *testing.T) {
	e := NewEmbedder(nil, "", 0)

	assert.Equal(t, DefaultModel, e.model)
	assert.Equal(t, DefaultBatchSize, e.batchSize)
}

func TestNewEmbedder_Overrides(t *testing.T) {
	e := NewEmbedder(nil, "text-embedding-3-large", 42)

	assert.Equal(t, "text-embedding-3-large", e.model)
	assert.Equal(t, 42, e.batchSize)
}

func TestToFloat32(t *testing.T) {
	got := toFloat32([]float64{0.5, -1.25, 0})

	assert.Equal(t, []float32{0.5, -1.25, 0}, got)
}

func TestToFloat32_Empty(t *testing.T) {
	assert.Empty(t, toFloat32(nil))
}
