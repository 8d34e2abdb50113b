package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorLiteral(t *testing.T) {
	assert.Equal(t, "[1,0.5,-2]", VectorLiteral([]float32{1, 0.5, -2}))
	assert.Equal(t, "[]", VectorLiteral(nil))
}

func TestEncodeMetadata(t *testing.T) {
	empty, err := encodeMetadata(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)

	raw, err := encodeMetadata(map[string]string{"category": "Billing"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"Billing"}`, raw)
}
