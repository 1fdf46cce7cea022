package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "Terminal", Coalesce("", "Terminal"))
	assert.Equal(t, "custom", Coalesce("custom", "Terminal"))
	assert.Equal(t, 1280, Coalesce(0, 1280))
	assert.Equal(t, 640, Coalesce(640, 1280))
	assert.Equal(t, [4]float32{1, 1, 1, 1}, Coalesce([4]float32{}, [4]float32{1, 1, 1, 1}))
	assert.Zero(t, Coalesce(0, 0))
	assert.Zero(t, Coalesce[float32]())
}
