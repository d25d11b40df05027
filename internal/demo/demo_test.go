package demo

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageURL(t *testing.T) {
	u := ImageURL("stylize", "")
	assert.Contains(t, u, "purple/white")
	assert.Contains(t, u, "text=stylize")

	assert.Equal(t, ImageURL("stylize", ""), ImageURL("stylize", ""))

	u = ImageURL("stylize", "cyberpunk")
	assert.Contains(t, u, "gray/white")
	assert.Contains(t, u, "text=stylize")

	u = ImageURL("upscale", "anime")
	assert.Contains(t, u, "pink/white")
	assert.Contains(t, u, "text=upscale")
}

func TestEnabled(t *testing.T) {
	assert.True(t, Enabled(true))
	assert.False(t, Enabled(false))
}

func TestEnabledForRequest(t *testing.T) {
	plain := httptest.NewRequest("GET", "/dashboard", nil)
	withParam := httptest.NewRequest("GET", "/dashboard?demo=true", nil)
	otherParam := httptest.NewRequest("GET", "/dashboard?demo=1", nil)

	assert.False(t, EnabledForRequest(false, plain))
	assert.True(t, EnabledForRequest(false, withParam))
	assert.False(t, EnabledForRequest(false, otherParam))
	assert.True(t, EnabledForRequest(true, plain))
	assert.False(t, EnabledForRequest(false, nil))
}
